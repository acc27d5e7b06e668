package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

func TestParseDetectsKind(t *testing.T) {
	cases := []struct {
		sql  string
		kind sqlspec.StatementKind
	}{
		{"SELECT id FROM users", sqlspec.KindSelect},
		{"INSERT INTO users (id) VALUES (1)", sqlspec.KindInsert},
		{"UPDATE users SET active = true WHERE id = 1", sqlspec.KindUpdate},
		{"DELETE FROM users WHERE id = 1", sqlspec.KindDelete},
		{"CREATE TABLE users (id INT)", sqlspec.KindDDL},
	}
	for _, c := range cases {
		node, err := Parse(c.sql, dialect.Postgres)
		assert.NoError(t, err)
		assert.Equal(t, c.kind, Kind(node))
	}
}

func TestParseSplitsClauses(t *testing.T) {
	node, err := Parse("SELECT id, name FROM users WHERE active = true ORDER BY id LIMIT 10", dialect.Postgres)
	assert.NoError(t, err)

	var keywords []string
	for _, c := range node.Clauses() {
		keywords = append(keywords, c.Keyword)
	}
	assert.Equal(t, []string{"SELECT", "FROM", "WHERE", "ORDER", "LIMIT"}, keywords)
}

func TestTablesAndJoins(t *testing.T) {
	node, err := Parse("SELECT u.id FROM users u INNER JOIN orders o ON u.id = o.user_id", dialect.Postgres)
	assert.NoError(t, err)

	tables := Tables(node)
	assert.Equal(t, 1, len(tables))
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, "u", tables[0].Alias)

	joins := Joins(node)
	assert.Equal(t, 1, len(joins))
	assert.Equal(t, "INNER", joins[0].Kind)
	assert.Equal(t, "orders", joins[0].Table.Name)
}

func TestSubqueryExtraction(t *testing.T) {
	node, err := Parse("SELECT id FROM (SELECT id FROM accounts) AS sub WHERE id > 1", dialect.Postgres)
	assert.NoError(t, err)

	subs := Subqueries(node)
	assert.Equal(t, 1, len(subs))
	assert.Equal(t, sqlspec.KindSelect, Kind(subs[0]))
	assert.Equal(t, 1, MaxSubqueryDepth(node))
}

func TestWhereConditionsSplitsOnLogicalOperators(t *testing.T) {
	node, err := Parse("SELECT id FROM users WHERE active = true AND (age > 18 OR guardian_consent = true)", dialect.Postgres)
	assert.NoError(t, err)

	conds := WhereConditions(node)
	assert.Equal(t, 2, len(conds))
}

func TestLiteralsCollectsScalarTokens(t *testing.T) {
	node, err := Parse("SELECT id FROM users WHERE age > 18 AND name = 'Ada'", dialect.Postgres)
	assert.NoError(t, err)

	lits := Literals(node)
	assert.Equal(t, 2, len(lits))
}

func TestRenderRewritesPlaceholders(t *testing.T) {
	node, err := Parse("SELECT id FROM users WHERE id = ? AND active = ?", dialect.Postgres)
	assert.NoError(t, err)

	out, err := Render(node, dialect.Postgres, sqlspec.NumericDollar, nil)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE id = $1 AND active = $2", out)
}

func TestWalkVisitsEachNode(t *testing.T) {
	node, err := Parse("SELECT id FROM (SELECT id FROM accounts) AS sub", dialect.Postgres)
	assert.NoError(t, err)

	visited := 0
	Walk(node, func(n *AstNode) (Action, *AstNode) {
		visited++
		return Continue, nil
	})
	assert.Equal(t, 2, visited) // outer + the one subquery
}

func TestRemoveCommentsDropsCommentTokens(t *testing.T) {
	node, err := Parse("SELECT id -- trailing\nFROM users", dialect.Postgres)
	assert.NoError(t, err)

	stripped := RemoveComments(node)
	for _, tok := range stripped.Tokens() {
		assert.NotEqual(t, tokenizer.LINE_COMMENT, tok.Type)
	}
}

func TestAppendWhereConditionAddsClauseWhenMissing(t *testing.T) {
	node, err := Parse("SELECT id FROM users", dialect.Postgres)
	assert.NoError(t, err)

	out := AppendWhereCondition(node, "tenant_id = 'acme'")
	var found bool
	for _, c := range out.Clauses() {
		if c.Keyword == "WHERE" {
			found = true
		}
	}
	assert.True(t, found)
}
