// Package ast is a thin, dialect-aware facade over the tokenizer package: it
// turns a flat token stream into a lightweight clause tree sufficient for the
// statement pipeline's needs (parse, render-to-dialect, visitor traversal,
// and a handful of structural queries), without attempting full SQL grammar
// coverage. It is grounded on snapsql's parser2/parserstep2 clause
// splitter, generalized from SnapSQL's template-directive bookkeeping to the
// plain structural bookkeeping this pipeline needs.
package ast

import (
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// NodeKind tags the statement shape an AstNode represents (spec §3 AstNode).
// It is an alias of sqlspec.StatementKind rather than a parallel enum so the
// facade and everything downstream of it (ProcessingContext, AnalysisRecord)
// share one closed vocabulary.
type NodeKind = sqlspec.StatementKind

const (
	KindUnknown = sqlspec.KindUnknown
	KindSelect  = sqlspec.KindSelect
	KindInsert  = sqlspec.KindInsert
	KindUpdate  = sqlspec.KindUpdate
	KindDelete  = sqlspec.KindDelete
	KindMerge   = sqlspec.KindMerge
	KindDdl     = sqlspec.KindDDL
	KindScript  = sqlspec.KindScript
	KindOther   = sqlspec.KindOther
)

// Clause is one top-level clause of a statement (its leading keyword plus
// the token span that forms its body), tracked so structural helpers and the
// rewrite API can reason about clause boundaries without re-scanning tokens.
type Clause struct {
	Keyword    string
	HeadIndex  int // index into AstNode.Tokens of the clause's leading keyword
	BodyStart  int // first token index of the clause body (inclusive)
	BodyEnd    int // last token index of the clause body (inclusive); less than BodyStart if empty
}

// TableRef names a table appearing in FROM/JOIN/INTO/UPDATE position.
type TableRef struct {
	Name  string
	Alias string
}

// JoinInfo describes one JOIN appearing in a FROM clause.
type JoinInfo struct {
	Kind  string // INNER, LEFT, RIGHT, FULL, CROSS, "" (plain JOIN)
	Table TableRef
	On    string
}

// Literal is a scalar literal token found anywhere in the statement, carried
// as a typed Value so ParameterizeLiterals can replace it with a placeholder
// without re-parsing the source text.
type Literal struct {
	Value      sqlvalue.Value
	TokenIndex int
	Position   tokenizer.Position
}

// AstNode is the opaque handle the rest of the pipeline operates on. Its
// fields are unexported; callers use the accessor functions in this package
// (spec §4.2 structural helpers) and the rewrite API in rewrite.go.
type AstNode struct {
	kind       NodeKind
	dialect    dialect.Tag
	raw        string
	tokens     []tokenizer.Token
	clauses    []Clause
	subqueries []*AstNode
}

func (a *AstNode) Kind() NodeKind       { return a.kind }
func (a *AstNode) Dialect() dialect.Tag { return a.dialect }
func (a *AstNode) RawSQL() string       { return a.raw }

// Tokens exposes the flat token stream read-only; callers must not mutate
// the returned slice's elements through pointers (Token is a value type, so
// this is safe by construction).
func (a *AstNode) Tokens() []tokenizer.Token { return a.tokens }

func (a *AstNode) Clauses() []Clause { return a.clauses }

// clauseBody returns the tokens belonging to a clause (head excluded).
func (a *AstNode) clauseBody(c Clause) []tokenizer.Token {
	if c.BodyEnd < c.BodyStart {
		return nil
	}
	return a.tokens[c.BodyStart : c.BodyEnd+1]
}

// clone makes a shallow-ish copy suitable for copy-on-write rewrites: the
// token and clause slices are copied (so callers can mutate them
// independently) while subqueries are shared; rewrite functions that
// invalidate clauses or subqueries are responsible for rebuilding them.
func (a *AstNode) clone() *AstNode {
	tokensCopy := make([]tokenizer.Token, len(a.tokens))
	copy(tokensCopy, a.tokens)
	clausesCopy := make([]Clause, len(a.clauses))
	copy(clausesCopy, a.clauses)
	return &AstNode{
		kind:       a.kind,
		dialect:    a.dialect,
		raw:        a.raw,
		tokens:     tokensCopy,
		clauses:    clausesCopy,
		subqueries: a.subqueries,
	}
}
