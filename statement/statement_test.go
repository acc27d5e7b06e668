package statement

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/processor"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

func newTestStatement(sql string) *Statement {
	cfg := procctx.NewStatementConfig()
	return New(sql, paramreg.NewParamBag(), cfg, dialect.Postgres, false)
}

func TestStatementSQLForRunsPipelineOnce(t *testing.T) {
	s := newTestStatement("SELECT id FROM users WHERE active = true")
	ctx := context.Background()

	out1, err := s.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)

	out2, err := s.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestStatementModifiersReturnDistinctObjects(t *testing.T) {
	s := newTestStatement("SELECT id FROM users")
	limited := s.Limit(10)

	assert.Equal(t, 0, len(s.extras))
	assert.Equal(t, 1, len(limited.extras))
}

func TestStatementLimitOverridesOnRepeat(t *testing.T) {
	s := newTestStatement("SELECT id FROM users")
	twice := s.Limit(10).Limit(20)
	assert.Equal(t, 1, len(twice.extras))
}

func TestStatementWhereAppendsEachCall(t *testing.T) {
	s := newTestStatement("SELECT id FROM users")
	twice := s.Where("active = true").Where("deleted = false")
	assert.Equal(t, 2, len(twice.extras))
}

func TestStatementKindReflectsFinalAST(t *testing.T) {
	s := newTestStatement("SELECT id FROM users")
	kind, err := s.Kind(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, sqlspec.KindSelect, kind)
}

func TestStatementValidationFlagsMissingWhere(t *testing.T) {
	cfg := procctx.NewStatementConfig().WithValidators(processor.RiskyDML{})
	s := New("DELETE FROM users", paramreg.NewParamBag(), cfg, dialect.Postgres, false)
	result, err := s.Validation(context.Background())
	assert.NoError(t, err)
	assert.True(t, result.HasIssueKind("MissingWhere"))
}
