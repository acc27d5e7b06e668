package processor

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

func newCtx(t *testing.T, sql string) *procctx.ProcessingContext {
	t.Helper()
	node, err := ast.Parse(sql, dialect.Postgres)
	assert.NoError(t, err)
	cfg := procctx.NewStatementConfig()
	ctx := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)
	ctx.CurrentAST = node
	return ctx
}

func TestCommentRemoverStripsComments(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users -- trailing comment\nWHERE id = 1")
	outcome, err := CommentRemover{}.Transform(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
}

func TestCommentRemoverSkipsWhenNoComments(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users WHERE id = 1")
	outcome, err := CommentRemover{}.Transform(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestParameterizeLiteralsExtractsLiteral(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users WHERE id = 1")
	outcome, err := ParameterizeLiterals{}.Transform(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, 1, ctx.ExtractedParams.Len())
}

func TestParameterizeLiteralsSkipsDDL(t *testing.T) {
	ctx := newCtx(t, "CREATE TABLE users (id INTEGER)")
	outcome, err := ParameterizeLiterals{}.Transform(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestTracingCommentAttachesComment(t *testing.T) {
	ctx := newCtx(t, "SELECT 1")
	outcome, err := TracingComment{Origin: "test"}.Transform(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
}

func TestForceWhereClauseFlagsMissingWhere(t *testing.T) {
	ctx := newCtx(t, "DELETE FROM users")
	outcome, err := ForceWhereClause{}.Transform(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, 1, len(ctx.Validation.Issues))
	assert.Equal(t, "MissingWhere", ctx.Validation.Issues[0].Kind)
}

func TestForceWhereClauseSkipsWhenWherePresent(t *testing.T) {
	ctx := newCtx(t, "DELETE FROM users WHERE id = 1")
	outcome, err := ForceWhereClause{}.Transform(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestInjectionDetectorFlagsStackedStatements(t *testing.T) {
	ctx := newCtx(t, "SELECT 1; SELECT 2")
	outcome, err := InjectionDetector{}.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("StackedStatements"))
}

func TestInjectionDetectorSkipsCleanStatement(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users WHERE id = 1")
	outcome, err := InjectionDetector{}.Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestTautologyDetectorFlagsAlwaysTrue(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users WHERE 1 = 1")
	detector := &TautologyDetector{}
	outcome, err := detector.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("Tautology"))
}

func TestTautologyDetectorSkipsRealPredicate(t *testing.T) {
	ctx := newCtx(t, "SELECT id FROM users WHERE id = 42")
	detector := &TautologyDetector{}
	outcome, err := detector.Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestPreventDDLFlagsDrop(t *testing.T) {
	ctx := newCtx(t, "DROP TABLE users")
	outcome, err := PreventDDL{}.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("DdlBlocked"))
	assert.Equal(t, sqlspec.Unsafe, ctx.Validation.Reduce().Verdict)
}

func TestPreventDDLAllowsListedKeyword(t *testing.T) {
	ctx := newCtx(t, "CREATE TABLE users (id INTEGER)")
	outcome, err := PreventDDL{Allow: map[string]bool{"CREATE": true}}.Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestRiskyDMLFlagsMissingWhere(t *testing.T) {
	ctx := newCtx(t, "UPDATE users SET name = 'x'")
	outcome, err := RiskyDML{}.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("MissingWhere"))
}

func TestSuspiciousKeywordsFlagsDefaultKeyword(t *testing.T) {
	ctx := newCtx(t, "SELECT * FROM information_schema.tables")
	outcome, err := SuspiciousKeywords{}.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("SuspiciousKeyword"))
}

func TestExcessiveJoinsBelowThresholdSkips(t *testing.T) {
	ctx := newCtx(t, "SELECT * FROM a JOIN b ON a.id = b.id")
	outcome, err := DefaultExcessiveJoins().Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestCartesianProductDetectorFlagsUnlinkedTables(t *testing.T) {
	ctx := newCtx(t, "SELECT * FROM a, b")
	outcome, err := CartesianProductDetector{}.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.True(t, ctx.Validation.Reduce().HasIssueKind("CartesianProduct"))
}

func TestStatementAnalyzerPopulatesRecord(t *testing.T) {
	ctx := newCtx(t, "SELECT a.id FROM a JOIN b ON a.id = b.id WHERE a.id = 1")
	outcome, err := StatementAnalyzer{}.Analyze(ctx)
	assert.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.NotZero(t, ctx.Analysis)
	assert.Equal(t, sqlspec.KindSelect, ctx.Analysis.StatementKind)
	assert.Equal(t, 1, ctx.Analysis.JoinCount)
}

func TestStatementAnalyzerSkipsWhenAlreadyPopulated(t *testing.T) {
	ctx := newCtx(t, "SELECT 1")
	ctx.Analysis = &sqlspec.AnalysisRecord{}
	outcome, err := StatementAnalyzer{}.Analyze(ctx)
	assert.NoError(t, err)
	assert.True(t, outcome.Skipped)
}
