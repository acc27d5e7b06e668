package pipeline

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
)

func TestRunBasicSelect(t *testing.T) {
	cfg := procctx.NewStatementConfig()
	ctx := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)

	state, err := Run(ctx, "SELECT id FROM users WHERE id = 1", nil, dialect.Postgres)
	assert.NoError(t, err)
	assert.NotZero(t, state.FinalAST)
	assert.Equal(t, 0, len(state.Validation.Issues))
}

func TestRunParseDisabledSkipsParsing(t *testing.T) {
	cfg := procctx.NewStatementConfig().WithStageToggles(false, false, false, false)
	ctx := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)

	state, err := Run(ctx, "not real sql at all (((", nil, dialect.Postgres)
	assert.NoError(t, err)
	assert.Zero(t, state.FinalAST)
}

func TestRunUnparsableNonStrictRecordsIssue(t *testing.T) {
	cfg := procctx.NewStatementConfig()
	ctx := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)

	state, err := Run(ctx, "((( not sql", nil, dialect.Postgres)
	assert.NoError(t, err)
	assert.True(t, len(state.Validation.Issues) > 0)
}

func TestRunUnparsableStrictReturnsError(t *testing.T) {
	cfg := procctx.NewStatementConfig().WithStrictMode(true)
	ctx := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)

	_, err := Run(ctx, "((( not sql", nil, dialect.Postgres)
	assert.Error(t, err)
}

func TestFingerprintStableAcrossRuns(t *testing.T) {
	cfg := procctx.NewStatementConfig()
	ctx1 := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)
	state1, err := Run(ctx1, "SELECT id FROM users", nil, dialect.Postgres)
	assert.NoError(t, err)

	ctx2 := procctx.New(nil, dialect.Postgres, cfg, paramreg.NewParamBag(), false, false, false)
	state2, err := Run(ctx2, "SELECT id FROM users", nil, dialect.Postgres)
	assert.NoError(t, err)

	assert.Equal(t, state1.Fingerprint, state2.Fingerprint)
}

func TestValidationFailureError(t *testing.T) {
	var err error = &ValidationFailure{}
	assert.Error(t, err)
}
