package procctx

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
)

func TestNewStatementConfigDefaults(t *testing.T) {
	cfg := NewStatementConfig()
	assert.True(t, cfg.ParseEnabled)
	assert.True(t, cfg.TransformEnabled)
	assert.True(t, cfg.ValidateEnabled)
	assert.True(t, cfg.AnalyzeEnabled)
	assert.False(t, cfg.StrictMode)
	assert.Equal(t, DefaultCachePolicy(), cfg.CachePolicy)
}

func TestWithMethodsDoNotMutateReceiver(t *testing.T) {
	base := NewStatementConfig()
	strict := base.WithStrictMode(true)
	assert.False(t, base.StrictMode)
	assert.True(t, strict.StrictMode)

	toggled := base.WithStageToggles(true, false, false, true)
	assert.True(t, base.TransformEnabled)
	assert.False(t, toggled.TransformEnabled)
	assert.True(t, toggled.ParseEnabled)
	assert.True(t, toggled.AnalyzeEnabled)
}

func TestWithOnProcessedClear(t *testing.T) {
	called := false
	cfg := NewStatementConfig().WithOnProcessed(func(state any) { called = true })
	cfg.OnProcessed(nil)
	assert.True(t, called)

	cleared := cfg.WithOnProcessed(nil)
	assert.Zero(t, cleared.OnProcessed)
}

func TestNewProcessingContextDefaultsGoContext(t *testing.T) {
	bag := paramreg.NewParamBag()
	ctx := New(nil, dialect.Postgres, NewStatementConfig(), bag, false, false, false)
	assert.NotZero(t, ctx.GoContext)
	assert.False(t, ctx.Cancelled())
}

func TestProcessingContextCancelled(t *testing.T) {
	goCtx, cancel := context.WithCancel(context.Background())
	ctx := New(goCtx, dialect.Postgres, NewStatementConfig(), paramreg.NewParamBag(), false, false, false)
	assert.False(t, ctx.Cancelled())
	cancel()
	assert.True(t, ctx.Cancelled())
}

func TestOutcomeHelpers(t *testing.T) {
	assert.False(t, Ok.Skipped)
	skipped := Skip("no-op for this dialect")
	assert.True(t, skipped.Skipped)
	assert.Equal(t, "no-op for this dialect", skipped.Reason)
}
