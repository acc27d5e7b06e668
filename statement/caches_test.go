package statement

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/pipeline"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

// TestPipelineCacheRebindsUserParams exercises the cache-transparency
// property from spec §4.6: two statements with the same SQL, dialect, and
// config but distinct bound values must each render their own value, even
// though the second call hits the pipeline cache the first call populated.
func TestPipelineCacheRebindsUserParams(t *testing.T) {
	InitCaches(procctx.DefaultCachePolicy())
	defer ShutdownCaches()

	cfg := procctx.NewStatementConfig()
	ctx := context.Background()

	bagOne := paramreg.NewParamBag()
	_ = bagOne.Add(paramreg.ParamSlot{Value: sqlvalue.Int(1), Present: true, Origin: paramreg.OriginUser})
	one := New("SELECT id FROM users WHERE id = ?", bagOne, cfg, dialect.SQLite, true)
	_, err := one.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)

	bagTwo := paramreg.NewParamBag()
	_ = bagTwo.Add(paramreg.ParamSlot{Value: sqlvalue.Int(2), Present: true, Origin: paramreg.OriginUser})
	two := New("SELECT id FROM users WHERE id = ?", bagTwo, cfg, dialect.SQLite, true)
	params, err := two.Parameters(ctx)
	assert.NoError(t, err)

	slot, ok := params.ByPosition(1)
	assert.True(t, ok)
	v, _ := slot.Value.AsInt()
	assert.Equal(t, int64(2), v)
}

// TestPipelineCacheTransparency checks that enabling the cache doesn't
// change the observable outcome compared to running with caching disabled
// (spec testable property: cache transparency).
func TestPipelineCacheTransparency(t *testing.T) {
	cfg := procctx.NewStatementConfig()
	ctx := context.Background()
	sql := "SELECT id FROM users WHERE id = 7"

	InitCaches(procctx.CachePolicy{})
	defer ShutdownCaches()
	uncached := New(sql, nil, cfg, dialect.SQLite, false)
	uncachedSQL, err := uncached.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)

	InitCaches(procctx.DefaultCachePolicy())
	first := New(sql, nil, cfg, dialect.SQLite, false)
	_, err = first.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)
	second := New(sql, nil, cfg, dialect.SQLite, false)
	cachedSQL, err := second.SQLFor(ctx, sqlspec.Qmark)
	assert.NoError(t, err)

	assert.Equal(t, uncachedSQL, cachedSQL)
}

func TestInitCustomCachesUsesProvidedProvider(t *testing.T) {
	fake := &fakeProvider{}
	InitCustomCaches(fake)
	defer ShutdownCaches()

	cfg := procctx.NewStatementConfig()
	stmt := New("SELECT 1", nil, cfg, dialect.SQLite, false)
	_, err := stmt.SQLFor(context.Background(), sqlspec.Qmark)
	assert.NoError(t, err)
	assert.True(t, fake.setParseCalled)
	assert.True(t, fake.setPipelineCalled)
}

// fakeProvider is a minimal CacheProvider that records writes without ever
// returning a hit, demonstrating the injectable-provider seam spec §9
// requires for testing without touching the process-wide default.
type fakeProvider struct {
	setParseCalled    bool
	setPipelineCalled bool
}

func (f *fakeProvider) GetParse(key sqlspec.Fingerprint) (*ast.AstNode, bool) { return nil, false }
func (f *fakeProvider) SetParse(key sqlspec.Fingerprint, node *ast.AstNode)   { f.setParseCalled = true }
func (f *fakeProvider) GetPipeline(key sqlspec.Fingerprint) (*pipeline.ProcessedState, bool) {
	return nil, false
}
func (f *fakeProvider) SetPipeline(key sqlspec.Fingerprint, state *pipeline.ProcessedState) {
	f.setPipelineCalled = true
}
