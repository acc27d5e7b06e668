package statement

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/pipeline"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlcache"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// CacheProvider is the injectable shape of the three process-wide caches
// (spec §4.6, §9: "an embedding application must be able to provide its own
// cache implementation behind the same interface for testing"). sqlcache.Caches
// satisfies it; tests substitute a fake to exercise cache-disabled behavior
// without touching the package-level singleton.
type CacheProvider interface {
	GetParse(key sqlspec.Fingerprint) (*ast.AstNode, bool)
	SetParse(key sqlspec.Fingerprint, node *ast.AstNode)
	GetPipeline(key sqlspec.Fingerprint) (*pipeline.ProcessedState, bool)
	SetPipeline(key sqlspec.Fingerprint, state *pipeline.ProcessedState)
}

// providerAdapter adapts *sqlcache.Caches (generic LRUs) to CacheProvider.
type providerAdapter struct{ c *sqlcache.Caches }

func (p providerAdapter) GetParse(key sqlspec.Fingerprint) (*ast.AstNode, bool) {
	return p.c.Parse.Get(key)
}
func (p providerAdapter) SetParse(key sqlspec.Fingerprint, node *ast.AstNode) {
	p.c.Parse.Set(key, node)
}
func (p providerAdapter) GetPipeline(key sqlspec.Fingerprint) (*pipeline.ProcessedState, bool) {
	return p.c.Pipeline.Get(key)
}
func (p providerAdapter) SetPipeline(key sqlspec.Fingerprint, state *pipeline.ProcessedState) {
	p.c.Pipeline.Set(key, state)
}

var (
	processCachesMu sync.Mutex
	processCaches   CacheProvider
)

// InitCaches installs the process-wide cache singleton (spec §9 "an
// explicit process-wide singleton with documented init/shutdown"). Safe to
// call again to re-init with a different policy or a test double; a nil
// provider is rejected in favor of the default.
func InitCaches(policy procctx.CachePolicy) {
	processCachesMu.Lock()
	defer processCachesMu.Unlock()
	processCaches = providerAdapter{c: sqlcache.NewCaches(policy)}
}

// InitCustomCaches installs a caller-supplied CacheProvider, e.g. a fake in
// tests or an alternate backend (Redis-backed, etc.) in a host application.
func InitCustomCaches(p CacheProvider) {
	processCachesMu.Lock()
	defer processCachesMu.Unlock()
	processCaches = p
}

// ShutdownCaches discards the process-wide singleton; the next statement
// processed after shutdown lazily reinitializes with DefaultCachePolicy.
func ShutdownCaches() {
	processCachesMu.Lock()
	defer processCachesMu.Unlock()
	processCaches = nil
}

func caches() CacheProvider {
	processCachesMu.Lock()
	defer processCachesMu.Unlock()
	if processCaches == nil {
		processCaches = providerAdapter{c: sqlcache.NewCaches(procctx.DefaultCachePolicy())}
	}
	return processCaches
}

// paramShapeFingerprint hashes a ParamBag's slot *shape* only — name,
// position, and value kind — never values, per spec §4.6's pipeline-cache
// key note ("only parameter slots/positions/names/types contribute to the
// key; actual values are re-bound on use").
func paramShapeFingerprint(bag *paramreg.ParamBag) sqlspec.Fingerprint {
	var b []byte
	for _, slot := range bag.Slots() {
		b = append(b, []byte(slot.Name)...)
		b = append(b, 0)
		b = append(b, byte(slot.Position), byte(slot.Position>>8))
		b = append(b, byte(slot.Value.Kind()))
	}
	return sqlspec.NewFingerprint(b)
}

// extrasFingerprint hashes the statement's extras list by filter identity
// (processor name + dedupe key), each filter's field values, and order,
// since two statements with
// differently-ordered or differently-valued filters must not share a
// pipeline-cache entry even when their raw SQL is identical.
func extrasFingerprint(extras []Filter) sqlspec.Fingerprint {
	var b []byte
	for _, f := range extras {
		b = append(b, []byte(f.Name())...)
		b = append(b, 0)
		b = append(b, []byte(f.DedupeKey())...)
		b = append(b, 0)
		b = append(b, fmt.Sprintf("%#v", f)...)
		b = append(b, 0)
	}
	return sqlspec.NewFingerprint(b)
}

// fingerprintBytes renders a Fingerprint as its canonical 16-byte form, for
// folding into PipelineKey's paramShape argument alongside the extras
// descriptor.
func fingerprintBytes(f sqlspec.Fingerprint) []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[0:8], f[0])
	binary.LittleEndian.PutUint64(b[8:16], f[1])
	return b
}

// rebindUserParams returns a copy of cached's FinalParams with every
// OriginUser slot's value replaced by the matching slot (by name, else by
// position) from the current call's actual initial params. Extracted-
// literal and filter-origin slots are left exactly as cached, since their
// values are deterministic functions of the SQL text itself, not of this
// particular call's bound arguments (spec §4.6: cached entries are reused
// across requests with different parameter values).
func rebindUserParams(cached *paramreg.ParamBag, actual *paramreg.ParamBag) *paramreg.ParamBag {
	out := paramreg.NewParamBag()
	for _, slot := range cached.Slots() {
		if slot.Origin == paramreg.OriginUser {
			if slot.Name != "" {
				if live, ok := actual.ByName(slot.Name); ok {
					slot.Value, slot.Present = live.Value, live.Present
				}
			} else if live, ok := actual.ByPosition(slot.Position); ok {
				slot.Value, slot.Present = live.Value, live.Present
			}
		}
		_ = out.Add(slot)
	}
	return out
}
