package sqlcache

import (
	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/pipeline"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// Caches bundles the three independent, size-bounded caches named in spec
// §4.6: parse results (sql text + dialect -> AstNode), pipeline results
// (parse key + config/param shape -> ProcessedState), and filter
// applications (ast fingerprint + filter descriptor -> rewritten AstNode
// fragment). Each is opt-in per procctx.CachePolicy and independently sized.
type Caches struct {
	Parse    *LRU[*ast.AstNode]
	Pipeline *LRU[*pipeline.ProcessedState]
	Filter   *LRU[*ast.AstNode]
}

// NewCaches builds a Caches bundle sized and enabled per policy.
func NewCaches(policy procctx.CachePolicy) *Caches {
	return &Caches{
		Parse:    New[*ast.AstNode](policy.ParseCacheSize, policy.ParseCacheEnabled),
		Pipeline: New[*pipeline.ProcessedState](policy.PipelineCacheSize, policy.PipelineCacheEnabled),
		Filter:   New[*ast.AstNode](policy.FilterCacheSize, policy.FilterCacheEnabled),
	}
}

// ParseKey derives the parse-cache key from the raw SQL text and target
// dialect (spec §4.6: "keyed by (sql_text, dialect)").
func ParseKey(sqlText string, d dialect.Tag) sqlspec.Fingerprint {
	return sqlspec.NewFingerprint([]byte(sqlText), []byte(string(d)))
}

// PipelineKey derives the pipeline-cache key from the parse key, the
// config's identity fingerprint, whether the input arrived with
// placeholders already present, and the bound parameters' shape (never
// their values, per spec §4.6's pipeline-cache value note). parseKey and
// configFingerprint are folded in via Combine; the remaining, genuinely
// byte-shaped extras are hashed directly.
func PipelineKey(parseKey sqlspec.Fingerprint, configFingerprint sqlspec.Fingerprint, inputHadPlaceholders bool, paramShape []byte) sqlspec.Fingerprint {
	extras := sqlspec.NewFingerprint([]byte{boolByte(inputHadPlaceholders)}, paramShape)
	return parseKey.Combine(configFingerprint).Combine(extras)
}

// FilterKey derives the filter-cache key from the fingerprint of the AST the
// filter is applied to and a descriptor identifying the filter itself (spec
// §4.6: "keyed by (ast_fingerprint, filter_descriptor)").
func FilterKey(astFingerprint sqlspec.Fingerprint, filterDescriptor string) sqlspec.Fingerprint {
	return astFingerprint.Combine(sqlspec.NewFingerprint([]byte(filterDescriptor)))
}

// ConfigFingerprint derives a stable identity for a StatementConfig's
// processor pipeline and stage toggles, reused by PipelineKey callers so
// they don't need to reimplement the encoding pipeline.Fingerprint already
// does internally.
func ConfigFingerprint(cfg procctx.StatementConfig) sqlspec.Fingerprint {
	var b []byte
	b = append(b, boolByte(cfg.ParseEnabled), boolByte(cfg.TransformEnabled), boolByte(cfg.ValidateEnabled), boolByte(cfg.AnalyzeEnabled), boolByte(cfg.StrictMode))
	b = append(b, byte(cfg.DefaultPlaceholderStyle), boolByte(cfg.AllowMixedStyles))
	for _, t := range cfg.Transformers {
		b = append(b, []byte(t.Name())...)
		b = append(b, 0)
	}
	for _, v := range cfg.Validators {
		b = append(b, []byte(v.Name())...)
		b = append(b, 0)
	}
	for _, a := range cfg.Analyzers {
		b = append(b, []byte(a.Name())...)
		b = append(b, 0)
	}
	return sqlspec.NewFingerprint(b)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
