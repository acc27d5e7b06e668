// Package procctx holds the mutable per-run ProcessingContext and the
// immutable StatementConfig that seeds it (spec §3 ProcessingContext /
// StatementConfig). It also declares the Processor surface (Transformer /
// Validator / Analyzer) other packages implement, since the context and the
// processor contract are mutually referential and snapsql keeps that
// same pairing in one package (intermediate/pipeline.go's TokenProcessor +
// ProcessingContext).
package procctx

import (
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// ProcessedStateObserver is the shape of the optional observability sink
// (spec §6 "a single on_processed(&ProcessedState) callback registered on
// StatementConfig; invoked after each successful pipeline run"). Declared
// here as an opaque function type (rather than importing the pipeline
// package's concrete ProcessedState, which would cycle back to procctx) —
// statement passes the *pipeline.ProcessedState in as an `any` value, and
// the callback type-asserts it itself.
type ProcessedStateObserver func(state any)

// CachePolicy configures the three fingerprint-keyed caches (spec §3
// StatementConfig.cache_policy).
type CachePolicy struct {
	ParseCacheSize       int
	ParseCacheEnabled    bool
	PipelineCacheSize    int
	PipelineCacheEnabled bool
	FilterCacheSize      int
	FilterCacheEnabled   bool
}

// DefaultCachePolicy mirrors snapsql's config.go convention of shipping
// sane defaults rather than requiring every field to be set.
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{
		ParseCacheSize: 256, ParseCacheEnabled: true,
		PipelineCacheSize: 256, PipelineCacheEnabled: true,
		FilterCacheSize: 128, FilterCacheEnabled: true,
	}
}

// StatementConfig is immutable; every StatementConfig in the system is built
// once via NewStatementConfig/With* and shared by reference (spec §3: "a
// shared, immutable reference"). There is no in-place mutation — With*
// methods return a new value, mirroring snapsql's Config struct which
// is also rebuilt rather than patched (spec §9 design note: "configuration
// is immutable and rebuilt from fields, not mutated in place").
type StatementConfig struct {
	ParseEnabled     bool
	TransformEnabled bool
	ValidateEnabled  bool
	AnalyzeEnabled   bool

	StrictMode bool

	Transformers []Transformer
	Validators   []Validator
	Analyzers    []Analyzer

	DefaultPlaceholderStyle sqlspec.PlaceholderStyle
	AllowMixedStyles        bool

	CachePolicy CachePolicy

	// OnProcessed is the optional observability sink (spec §6). Must not
	// mutate anything it's handed; its failures are swallowed and logged at
	// warn by the caller, never propagated.
	OnProcessed ProcessedStateObserver
}

// NewStatementConfig returns the baseline configuration: every stage
// enabled, non-strict, no processors registered, qmark target style, mixed
// styles disallowed, and the default cache policy.
func NewStatementConfig() StatementConfig {
	return StatementConfig{
		ParseEnabled:            true,
		TransformEnabled:        true,
		ValidateEnabled:         true,
		AnalyzeEnabled:          true,
		DefaultPlaceholderStyle: sqlspec.Qmark,
		CachePolicy:             DefaultCachePolicy(),
	}
}

func (c StatementConfig) WithStrictMode(strict bool) StatementConfig {
	c.StrictMode = strict
	return c
}

func (c StatementConfig) WithTransformers(t ...Transformer) StatementConfig {
	c.Transformers = append([]Transformer(nil), t...)
	return c
}

func (c StatementConfig) WithValidators(v ...Validator) StatementConfig {
	c.Validators = append([]Validator(nil), v...)
	return c
}

func (c StatementConfig) WithAnalyzers(a ...Analyzer) StatementConfig {
	c.Analyzers = append([]Analyzer(nil), a...)
	return c
}

func (c StatementConfig) WithDefaultPlaceholderStyle(style sqlspec.PlaceholderStyle) StatementConfig {
	c.DefaultPlaceholderStyle = style
	return c
}

func (c StatementConfig) WithAllowMixedStyles(allow bool) StatementConfig {
	c.AllowMixedStyles = allow
	return c
}

func (c StatementConfig) WithCachePolicy(p CachePolicy) StatementConfig {
	c.CachePolicy = p
	return c
}

// WithOnProcessed registers the observability sink (spec §6). Pass nil to
// clear it.
func (c StatementConfig) WithOnProcessed(fn ProcessedStateObserver) StatementConfig {
	c.OnProcessed = fn
	return c
}

func (c StatementConfig) WithStageToggles(parse, transform, validate, analyze bool) StatementConfig {
	c.ParseEnabled = parse
	c.TransformEnabled = transform
	c.ValidateEnabled = validate
	c.AnalyzeEnabled = analyze
	return c
}
