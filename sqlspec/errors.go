// Package sqlspec holds the types shared across every stage of the SQL
// statement processing pipeline: sentinel errors, the statement/validation
// vocabulary, and fingerprinting. Lower-level packages (ast, paramreg,
// procctx, processor, pipeline, sqlcache) all depend on this
// package; it depends on nothing in this module.
package sqlspec

import "errors"

// Sentinel errors surfaced at the package boundary (spec §6/§7). Every error
// that crosses out of the pipeline wraps one of these with context via
// fmt.Errorf("...: %w", ...), mirroring snapsql's errors.go convention.
var (
	// ErrParse indicates the SQL text could not be parsed into an AST.
	ErrParse = errors.New("sql: parse error")
	// ErrParamStyleMismatch indicates more than one placeholder style was
	// detected in a single statement and allow_mixed_styles is false.
	ErrParamStyleMismatch = errors.New("sql: mixed placeholder styles")
	// ErrParamArityMismatch indicates bound values don't match slot count.
	ErrParamArityMismatch = errors.New("sql: parameter arity mismatch")
	// ErrParamMissing indicates a slot has no bound value (distinct from Null).
	ErrParamMissing = errors.New("sql: missing parameter value")
	// ErrParamConflict indicates two parameter sources assign different
	// values to a name that should be unique.
	ErrParamConflict = errors.New("sql: conflicting parameter value")
	// ErrValidationFailure is raised in strict mode when the accumulated
	// validation verdict is Unsafe.
	ErrValidationFailure = errors.New("sql: validation failed")
	// ErrCancelled indicates a pipeline run observed a cancelled token.
	ErrCancelled = errors.New("sql: pipeline cancelled")
	// ErrCacheUnavailable indicates a required cache could not be reached.
	ErrCacheUnavailable = errors.New("sql: cache unavailable")
	// ErrUnsupportedDialectPair indicates render(parse(S,A),B) has no
	// documented round-trip guarantee for the (A,B) dialect pair.
	ErrUnsupportedDialectPair = errors.New("sql: unsupported dialect pair for rendering")
	// ErrUnknownPlaceholderStyle indicates a style token the converter does
	// not recognize.
	ErrUnknownPlaceholderStyle = errors.New("sql: unknown placeholder style")
)
