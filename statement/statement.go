package statement

import (
	"context"
	"log"
	"sync"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/pipeline"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlcache"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// Filter is a deferred AST rewrite appended to a Statement's extras list
// (spec §3 "Filter — a Processor variant representing a deferred AST
// rewrite", §4.7). It is itself a procctx.Transformer: applying a filter is
// running it as a transformer at the start of the next pipeline pass. A
// non-empty DedupeKey makes repeated application override the prior
// instance sharing that key instead of appending a second one — spec Open
// Question 4's resolution, generalized from the built-in LimitOffset filter
// to any filter kind that wants override-on-repeat semantics.
type Filter interface {
	procctx.Transformer
	DedupeKey() string
}

// Statement is the immutable, user-facing handle (spec §4.5). Every public
// modifier returns a new Statement; the original is never mutated. The
// lazily-populated ProcessedState cell is guarded by sync.Once so concurrent
// first-access from multiple goroutines runs the pipeline exactly once
// (spec §3 "once processed is populated, the statement is effectively
// frozen").
type Statement struct {
	rawSQL  string
	astSeed *ast.AstNode

	initialParams *paramreg.ParamBag

	dialect dialect.Tag
	config  procctx.StatementConfig
	extras  []Filter

	inputHadPlaceholders bool
	isMany               bool
	isScript             bool

	cell *processedCell
}

// processedCell holds the lazy, once-computed ProcessedState shared by value
// across Statement copies made by immutable modifiers that don't invalidate
// it (there are none — every modifier clears the cell onto a fresh one, per
// spec's "cleared processed cell" rule, but the type exists so accessors can
// share one sync.Once/result pair cheaply within a single Statement's
// lifetime across repeated accessor calls).
type processedCell struct {
	once   sync.Once
	result *pipeline.ProcessedState
	err    error
}

// New constructs a Statement from a raw SQL string plus already-bound
// parameters (spec §4.5 "Statement.new(sql, params?, config, dialect?,
// kind?)"). inputHadPlaceholders should be true when sql already contains
// placeholder markers for params (the common case for a hand-written
// query); false only for the literal-parameterization batch path.
func New(rawSQL string, params *paramreg.ParamBag, cfg procctx.StatementConfig, d dialect.Tag, inputHadPlaceholders bool) *Statement {
	if params == nil {
		params = paramreg.NewParamBag()
	}
	return &Statement{
		rawSQL:               rawSQL,
		initialParams:        params,
		dialect:              d,
		config:                cfg,
		inputHadPlaceholders: inputHadPlaceholders,
		cell:                 &processedCell{},
	}
}

// FromAST constructs a Statement whose source is an already-built AST
// fragment rather than raw text — the entry point query builders use (spec
// §4.7 "build() -> Statement ... input_had_placeholders is set to true").
func FromAST(seed *ast.AstNode, params *paramreg.ParamBag, cfg procctx.StatementConfig, d dialect.Tag) *Statement {
	if params == nil {
		params = paramreg.NewParamBag()
	}
	return &Statement{
		astSeed:               seed,
		initialParams:         params,
		dialect:               d,
		config:                cfg,
		inputHadPlaceholders:  true,
		cell:                  &processedCell{},
	}
}

// derive returns a shallow copy with a fresh, unpopulated processed cell —
// every immutable modifier goes through this (spec §4.5 "each returns a new
// statement with a cleared processed cell").
func (s *Statement) derive() *Statement {
	out := *s
	out.extras = append([]Filter(nil), s.extras...)
	out.cell = &processedCell{}
	return &out
}

// WithFilter appends f to extras, honoring its DedupeKey for override
// semantics (spec §4.5 with_filter, §4.7, Open Question 4).
func (s *Statement) WithFilter(f Filter) *Statement {
	out := s.derive()
	if key := f.DedupeKey(); key != "" {
		filtered := out.extras[:0:0]
		for _, existing := range out.extras {
			if existing.DedupeKey() != key {
				filtered = append(filtered, existing)
			}
		}
		out.extras = filtered
	}
	out.extras = append(out.extras, f)
	return out
}

// Where ANDs an additional predicate onto the statement's WHERE clause
// (spec §4.5 where(cond)). Unlike querybuilder.Search this takes a raw SQL
// condition fragment and never deduplicates — repeated calls AND further
// conditions, matching the Search/OrderBy "append" side of Open Question 4.
func (s *Statement) Where(conditionSQL string) *Statement {
	return s.WithFilter(whereConditionFilter{condition: conditionSQL})
}

// Limit applies (or replaces) a LIMIT/OFFSET filter (spec §4.5 limit(n)).
// Repeated calls override the prior limit, per Open Question 4.
func (s *Statement) Limit(n int) *Statement {
	return s.WithFilter(limitOffsetFilter{limit: n, hasLimit: true})
}

// LimitOffset applies both LIMIT and OFFSET in one call, overriding any
// prior LimitOffset filter.
func (s *Statement) LimitOffset(limit, offset int) *Statement {
	return s.WithFilter(limitOffsetFilter{limit: limit, offset: offset, hasLimit: true, hasOffset: true})
}

// OrderBy appends ordering clauses (spec §4.5 order_by(...)). Repeated
// calls extend the ORDER BY key list rather than replacing it.
func (s *Statement) OrderBy(clauses ...string) *Statement {
	return s.WithFilter(orderByFilter{clauses: clauses})
}

// WithConfig swaps in a new StatementConfig (spec §4.5 with_config(c)).
func (s *Statement) WithConfig(cfg procctx.StatementConfig) *Statement {
	out := s.derive()
	out.config = cfg
	return out
}

// AsMany marks the statement as a batch statement (spec §4.5 as_many()).
func (s *Statement) AsMany() *Statement {
	out := s.derive()
	out.isMany = true
	return out
}

// AsScript marks the statement as a multi-statement script (spec §4.5
// as_script()).
func (s *Statement) AsScript() *Statement {
	out := s.derive()
	out.isScript = true
	return out
}

// Dialect reports the statement's target dialect.
func (s *Statement) Dialect() dialect.Tag { return s.dialect }

// process drives the pipeline exactly once per Statement value, caching the
// result in s.cell (spec §4.5 "on first access ... executes the pipeline
// exactly once").
func (s *Statement) process(ctx context.Context) (*pipeline.ProcessedState, error) {
	s.cell.once.Do(func() {
		pctx := procctx.New(ctx, s.dialect, s.config, s.initialParams, s.inputHadPlaceholders, s.isMany, s.isScript)
		transformers := append([]procctx.Transformer(nil), s.extrasAsTransformers()...)
		transformers = append(transformers, pctx.Config.Transformers...)
		pctx.Config.Transformers = transformers

		provider := caches()

		// Parse-cache consult (spec §4.6: key = (sql_text, dialect)). Only
		// applicable to string-origin statements; builder-origin statements
		// already carry a parsed astSeed and never hit the parser.
		var parseKey sqlspec.Fingerprint
		haveParseKey := s.astSeed == nil && pctx.Config.ParseEnabled
		if haveParseKey {
			parseKey = sqlcache.ParseKey(s.rawSQL, s.dialect)
			if cached, ok := provider.GetParse(parseKey); ok {
				pctx.CurrentAST = cached
			} else if node, perr := ast.Parse(s.rawSQL, s.dialect); perr == nil {
				pctx.CurrentAST = node
				provider.SetParse(parseKey, node)
			}
		}

		// Pipeline-cache consult (spec §4.6: value excludes bound parameter
		// values — only slot shape contributes to the key, so a hit is
		// reusable across calls with different bound values).
		var pipelineKey sqlspec.Fingerprint
		havePipelineKey := haveParseKey
		if havePipelineKey {
			pipelineKey = sqlcache.PipelineKey(
				parseKey,
				sqlcache.ConfigFingerprint(s.config),
				s.inputHadPlaceholders,
				fingerprintBytes(paramShapeFingerprint(s.initialParams).Combine(extrasFingerprint(s.extras))),
			)
			if cached, ok := provider.GetPipeline(pipelineKey); ok {
				rebound := *cached
				rebound.FinalParams = rebindUserParams(cached.FinalParams, s.initialParams)
				s.cell.result = &rebound
				return
			}
		}

		s.cell.result, s.cell.err = pipeline.Run(pctx, s.rawSQL, s.astSeed, s.dialect)
		if s.cell.err != nil {
			return
		}

		if havePipelineKey {
			provider.SetPipeline(pipelineKey, s.cell.result)
		}
		if pctx.Config.OnProcessed != nil {
			notifyProcessed(pctx.Config.OnProcessed, s.cell.result)
		}
	})
	return s.cell.result, s.cell.err
}

// notifyProcessed invokes the registered observability sink, swallowing and
// logging any panic or error it produces (spec §6: "its failures are
// swallowed and logged at warn"). The sink must not mutate state; nothing
// here guards against that beyond the ProcessedState itself already being
// treated as read-only by every other caller.
func notifyProcessed(fn procctx.ProcessedStateObserver, result *pipeline.ProcessedState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("warn: sql: on_processed callback panicked: %v", r)
		}
	}()
	fn(result)
}

func (s *Statement) extrasAsTransformers() []procctx.Transformer {
	out := make([]procctx.Transformer, len(s.extras))
	for i, f := range s.extras {
		out[i] = f
	}
	return out
}

// SQLFor renders the final SQL using the given placeholder style (spec
// §4.5 sql_for(style)), running the pipeline on first call.
func (s *Statement) SQLFor(ctx context.Context, style sqlspec.PlaceholderStyle) (string, error) {
	result, err := s.process(ctx)
	if err != nil {
		return "", err
	}
	return paramreg.RenderFromBag(result.FinalAST, s.dialect, style, result.FinalParams)
}

// Parameters returns the final, merged ParamBag (spec §4.5 parameters()).
func (s *Statement) Parameters(ctx context.Context) (*paramreg.ParamBag, error) {
	result, err := s.process(ctx)
	if err != nil {
		return nil, err
	}
	return result.FinalParams, nil
}

// Validation returns the accumulated ValidationResult (spec §4.5
// validation()).
func (s *Statement) Validation(ctx context.Context) (sqlspec.ValidationResult, error) {
	result, err := s.process(ctx)
	if err != nil {
		return sqlspec.ValidationResult{}, err
	}
	return result.Validation, nil
}

// Analysis returns the AnalysisRecord, or nil if analysis was disabled
// (spec §4.5 analysis()).
func (s *Statement) Analysis(ctx context.Context) (*sqlspec.AnalysisRecord, error) {
	result, err := s.process(ctx)
	if err != nil {
		return nil, err
	}
	return result.Analysis, nil
}

// Kind returns the statement's StatementKind (spec §4.5 kind()).
func (s *Statement) Kind(ctx context.Context) (sqlspec.StatementKind, error) {
	result, err := s.process(ctx)
	if err != nil {
		return sqlspec.KindUnknown, err
	}
	if result.FinalAST == nil {
		return sqlspec.KindUnknown, nil
	}
	return result.FinalAST.Kind(), nil
}

// Fingerprint returns the pipeline result's cache fingerprint (spec §4.6),
// useful for callers wiring their own observability or cache layer.
func (s *Statement) Fingerprint(ctx context.Context) (sqlspec.Fingerprint, error) {
	result, err := s.process(ctx)
	if err != nil {
		return sqlspec.Fingerprint{}, err
	}
	return result.Fingerprint, nil
}
