package procctx

import (
	"context"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// ProcessingContext is the mutable scratchpad carried through one pipeline
// run (spec §3 ProcessingContext). It is thread-local to the run that
// created it and must never be shared across goroutines, mirroring
// snapsql's intermediate.ProcessingContext (tokens/statement/config bundled
// together and threaded through each TokenProcessor.Process call).
type ProcessingContext struct {
	// Go context for cancellation (spec §5 "cooperative cancellation token
	// checked between processors"); never read by processors for anything
	// other than Err()/Done().
	GoContext context.Context

	CurrentAST *ast.AstNode

	InitialParams   *paramreg.ParamBag
	ExtractedParams *paramreg.ParamBag
	MergedParams    *paramreg.ParamBag

	Validation sqlspec.ValidationAccumulator
	Analysis   *sqlspec.AnalysisRecord

	Dialect dialect.Tag
	Config  StatementConfig

	InputHadPlaceholders bool
	IsMany               bool
	IsScript             bool
}

// New builds a fresh ProcessingContext for one pipeline run. extracted
// starts empty; initial is the statement's bound ParamBag.
func New(goCtx context.Context, d dialect.Tag, cfg StatementConfig, initial *paramreg.ParamBag, hadPlaceholders, isMany, isScript bool) *ProcessingContext {
	if goCtx == nil {
		goCtx = context.Background()
	}
	return &ProcessingContext{
		GoContext:            goCtx,
		InitialParams:        initial,
		ExtractedParams:      paramreg.NewParamBag(),
		Dialect:              d,
		Config:               cfg,
		InputHadPlaceholders: hadPlaceholders,
		IsMany:               isMany,
		IsScript:             isScript,
	}
}

// Cancelled reports whether the pipeline's cancellation token has fired.
func (c *ProcessingContext) Cancelled() bool {
	select {
	case <-c.GoContext.Done():
		return true
	default:
		return false
	}
}
