// Package pipeline is the Statement Pipeline orchestrator (spec §4.4): it
// drives a ProcessingContext through transform, validate, and analyze
// stages in order and packages the result into a ProcessedState. Grounded
// on snapsql's intermediate.TokenPipeline.Execute — a fixed processor
// list run in order over one shared context, errors wrapped with the
// processor's name attached.
package pipeline

import (
	"fmt"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// ProcessedState is the outcome of one pipeline run (spec §3).
type ProcessedState struct {
	FinalAST    *ast.AstNode
	FinalParams *paramreg.ParamBag
	Validation  sqlspec.ValidationResult
	Analysis    *sqlspec.AnalysisRecord
	Fingerprint sqlspec.Fingerprint
}

// ValidationFailure is raised when strict mode observes an Unsafe verdict
// (spec §4.4 step 6 / §7).
type ValidationFailure struct {
	Result sqlspec.ValidationResult
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("sql: validation failed with verdict %s (%d issue(s))", e.Result.Verdict, len(e.Result.Issues))
}

func (e *ValidationFailure) Unwrap() error { return sqlspec.ErrValidationFailure }

// Run drives ctx through parse (if not already parsed) / transform /
// validate / analyze, in that order, and returns the packaged
// ProcessedState (spec §4.4 algorithm, steps 1-8).
//
// rawSQL/seedAST: when ctx.CurrentAST starts nil, a non-nil seedAST (a
// builder-origin statement) is used as is; otherwise rawSQL (a string-origin
// statement) is parsed, and only if config.ParseEnabled is true (spec §3:
// "raw_sql ... or ast_seed").
func Run(ctx *procctx.ProcessingContext, rawSQL string, seedAST *ast.AstNode, d dialect.Tag) (*ProcessedState, error) {
	if ctx.CurrentAST == nil {
		if seedAST != nil {
			ctx.CurrentAST = seedAST
		} else if ctx.Config.ParseEnabled {
			node, err := ast.Parse(rawSQL, d)
			if err != nil {
				if ctx.Config.StrictMode {
					return nil, err
				}
				ctx.Validation.Add(sqlspec.Issue{
					Kind: "Unparsable", Severity: sqlspec.RiskCritical,
					Message: err.Error(), Processor: "pipeline",
				})
				result := ctx.Validation.Reduce()
				return &ProcessedState{Validation: result}, nil
			}
			ctx.CurrentAST = node
		}
	}

	if ctx.Cancelled() {
		return nil, sqlspec.ErrCancelled
	}

	if ctx.Config.TransformEnabled {
		for _, t := range ctx.Config.Transformers {
			if ctx.Cancelled() {
				return nil, sqlspec.ErrCancelled
			}
			before := ctx.CurrentAST
			if _, err := t.Transform(ctx); err != nil {
				// Transformer failures are advisory: record a Warning and
				// keep the pre-transform AST for this step (spec §4.4 step 2).
				ctx.CurrentAST = before
				ctx.Validation.Add(sqlspec.Issue{
					Kind: "ProcessorFailure", Severity: sqlspec.RiskLow,
					Message: err.Error(), Processor: t.Name(),
				})
			}
		}
	}

	merged, err := paramreg.Merge(ctx.InitialParams, ctx.ExtractedParams)
	if err != nil {
		return nil, err
	}
	ctx.MergedParams = merged

	if ctx.Config.ValidateEnabled {
		for _, v := range ctx.Config.Validators {
			if ctx.Cancelled() {
				return nil, sqlspec.ErrCancelled
			}
			if _, err := v.Validate(ctx); err != nil {
				ctx.Validation.Add(sqlspec.Issue{
					Kind: "ProcessorFailure", Severity: sqlspec.RiskLow,
					Message: err.Error(), Processor: v.Name(),
				})
			}
		}
	}

	result := ctx.Validation.Reduce()

	if ctx.Config.StrictMode && result.Verdict == sqlspec.Unsafe {
		return nil, &ValidationFailure{Result: result}
	}

	if ctx.Config.AnalyzeEnabled {
		for _, a := range ctx.Config.Analyzers {
			if ctx.Cancelled() {
				return nil, sqlspec.ErrCancelled
			}
			if _, err := a.Analyze(ctx); err != nil {
				ctx.Validation.Add(sqlspec.Issue{
					Kind: "ProcessorFailure", Severity: sqlspec.RiskLow,
					Message: err.Error(), Processor: a.Name(),
				})
			}
		}
		result = ctx.Validation.Reduce()
	}

	fp := Fingerprint(ctx)

	return &ProcessedState{
		FinalAST:    ctx.CurrentAST,
		FinalParams: ctx.MergedParams,
		Validation:  result,
		Analysis:    ctx.Analysis,
		Fingerprint: fp,
	}, nil
}
