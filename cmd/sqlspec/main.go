// Command sqlspec is a small diagnostic CLI that drives a single SQL
// statement through the processing pipeline and prints its rendered SQL,
// resolved parameters, validation verdict, and structural analysis
// (SPEC_FULL.md ambient-stack "CLI/demo tooling": kong for flags, fatih/color
// for colorized verdict/issue output, the same pairing snapsql's own
// cmd/snapsql CLI uses for its diagnostics).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/processor"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/statement"
)

// ErrUnknownDialect is returned when --dialect doesn't name one of §3's enum
// values.
var ErrUnknownDialect = errors.New("sqlspec: unknown dialect")

var knownDialects = []dialect.Tag{
	dialect.Postgres, dialect.MySQL, dialect.SQLite, dialect.Oracle,
	dialect.BigQuery, dialect.DuckDB, dialect.Spanner, dialect.MSSQL, dialect.Generic,
}

func parseDialect(name string) (dialect.Tag, error) {
	for _, d := range knownDialects {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// CheckCmd runs one SQL string through the default transform/validate/
// analyze pipeline and prints the outcome.
type CheckCmd struct {
	SQL     string `arg:"" help:"SQL statement to process"`
	Dialect string `help:"Target dialect" default:"postgres" enum:"postgres,mysql,sqlite,oracle,bigquery,duckdb,spanner,mssql,generic"`
	Style   string `help:"Target placeholder style for rendering" default:"qmark" enum:"qmark,numericdollar,namedcolon"`
	Strict  bool   `help:"Raise on an Unsafe verdict instead of just reporting it"`
}

var styleByFlag = map[string]sqlspec.PlaceholderStyle{
	"qmark":         sqlspec.Qmark,
	"numericdollar": sqlspec.NumericDollar,
	"namedcolon":    sqlspec.NamedColon,
}

// defaultPipelineConfig registers every built-in processor except
// TracingComment (spec §4.3) in the order the pipeline algorithm expects: transformers, then
// validators, then the analyzer.
func defaultPipelineConfig(strict bool, style sqlspec.PlaceholderStyle) procctx.StatementConfig {
	cfg := procctx.NewStatementConfig().
		WithStrictMode(strict).
		WithDefaultPlaceholderStyle(style).
		WithTransformers(
			processor.CommentRemover{},
			processor.HintRemover{},
			processor.ParameterizeLiterals{},
			processor.ForceWhereClause{},
		).
		WithValidators(
			processor.InjectionDetector{},
			&processor.TautologyDetector{},
			processor.PreventDDL{},
			processor.RiskyDML{},
			processor.SuspiciousKeywords{Keywords: processor.DefaultSuspiciousKeywords()},
			processor.DefaultExcessiveJoins(),
			processor.CartesianProductDetector{},
		).
		WithAnalyzers(processor.StatementAnalyzer{})
	return cfg
}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	d, err := parseDialect(c.Dialect)
	if err != nil {
		return err
	}
	style, ok := styleByFlag[c.Style]
	if !ok {
		return fmt.Errorf("sqlspec: unknown style %q", c.Style)
	}

	cfg := defaultPipelineConfig(c.Strict, style)
	stmt := statement.New(c.SQL, paramreg.NewParamBag(), cfg, d, false)

	ctx := context.Background()
	rendered, err := stmt.SQLFor(ctx, style)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		return err
	}

	fmt.Println(color.CyanString("-- rendered --"))
	fmt.Println(rendered)

	params, err := stmt.Parameters(ctx)
	if err == nil && params.Len() > 0 {
		fmt.Println(color.CyanString("-- parameters --"))
		for _, slot := range params.Slots() {
			fmt.Printf("  [%d] %s = %s (origin=%s)\n", slot.Position, slot.Name, slot.Value.GoString(), slot.Origin)
		}
	}

	validation, err := stmt.Validation(ctx)
	if err != nil {
		return err
	}
	printValidation(validation)

	analysis, err := stmt.Analysis(ctx)
	if err == nil && analysis != nil {
		printAnalysis(analysis)
	}

	return nil
}

func printValidation(v sqlspec.ValidationResult) {
	fmt.Println(color.CyanString("-- validation --"))
	var verdictColor func(format string, a ...interface{}) string
	switch v.Verdict {
	case sqlspec.Safe:
		verdictColor = color.GreenString
	case sqlspec.Warning:
		verdictColor = color.YellowString
	default:
		verdictColor = color.RedString
	}
	fmt.Println(verdictColor("verdict: %s (risk=%s)", v.Verdict, v.Risk))
	for _, issue := range v.Issues {
		fmt.Printf("  [%s/%s] %s: %s\n", issue.Processor, issue.Kind, issue.Severity, issue.Message)
	}
}

func printAnalysis(a *sqlspec.AnalysisRecord) {
	fmt.Println(color.CyanString("-- analysis --"))
	fmt.Printf("  kind=%s tables=%v joins=%d subqueries=%d complexity=%d\n",
		a.StatementKind, a.Tables, a.JoinCount, a.SubqueryCount, a.ComplexityScore)
}

// CLI is kong's root command set.
var CLI struct {
	Check CheckCmd `cmd:"" help:"Run a SQL statement through the processing pipeline"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Name("sqlspec"), kong.Description("SQL statement processing core diagnostic CLI"))
	if err := kctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
