package processor

import (
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// InjectionDetector flags obvious injection patterns that survive parsing:
// stacked statements in a single-statement context, and string
// concatenation immediately adjacent to a quoted literal (a classic
// "'" + userInput + "'" injection shape). Unbalanced quotes are not checked
// here: the tokenizer rejects an unterminated string, so such input fails to
// parse before any validator runs.
type InjectionDetector struct {
	// AllowScripts permits semicolon-separated stacked statements (set this
	// when the statement is explicitly flagged as a script).
	AllowScripts bool
}

func (InjectionDetector) Name() string { return "InjectionDetector" }

func (d InjectionDetector) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	tokens := node.Tokens()
	found := false

	if !d.AllowScripts && !ctx.IsScript {
		if stackedStatementCount(tokens) > 1 {
			ctx.Validation.Add(issuef("InjectionDetector", "StackedStatements", sqlspec.RiskHigh,
				"multiple statements found in a single-statement context"))
			found = true
		}
	}

	if hasAdjacentConcatLiteral(tokens) {
		ctx.Validation.Add(issuef("InjectionDetector", "SuspiciousConcatenation", sqlspec.RiskMedium,
			"string concatenation adjacent to a quoted literal"))
		found = true
	}

	if !found {
		return procctx.Skip("no injection indicators found"), nil
	}
	return procctx.Ok, nil
}

// stackedStatementCount counts semicolon-separated non-empty statements at
// paren-depth 0, ignoring a single optional trailing semicolon.
func stackedStatementCount(tokens []tokenizer.Token) int {
	depth := 0
	count := 1
	sawContentSinceLastSemi := false
	for i, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		case tokenizer.SEMICOLON:
			if depth == 0 {
				if sawContentSinceLastSemi {
					// Only count as a new statement if more content follows.
					if hasContentAfter(tokens, i+1) {
						count++
					}
				}
				sawContentSinceLastSemi = false
				continue
			}
		}
		if t.Type != tokenizer.SEMICOLON {
			sawContentSinceLastSemi = true
		}
	}
	return count
}

func hasContentAfter(tokens []tokenizer.Token, from int) bool {
	for i := from; i < len(tokens); i++ {
		switch tokens[i].Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT, tokenizer.SEMICOLON:
			continue
		}
		return true
	}
	return false
}

// hasAdjacentConcatLiteral reports a STRING token directly touching a
// CONCAT ('||') or PLUS operator that itself sits next to an IDENTIFIER —
// the shape of "'...' || user_input" string-building seen in concatenation-
// based injection.
func hasAdjacentConcatLiteral(tokens []tokenizer.Token) bool {
	sig := significantIndices(tokens)
	for k, i := range sig {
		if tokens[i].Type != tokenizer.CONCAT && tokens[i].Type != tokenizer.PLUS {
			continue
		}
		if k == 0 || k+1 >= len(sig) {
			continue
		}
		prev := tokens[sig[k-1]]
		next := tokens[sig[k+1]]
		if prev.Type == tokenizer.STRING && next.Type == tokenizer.IDENTIFIER {
			return true
		}
		if next.Type == tokenizer.STRING && prev.Type == tokenizer.IDENTIFIER {
			return true
		}
	}
	return false
}

func significantIndices(tokens []tokenizer.Token) []int {
	out := make([]int, 0, len(tokens))
	for i, t := range tokens {
		switch t.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		}
		out = append(out, i)
	}
	return out
}

// TautologyDetector flags WHERE predicates that reduce to a constant truth
// ("1=1", "'a'='a'", "TRUE OR ..."). Literal-only conjuncts/disjuncts are
// translated to a CEL expression and constant-folded via cel-go, the same
// engine snapsql uses to evaluate template conditions
// (intermediate/cel_extractor.go, query/executor.go) — repurposed here as a
// general boolean-literal evaluator instead of a template-directive one.
//
// Severity resolves spec Open Question 2: numeric/boolean tautologies are
// High risk; string tautologies are downgraded to Medium.
type TautologyDetector struct {
	env *cel.Env
}

func (TautologyDetector) Name() string { return "TautologyDetector" }

func (d *TautologyDetector) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	conds := ast.WhereConditions(ctx.CurrentAST)
	if len(conds) == 0 {
		return procctx.Skip("no WHERE clause present"), nil
	}

	if d.env == nil {
		env, err := cel.NewEnv()
		if err != nil {
			return procctx.Outcome{}, err
		}
		d.env = env
	}

	found := false
	for _, cond := range conds {
		expr, isStringOnly, ok := toCelBoolExpr(cond, ctx.Dialect)
		if !ok {
			continue
		}
		ast_, iss := d.env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			continue
		}
		prg, err := d.env.Program(ast_)
		if err != nil {
			continue
		}
		out, _, err := prg.Eval(map[string]any{})
		if err != nil {
			continue
		}
		b, ok := out.Value().(bool)
		if !ok || !b {
			continue
		}
		severity := sqlspec.RiskHigh
		if isStringOnly {
			severity = sqlspec.RiskMedium
		}
		ctx.Validation.Add(issuef("TautologyDetector", "Tautology", severity,
			"WHERE predicate %q is always true", cond))
		found = true
	}

	if !found {
		return procctx.Skip("no tautological predicate found"), nil
	}
	return procctx.Ok, nil
}

// toCelBoolExpr translates a SQL boolean literal expression into CEL syntax,
// reporting ok=false if the expression references anything beyond literals
// and the logical/comparison operators it understands (i.e. it touches a
// column or function, so constant folding cannot apply). isStringOnly
// reports whether every literal operand was a quoted string (spec Open
// Question 2's severity split).
func toCelBoolExpr(sql string, d tokenizer.SqlDialect) (expr string, isStringOnly bool, ok bool) {
	tz := tokenizer.NewSqlTokenizer(sql, d)
	tokens, err := tz.AllTokens()
	if err != nil {
		return "", false, false
	}

	var b strings.Builder
	sawLiteral := false
	stringOnly := true
	for _, t := range tokens {
		switch t.Type {
		case tokenizer.WHITESPACE:
			b.WriteByte(' ')
		case tokenizer.STRING:
			b.WriteString(strconv.Quote(unquoteSQLString(t.Value)))
			sawLiteral = true
		case tokenizer.NUMBER:
			b.WriteString(t.Value)
			sawLiteral = true
			stringOnly = false
		case tokenizer.BOOLEAN:
			b.WriteString(strings.ToLower(t.Value))
			sawLiteral = true
			stringOnly = false
		case tokenizer.EQUAL:
			b.WriteString("==")
		case tokenizer.NOT_EQUAL:
			b.WriteString("!=")
		case tokenizer.LESS_THAN, tokenizer.GREATER_THAN, tokenizer.LESS_EQUAL, tokenizer.GREATER_EQUAL:
			b.WriteString(t.Value)
		case tokenizer.OPENED_PARENS:
			b.WriteString("(")
		case tokenizer.CLOSED_PARENS:
			b.WriteString(")")
		case tokenizer.RESERVED_IDENTIFIER:
			switch strings.ToUpper(t.Value) {
			case "AND":
				b.WriteString("&&")
			case "OR":
				b.WriteString("||")
			case "NOT":
				b.WriteString("!")
			case "TRUE":
				b.WriteString("true")
				sawLiteral = true
				stringOnly = false
			case "FALSE":
				b.WriteString("false")
				sawLiteral = true
				stringOnly = false
			default:
				return "", false, false
			}
		case tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		default:
			return "", false, false
		}
	}
	if !sawLiteral {
		return "", false, false
	}
	return b.String(), stringOnly, true
}

func unquoteSQLString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	return strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
}

// PreventDDL emits Unsafe for DDL statement kinds unless their leading
// keyword appears in Allow.
type PreventDDL struct {
	Allow map[string]bool
}

func (PreventDDL) Name() string { return "PreventDDL" }

func (p PreventDDL) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	if node.Kind() != sqlspec.KindDDL {
		return procctx.Skip("not a DDL statement"), nil
	}
	keyword := leadingKeyword(node)
	if p.Allow[strings.ToUpper(keyword)] {
		return procctx.Skip("DDL keyword " + keyword + " is allow-listed"), nil
	}
	ctx.Validation.Add(issuef("PreventDDL", "DdlBlocked", sqlspec.RiskCritical,
		"%s DDL statement is not permitted", keyword))
	return procctx.Ok, nil
}

func leadingKeyword(node *ast.AstNode) string {
	for _, t := range node.Tokens() {
		if t.Type == tokenizer.RESERVED_IDENTIFIER {
			return strings.ToUpper(t.Value)
		}
		switch t.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		default:
			return ""
		}
	}
	return ""
}

// RiskyDML emits Warning (or Unsafe in strict mode, via the pipeline's own
// strict-mode escalation over the accumulated verdict) for UPDATE/DELETE
// without WHERE. The WHERE predicate itself is not examined, so a
// tautological predicate is not flagged here.
type RiskyDML struct{}

func (RiskyDML) Name() string { return "RiskyDML" }

func (RiskyDML) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	if node.Kind() != sqlspec.KindUpdate && node.Kind() != sqlspec.KindDelete {
		return procctx.Skip("not an UPDATE/DELETE statement"), nil
	}
	if !clauseKeywordPresent(node, "WHERE") {
		ctx.Validation.Add(issuef("RiskyDML", "MissingWhere", sqlspec.RiskMedium,
			"%s statement has no WHERE clause", node.Kind()))
		return procctx.Ok, nil
	}
	return procctx.Skip("WHERE clause present"), nil
}

// SuspiciousKeywords flags references to file I/O, system functions, and
// information-schema probing; the keyword list is dialect-configurable since
// each engine names these differently (LOAD_FILE/INTO OUTFILE for MySQL,
// pg_read_file for Postgres, xp_cmdshell for MSSQL, ...).
type SuspiciousKeywords struct {
	Keywords []string
}

// DefaultSuspiciousKeywords is a reasonable cross-dialect starter set.
func DefaultSuspiciousKeywords() []string {
	return []string{
		"LOAD_FILE", "INTO OUTFILE", "INTO DUMPFILE", "PG_READ_FILE", "PG_LS_DIR",
		"XP_CMDSHELL", "SYS.DATABASE_PRINCIPALS", "INFORMATION_SCHEMA",
		"UTL_FILE", "DBMS_LOB",
	}
}

func (SuspiciousKeywords) Name() string { return "SuspiciousKeywords" }

func (s SuspiciousKeywords) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	keywords := s.Keywords
	if len(keywords) == 0 {
		keywords = DefaultSuspiciousKeywords()
	}
	upperSQL := strings.ToUpper(ctx.CurrentAST.RawSQL())
	found := false
	for _, kw := range keywords {
		if strings.Contains(upperSQL, kw) {
			ctx.Validation.Add(issuef("SuspiciousKeywords", "SuspiciousKeyword", sqlspec.RiskHigh,
				"statement references suspicious keyword %q", kw))
			found = true
		}
	}
	if !found {
		return procctx.Skip("no suspicious keywords found"), nil
	}
	return procctx.Ok, nil
}

// ExcessiveJoins emits Warning at Threshold joins, Unsafe-grade risk above
// HardCeiling.
type ExcessiveJoins struct {
	Threshold   int
	HardCeiling int
}

func DefaultExcessiveJoins() ExcessiveJoins {
	return ExcessiveJoins{Threshold: 4, HardCeiling: 8}
}

func (ExcessiveJoins) Name() string { return "ExcessiveJoins" }

func (e ExcessiveJoins) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	threshold, ceiling := e.Threshold, e.HardCeiling
	if threshold == 0 && ceiling == 0 {
		d := DefaultExcessiveJoins()
		threshold, ceiling = d.Threshold, d.HardCeiling
	}
	count := len(ast.Joins(ctx.CurrentAST))
	switch {
	case count > ceiling:
		ctx.Validation.Add(issuef("ExcessiveJoins", "ExcessiveJoins", sqlspec.RiskHigh,
			"%d joins exceeds the hard ceiling of %d", count, ceiling))
	case count >= threshold:
		ctx.Validation.Add(issuef("ExcessiveJoins", "ExcessiveJoins", sqlspec.RiskLow,
			"%d joins meets or exceeds the warning threshold of %d", count, threshold))
	default:
		return procctx.Skip("join count below warning threshold"), nil
	}
	return procctx.Ok, nil
}

// CartesianProductDetector emits Warning when two or more tables appear in
// FROM without any predicate linking them, or an explicit CROSS JOIN above
// CrossJoinSizeThreshold estimated rows (approximated here by table count,
// since the core has no statistics catalog).
type CartesianProductDetector struct {
	CrossJoinSizeThreshold int
}

func (CartesianProductDetector) Name() string { return "CartesianProductDetector" }

func (c CartesianProductDetector) Validate(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	tables := ast.Tables(node)
	joins := ast.Joins(node)

	for _, j := range joins {
		if j.Kind == "CROSS" && len(tables)+len(joins) > c.CrossJoinSizeThreshold {
			ctx.Validation.Add(issuef("CartesianProductDetector", "CartesianProduct", sqlspec.RiskMedium,
				"explicit CROSS JOIN against %q", j.Table.Name))
			return procctx.Ok, nil
		}
	}

	if len(tables) < 2 {
		return procctx.Skip("fewer than two comma-joined tables in FROM"), nil
	}

	linked := tablesLinkedByWhere(tables, ast.WhereConditions(node), node.Dialect())
	if linked {
		return procctx.Skip("WHERE clause links the comma-joined tables"), nil
	}
	ctx.Validation.Add(issuef("CartesianProductDetector", "CartesianProduct", sqlspec.RiskMedium,
		"%d tables in FROM with no linking predicate", len(tables)))
	return procctx.Ok, nil
}

// tablesLinkedByWhere reports whether any WHERE conjunct references at
// least two distinct table/alias names drawn from tables.
func tablesLinkedByWhere(tables []ast.TableRef, conds []string, d tokenizer.SqlDialect) bool {
	names := make(map[string]bool, len(tables)*2)
	for _, t := range tables {
		names[strings.ToUpper(t.Name)] = true
		if t.Alias != "" {
			names[strings.ToUpper(t.Alias)] = true
		}
	}
	for _, cond := range conds {
		seen := map[string]bool{}
		tz := tokenizer.NewSqlTokenizer(cond, d)
		tokens, err := tz.AllTokens()
		if err != nil {
			continue
		}
		for i, t := range tokens {
			if t.Type != tokenizer.IDENTIFIER || !names[strings.ToUpper(t.Value)] {
				continue
			}
			if i+1 < len(tokens) && tokens[i+1].Type == tokenizer.DOT {
				seen[strings.ToUpper(t.Value)] = true
			}
		}
		if len(seen) >= 2 {
			return true
		}
	}
	return false
}
