package processor

import (
	"strings"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// aggregateFunctionNames is the set recognized when computing
// AnalysisRecord.AggregateFunctions (spec §3/§4.3).
var aggregateFunctionNames = map[string]bool{
	"SUM": true, "COUNT": true, "AVG": true, "MIN": true, "MAX": true,
	"ARRAY_AGG": true, "STRING_AGG": true, "GROUP_CONCAT": true,
}

// StatementAnalyzer is the single designated analyzer populating every
// field of sqlspec.AnalysisRecord from the final, post-transform AST (spec
// §4.3). It is deterministic: no randomness, no timestamps, same input
// always yields the same record (spec §8 invariant 1).
type StatementAnalyzer struct{}

func (StatementAnalyzer) Name() string { return "StatementAnalyzer" }

func (StatementAnalyzer) Analyze(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.Analysis != nil {
		return procctx.Skip("analysis already populated by a prior analyzer"), nil
	}
	ctx.Analysis = analyze(ctx.CurrentAST)
	return procctx.Ok, nil
}

func analyze(node *ast.AstNode) *sqlspec.AnalysisRecord {
	tables := ast.Tables(node)
	joins := ast.Joins(node)

	tableNames := make([]string, 0, len(tables))
	for _, t := range tables {
		tableNames = append(tableNames, t.Name)
	}
	for _, j := range joins {
		tableNames = append(tableNames, j.Table.Name)
	}

	joinKinds := make(map[string]uint32, len(joins))
	for _, j := range joins {
		kind := j.Kind
		if kind == "" {
			kind = "INNER"
		}
		joinKinds[kind]++
	}

	subqueries := ast.Subqueries(node)
	correlated := countCorrelatedSubqueries(node, subqueries)
	maxDepth := ast.MaxSubqueryDepth(node)

	funcCount, aggCount := countFunctions(node.Tokens())

	record := &sqlspec.AnalysisRecord{
		StatementKind:        node.Kind(),
		Tables:               dedupe(tableNames),
		Columns:              qualifiedColumns(node),
		JoinCount:            len(joins),
		JoinKinds:            joinKinds,
		SubqueryCount:        countAllSubqueries(subqueries),
		MaxSubqueryDepth:      maxDepth,
		CorrelatedSubqueries: correlated,
		FunctionCount:        funcCount,
		AggregateFunctions:   aggCount,
		HasReturning:         clauseKeywordPresent(node, "RETURNING"),
		CartesianRisk:        len(tables) >= 2 && !tablesLinkedByWhere(tables, ast.WhereConditions(node), node.Dialect()),
	}
	record.ComplexityScore = sqlspec.ComputeComplexityScore(
		record.JoinCount, record.SubqueryCount, record.AggregateFunctions,
		record.CorrelatedSubqueries, record.FunctionCount, record.MaxSubqueryDepth,
	)
	return record
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func countAllSubqueries(subs []*ast.AstNode) int {
	count := len(subs)
	for _, s := range subs {
		count += countAllSubqueries(ast.Subqueries(s))
	}
	return count
}

// countCorrelatedSubqueries reports how many of node's direct subqueries
// reference a table/alias from the parent's own FROM clause — the
// structural signature of correlation, since the subquery's own FROM list
// would otherwise be self-sufficient.
func countCorrelatedSubqueries(parent *ast.AstNode, subs []*ast.AstNode) int {
	parentTables := ast.Tables(parent)
	parentJoins := ast.Joins(parent)
	names := make(map[string]bool, len(parentTables)+len(parentJoins))
	for _, t := range parentTables {
		names[strings.ToUpper(t.Name)] = true
		if t.Alias != "" {
			names[strings.ToUpper(t.Alias)] = true
		}
	}
	for _, j := range parentJoins {
		names[strings.ToUpper(j.Table.Name)] = true
		if j.Table.Alias != "" {
			names[strings.ToUpper(j.Table.Alias)] = true
		}
	}

	count := 0
	for _, sub := range subs {
		ownTables := ast.Tables(sub)
		own := make(map[string]bool, len(ownTables))
		for _, t := range ownTables {
			own[strings.ToUpper(t.Name)] = true
			if t.Alias != "" {
				own[strings.ToUpper(t.Alias)] = true
			}
		}
		if referencesOuterName(sub.Tokens(), names, own) {
			count++
		}
	}
	return count
}

func referencesOuterName(tokens []tokenizer.Token, outer, own map[string]bool) bool {
	for i, t := range tokens {
		if t.Type != tokenizer.IDENTIFIER {
			continue
		}
		if i+1 >= len(tokens) || tokens[i+1].Type != tokenizer.DOT {
			continue
		}
		name := strings.ToUpper(t.Value)
		if outer[name] && !own[name] {
			return true
		}
	}
	return false
}

// countFunctions scans for IDENTIFIER tokens immediately followed (ignoring
// whitespace/comments) by an opening parenthesis — the structural signature
// of a function call, since the facade does not build a full call-expression
// node. aggregate counts the subset drawn from aggregateFunctionNames.
func countFunctions(tokens []tokenizer.Token) (functions, aggregates int) {
	for i, t := range tokens {
		if t.Type != tokenizer.IDENTIFIER {
			continue
		}
		j := skipSpace(tokens, i+1)
		if j >= len(tokens) || tokens[j].Type != tokenizer.OPENED_PARENS {
			continue
		}
		functions++
		if aggregateFunctionNames[strings.ToUpper(t.Value)] {
			aggregates++
		}
	}
	return functions, aggregates
}

// qualifiedColumns scans for IDENTIFIER.IDENTIFIER references across the
// top-level token stream that are not immediately followed by "(" (so
// table.function(...)-shaped dotted calls are excluded).
func qualifiedColumns(node *ast.AstNode) []sqlspec.QualifiedName {
	tokens := node.Tokens()
	var out []sqlspec.QualifiedName
	seen := map[sqlspec.QualifiedName]bool{}
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Type != tokenizer.IDENTIFIER || tokens[i+1].Type != tokenizer.DOT || tokens[i+2].Type != tokenizer.IDENTIFIER {
			continue
		}
		j := skipSpace(tokens, i+3)
		if j < len(tokens) && tokens[j].Type == tokenizer.OPENED_PARENS {
			continue
		}
		qn := sqlspec.QualifiedName{Table: tokens[i].Value, Column: tokens[i+2].Value}
		if seen[qn] {
			continue
		}
		seen[qn] = true
		out = append(out, qn)
	}
	return out
}
