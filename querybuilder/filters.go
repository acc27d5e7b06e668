// Package querybuilder implements the Query Builder / Filter Facade (spec
// §4.7): a fluent AST-fragment builder that emits the same AST shape the
// pipeline consumes from raw SQL, plus the Search/LimitOffset/OrderBy/Custom
// Filter variants spec §3 names. Grounded on snapsql's `query` package
// (query/query.go builds a SELECT/INSERT/etc. skeleton from typed fragments
// before handing it to the code generator) — here the fragments feed the AST
// facade via re-parse instead of a template, since this core's pipeline
// entry point is "a SQL string plus a dialect", same as the builder output.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

// Search implements the `Search(column, value)` Filter variant (spec §3,
// §4.7 worked example 6): ANDs `column ILIKE ?` (or `LIKE` on dialects
// without FeatureIlike) onto the WHERE clause and binds a wildcarded value
// as a new extracted parameter. Search never deduplicates — two Search
// filters AND two separate conditions (spec Open Question 4).
type Search struct {
	Column string
	Value  string
}

func (Search) Name() string      { return "Search" }
func (Search) DedupeKey() string { return "" }

func (f Search) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil {
		return procctx.Skip("no AST to rewrite"), nil
	}
	op := "LIKE"
	if dialect.Supports(ctx.CurrentAST.Dialect(), dialect.FeatureIlike) {
		op = "ILIKE"
	}
	name := paramreg.Allocate(ctx.ExtractedParams, "search")
	if err := ctx.ExtractedParams.Add(paramreg.ParamSlot{
		Name: name, Value: sqlvalue.String("%" + f.Value + "%"), Present: true, Origin: paramreg.OriginFilter,
	}); err != nil {
		return procctx.Outcome{}, err
	}
	condition := fmt.Sprintf("%s %s :%s", f.Column, op, name)

	// The condition is spliced as source text and re-parsed, rather than
	// attached via ast.AppendWhereCondition's opaque-token form, so the
	// :name placeholder it contains is tokenized as a real PLACEHOLDER and
	// participates in style detection/rendering like any other placeholder.
	raw := ctx.CurrentAST.RawSQL()
	hasWhere := false
	for _, c := range ctx.CurrentAST.Clauses() {
		if c.Keyword == "WHERE" {
			hasWhere = true
			break
		}
	}
	insertAt := earliestTrailingClauseOffset(raw)
	keyword := " WHERE ("
	if hasWhere {
		keyword = " AND ("
	}
	rewritten := raw[:insertAt] + keyword + condition + ")" + raw[insertAt:]
	node, err := ast.Parse(rewritten, ctx.CurrentAST.Dialect())
	if err != nil {
		return procctx.Outcome{}, fmt.Errorf("sql: apply search filter: %w", err)
	}
	ctx.CurrentAST = node
	return procctx.Ok, nil
}

// earliestTrailingClauseOffset finds where a WHERE-extending clause must be
// inserted to stay ahead of GROUP BY/HAVING/ORDER BY/LIMIT/OFFSET, whichever
// appears first in raw, or len(raw) if none do.
func earliestTrailingClauseOffset(raw string) int {
	insertAt := len(raw)
	for _, kw := range []string{"GROUP BY", "HAVING", "ORDER BY", "LIMIT", "OFFSET"} {
		if idx := findKeyword(raw, kw); idx >= 0 && idx < insertAt {
			insertAt = idx
		}
	}
	return insertAt
}

// findKeyword returns the byte offset of the first case-insensitive,
// word-boundary match of keyword in s, or -1.
func findKeyword(s, keyword string) int {
	upper := strings.ToUpper(s)
	needle := strings.ToUpper(keyword)
	from := 0
	for {
		idx := strings.Index(upper[from:], needle)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		before := abs == 0 || !isWordByte(upper[abs-1])
		afterIdx := abs + len(needle)
		after := afterIdx >= len(upper) || !isWordByte(upper[afterIdx])
		if before && after {
			return abs
		}
		from = abs + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// LimitOffset implements the `LimitOffset(limit, offset)` Filter variant,
// identical in behavior to statement.Statement.LimitOffset so either entry
// point (s.LimitOffset(...) or s.WithFilter(querybuilder.LimitOffset{...}))
// produces the same dedupe-on-repeat semantics (same DedupeKey).
type LimitOffset struct {
	Limit, Offset       int
	HasLimit, HasOffset bool
}

func (LimitOffset) Name() string      { return "LimitOffset" }
func (LimitOffset) DedupeKey() string { return "limit_offset" }

func (f LimitOffset) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil {
		return procctx.Skip("no AST to rewrite"), nil
	}
	var b strings.Builder
	b.WriteString(ctx.CurrentAST.RawSQL())
	if f.HasLimit {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(f.Limit))
	}
	if f.HasOffset {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(f.Offset))
	}
	node, err := ast.Parse(b.String(), ctx.CurrentAST.Dialect())
	if err != nil {
		return procctx.Outcome{}, fmt.Errorf("sql: apply limit/offset filter: %w", err)
	}
	ctx.CurrentAST = node
	return procctx.Ok, nil
}

// OrderBy implements the `OrderBy(clauses)` Filter variant. Appends to any
// existing ORDER BY key list (Open Question 4's "append" rule).
type OrderBy struct {
	Clauses []string
}

func (OrderBy) Name() string      { return "OrderBy" }
func (OrderBy) DedupeKey() string { return "" }

func (f OrderBy) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil || len(f.Clauses) == 0 {
		return procctx.Skip("no AST to rewrite or no clauses given"), nil
	}
	hasOrderBy := false
	for _, c := range ctx.CurrentAST.Clauses() {
		if c.Keyword == "ORDER BY" || c.Keyword == "ORDER" {
			hasOrderBy = true
			break
		}
	}
	raw := ctx.CurrentAST.RawSQL()
	addition := strings.Join(f.Clauses, ", ")
	var rewritten string
	if hasOrderBy {
		insertAt := len(raw)
		if idx := findKeyword(raw, "LIMIT"); idx >= 0 && idx < insertAt {
			insertAt = idx
		}
		if idx := findKeyword(raw, "OFFSET"); idx >= 0 && idx < insertAt {
			insertAt = idx
		}
		tail := raw[insertAt:]
		sep := ""
		if tail != "" {
			sep = " "
		}
		rewritten = strings.TrimRight(raw[:insertAt], " ") + ", " + addition + sep + tail
	} else {
		rewritten = raw + " ORDER BY " + addition
	}
	node, err := ast.Parse(rewritten, ctx.CurrentAST.Dialect())
	if err != nil {
		return procctx.Outcome{}, fmt.Errorf("sql: apply order by filter: %w", err)
	}
	ctx.CurrentAST = node
	return procctx.Ok, nil
}

// Custom implements the user-extensible `Custom(fn)` Filter variant (spec
// §3), letting a caller splice arbitrary logic into the extras chain without
// a new named type. Fn has the exact procctx.Transformer.Transform shape.
type Custom struct {
	FilterName string
	Fn         func(ctx *procctx.ProcessingContext) (procctx.Outcome, error)
	Key        string // DedupeKey; empty means always append
}

func (c Custom) Name() string {
	if c.FilterName != "" {
		return c.FilterName
	}
	return "Custom"
}

func (c Custom) DedupeKey() string { return c.Key }

func (c Custom) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	return c.Fn(ctx)
}
