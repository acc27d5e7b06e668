package statement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/procctx"
)

// whereConditionFilter implements Statement.Where: ANDs a raw condition onto
// the WHERE clause via ast.AppendWhereCondition. It never deduplicates —
// repeated application ANDs further conditions (spec Open Question 4's
// "Search adds two conditions" rule, generalized to any raw where(...)
// call).
type whereConditionFilter struct {
	condition string
}

func (whereConditionFilter) Name() string    { return "Where" }
func (whereConditionFilter) DedupeKey() string { return "" }

func (f whereConditionFilter) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil {
		return procctx.Skip("no AST to rewrite"), nil
	}
	ctx.CurrentAST = ast.AppendWhereCondition(ctx.CurrentAST, f.condition)
	return procctx.Ok, nil
}

// limitOffsetFilter implements Statement.Limit/LimitOffset, overriding any
// prior instance on repeated application (spec Open Question 4: "double
// application of LimitOffset overrides the first"). It works by re-rendering
// the current AST's canonical SQL text with the clause appended and
// re-parsing, rather than splicing tokens directly, since the AST facade has
// no dedicated LIMIT/OFFSET clause constructor — the facade's clause
// splitter recognizes LIMIT/OFFSET as ordinary clause keywords once they
// appear in source text (ast/parse.go clauseStarters).
type limitOffsetFilter struct {
	limit, offset       int
	hasLimit, hasOffset bool
}

func (limitOffsetFilter) Name() string      { return "LimitOffset" }
func (limitOffsetFilter) DedupeKey() string { return "limit_offset" }

func (f limitOffsetFilter) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil {
		return procctx.Skip("no AST to rewrite"), nil
	}
	var b strings.Builder
	b.WriteString(ctx.CurrentAST.RawSQL())
	if f.hasLimit {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(f.limit))
	}
	if f.hasOffset {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(f.offset))
	}
	node, err := ast.Parse(b.String(), ctx.CurrentAST.Dialect())
	if err != nil {
		return procctx.Outcome{}, fmt.Errorf("sql: apply limit/offset filter: %w", err)
	}
	ctx.CurrentAST = node
	return procctx.Ok, nil
}

// orderByFilter implements Statement.OrderBy, appending to any existing
// ORDER BY key list rather than replacing it (spec Open Question 4's
// "Search/OrderBy append" rule).
type orderByFilter struct {
	clauses []string
}

func (orderByFilter) Name() string      { return "OrderBy" }
func (orderByFilter) DedupeKey() string { return "" }

func (f orderByFilter) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	if ctx.CurrentAST == nil || len(f.clauses) == 0 {
		return procctx.Skip("no AST to rewrite or no clauses given"), nil
	}
	raw := ctx.CurrentAST.RawSQL()
	addition := strings.Join(f.clauses, ", ")

	hasOrderBy := false
	for _, c := range ctx.CurrentAST.Clauses() {
		if c.Keyword == "ORDER BY" || c.Keyword == "ORDER" {
			hasOrderBy = true
			break
		}
	}

	var rewritten string
	if hasOrderBy {
		// Extend the existing key list; LIMIT/OFFSET, if present, always
		// follows ORDER BY in valid SQL, so splicing right before that
		// keyword (case-insensitively) keeps the clause order legal.
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
