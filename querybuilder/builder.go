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
	"github.com/litestar-org/sqlspec-core/statement"
)

// Builder is the fluent AST-fragment constructor (spec §4.7). It operates on
// a private clause-text-in-progress and a private ParamBag, assembling
// Qmark-placeholder SQL text that the AST Facade parses at Build() time —
// grounded on snapsql's query package's fragment-then-assemble shape,
// adapted from "typed fragments fed to a template" to "clause text fed to
// ast.Parse", since this core's AST entry point is always a SQL string.
type Builder struct {
	selectCols []string
	fromTable  string
	joins      []string
	whereConds []string
	groupBy    []string
	having     []string
	orderBy    []string
	limit      *int
	offset     *int

	params  *paramreg.ParamBag
	dialect dialect.Tag
}

// New starts a Builder targeting the given dialect.
func New(d dialect.Tag) *Builder {
	return &Builder{params: paramreg.NewParamBag(), dialect: d}
}

// Select sets the projected columns (spec §4.7 select).
func (b *Builder) Select(cols ...string) *Builder {
	b.selectCols = append(b.selectCols, cols...)
	return b
}

// From sets the source table (spec §4.7 from_).
func (b *Builder) From(table string) *Builder {
	b.fromTable = table
	return b
}

// Join appends a JOIN clause (spec §4.7 join).
func (b *Builder) Join(kind, table, on string) *Builder {
	kw := strings.TrimSpace(strings.ToUpper(kind))
	if kw == "" {
		kw = "INNER"
	}
	b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", kw, table, on))
	return b
}

// WhereEq ANDs `col = ?` and binds val (spec §4.7 where_eq).
func (b *Builder) WhereEq(col string, val sqlvalue.Value) *Builder {
	b.bindPositional(val)
	b.whereConds = append(b.whereConds, col+" = ?")
	return b
}

// WhereIn ANDs `col IN (?, ?, ...)`, allocating one placeholder per element
// (spec §4.7 "where_in(col, xs) allocates one placeholder per element").
func (b *Builder) WhereIn(col string, vals []sqlvalue.Value) *Builder {
	if len(vals) == 0 {
		b.whereConds = append(b.whereConds, "1=0")
		return b
	}
	marks := make([]string, len(vals))
	for i, v := range vals {
		b.bindPositional(v)
		marks[i] = "?"
	}
	b.whereConds = append(b.whereConds, col+" IN ("+strings.Join(marks, ", ")+")")
	return b
}

// WhereBetween ANDs `col BETWEEN ? AND ?` (spec §4.7 where_between).
func (b *Builder) WhereBetween(col string, lo, hi sqlvalue.Value) *Builder {
	b.bindPositional(lo)
	b.bindPositional(hi)
	b.whereConds = append(b.whereConds, col+" BETWEEN ? AND ?")
	return b
}

// WhereExists ANDs `EXISTS (subquery)`, merging the subquery's parameter
// registry into the parent's (spec §4.7 where_exists / "subqueries merge
// their parameter registries into the parent"). Since this builder only
// ever allocates positional (unnamed) placeholders, merging is a plain
// append — parent slots keep their position, subquery slots are renumbered
// to continue the sequence, so no name can collide.
func (b *Builder) WhereExists(sub *Builder) *Builder {
	subSQL, err := sub.assembleSelect()
	if err != nil {
		subSQL = ""
	}
	for _, slot := range sub.params.Slots() {
		_ = b.params.Add(paramreg.ParamSlot{Value: slot.Value, Present: slot.Present, Origin: slot.Origin})
	}
	b.whereConds = append(b.whereConds, "EXISTS ("+subSQL+")")
	return b
}

// GroupBy sets the GROUP BY columns (spec §4.7 group_by).
func (b *Builder) GroupBy(cols ...string) *Builder {
	b.groupBy = append(b.groupBy, cols...)
	return b
}

// Having ANDs an aggregate-filter predicate (spec §4.7 having).
func (b *Builder) Having(cond string) *Builder {
	b.having = append(b.having, cond)
	return b
}

// OrderBy sets the ORDER BY key list (spec §4.7 order_by).
func (b *Builder) OrderBy(clauses ...string) *Builder {
	b.orderBy = append(b.orderBy, clauses...)
	return b
}

// Limit sets the LIMIT count (spec §4.7 limit).
func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// Offset sets the OFFSET count (spec §4.7 offset).
func (b *Builder) Offset(n int) *Builder {
	b.offset = &n
	return b
}

func (b *Builder) bindPositional(v sqlvalue.Value) {
	_ = b.params.Add(paramreg.ParamSlot{Value: v, Present: true, Origin: paramreg.OriginUser})
}

// assembleSelect renders the builder's accumulated clauses into one SELECT
// statement's source text.
func (b *Builder) assembleSelect() (string, error) {
	if b.fromTable == "" {
		return "", fmt.Errorf("sql: builder has no from_ table set")
	}
	cols := "*"
	if len(b.selectCols) > 0 {
		cols = strings.Join(b.selectCols, ", ")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, b.fromTable)
	for _, j := range b.joins {
		sb.WriteString(" " + j)
	}
	if len(b.whereConds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(b.whereConds, " AND "))
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(b.groupBy, ", "))
	}
	if len(b.having) > 0 {
		sb.WriteString(" HAVING " + strings.Join(b.having, " AND "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit != nil {
		sb.WriteString(" LIMIT " + strconv.Itoa(*b.limit))
	}
	if b.offset != nil {
		sb.WriteString(" OFFSET " + strconv.Itoa(*b.offset))
	}
	return sb.String(), nil
}

// Build materializes a Statement whose ast_seed is the constructed AST and
// whose initial_parameters is the accumulated bag (spec §4.7 build()).
// input_had_placeholders is always true for builder-originated statements.
func (b *Builder) Build(cfg procctx.StatementConfig) (*statement.Statement, error) {
	sql, err := b.assembleSelect()
	if err != nil {
		return nil, err
	}
	node, err := ast.Parse(sql, b.dialect)
	if err != nil {
		return nil, fmt.Errorf("sql: builder assembled unparsable SQL: %w", err)
	}
	return statement.FromAST(node, b.params, cfg, b.dialect), nil
}
