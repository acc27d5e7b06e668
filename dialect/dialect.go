// Package dialect defines the DialectTag enum shared by the tokenizer, the
// AST facade, and the parameter registry's rendering step, plus the
// per-dialect feature/quoting rules snapsql's capabilities.go modeled
// for template codegen and which this pipeline needs for safe literal
// inlining (Static placeholder style) and cross-dialect render support.
package dialect

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

// Tag is the closed set of dialects the core understands (spec §3).
type Tag string

const (
	Postgres Tag = "postgres"
	MySQL    Tag = "mysql"
	SQLite   Tag = "sqlite"
	Oracle   Tag = "oracle"
	BigQuery Tag = "bigquery"
	DuckDB   Tag = "duckdb"
	Spanner  Tag = "spanner"
	MSSQL    Tag = "mssql"
	Generic  Tag = "generic"
)

// Feature flags a dialect-specific SQL capability (grounded on
// snapsql's capabilities.go Feature/Capabilities map, generalized beyond
// string concatenation to the features this pipeline's validators and
// renderer need to know about).
type Feature int

const (
	FeatureReturning Feature = iota + 1
	FeatureIlike
	FeatureIdentifierQuoteDouble // identifiers quoted with "
	FeatureIdentifierQuoteBacktick
	FeatureCrossJoin
)

// capabilities mirrors snapsql's Capabilities map shape, extended to the
// features this core cares about.
var capabilities = map[Tag]map[Feature]bool{
	Postgres: {FeatureReturning: true, FeatureIlike: true, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
	MySQL:    {FeatureReturning: false, FeatureIlike: false, FeatureIdentifierQuoteBacktick: true, FeatureCrossJoin: true},
	SQLite:   {FeatureReturning: true, FeatureIlike: false, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
	Oracle:   {FeatureReturning: true, FeatureIlike: false, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
	BigQuery: {FeatureReturning: false, FeatureIlike: false, FeatureIdentifierQuoteBacktick: true, FeatureCrossJoin: true},
	DuckDB:   {FeatureReturning: true, FeatureIlike: true, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
	Spanner:  {FeatureReturning: false, FeatureIlike: false, FeatureIdentifierQuoteBacktick: true, FeatureCrossJoin: true},
	MSSQL:    {FeatureReturning: false, FeatureIlike: false, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
	Generic:  {FeatureReturning: false, FeatureIlike: false, FeatureIdentifierQuoteDouble: true, FeatureCrossJoin: true},
}

// Supports reports whether a dialect has a given feature.
func Supports(d Tag, f Feature) bool {
	return capabilities[d][f]
}

// unsupportedRenderPairs documents the dialect pairs for which
// render(parse(S,A),B) is not guaranteed to round-trip (spec Open Question 3).
// Currently empty: every pair the AST facade supports round-trips because it
// only rewrites placeholders/literals/comments, never dialect-specific DDL.
// Kept as a named set (not a bare bool) so an unsupported pair can be added
// with a one-line reason when the AST facade's fidelity is later found to
// diverge for a specific pair.
var unsupportedRenderPairs = map[[2]Tag]string{}

// RoundTripSupported reports whether rendering from `from` to `to` is
// documented as safe; if not, callers should return
// sqlspec.ErrUnsupportedDialectPair rather than silently emit lossy SQL.
func RoundTripSupported(from, to Tag) (bool, string) {
	if reason, blocked := unsupportedRenderPairs[[2]Tag{from, to}]; blocked {
		return false, reason
	}
	return true, ""
}

// QuoteIdentifier quotes a raw identifier per dialect convention.
func QuoteIdentifier(d Tag, name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	if Supports(d, FeatureIdentifierQuoteBacktick) {
		escaped = strings.ReplaceAll(name, "`", "``")
		return "`" + escaped + "`"
	}
	return `"` + escaped + `"`
}

// QuoteLiteral renders a Value as a safely-escaped SQL literal, used by the
// Static placeholder style (spec §4.1 render: "For Static, literals are
// inlined via the dialect's safe quoting rules").
func QuoteLiteral(d Tag, v sqlvalue.Value) string {
	switch v.Kind() {
	case sqlvalue.KindNull:
		return "NULL"
	case sqlvalue.KindBool:
		b, _ := v.AsBool()
		if b {
			return "TRUE"
		}
		return "FALSE"
	case sqlvalue.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case sqlvalue.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case sqlvalue.KindDecimal:
		dec, _ := v.AsDecimal()
		return dec.String()
	case sqlvalue.KindString:
		s, _ := v.AsString()
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	case sqlvalue.KindBytes:
		b, _ := v.AsBytes()
		return "X'" + hex.EncodeToString(b) + "'"
	case sqlvalue.KindUuid:
		u, _ := v.AsUuid()
		return "'" + u.String() + "'"
	case sqlvalue.KindJSON:
		j, _ := v.AsJSON()
		return "'" + strings.ReplaceAll(j, "'", "''") + "'"
	default:
		t, _ := v.AsTime()
		return "'" + t.Format("2006-01-02 15:04:05") + "'"
	}
}
