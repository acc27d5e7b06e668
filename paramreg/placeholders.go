package paramreg

import (
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// PlaceholderOccurrence is one placeholder found in source order (spec §4.1
// parse_placeholders).
type PlaceholderOccurrence struct {
	Span  tokenizer.Position
	Kind  tokenizer.PlaceholderKind
	Name  string // set for NamedColon/NamedAt/PyformatNamed
	Index int    // set for NumericDollar/NumericColon (1-based as written)
}

// ParsePlaceholders enumerates every placeholder in sql, in source order.
// String literals, quoted identifiers, and comments are parsed structurally
// by the tokenizer, so placeholder-looking bytes inside them are never
// reported (spec §4.1 edge-case policy).
func ParsePlaceholders(sql string, d dialect.Tag) ([]PlaceholderOccurrence, error) {
	tz := tokenizer.NewSqlTokenizer(sql, d)
	tokens, err := tz.AllTokens()
	if err != nil {
		return nil, err
	}

	var out []PlaceholderOccurrence
	for _, t := range tokens {
		if t.Type != tokenizer.PLACEHOLDER {
			continue
		}
		out = append(out, PlaceholderOccurrence{
			Span:  t.Position,
			Kind:  t.PlaceholderKind,
			Name:  t.PlaceholderName,
			Index: t.PlaceholderIdx,
		})
	}
	return out, nil
}
