package paramreg

import (
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// styleForKind maps a tokenizer.PlaceholderKind to the corresponding
// sqlspec.PlaceholderStyle; the two enums are kept separate because the
// tokenizer is dialect/registry-agnostic while PlaceholderStyle is the
// registry's own target-style vocabulary.
func styleForKind(k tokenizer.PlaceholderKind) (sqlspec.PlaceholderStyle, bool) {
	switch k {
	case tokenizer.PlaceholderQmark:
		return sqlspec.Qmark, true
	case tokenizer.PlaceholderNumericDollar:
		return sqlspec.NumericDollar, true
	case tokenizer.PlaceholderNumericColon:
		return sqlspec.NumericColon, true
	case tokenizer.PlaceholderNamedColon:
		return sqlspec.NamedColon, true
	case tokenizer.PlaceholderNamedAt:
		return sqlspec.NamedAt, true
	case tokenizer.PlaceholderPyformatPositional:
		return sqlspec.PyformatPositional, true
	case tokenizer.PlaceholderPyformatNamed:
		return sqlspec.PyformatNamed, true
	default:
		return 0, false
	}
}

// DetectStyle scans sql (honoring string/identifier quoting and comment
// rules, via the tokenizer) and reports its placeholder style. mixed is true
// when more than one style appears; callers decide whether that's an error
// (spec §4.1 detect_style: "returns Mixed if more than one style appears,
// disallowed unless allow_mixed_styles").
func DetectStyle(sql string, d dialect.Tag) (style sqlspec.PlaceholderStyle, mixed bool, err error) {
	tz := tokenizer.NewSqlTokenizer(sql, d)
	tokens, err := tz.AllTokens()
	if err != nil {
		return 0, false, err
	}

	seen := false
	for _, t := range tokens {
		if t.Type != tokenizer.PLACEHOLDER {
			continue
		}
		s, ok := styleForKind(t.PlaceholderKind)
		if !ok {
			continue
		}
		if !seen {
			style = s
			seen = true
			continue
		}
		if s != style {
			return style, true, nil
		}
	}
	if !seen {
		return sqlspec.Static, false, nil
	}
	return style, false, nil
}

// RequireSingleStyle wraps DetectStyle and turns a mixed result into
// ErrParamStyleMismatch, for config.allow_mixed_styles == false.
func RequireSingleStyle(sql string, d dialect.Tag) (sqlspec.PlaceholderStyle, error) {
	style, mixed, err := DetectStyle(sql, d)
	if err != nil {
		return 0, err
	}
	if mixed {
		return 0, styleMismatchf("more than one placeholder style found in %q", sql)
	}
	return style, nil
}
