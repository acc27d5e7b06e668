package ast

import (
	"fmt"
	"strings"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// ValueLookup resolves a placeholder (by name, or by its 1-based positional
// index when name is empty) to a bound Value, for Static rendering. It is
// only consulted when style == sqlspec.Static.
type ValueLookup func(name string, index int) (sqlvalue.Value, bool)

// Render emits a's tokens as SQL text targeting dialect d in placeholder
// style style (spec §4.2 render). A placeholder that carries an explicit
// index ($N, :N) keeps that index; any other placeholder is numbered by its
// 1-based left-to-right position. paramreg.Render, RenderAST and
// RenderFromBag call this directly.
func Render(a *AstNode, d dialect.Tag, style sqlspec.PlaceholderStyle, lookup ValueLookup) (string, error) {
	var b strings.Builder
	positional := 0
	for _, t := range a.tokens {
		if t.Type != tokenizer.PLACEHOLDER {
			b.WriteString(t.Value)
			continue
		}
		positional++
		name := t.PlaceholderName
		idx := t.PlaceholderIdx
		if idx == 0 {
			idx = positional
		}
		rendered, err := renderPlaceholder(d, style, name, idx, lookup)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func renderPlaceholder(d dialect.Tag, style sqlspec.PlaceholderStyle, name string, idx int, lookup ValueLookup) (string, error) {
	switch style {
	case sqlspec.Qmark:
		return "?", nil
	case sqlspec.NumericDollar:
		return fmt.Sprintf("$%d", idx), nil
	case sqlspec.NumericColon:
		return fmt.Sprintf(":%d", idx), nil
	case sqlspec.NamedColon:
		return ":" + effectiveName(name, idx), nil
	case sqlspec.NamedAt:
		return "@" + effectiveName(name, idx), nil
	case sqlspec.PyformatPositional:
		return "%s", nil
	case sqlspec.PyformatNamed:
		return "%(" + effectiveName(name, idx) + ")s", nil
	case sqlspec.Static:
		if lookup == nil {
			return "", newParseError(tokenizer.Position{}, "static rendering requires a value lookup")
		}
		v, ok := lookup(name, idx)
		if !ok {
			return "", newParseError(tokenizer.Position{}, fmt.Sprintf("no bound value for placeholder %q/%d", name, idx))
		}
		return dialect.QuoteLiteral(d, v), nil
	default:
		return "", newParseError(tokenizer.Position{}, "unknown placeholder style")
	}
}

func effectiveName(name string, idx int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("param%d", idx)
}
