package ast

import (
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// ReplaceLiteralWithPlaceholder returns a copy of a with the literal token at
// tokenIndex replaced by a placeholder token of the given kind/name/index
// (spec §3 AstNode "rewrite API: replace literal by placeholder"), used by
// the ParameterizeLiterals transformer. The clause table is left untouched:
// a placeholder occupies exactly one token slot, same as the literal it
// replaces, so clause boundaries never shift.
func ReplaceLiteralWithPlaceholder(a *AstNode, tokenIndex int, kind tokenizer.PlaceholderKind, name string, idx int) *AstNode {
	out := a.clone()
	old := out.tokens[tokenIndex]
	value := "?"
	switch kind {
	case tokenizer.PlaceholderNumericDollar:
		value = "$" + itoa(idx)
	case tokenizer.PlaceholderNumericColon:
		value = ":" + itoa(idx)
	case tokenizer.PlaceholderNamedColon:
		value = ":" + name
	case tokenizer.PlaceholderNamedAt:
		value = "@" + name
	case tokenizer.PlaceholderPyformatPositional:
		value = "%s"
	case tokenizer.PlaceholderPyformatNamed:
		value = "%(" + name + ")s"
	}
	out.tokens[tokenIndex] = tokenizer.Token{
		Type:            tokenizer.PLACEHOLDER,
		Value:           value,
		Position:        old.Position,
		PlaceholderKind: kind,
		PlaceholderName: name,
		PlaceholderIdx:  idx,
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// RemoveComments returns a copy of a with every LINE_COMMENT/BLOCK_COMMENT
// token dropped, used by the CommentRemover transformer. Clause boundaries
// are recomputed afterward since token indices shift.
func RemoveComments(a *AstNode) *AstNode {
	filtered := make([]tokenizer.Token, 0, len(a.tokens))
	for _, t := range a.tokens {
		if t.Type == tokenizer.LINE_COMMENT || t.Type == tokenizer.BLOCK_COMMENT {
			continue
		}
		filtered = append(filtered, t)
	}
	return rebuild(a, filtered)
}

// AttachLeadingComment prepends a block comment token (e.g. a tracing
// comment) to a's token stream, used by the TracingComment transformer.
func AttachLeadingComment(a *AstNode, text string) *AstNode {
	comment := tokenizer.Token{Type: tokenizer.BLOCK_COMMENT, Value: "/*" + text + "*/"}
	space := tokenizer.Token{Type: tokenizer.WHITESPACE, Value: " "}
	out := make([]tokenizer.Token, 0, len(a.tokens)+2)
	out = append(out, comment, space)
	out = append(out, a.tokens...)
	return rebuild(a, out)
}

// AppendWhereCondition splices an additional predicate onto the statement's
// WHERE clause (ANDed onto any existing predicate), adding a WHERE clause if
// none exists. Used by the filter behind statement.Statement.Where.
func AppendWhereCondition(a *AstNode, conditionSQL string) *AstNode {
	extra := []tokenizer.Token{
		{Type: tokenizer.WHITESPACE, Value: " "},
		{Type: tokenizer.OPENED_PARENS, Value: "("},
		{Type: tokenizer.OTHER, Value: conditionSQL},
		{Type: tokenizer.CLOSED_PARENS, Value: ")"},
	}

	for _, c := range a.clauses {
		if c.Keyword != "WHERE" {
			continue
		}
		out := make([]tokenizer.Token, 0, len(a.tokens)+len(extra)+3)
		out = append(out, a.tokens[:c.BodyEnd+1]...)
		out = append(out, tokenizer.Token{Type: tokenizer.WHITESPACE, Value: " "})
		out = append(out, tokenizer.Token{Type: tokenizer.RESERVED_IDENTIFIER, Value: "AND"})
		out = append(out, extra...)
		out = append(out, a.tokens[c.BodyEnd+1:]...)
		return rebuild(a, out)
	}

	// No existing WHERE clause: insert one right after the FROM clause (or,
	// failing that, append at the end — still syntactically attachable for
	// the simple single-table statements the filter facade targets).
	insertAt := len(a.tokens)
	for _, c := range a.clauses {
		if c.Keyword == "FROM" {
			insertAt = c.BodyEnd + 1
		}
	}
	out := make([]tokenizer.Token, 0, len(a.tokens)+len(extra)+3)
	out = append(out, a.tokens[:insertAt]...)
	out = append(out, tokenizer.Token{Type: tokenizer.WHITESPACE, Value: " "})
	out = append(out, tokenizer.Token{Type: tokenizer.RESERVED_IDENTIFIER, Value: "WHERE"})
	out = append(out, extra...)
	out = append(out, a.tokens[insertAt:]...)
	return rebuild(a, out)
}

// rebuild produces a new AstNode from a rewritten token stream, recomputing
// clause boundaries (token indices shift after insertion/removal).
func rebuild(a *AstNode, tokens []tokenizer.Token) *AstNode {
	clauses, _, err := splitClauses(tokens, a.dialect)
	if err != nil {
		clauses = nil
	}
	return &AstNode{
		kind:       a.kind,
		dialect:    a.dialect,
		raw:        tokensToSource(tokens),
		tokens:     tokens,
		clauses:    clauses,
		subqueries: a.subqueries,
	}
}
