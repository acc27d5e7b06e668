package ast

import (
	"strings"

	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// Kind reports the statement kind (spec §4.2 kind).
func Kind(a *AstNode) NodeKind { return a.kind }

// Tables returns every table reference found in FROM/INTO/UPDATE position
// across all top-level clauses, in source order. Tables introduced by a JOIN
// are not included; Joins reports them.
func Tables(a *AstNode) []TableRef {
	var refs []TableRef
	for _, c := range a.clauses {
		switch c.Keyword {
		case "FROM", "INTO", "UPDATE":
			refs = append(refs, tableRefsInBody(a.clauseBody(c))...)
		}
	}
	return refs
}

// tableRefsInBody scans the portion of a clause body BEFORE its first JOIN
// keyword for comma-separated "name [AS] alias" groups. Tables introduced by
// a JOIN are reported by Joins instead, so a plain "FROM a JOIN b ON ..."
// yields exactly one TableRef here (a) and one JoinInfo (b).
func tableRefsInBody(tokens []tokenizer.Token) []TableRef {
	tokens = beforeFirstJoin(tokens)

	var refs []TableRef
	i := 0
	depth := 0
	for i < len(tokens) {
		t := tokens[i]
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
			i++
			continue
		case tokenizer.CLOSED_PARENS:
			depth--
			i++
			continue
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT, tokenizer.COMMA:
			i++
			continue
		}
		if depth > 0 {
			i++
			continue
		}
		if t.Type == tokenizer.IDENTIFIER {
			ref := TableRef{Name: t.Value}
			j := i + 1
			j = skipSpace(tokens, j)
			if j < len(tokens) && tokens[j].Type == tokenizer.RESERVED_IDENTIFIER && strings.EqualFold(tokens[j].Value, "AS") {
				j = skipSpace(tokens, j+1)
			}
			if j < len(tokens) && tokens[j].Type == tokenizer.IDENTIFIER {
				ref.Alias = tokens[j].Value
				i = j + 1
			} else {
				i++
			}
			refs = append(refs, ref)
			continue
		}
		i++
	}
	return refs
}

// beforeFirstJoin returns the token prefix up to (excluding) the first
// depth-0 JOIN-introducing keyword.
func beforeFirstJoin(tokens []tokenizer.Token) []tokenizer.Token {
	depth := 0
	for i, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
		case tokenizer.RESERVED_IDENTIFIER:
			if depth == 0 && isJoinLeadIn(t.Value) {
				return tokens[:i]
			}
			if depth == 0 && strings.EqualFold(t.Value, "JOIN") {
				return tokens[:i]
			}
		}
	}
	return tokens
}

func skipSpace(tokens []tokenizer.Token, i int) int {
	for i < len(tokens) {
		switch tokens[i].Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			i++
			continue
		}
		break
	}
	return i
}

// Joins returns every JOIN appearing in FROM clauses, with its ON predicate
// captured as raw source text (structural parsing of the predicate itself is
// left to WhereConditions-style callers if they need it).
func Joins(a *AstNode) []JoinInfo {
	var joins []JoinInfo
	for _, c := range a.clauses {
		if c.Keyword != "FROM" {
			continue
		}
		joins = append(joins, joinsInBody(a.clauseBody(c))...)
	}
	return joins
}

func joinsInBody(tokens []tokenizer.Token) []JoinInfo {
	var joins []JoinInfo
	depth := 0
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].Type {
		case tokenizer.OPENED_PARENS:
			depth++
			continue
		case tokenizer.CLOSED_PARENS:
			depth--
			continue
		}
		if depth > 0 || tokens[i].Type != tokenizer.RESERVED_IDENTIFIER {
			continue
		}
		word := strings.ToUpper(tokens[i].Value)
		if word != "JOIN" {
			continue
		}
		kind := ""
		if i > 0 {
			for j := i - 1; j >= 0; j-- {
				if tokens[j].Type == tokenizer.WHITESPACE {
					continue
				}
				if tokens[j].Type == tokenizer.RESERVED_IDENTIFIER {
					switch strings.ToUpper(tokens[j].Value) {
					case "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL":
						kind = strings.ToUpper(tokens[j].Value)
					}
				}
				break
			}
		}
		j := skipSpace(tokens, i+1)
		var table TableRef
		if j < len(tokens) && tokens[j].Type == tokenizer.IDENTIFIER {
			table.Name = tokens[j].Value
			j = skipSpace(tokens, j+1)
			if j < len(tokens) && tokens[j].Type == tokenizer.IDENTIFIER {
				table.Alias = tokens[j].Value
				j++
			}
		}
		onText := ""
		for ; j < len(tokens); j++ {
			if tokens[j].Type == tokenizer.RESERVED_IDENTIFIER && strings.EqualFold(tokens[j].Value, "ON") {
				var b strings.Builder
				k := j + 1
				for k < len(tokens) {
					if tokens[k].Type == tokenizer.RESERVED_IDENTIFIER && (strings.EqualFold(tokens[k].Value, "JOIN") || isJoinLeadIn(tokens[k].Value)) {
						break
					}
					b.WriteString(tokens[k].Value)
					k++
				}
				onText = strings.TrimSpace(b.String())
				break
			}
		}
		joins = append(joins, JoinInfo{Kind: kind, Table: table, On: onText})
	}
	return joins
}

func isJoinLeadIn(v string) bool {
	switch strings.ToUpper(v) {
	case "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL":
		return true
	default:
		return false
	}
}

// Subqueries returns the directly nested subqueries found anywhere in the
// statement (parenthesized SELECTs). Nested subqueries-of-subqueries are
// reachable via each returned node's own Subqueries call.
func Subqueries(a *AstNode) []*AstNode { return a.subqueries }

// MaxSubqueryDepth returns the deepest subquery nesting level, where a
// statement with no subqueries has depth 0.
func MaxSubqueryDepth(a *AstNode) int {
	best := 0
	for _, s := range a.subqueries {
		d := 1 + MaxSubqueryDepth(s)
		if d > best {
			best = d
		}
	}
	return best
}

// Literals returns every scalar literal token in the statement's token
// stream, including literals inside parenthesized subqueries.
func Literals(a *AstNode) []Literal {
	var out []Literal
	for i, t := range a.tokens {
		if v, ok := literalValue(t); ok {
			out = append(out, Literal{Value: v, TokenIndex: i, Position: t.Position})
		}
	}
	return out
}

// WhereConditions splits the WHERE clause body into its top-level AND/OR
// conjuncts/disjuncts (depth-aware: parenthesized sub-expressions are kept
// whole), returned as trimmed source text fragments.
func WhereConditions(a *AstNode) []string {
	for _, c := range a.clauses {
		if c.Keyword != "WHERE" {
			continue
		}
		return splitOnLogicalOperators(a.clauseBody(c))
	}
	return nil
}

func splitOnLogicalOperators(tokens []tokenizer.Token) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
		}
		if depth == 0 && t.Type == tokenizer.RESERVED_IDENTIFIER &&
			(strings.EqualFold(t.Value, "AND") || strings.EqualFold(t.Value, "OR")) {
			flush()
			continue
		}
		cur.WriteString(t.Value)
	}
	flush()
	return out
}
