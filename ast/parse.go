package ast

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// clauseKeyword matches a single reserved-identifier token whose text is one
// of the given words, in the same PrimitiveType style snapsql's
// parsercommon package uses to wrap a tok.TokenType in a pc.Parser. Word
// comparison (rather than a dedicated TokenType per keyword) is what lets one
// shared RESERVED_IDENTIFIER tagging serve both this facade and the plain
// keyword lookups the validators need later.
func clauseKeyword(words ...string) pc.Parser[tokenizer.Token] {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = true
	}
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []pc.Token[tokenizer.Token]) (int, []pc.Token[tokenizer.Token], error) {
		if len(tokens) == 0 {
			return 0, nil, pc.ErrNotMatch
		}
		t := tokens[0].Val
		if t.Type == tokenizer.RESERVED_IDENTIFIER && set[strings.ToUpper(t.Value)] {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

var (
	selectStart = clauseKeyword("SELECT")
	fromStart   = clauseKeyword("FROM")
	whereStart  = clauseKeyword("WHERE")
	groupStart  = clauseKeyword("GROUP")
	havingStart = clauseKeyword("HAVING")
	orderStart  = clauseKeyword("ORDER")
	limitStart  = clauseKeyword("LIMIT")
	offsetStart = clauseKeyword("OFFSET")
	insertStart = clauseKeyword("INSERT")
	valuesStart = clauseKeyword("VALUES")
	updateStart = clauseKeyword("UPDATE")
	setStart    = clauseKeyword("SET")
	deleteStart = clauseKeyword("DELETE")
	mergeStart  = clauseKeyword("MERGE")
	intoStart   = clauseKeyword("INTO")
	returnStart = clauseKeyword("RETURNING")
	withStart   = clauseKeyword("WITH")

	// clauseStarters is every keyword that opens a new top-level clause; used
	// by the splitter below to decide where one clause ends and the next
	// begins. Order doesn't matter here since pc.Or tries every alternative.
	clauseStarters = pc.Or(
		selectStart, fromStart, whereStart, groupStart, havingStart, orderStart,
		limitStart, offsetStart, insertStart, valuesStart, updateStart, setStart,
		deleteStart, mergeStart, intoStart, returnStart, withStart,
	)

	ddlStarters = pc.Or(
		clauseKeyword("CREATE"), clauseKeyword("ALTER"), clauseKeyword("DROP"), clauseKeyword("TRUNCATE"),
	)
)

// toPcTokens adapts the tokenizer's flat token list to the parsercombinator
// token wrapper, following snapsql's parsercommon.ToParserToken shape.
func toPcTokens(tokens []tokenizer.Token) []pc.Token[tokenizer.Token] {
	out := make([]pc.Token[tokenizer.Token], len(tokens))
	for i, t := range tokens {
		out[i] = pc.Token[tokenizer.Token]{
			Type: "raw",
			Pos:  &pc.Pos{Line: t.Position.Line, Col: t.Position.Column, Index: t.Position.Offset},
			Val:  t,
			Raw:  t.Value,
		}
	}
	return out
}

// Parse tokenizes sql under dialect d and splits it into a shallow clause
// tree (spec §4.2 parse). It does not attempt full grammar recognition: it
// identifies the statement kind from its leading keyword, then walks the
// token stream tracking parenthesis depth, opening a new top-level Clause
// each time a clause-starting keyword appears at depth 0, and recursing into
// parenthesized SELECTs as subqueries.
func Parse(sql string, d dialect.Tag) (*AstNode, error) {
	tz := tokenizer.NewSqlTokenizer(sql, d)
	tokens, err := tz.AllTokens()
	if err != nil {
		return nil, err
	}

	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
		}
		if depth < 0 {
			break
		}
	}
	if depth != 0 {
		return nil, newParseError(tokenizer.Position{}, "unbalanced parentheses")
	}

	kind := detectKind(tokens)
	clauses, subs, err := splitClauses(tokens, d)
	if err != nil {
		return nil, err
	}

	return &AstNode{
		kind:       kind,
		dialect:    d,
		raw:        sql,
		tokens:     tokens,
		clauses:    clauses,
		subqueries: subs,
	}, nil
}

func firstSignificant(tokens []tokenizer.Token) (tokenizer.Token, bool) {
	for _, t := range tokens {
		switch t.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			continue
		}
		return t, true
	}
	return tokenizer.Token{}, false
}

func detectKind(tokens []tokenizer.Token) NodeKind {
	first, ok := firstSignificant(tokens)
	if !ok {
		return KindUnknown
	}
	if first.Type != tokenizer.RESERVED_IDENTIFIER {
		return KindOther
	}
	switch strings.ToUpper(first.Value) {
	case "SELECT", "WITH":
		return KindSelect
	case "INSERT":
		return KindInsert
	case "UPDATE":
		return KindUpdate
	case "DELETE":
		return KindDelete
	case "MERGE":
		return KindMerge
	case "CREATE", "ALTER", "DROP", "TRUNCATE":
		return KindDdl
	default:
		return KindOther
	}
}

// splitClauses scans tokens at paren-depth 0 for clause-starting keywords,
// and recursively parses "(" SELECT ... ")" regions into subqueries so
// Subqueries() and MaxSubqueryDepth bookkeeping in the analyzer have
// something concrete to walk.
func splitClauses(tokens []tokenizer.Token, d dialect.Tag) ([]Clause, []*AstNode, error) {
	pctx := pc.NewParseContext[tokenizer.Token]()
	pcTokens := toPcTokens(tokens)

	var clauses []Clause
	var subqueries []*AstNode
	depth := 0
	var open Clause
	haveOpen := false

	closeOpen := func(bodyEnd int) {
		if haveOpen {
			open.BodyEnd = bodyEnd
			clauses = append(clauses, open)
			haveOpen = false
		}
	}

	i := 0
	for i < len(tokens) {
		t := tokens[i]
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
			if isSelectAt(tokens, i+1) {
				end, sub, err := extractSubquery(tokens, i+1, d)
				if err != nil {
					return nil, nil, err
				}
				subqueries = append(subqueries, sub)
				i = end // resumes at the matching ")"
				depth--
				i++
				continue
			}
		case tokenizer.CLOSED_PARENS:
			depth--
		}

		if depth == 0 {
			consumed, _, err := clauseStarters(pctx, pcTokens[i:])
			if err == nil && consumed > 0 {
				closeOpen(i - 1)
				open = Clause{Keyword: strings.ToUpper(t.Value), HeadIndex: i, BodyStart: i + 1, BodyEnd: -1}
				haveOpen = true
			}
		}
		i++
	}
	closeOpen(len(tokens) - 1)

	return clauses, subqueries, nil
}

// isSelectAt reports whether, skipping whitespace/comments from idx, the
// next significant token opens a SELECT (so the enclosing parens should be
// treated as a subquery rather than a plain grouping expression).
func isSelectAt(tokens []tokenizer.Token, idx int) bool {
	for idx < len(tokens) {
		t := tokens[idx]
		switch t.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT:
			idx++
			continue
		case tokenizer.RESERVED_IDENTIFIER:
			return strings.EqualFold(t.Value, "SELECT") || strings.EqualFold(t.Value, "WITH")
		default:
			return false
		}
	}
	return false
}

// extractSubquery parses the SELECT starting at startIdx (just past the
// opening paren) and returns the index of its matching closing paren.
func extractSubquery(tokens []tokenizer.Token, startIdx int, d dialect.Tag) (int, *AstNode, error) {
	depth := 1
	i := startIdx
	for i < len(tokens) {
		switch tokens[i].Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			depth--
			if depth == 0 {
				inner := tokens[startIdx:i]
				clauses, subs, err := splitClauses(inner, d)
				if err != nil {
					return 0, nil, err
				}
				sub := &AstNode{
					kind:       detectKind(inner),
					dialect:    d,
					raw:        tokensToSource(inner),
					tokens:     inner,
					clauses:    clauses,
					subqueries: subs,
				}
				return i, sub, nil
			}
		}
		i++
	}
	return 0, nil, newParseError(tokens[startIdx-1].Position, "unterminated subquery: missing closing parenthesis")
}

func tokensToSource(tokens []tokenizer.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// literalValue converts a STRING/NUMBER/BOOLEAN/NULL token into a typed
// sqlvalue.Value, used by Literals() and ParameterizeLiterals.
func literalValue(t tokenizer.Token) (sqlvalue.Value, bool) {
	switch t.Type {
	case tokenizer.NULL:
		return sqlvalue.Null(), true
	case tokenizer.BOOLEAN:
		return sqlvalue.Bool(strings.EqualFold(t.Value, "TRUE")), true
	case tokenizer.STRING:
		return sqlvalue.String(unquoteString(t.Value)), true
	case tokenizer.NUMBER:
		if v, err := sqlvalue.DecimalFromString(t.Value); err == nil {
			return v, true
		}
		return sqlvalue.Value{}, false
	default:
		return sqlvalue.Value{}, false
	}
}

// unquoteString strips the surrounding quotes and collapses the doubled-quote
// escape the tokenizer preserves verbatim in Token.Value.
func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	return strings.ReplaceAll(inner, "''", "'")
}
