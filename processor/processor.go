// Package processor implements the Processor protocol (spec §4.3): the
// built-in transformers, validators, and the analyzer that implement
// procctx.Transformer/Validator/Analyzer. Grounded on snapsql's
// intermediate.TokenProcessor family (MetadataExtractor, CELExpressionExtractor,
// SystemFieldProcessor, DialectProcessor, ...), each a small struct with a
// Name() and a single Process-shaped method threaded through one shared
// context.
package processor

import (
	"fmt"
	"strings"

	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

func issuef(processor, kind string, severity sqlspec.RiskLevel, format string, args ...any) sqlspec.Issue {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return sqlspec.Issue{Kind: kind, Severity: severity, Message: msg, Processor: processor}
}

// clauseKeywordPresent reports whether node has a top-level clause with the
// given keyword (e.g. "WHERE", "RETURNING").
func clauseKeywordPresent(node *ast.AstNode, keyword string) bool {
	for _, c := range node.Clauses() {
		if strings.EqualFold(c.Keyword, keyword) {
			return true
		}
	}
	return false
}

// isWordToken reports whether t is a bare reserved-identifier keyword.
func isWordToken(t tokenizer.Token, word string) bool {
	return t.Type == tokenizer.RESERVED_IDENTIFIER && strings.EqualFold(t.Value, word)
}

// skipSpace advances past whitespace/comment tokens starting at i.
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
