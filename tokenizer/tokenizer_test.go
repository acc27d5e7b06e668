package tokenizer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE active = true;"
	tok := NewSqlTokenizer(sql, NewSQLiteDialect())

	expectedTypes := []TokenType{
		RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER, COMMA, WHITESPACE, IDENTIFIER, WHITESPACE,
		RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER, WHITESPACE, RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER,
		WHITESPACE, EQUAL, WHITESPACE, BOOLEAN, SEMICOLON, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tok.Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, token.Type)
		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorWithOptions(t *testing.T) {
	sql := "SELECT id, name FROM users -- comment\nWHERE active = true;"
	tok := NewSqlTokenizer(sql, NewSQLiteDialect(), TokenizerOptions{
		SkipWhitespace: true,
		SkipComments:   true,
	})

	expectedTypes := []TokenType{
		RESERVED_IDENTIFIER, IDENTIFIER, COMMA, IDENTIFIER, RESERVED_IDENTIFIER, IDENTIFIER,
		RESERVED_IDENTIFIER, IDENTIFIER, EQUAL, BOOLEAN, SEMICOLON, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tok.Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, token.Type)
		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE active = true;"
	tok := NewSqlTokenizer(sql, NewSQLiteDialect())

	count := 0
	for _, err := range tok.Tokens() {
		assert.NoError(t, err)
		count++
		if count >= 5 {
			break
		}
	}

	assert.Equal(t, 5, count)
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"single keyword", "SELECT", []TokenType{RESERVED_IDENTIFIER, EOF}},
		{"basic select", "SELECT id, name FROM users", []TokenType{
			RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER, COMMA, WHITESPACE, IDENTIFIER, WHITESPACE,
			RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER, EOF,
		}},
		{"where clause", "WHERE id = 123", []TokenType{
			RESERVED_IDENTIFIER, WHITESPACE, IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, NUMBER, EOF,
		}},
		{"parens", "SELECT (id)", []TokenType{
			RESERVED_IDENTIFIER, WHITESPACE, OPENED_PARENS, IDENTIFIER, CLOSED_PARENS, EOF,
		}},
		{"single quoted string", "'abc'", []TokenType{STRING, EOF}},
		{"double quoted identifier", `"abc"`, []TokenType{IDENTIFIER, EOF}},
		{"null literal", "NULL", []TokenType{NULL, EOF}},
		{"decimal number", "3.14", []TokenType{NUMBER, EOF}},
		{"qmark placeholder", "id = ?", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"numeric dollar placeholder", "id = $1", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"named colon placeholder", "id = :user_id", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"named at placeholder", "id = @user_id", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"pyformat positional", "id = %s", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"pyformat named", "id = %(user_id)s", []TokenType{IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, PLACEHOLDER, EOF}},
		{"cast operator is not a placeholder", "id::int", []TokenType{IDENTIFIER, OTHER, RESERVED_IDENTIFIER, EOF}},
		{"line comment", "-- hi\nSELECT 1", []TokenType{LINE_COMMENT, WHITESPACE, RESERVED_IDENTIFIER, WHITESPACE, NUMBER, EOF}},
		{"block comment", "/* hi */SELECT 1", []TokenType{BLOCK_COMMENT, RESERVED_IDENTIFIER, WHITESPACE, NUMBER, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewSqlTokenizer(tt.input, NewSQLiteDialect())
			var got []TokenType
			for token, err := range tok.Tokens() {
				assert.NoError(t, err)
				got = append(got, token.Type)
				if token.Type == EOF {
					break
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPlaceholderDetails(t *testing.T) {
	tok := NewSqlTokenizer("$2", NewPostgresDialect())
	tokens, err := tok.AllTokens()
	assert.NoError(t, err)
	assert.Equal(t, PlaceholderNumericDollar, tokens[0].PlaceholderKind)
	assert.Equal(t, 2, tokens[0].PlaceholderIdx)

	tok = NewSqlTokenizer(":name", NewPostgresDialect())
	tokens, err = tok.AllTokens()
	assert.NoError(t, err)
	assert.Equal(t, PlaceholderNamedColon, tokens[0].PlaceholderKind)
	assert.Equal(t, "name", tokens[0].PlaceholderName)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	tok := NewSqlTokenizer("'abc", NewSQLiteDialect())
	_, err := tok.AllTokens()
	assert.Error(t, err)
}

func TestQuotedQuoteIsEscaped(t *testing.T) {
	tok := NewSqlTokenizer("'it''s'", NewSQLiteDialect())
	tokens, err := tok.AllTokens()
	assert.NoError(t, err)
	assert.Equal(t, "'it''s'", tokens[0].Value)
}
