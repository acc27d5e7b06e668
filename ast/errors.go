package ast

import (
	"errors"
	"fmt"

	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// ErrParse is the sentinel every parse failure wraps (spec §6 ParseError).
var ErrParse = errors.New("ast: parse error")

// ParseError carries the position of the failure alongside the wrapped
// sentinel, mirroring snapsql's tokenizer error style.
type ParseError struct {
	Pos    tokenizer.Position
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ast: parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func newParseError(pos tokenizer.Position, reason string) error {
	return &ParseError{Pos: pos, Reason: reason}
}
