package paramreg

import (
	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/dialect"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

// Render emits sql with its placeholders rewritten to targetStyle (spec
// §4.1 render). It parses via the ast facade and delegates the token-level
// rewrite to ast.Render, which keeps explicit $N/:N indexes and numbers the
// other placeholders by left-to-right position; lookup is only consulted for
// sqlspec.Static.
func Render(sql string, d dialect.Tag, targetStyle sqlspec.PlaceholderStyle, lookup ast.ValueLookup) (string, error) {
	node, err := ast.Parse(sql, d)
	if err != nil {
		return "", err
	}
	return ast.Render(node, d, targetStyle, lookup)
}

// RenderAST is the same operation starting from an already-parsed node, used
// by the pipeline once a statement's AST has been transformed.
func RenderAST(node *ast.AstNode, d dialect.Tag, targetStyle sqlspec.PlaceholderStyle, lookup ast.ValueLookup) (string, error) {
	return ast.Render(node, d, targetStyle, lookup)
}

// RenderFromBag renders node using bag's slots as the Static lookup source,
// matching slots by name first then falling back to 1-based position.
func RenderFromBag(node *ast.AstNode, d dialect.Tag, targetStyle sqlspec.PlaceholderStyle, bag *ParamBag) (string, error) {
	lookup := func(name string, index int) (sqlvalue.Value, bool) {
		if name != "" {
			if slot, found := bag.ByName(name); found && slot.Present {
				return slot.Value, true
			}
		}
		if slot, found := bag.ByPosition(index); found && slot.Present {
			return slot.Value, true
		}
		return sqlvalue.Value{}, false
	}
	return ast.Render(node, d, targetStyle, lookup)
}
