package ast

// Action is a visitor's instruction to Walk after visiting one node (spec
// §4.2 walk: pre/post-order with an action return).
type Action int

const (
	Continue Action = iota
	SkipSubtree
	Replace
)

// Visitor is called once per node in pre-order. When it returns Replace, repl
// must be non-nil and becomes the node's replacement for the rest of the
// walk (its own subqueries are then visited in its place).
type Visitor func(node *AstNode) (action Action, repl *AstNode)

// Walk traverses root and its subqueries pre-order, applying visit at each
// node. It returns the (possibly rewritten) root.
func Walk(root *AstNode, visit Visitor) *AstNode {
	if root == nil {
		return nil
	}
	action, repl := visit(root)
	current := root
	if action == Replace && repl != nil {
		current = repl
	}
	if action == SkipSubtree {
		return current
	}

	newSubs := make([]*AstNode, len(current.subqueries))
	changed := false
	for i, sub := range current.subqueries {
		walked := Walk(sub, visit)
		newSubs[i] = walked
		if walked != sub {
			changed = true
		}
	}
	if changed {
		out := current.clone()
		out.subqueries = newSubs
		return out
	}
	return current
}
