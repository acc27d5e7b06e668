package processor

import (
	"github.com/litestar-org/sqlspec-core/ast"
	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
	"github.com/litestar-org/sqlspec-core/tokenizer"
)

// CommentRemover strips every line/block comment from the AST, reducing the
// attack surface a later validator would otherwise have to reason about
// (spec §4.3). Idempotent: a second pass finds nothing left to remove.
type CommentRemover struct{}

func (CommentRemover) Name() string { return "CommentRemover" }

func (CommentRemover) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	before := ctx.CurrentAST
	ctx.CurrentAST = ast.RemoveComments(before)
	if len(before.Tokens()) == len(ctx.CurrentAST.Tokens()) {
		return procctx.Skip("no comments present"), nil
	}
	return procctx.Ok, nil
}

// isHintComment recognizes the dialect-specific optimizer-hint comment forms
// HintRemover strips: /*+ ... */ (Oracle/MySQL-style) block comments.
func isHintComment(value string) bool {
	return len(value) > 3 && value[:3] == "/*+"
}

// HintRemover strips dialect-specific optimizer hints (the /*+ ... */
// convention shared by Oracle and MySQL), leaving ordinary documentation
// comments alone so CommentRemover (if configured) handles those separately.
type HintRemover struct{}

func (HintRemover) Name() string { return "HintRemover" }

func (HintRemover) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	tokens := node.Tokens()
	anyHint := false
	for _, t := range tokens {
		if t.Type == tokenizer.BLOCK_COMMENT && isHintComment(t.Value) {
			anyHint = true
			break
		}
	}
	if !anyHint {
		return procctx.Skip("no optimizer hints present"), nil
	}

	filtered := make([]tokenizer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == tokenizer.BLOCK_COMMENT && isHintComment(t.Value) {
			continue
		}
		filtered = append(filtered, t)
	}
	rebuilt, err := ast.Parse(tokensToSQL(filtered), node.Dialect())
	if err != nil {
		// Hint stripping produced unparsable SQL; leave the AST untouched
		// rather than fail the whole pipeline (transformers are advisory).
		return procctx.Outcome{}, err
	}
	ctx.CurrentAST = rebuilt
	return procctx.Ok, nil
}

func tokensToSQL(tokens []tokenizer.Token) string {
	var b []byte
	for _, t := range tokens {
		b = append(b, t.Value...)
	}
	return string(b)
}

// ParameterizeLiterals walks the AST replacing scalar literals in
// expression positions with fresh named placeholders, appending each
// replaced value to ctx.ExtractedParams (spec §4.3). NULL literals are left
// untouched (spec §8 boundary behavior). Gate: if the statement is running
// in batch mode (ctx.IsMany) this still runs even when
// ctx.InputHadPlaceholders is false, so every row of a batch renders an
// identically-shaped parameter list (spec Open Question 1, resolved in
// SPEC_FULL.md).
type ParameterizeLiterals struct {
	// Prefix names newly allocated parameters ("lit" by default).
	Prefix string
}

func (ParameterizeLiterals) Name() string { return "ParameterizeLiterals" }

func (p ParameterizeLiterals) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "lit"
	}

	node := ctx.CurrentAST
	if node.Kind() == sqlspec.KindDDL {
		return procctx.Skip("literals inside DDL are left intact"), nil
	}

	// taken holds every name already in use, user-supplied or extracted, so
	// Allocate never hands out a name that collides with either.
	taken := paramreg.NewParamBag()
	for _, bag := range []*paramreg.ParamBag{ctx.InitialParams, ctx.ExtractedParams} {
		if bag == nil {
			continue
		}
		for _, s := range bag.Slots() {
			if s.Name != "" {
				_ = taken.Add(paramreg.ParamSlot{Name: s.Name})
			}
		}
	}

	literals := ast.Literals(node)
	extracted := 0
	for _, lit := range literals {
		if lit.Value.IsNull() {
			continue // NULL is preserved as a literal, never extracted
		}
		name := paramreg.Allocate(taken, prefix)
		_ = taken.Add(paramreg.ParamSlot{Name: name})
		kind, idx := placeholderKindFor(ctx.Config.DefaultPlaceholderStyle, ctx.ExtractedParams.Len()+1)
		node = ast.ReplaceLiteralWithPlaceholder(node, lit.TokenIndex, kind, name, idx)
		_ = ctx.ExtractedParams.Add(paramreg.ParamSlot{
			Name:    name,
			Value:   lit.Value,
			Present: true,
			Origin:  paramreg.OriginExtractedLiteral,
		})
		extracted++
	}
	ctx.CurrentAST = node
	if extracted == 0 {
		return procctx.Skip("no extractable literals found"), nil
	}
	return procctx.Ok, nil
}

func placeholderKindFor(style sqlspec.PlaceholderStyle, idx int) (tokenizer.PlaceholderKind, int) {
	switch style {
	case sqlspec.NumericDollar:
		return tokenizer.PlaceholderNumericDollar, idx
	case sqlspec.NumericColon:
		return tokenizer.PlaceholderNumericColon, idx
	case sqlspec.NamedColon:
		return tokenizer.PlaceholderNamedColon, 0
	case sqlspec.NamedAt:
		return tokenizer.PlaceholderNamedAt, 0
	case sqlspec.PyformatPositional:
		return tokenizer.PlaceholderPyformatPositional, idx
	case sqlspec.PyformatNamed:
		return tokenizer.PlaceholderPyformatNamed, 0
	default:
		return tokenizer.PlaceholderQmark, idx
	}
}

// TracingComment prepends a block comment whose text is
// "-- origin=<Origin>[; user=<User>]" ahead of the statement, identifying
// the rendering pass; nothing is added after the end of the SQL. Grounded on
// snapsql's practice of tagging generated SQL with provenance metadata (cli
// diagnostics output).
type TracingComment struct {
	Origin string
	User   string
}

func (TracingComment) Name() string { return "TracingComment" }

func (t TracingComment) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	origin := t.Origin
	if origin == "" {
		origin = "sqlspec"
	}
	text := "-- origin=" + origin
	if t.User != "" {
		text += "; user=" + t.User
	}
	ctx.CurrentAST = ast.AttachLeadingComment(ctx.CurrentAST, text)
	return procctx.Ok, nil
}

// ForceWhereClause does not mutate the AST (transform/validate
// responsibilities stay separate per spec §4.3); it raises a validation
// issue when an UPDATE or DELETE lacks a WHERE clause, co-emitted alongside
// RiskyDML's own coverage of the same condition so the issue is visible even
// in configurations that run ForceWhereClause without RiskyDML.
type ForceWhereClause struct{}

func (ForceWhereClause) Name() string { return "ForceWhereClause" }

func (ForceWhereClause) Transform(ctx *procctx.ProcessingContext) (procctx.Outcome, error) {
	node := ctx.CurrentAST
	if node.Kind() != sqlspec.KindUpdate && node.Kind() != sqlspec.KindDelete {
		return procctx.Skip("not an UPDATE/DELETE statement"), nil
	}
	if clauseKeywordPresent(node, "WHERE") {
		return procctx.Skip("WHERE clause present"), nil
	}
	ctx.Validation.Add(issuef("ForceWhereClause", "MissingWhere", sqlspec.RiskMedium,
		"%s statement has no WHERE clause", node.Kind()))
	return procctx.Ok, nil
}
