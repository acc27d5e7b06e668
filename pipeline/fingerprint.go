package pipeline

import (
	"strconv"

	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// Fingerprint derives a stable, collision-resistant key for this run's
// result (spec §4.6): the final AST's token text (RawSQL) plus the
// parameter *shape* (names/positions/origins, never bound values) and the
// config's stage toggles. Comment text already stripped by CommentRemover
// does not contribute to the key; whitespace is hashed as written, so two
// sources that differ only in whitespace get different keys.
func Fingerprint(ctx *procctx.ProcessingContext) sqlspec.Fingerprint {
	var canonical []byte
	if ctx.CurrentAST != nil {
		canonical = append(canonical, ctx.CurrentAST.RawSQL()...)
	}
	return sqlspec.NewFingerprint(canonical, []byte(string(ctx.Dialect)), configBytes(ctx), paramShapeBytes(ctx.MergedParams))
}

func configBytes(ctx *procctx.ProcessingContext) []byte {
	cfg := ctx.Config
	var b []byte
	b = append(b, boolByte(cfg.ParseEnabled), boolByte(cfg.TransformEnabled), boolByte(cfg.ValidateEnabled), boolByte(cfg.AnalyzeEnabled), boolByte(cfg.StrictMode))
	b = append(b, byte(cfg.DefaultPlaceholderStyle))
	for _, t := range cfg.Transformers {
		b = append(b, []byte(t.Name())...)
		b = append(b, 0)
	}
	for _, v := range cfg.Validators {
		b = append(b, []byte(v.Name())...)
		b = append(b, 0)
	}
	for _, a := range cfg.Analyzers {
		b = append(b, []byte(a.Name())...)
		b = append(b, 0)
	}
	return b
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// paramShapeBytes encodes only the shape of bag — names, positions,
// origins, and value Kind — never the bound value itself, so pipeline-cache
// keys built from this are reusable across calls with different parameter
// values (spec §4.6 pipeline cache value note).
func paramShapeBytes(bag *paramreg.ParamBag) []byte {
	if bag == nil {
		return nil
	}
	var b []byte
	for _, slot := range bag.Slots() {
		b = append(b, []byte(slot.Name)...)
		b = append(b, 0)
		b = append(b, []byte(strconv.Itoa(slot.Position))...)
		b = append(b, byte(slot.Value.Kind()))
		b = append(b, byte(slot.Origin))
	}
	return b
}
