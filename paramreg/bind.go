package paramreg

import "github.com/litestar-org/sqlspec-core/sqlvalue"

// BindInput is the union of shapes bind() accepts (spec §4.1 bind: "a map, a
// list, or a blended (args, kwargs) pair"). Exactly one of Positional/Named
// should be non-empty in the common case, but both may be set for the
// blended form.
type BindInput struct {
	Positional []sqlvalue.Value
	Named      map[string]sqlvalue.Value
}

// Bind fills slots (an ordered template describing which slots are
// positional vs. named, typically ParsePlaceholders' output shaped into
// slots beforehand by the caller) from input, in order. Positional values
// fill positional slots in order; named values fill slots by name; leftover
// input values that match no slot are ParamArityMismatch.
func Bind(input BindInput, slots []ParamSlot) (*ParamBag, error) {
	bag := NewParamBag()
	usedPositional := 0
	usedNamed := make(map[string]bool, len(input.Named))

	for _, slot := range slots {
		filled := slot
		switch {
		case slot.Name != "":
			v, ok := input.Named[slot.Name]
			if !ok {
				return nil, missingf("parameter %q has no bound value", slot.Name)
			}
			filled.Value = v
			filled.Present = true
			usedNamed[slot.Name] = true
		default:
			if usedPositional >= len(input.Positional) {
				return nil, missingf("positional parameter at position %d has no bound value", slot.Position)
			}
			filled.Value = input.Positional[usedPositional]
			filled.Present = true
			usedPositional++
		}
		if err := bag.Add(filled); err != nil {
			return nil, err
		}
	}

	if usedPositional < len(input.Positional) {
		return nil, arityMismatchf("%d positional value(s) left unused", len(input.Positional)-usedPositional)
	}
	for name := range input.Named {
		if !usedNamed[name] {
			return nil, arityMismatchf("named parameter %q does not match any slot", name)
		}
	}

	return bag, nil
}
