package paramreg

import "github.com/litestar-org/sqlspec-core/sqlvalue"

// Origin records where a ParamSlot's value came from (spec §3 ParamSlot).
type Origin int

const (
	OriginUser Origin = iota
	OriginExtractedLiteral
	OriginFilter
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginExtractedLiteral:
		return "extracted_literal"
	case OriginFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// ParamSlot is one bound (or not-yet-bound) parameter. Present distinguishes
// "no value supplied" from Value == sqlvalue.Null() — the two are never
// conflated (spec §3 ParamBag invariant).
type ParamSlot struct {
	Name     string // empty if positional-only
	Position int    // 1-based, fixed per dialect's numbering convention
	Value    sqlvalue.Value
	Present  bool
	Origin   Origin
}

// ParamBag is an ordered sequence of ParamSlot, indexable by position or
// name. Grounded on snapsql's OrderedParameters: a definition-order slice
// plus a name→index map for O(1) named lookup.
type ParamBag struct {
	slots    []ParamSlot
	nameIdx  map[string]int
}

// NewParamBag returns an empty bag ready for Add.
func NewParamBag() *ParamBag {
	return &ParamBag{nameIdx: make(map[string]int)}
}

// Add appends a slot, renumbering its Position to the next contiguous slot
// (spec §3 invariant: "positions are contiguous after compaction").
func (b *ParamBag) Add(slot ParamSlot) error {
	if slot.Name != "" {
		if _, exists := b.nameIdx[slot.Name]; exists {
			return conflictf("parameter name %q already present in bag", slot.Name)
		}
	}
	slot.Position = len(b.slots) + 1
	b.slots = append(b.slots, slot)
	if slot.Name != "" {
		b.nameIdx[slot.Name] = len(b.slots) - 1
	}
	return nil
}

// Len reports the number of slots.
func (b *ParamBag) Len() int { return len(b.slots) }

// Slots returns the bag's slots in definition order. Callers must not mutate
// the returned slice; ParamSlot is a value type so individual elements are
// safe to copy out.
func (b *ParamBag) Slots() []ParamSlot { return b.slots }

// ByPosition returns the slot at a 1-based position.
func (b *ParamBag) ByPosition(pos int) (ParamSlot, bool) {
	if pos < 1 || pos > len(b.slots) {
		return ParamSlot{}, false
	}
	return b.slots[pos-1], true
}

// ByName returns the slot with the given name.
func (b *ParamBag) ByName(name string) (ParamSlot, bool) {
	idx, ok := b.nameIdx[name]
	if !ok {
		return ParamSlot{}, false
	}
	return b.slots[idx], true
}

// clone returns a deep-enough copy for copy-on-write operations like Merge.
func (b *ParamBag) clone() *ParamBag {
	out := &ParamBag{
		slots:   make([]ParamSlot, len(b.slots)),
		nameIdx: make(map[string]int, len(b.nameIdx)),
	}
	copy(out.slots, b.slots)
	for k, v := range b.nameIdx {
		out.nameIdx[k] = v
	}
	return out
}
