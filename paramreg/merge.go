package paramreg

// Merge appends extracted's slots after primary's, renumbering positions
// contiguously, and fails with ErrParamConflict if a name collides with a
// different value — same name with an equal value is idempotent and merges
// silently (spec §4.1 merge).
func Merge(primary, extracted *ParamBag) (*ParamBag, error) {
	out := primary.clone()
	for _, slot := range extracted.Slots() {
		if slot.Name != "" {
			if existing, found := out.ByName(slot.Name); found {
				if existing.Present && slot.Present && existing.Value.Equal(slot.Value) {
					continue
				}
				return nil, conflictf("parameter %q already bound to a different value", slot.Name)
			}
		}
		if err := out.Add(slot); err != nil {
			return nil, err
		}
	}
	return out, nil
}
