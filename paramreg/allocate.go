package paramreg

import "strconv"

// Allocate yields "{prefix}_1", "{prefix}_2", ... skipping any name already
// present in bag (spec §4.1 allocate), used by ParameterizeLiterals to name
// newly extracted placeholders without colliding with user-supplied names.
func Allocate(bag *ParamBag, prefix string) string {
	n := 1
	for {
		candidate := prefix + "_" + strconv.Itoa(n)
		if _, exists := bag.ByName(candidate); !exists {
			return candidate
		}
		n++
	}
}
