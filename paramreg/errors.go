// Package paramreg is the Parameter Registry & Style Converter (spec §4.1):
// it classifies placeholders, rewrites SQL between placeholder styles,
// allocates fresh parameter names, and merges multiple parameter sources into
// one canonical ordered ParamBag. Grounded on snapsql's
// parser/ordered_params.go OrderedParameters (definition-order slice plus a
// name→index map for O(1) lookup), generalized from "YAML interface schema
// parameters" to "runtime bound SQL parameters".
package paramreg

import (
	"fmt"

	"github.com/litestar-org/sqlspec-core/sqlspec"
)

func styleMismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sqlspec.ErrParamStyleMismatch, fmt.Sprintf(format, args...))
}

func arityMismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sqlspec.ErrParamArityMismatch, fmt.Sprintf(format, args...))
}

func missingf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sqlspec.ErrParamMissing, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sqlspec.ErrParamConflict, fmt.Sprintf(format, args...))
}
