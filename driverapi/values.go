package driverapi

import (
	"github.com/litestar-org/sqlspec-core/sqlvalue"
)

// ValueToGo converts a sqlvalue.Value to the native Go type database/sql
// drivers accept as a bind argument (spec §6 Inputs: "tagged scalars" cross
// the boundary; a driver speaks plain Go types, not this package's tags).
// Decimal and JSON are passed through as their canonical string form, since
// neither the core nor database/sql standardizes a richer wire type for
// them; a driver wanting numeric/JSON column types converts further itself.
func ValueToGo(v sqlvalue.Value) any {
	switch v.Kind() {
	case sqlvalue.KindNull:
		return nil
	case sqlvalue.KindBool:
		b, _ := v.AsBool()
		return b
	case sqlvalue.KindInt:
		i, _ := v.AsInt()
		return i
	case sqlvalue.KindFloat:
		f, _ := v.AsFloat()
		return f
	case sqlvalue.KindDecimal:
		d, _ := v.AsDecimal()
		return d.String()
	case sqlvalue.KindString:
		s, _ := v.AsString()
		return s
	case sqlvalue.KindBytes:
		b, _ := v.AsBytes()
		return b
	case sqlvalue.KindDateTime, sqlvalue.KindDate, sqlvalue.KindTime:
		t, _ := v.AsTime()
		return t
	case sqlvalue.KindUuid:
		u, _ := v.AsUuid()
		return u.String()
	case sqlvalue.KindJSON:
		j, _ := v.AsJSON()
		return j
	default:
		return nil
	}
}
