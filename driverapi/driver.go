// Package driverapi declares the narrow contract between the SQL Statement
// Processing Core and a driver adapter (spec §6 "Driver contract", §1
// "Driver adapters — consume the final SQL string + parameters, return raw
// rows; they neither parse nor validate"). It is interface-only: nothing
// here opens a connection, pools, retries, or batches — those are explicitly
// out of scope (spec §1 Non-goals). No implementation of Driver ships in
// this module.
package driverapi

import (
	"context"

	"github.com/litestar-org/sqlspec-core/paramreg"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// Driver is what a host application plugs in after a Statement has produced
// rendered SQL, a final ParamBag, and a StatementKind. A Driver never calls
// back into the pipeline (spec §6 "Drivers receive (rendered_sql, parameters,
// kind) and return raw rows. They do not call into the pipeline").
type Driver interface {
	// Exec runs a statement that does not return rows (INSERT/UPDATE/DELETE/DDL).
	Exec(ctx context.Context, sql string, params *paramreg.ParamBag, kind sqlspec.StatementKind) (Result, error)
	// Query runs a statement that returns rows (SELECT, or RETURNING/output DML).
	Query(ctx context.Context, sql string, params *paramreg.ParamBag, kind sqlspec.StatementKind) (Rows, error)
	// Close releases any resources the driver holds.
	Close() error
}

// Result mirrors database/sql.Result's shape so a Driver can wrap a real
// *sql.DB trivially; the core never inspects it beyond passing it back.
type Result interface {
	LastInsertID() (int64, error)
	RowsAffected() (int64, error)
}

// Rows is a minimal cursor contract, deliberately narrower than
// database/sql.Rows: no ORM-style scanning into structs, no column-type
// introspection beyond names — result-set mapping is out of scope (spec §1).
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// OrderedArgs flattens bag into a []any ordered by 1-based Position, the
// shape database/sql.(*DB).ExecContext/QueryContext expects for positional
// placeholder styles. A Driver backed by a named-placeholder client instead
// should walk bag.Slots() directly and use each slot's Name.
func OrderedArgs(bag *paramreg.ParamBag) []any {
	slots := bag.Slots()
	out := make([]any, len(slots))
	for i, slot := range slots {
		out[i] = ValueToGo(slot.Value)
	}
	return out
}
