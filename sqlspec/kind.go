package sqlspec

// StatementKind tags the shape of a parsed statement. It is a closed tagged
// union, not an open string, so switch statements over it can be checked for
// completeness by review the way snapsql's tokenizer.TokenType is.
type StatementKind int

const (
	KindUnknown StatementKind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindMerge
	KindDDL
	KindScript
	KindOther
)

func (k StatementKind) String() string {
	switch k {
	case KindSelect:
		return "Select"
	case KindInsert:
		return "Insert"
	case KindUpdate:
		return "Update"
	case KindDelete:
		return "Delete"
	case KindMerge:
		return "Merge"
	case KindDDL:
		return "Ddl"
	case KindScript:
		return "Script"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// IsDML reports whether the statement kind mutates rows.
func (k StatementKind) IsDML() bool {
	switch k {
	case KindInsert, KindUpdate, KindDelete, KindMerge:
		return true
	default:
		return false
	}
}
