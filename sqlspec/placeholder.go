package sqlspec

// PlaceholderStyle is the target spelling a rendered statement's parameter
// markers use (spec §3 PlaceholderStyle). It is declared here, rather than in
// paramreg or ast, because both packages need it and neither may import the
// other.
type PlaceholderStyle int

const (
	Qmark PlaceholderStyle = iota
	NumericDollar
	NumericColon
	NamedColon
	NamedAt
	PyformatPositional
	PyformatNamed
	Static
)

func (s PlaceholderStyle) String() string {
	switch s {
	case Qmark:
		return "qmark"
	case NumericDollar:
		return "numeric_dollar"
	case NumericColon:
		return "numeric_colon"
	case NamedColon:
		return "named_colon"
	case NamedAt:
		return "named_at"
	case PyformatPositional:
		return "pyformat_positional"
	case PyformatNamed:
		return "pyformat_named"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}
