package value

// Kind tags the dynamic variant held by a Value. The enumeration is bounded
// by kindBegin/kindEnd the same way the teacher's token.Kind is, giving an
// O(1) name lookup for error messages.
type Kind int

const (
	kindBegin Kind = iota

	Bool
	Integer
	Float
	BigInteger
	String
	Bytes
	Date
	Regex
	List
	Object
	Nodeset
	HttpResponse
	Null
	Unit

	kindEnd
)

var kindNames = [...]string{
	kindBegin:    "",
	Bool:         "bool",
	Integer:      "integer",
	Float:        "float",
	BigInteger:   "big_integer",
	String:       "string",
	Bytes:        "bytes",
	Date:         "date",
	Regex:        "regex",
	List:         "list",
	Object:       "object",
	Nodeset:      "nodeset",
	HttpResponse: "http_response",
	Null:         "null",
	Unit:         "unit",
	kindEnd:      "",
}

// IsValid reports whether k is a real, non-sentinel Kind.
func (k Kind) IsValid() bool {
	return k > kindBegin && k < kindEnd
}

// String returns the short display name used in error messages (the
// spec's "kind tag").
func (k Kind) String() string {
	if !k.IsValid() {
		return "invalid"
	}
	return kindNames[k]
}

// IsNumeric reports whether k is one of Integer, Float, BigInteger.
func (k Kind) IsNumeric() bool {
	return k == Integer || k == Float || k == BigInteger
}
