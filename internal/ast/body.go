package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// BodyKind tags the Body variant (spec §3: "raw string (templated),
// base64 blob, hex blob, file reference ..., JSON tree, XML tree,
// multi-line string with encoding hint").
type BodyKind int

const (
	BodyRawString BodyKind = iota
	BodyBase64
	BodyHex
	BodyFile
	BodyJSON
	BodyXML
	BodyMultilineString
)

// Body is one entry's request or response body.
type Body struct {
	Kind BodyKind

	Raw *Template // BodyRawString, BodyMultilineString

	Base64Bytes []byte // BodyBase64
	HexBytes    []byte // BodyHex

	FilePath string // BodyFile, resolved against the context directory at runtime

	JSONTree *JSONNode // BodyJSON
	XMLRaw   string    // BodyXML: templated as a whole string, re-parsed at runtime

	Encoding string // BodyMultilineString language/encoding hint, e.g. "base64", "json"

	span sourcepos.Span
}

func (b *Body) Span() sourcepos.Span { return b.span }

// WithSpan sets the node's source span and returns it, letting parser
// code attach a span after constructing a Body by struct literal.
func (b *Body) WithSpan(span sourcepos.Span) *Body {
	b.span = span
	return b
}

func NewRawBody(t *Template, span sourcepos.Span) *Body {
	return &Body{Kind: BodyRawString, Raw: t, span: span}
}

// JSONNode is a templated JSON tree: every string leaf (and every object
// key) may itself contain `{{expr}}` placeholders, so literal JSON
// parsing alone cannot represent a Hurl JSON body.
type JSONNode struct {
	Kind     JSONNodeKind
	Bool     bool
	Number   string // preserves original digits; resolved to value.Value at runtime
	Str      *Template
	Elements []*JSONNode
	Keys     []*Template
	Values   []*JSONNode
}

type JSONNodeKind int

const (
	JSONNull JSONNodeKind = iota
	JSONBool
	JSONNumber
	JSONString
	JSONArray
	JSONObject
)
