package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// Header is a templated header line.
type Header struct {
	Name  *Template
	Value *Template
}

// Request is `METHOD <SP> URL <LF>` plus headers, sections, and an
// optional body (spec §4.1).
type Request struct {
	Method *Template
	URL    *Template
	Headers []Header

	QueryStringParams []KV
	FormParams        []KV
	MultipartForm     []MultipartField
	Cookies           []KV
	BasicAuth         *BasicAuth
	Options           *EntryOptions

	Body *Body // nil when the request has no body

	span sourcepos.Span
}

func (r *Request) Span() sourcepos.Span { return r.span }

func (r *Request) SetSpan(span sourcepos.Span) { r.span = span }

// IsMultipart reports whether this request declared a
// [MultipartFormData] section (mutually exclusive with FormParams/Body
// per the grammar).
func (r *Request) IsMultipart() bool { return len(r.MultipartForm) > 0 }
