package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// VersionExpectation is the implicit/explicit HTTP version assertion
// atop a response spec: `HTTP/1.1`, `HTTP/2`, `HTTP/3`, `HTTP/1.0`, or
// the wildcard `HTTP` which matches any version (sourced from
// original_source/http/version.rs, supplemented per SPEC_FULL.md §3).
type VersionExpectation int

const (
	VersionAny VersionExpectation = iota
	VersionHTTP10
	VersionHTTP11
	VersionHTTP2
	VersionHTTP3
)

// StatusExpectation is either a fixed status code or a wildcard `*`
// accepting any status.
type StatusExpectation struct {
	Wildcard bool
	Code     int
}

// Response is `HTTP <VERSION> <STATUS>` plus headers, sections, and an
// optional body (spec §4.1).
type Response struct {
	Version VersionExpectation
	Status  StatusExpectation

	Headers []Header

	Captures []*Capture
	Asserts  []*Assert

	Body *Body // nil when the response spec makes no body assertion

	span sourcepos.Span
}

func (r *Response) Span() sourcepos.Span { return r.span }

func (r *Response) SetSpan(span sourcepos.Span) { r.span = span }
