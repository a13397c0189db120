// Package ast defines the immutable tree produced once by internal/parser
// and consumed by internal/runner. No node is ever mutated after
// construction: source positions are copied into each node, never
// referenced, matching the teacher's ai/vectorstore/filter/ast package
// shape (Node interface + concrete literal/binary/unary/paren structs)
// adapted from a boolean-filter grammar to Hurl's request/response one.
package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// Node is implemented by every AST element that carries a source span.
type Node interface {
	Span() sourcepos.Span
}

// File is the root of one parsed Hurl document: an ordered sequence of
// entries.
type File struct {
	Entries []*Entry
	span    sourcepos.Span
}

func NewFile(entries []*Entry, span sourcepos.Span) *File {
	return &File{Entries: entries, span: span}
}

func (f *File) Span() sourcepos.Span { return f.span }

// Entry pairs a Request with an optional Response.
type Entry struct {
	Request  *Request
	Response *Response // nil when the entry has no expected response
	Span_    sourcepos.Span
}

func (e *Entry) Span() sourcepos.Span { return e.Span_ }

func NewEntry(request *Request, response *Response, span sourcepos.Span) *Entry {
	return &Entry{Request: request, Response: response, Span_: span}
}
