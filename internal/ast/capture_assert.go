package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// Capture is `NAME: QUERY (FILTER)* (, PREDICATE)?` — a named
// query-and-filter pipeline that stores a Value into the variable set.
type Capture struct {
	Name      string
	Query     *Query
	Filters   []*Filter
	Predicate *Predicate // optional trailing predicate gate, rarely used
	span      sourcepos.Span
}

func (c *Capture) Span() sourcepos.Span { return c.span }

func NewCapture(name string, query *Query, filters []*Filter, pred *Predicate, span sourcepos.Span) *Capture {
	return &Capture{Name: name, Query: query, Filters: filters, Predicate: pred, span: span}
}

// Assert is `QUERY (FILTER)* PREDICATE` — a query-and-filter pipeline
// followed by a mandatory predicate; a failed assert does not abort the
// entry (spec §4.8 step 6).
type Assert struct {
	Query     *Query
	Filters   []*Filter
	Predicate *Predicate
	span      sourcepos.Span
}

func (a *Assert) Span() sourcepos.Span { return a.span }

func NewAssert(query *Query, filters []*Filter, pred *Predicate, span sourcepos.Span) *Assert {
	return &Assert{Query: query, Filters: filters, Predicate: pred, span: span}
}
