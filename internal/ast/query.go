package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// QueryKind enumerates the query kinds of spec §4.6, supplemented with
// the `redirects`/`ip`/`certificate` kinds sourced from original_source/.
type QueryKind int

const (
	QueryStatus QueryKind = iota
	QueryVersion
	QueryURL
	QueryHeader
	QueryCookie
	QueryBody
	QueryBytes
	QuerySha256
	QueryMd5
	QueryJsonpath
	QueryXpath
	QueryRegex
	QueryVariable
	QueryDuration
	QueryCertificate
	QueryIP
	QueryRedirects
)

// Query is one query expression: a kind plus whatever templated argument
// that kind needs (header name, jsonpath expression, ...).
type Query struct {
	Kind QueryKind

	HeaderName      *Template // QueryHeader
	CookiePath      *Template // QueryCookie: "name" or "name[Attr]", split by the parser
	CookieAttr      string
	JsonpathExpr    *Template // QueryJsonpath
	XpathExpr       *Template // QueryXpath
	RegexPattern    *Template // QueryRegex: pattern with a single capture group
	RegexHasPattern bool      // false means "regex" with no pattern: match against the whole body
	VariableName    *Template // QueryVariable
	CertificateField string   // QueryCertificate: Subject|Issuer|StartDate|ExpireDate|SerialNumber

	span sourcepos.Span
}

func (q *Query) Span() sourcepos.Span { return q.span }

// SetSpan widens the node's span once the full query (including its
// argument) has been parsed.
func (q *Query) SetSpan(span sourcepos.Span) { q.span = span }

func NewQuery(kind QueryKind, span sourcepos.Span) *Query {
	return &Query{Kind: kind, span: span}
}
