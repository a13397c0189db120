package parser

import (
	"strings"

	"github.com/hurlgo/hurl/internal/ast"
)

var queryKeywords = map[string]ast.QueryKind{
	"status":      ast.QueryStatus,
	"version":     ast.QueryVersion,
	"url":         ast.QueryURL,
	"header":      ast.QueryHeader,
	"cookie":      ast.QueryCookie,
	"body":        ast.QueryBody,
	"bytes":       ast.QueryBytes,
	"sha256":      ast.QuerySha256,
	"md5":         ast.QueryMd5,
	"jsonpath":    ast.QueryJsonpath,
	"xpath":       ast.QueryXpath,
	"regex":       ast.QueryRegex,
	"variable":    ast.QueryVariable,
	"duration":    ast.QueryDuration,
	"certificate": ast.QueryCertificate,
	"ip":          ast.QueryIP,
	"redirects":   ast.QueryRedirects,
}

// query parses one query expression (spec §4.6).
func (p *Parser) query() (*ast.Query, error) {
	start := p.pos()
	word, err := p.identifier()
	if err != nil {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting a query keyword")
	}
	kind, ok := queryKeywords[word]
	if !ok {
		return nil, newError(start, ErrExpectingLiteral, true, "unknown query keyword %q", word)
	}
	q := ast.NewQuery(kind, p.span(start))

	switch kind {
	case ast.QueryHeader, ast.QueryVariable:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted argument after %q", word)
		}
		if kind == ast.QueryHeader {
			q.HeaderName = t
		} else {
			q.VariableName = t
		}
	case ast.QueryCookie:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted cookie path")
		}
		name, attr := splitCookiePath(t.Source)
		q.CookiePath = ast.NewTemplate(t.Fragments, name, t.Span())
		q.CookieAttr = attr
	case ast.QueryJsonpath:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted jsonpath expression")
		}
		q.JsonpathExpr = t
	case ast.QueryXpath:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted xpath expression")
		}
		q.XpathExpr = t
	case ast.QueryRegex:
		p.skipSpacesNoNewline()
		t, err := Optional(p, (*Parser).quotedString)
		if err != nil {
			return nil, err
		}
		if t != nil {
			q.RegexPattern = t
			q.RegexHasPattern = true
		}
	case ast.QueryCertificate:
		p.skipSpacesNoNewline()
		field, err := p.identifier()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a certificate field name")
		}
		q.CertificateField = field
	}
	q.SetSpan(p.span(start))
	return q, nil
}

func splitCookiePath(s string) (name, attr string) {
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		return s[:i], s[i+1 : len(s)-1]
	}
	return s, ""
}
