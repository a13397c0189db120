package parser

import "github.com/hurlgo/hurl/internal/ast"

var filterKeywords = map[string]ast.FilterKind{
	"count":             ast.FilterCount,
	"first":             ast.FilterFirst,
	"last":              ast.FilterLast,
	"nth":               ast.FilterNth,
	"regex":             ast.FilterRegex,
	"replace":           ast.FilterReplace,
	"replaceRegex":      ast.FilterReplaceRegex,
	"split":             ast.FilterSplit,
	"base64Decode":      ast.FilterBase64Decode,
	"base64Encode":      ast.FilterBase64Encode,
	"base64UrlSafeDecode": ast.FilterBase64UrlSafeDecode,
	"base64UrlSafeEncode": ast.FilterBase64UrlSafeEncode,
	"urlDecode":         ast.FilterUrlDecode,
	"urlEncode":         ast.FilterUrlEncode,
	"htmlEscape":        ast.FilterHtmlEscape,
	"htmlUnescape":      ast.FilterHtmlUnescape,
	"toInt":             ast.FilterToInt,
	"toFloat":           ast.FilterToFloat,
	"toString":          ast.FilterToString,
	"toHex":             ast.FilterToHex,
	"toDate":            ast.FilterToDate,
	"format":            ast.FilterFormat,
	"daysAfterNow":      ast.FilterDaysAfterNow,
	"daysBeforeNow":     ast.FilterDaysBeforeNow,
	"decode":            ast.FilterDecode,
	"utf8Encode":        ast.FilterUtf8Encode,
	"utf8Decode":        ast.FilterUtf8Decode,
	"jsonpath":          ast.FilterJsonpath,
	"xpath":             ast.FilterXpath,
	"location":          ast.FilterLocation,
	"urlQueryParam":     ast.FilterUrlQueryParam,
}

// filter parses one filter invocation in a `(FILTER)*` chain (spec §4.4).
func (p *Parser) filter() (*ast.Filter, error) {
	start := p.pos()
	word, err := p.identifier()
	if err != nil {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting a filter keyword")
	}
	kind, ok := filterKeywords[word]
	if !ok {
		return nil, newError(start, ErrExpectingLiteral, true, "unknown filter keyword %q", word)
	}
	f := ast.NewFilter(kind, p.span(start))

	switch kind {
	case ast.FilterNth:
		p.skipSpacesNoNewline()
		lit, err := p.number()
		if err != nil {
			return nil, p.fail(ErrInvalidNumber, false, "expecting an integer argument for nth")
		}
		f.Nth = lit.Int
	case ast.FilterRegex, ast.FilterReplaceRegex:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted regex pattern")
		}
		f.Pattern = t
		if kind == ast.FilterReplaceRegex {
			p.skipSpacesNoNewline()
			rep, err := p.quotedString()
			if err != nil {
				return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted replacement string")
			}
			f.New = rep
		}
	case ast.FilterReplace:
		p.skipSpacesNoNewline()
		oldT, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted old value")
		}
		p.skipSpacesNoNewline()
		newT, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted new value")
		}
		f.Old, f.New = oldT, newT
	case ast.FilterSplit:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted separator")
		}
		f.Sep = t
	case ast.FilterToDate, ast.FilterFormat:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted format string")
		}
		f.Format = t
	case ast.FilterDecode:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted encoding label")
		}
		f.Encoding = t
	case ast.FilterJsonpath, ast.FilterXpath:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted query expression")
		}
		f.Expr = t
	case ast.FilterUrlQueryParam:
		p.skipSpacesNoNewline()
		t, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted parameter name")
		}
		f.ParamName = t
	}
	return f, nil
}
