package parser

import (
	"strings"

	"github.com/hurlgo/hurl/internal/ast"
)

// templateUntil reads a template whose literal text runs until the
// reader hits one of the stop runes (unescaped) or EOF/newline,
// recognizing `{{ expr }}` placeholders anywhere in between. Used for
// unquoted template contexts (method, URL, unquoted header values).
func (p *Parser) templateUntil(stop func(rune) bool) (*ast.Template, error) {
	start := p.pos()
	startOffset := p.r.Offset()
	var frags []ast.TemplateFragment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, ast.TemplateFragment{Literal: lit.String()})
			lit.Reset()
		}
	}

	for {
		c, ok := p.r.Peek()
		if !ok || c == '\n' || stop(c) {
			break
		}
		if c == '{' {
			if next, ok2 := p.r.PeekAt(1); ok2 && next == '{' {
				flush()
				expr, err := p.templatePlaceholder()
				if err != nil {
					return nil, err
				}
				frags = append(frags, ast.TemplateFragment{Expr: expr})
				continue
			}
		}
		if c == '\\' {
			p.r.Next()
			esc, ok3 := p.r.Next()
			if !ok3 {
				return nil, p.fail(ErrEscapeError, false, "dangling escape at end of input")
			}
			lit.WriteRune(unescape(esc))
			continue
		}
		lit.WriteRune(c)
		p.r.Next()
	}
	flush()
	src := p.r.Slice(startOffset, p.r.Offset())
	return ast.NewTemplate(frags, src, p.span(start)), nil
}

// templatePlaceholder parses `{{ expr }}` at the cursor, which must
// already be positioned at the first `{`.
func (p *Parser) templatePlaceholder() (*ast.TemplateExpr, error) {
	start := p.pos()
	if _, err := p.expectLiteral("{{"); err != nil {
		return nil, err
	}
	p.skipSpacesNoNewline()
	name, err := p.identifier()
	if err != nil {
		return nil, p.fail(ErrInvalidTemplate, false, "expecting variable or function name")
	}
	p.skipSpacesNoNewline()
	if _, err := p.expectLiteral("}}"); err != nil {
		return nil, p.fail(ErrInvalidTemplate, false, "expecting closing }}")
	}
	kind := ast.ExprVariable
	switch name {
	case "newUuid":
		kind = ast.ExprFuncNewUuid
	case "newDate":
		kind = ast.ExprFuncNewDate
	}
	if kind != ast.ExprVariable {
		name = ""
	}
	return ast.NewTemplateExpr(kind, name, p.span(start)), nil
}

func unescape(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}

// quotedString parses a `"…"` template, where the content is a template
// (may contain {{expr}}) and `\"` escapes the delimiter.
func (p *Parser) quotedString() (*ast.Template, error) {
	start := p.pos()
	c, ok := p.r.Peek()
	if !ok || c != '"' {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting quoted string")
	}
	p.r.Next()
	startOffset := p.r.Offset()
	var frags []ast.TemplateFragment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, ast.TemplateFragment{Literal: lit.String()})
			lit.Reset()
		}
	}
	for {
		c, ok = p.r.Peek()
		if !ok {
			return nil, p.fail(ErrExpectingLiteral, false, "unterminated string literal")
		}
		if c == '"' {
			p.r.Next()
			break
		}
		if c == '{' {
			if next, ok2 := p.r.PeekAt(1); ok2 && next == '{' {
				flush()
				expr, err := p.templatePlaceholder()
				if err != nil {
					return nil, err
				}
				frags = append(frags, ast.TemplateFragment{Expr: expr})
				continue
			}
		}
		if c == '\\' {
			p.r.Next()
			esc, ok3 := p.r.Next()
			if !ok3 {
				return nil, p.fail(ErrEscapeError, false, "dangling escape in string")
			}
			lit.WriteRune(unescape(esc))
			continue
		}
		lit.WriteRune(c)
		p.r.Next()
	}
	flush()
	src := p.r.Slice(startOffset, p.r.Offset()-1)
	return ast.NewTemplate(frags, src, p.span(start)), nil
}
