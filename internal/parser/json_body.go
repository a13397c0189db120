package parser

import (
	"strconv"

	"github.com/hurlgo/hurl/internal/ast"
)

// jsonBody parses a templated JSON tree body: every string leaf and
// object key may contain `{{expr}}` placeholders (spec §3), so this is a
// small recursive-descent JSON parser built directly on the reader
// rather than delegating to encoding/json.
func (p *Parser) jsonBody() (*ast.Body, error) {
	start := p.pos()
	p.skipSpacesNoNewline()
	c, ok := p.r.Peek()
	if !ok || (c != '{' && c != '[') {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting a JSON body")
	}
	node, err := p.jsonValue()
	if err != nil {
		return nil, err
	}
	return (&ast.Body{Kind: ast.BodyJSON, JSONTree: node}).WithSpan(p.span(start)), nil
}

func (p *Parser) jsonValue() (*ast.JSONNode, error) {
	p.skipJSONWhitespace()
	c, ok := p.r.Peek()
	if !ok {
		return nil, p.fail(ErrExpectingLiteral, false, "unexpected end of input in JSON body")
	}
	switch {
	case c == '{':
		return p.jsonObject()
	case c == '[':
		return p.jsonArray()
	case c == '"':
		t, err := p.quotedString()
		if err != nil {
			return nil, err
		}
		return &ast.JSONNode{Kind: ast.JSONString, Str: t}, nil
	case c == 't' || c == 'f':
		b, err := p.boolLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.JSONNode{Kind: ast.JSONBool, Bool: b}, nil
	case c == 'n':
		if _, err := p.expectLiteral("null"); err == nil {
			return &ast.JSONNode{Kind: ast.JSONNull}, nil
		}
		return nil, p.fail(ErrExpectingLiteral, false, "invalid JSON token")
	case (c >= '0' && c <= '9') || c == '-':
		lit, err := p.number()
		if err != nil {
			return nil, err
		}
		return &ast.JSONNode{Kind: ast.JSONNumber, Number: jsonNumberText(lit)}, nil
	default:
		return nil, p.fail(ErrExpectingLiteral, false, "unexpected character %q in JSON body", c)
	}
}

func jsonNumberText(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.LitBigInt:
		return lit.BigInt
	default:
		return "0"
	}
}

func (p *Parser) jsonObject() (*ast.JSONNode, error) {
	if _, err := p.expectLiteral("{"); err != nil {
		return nil, err
	}
	node := &ast.JSONNode{Kind: ast.JSONObject}
	p.skipJSONWhitespace()
	if c, ok := p.r.Peek(); ok && c == '}' {
		p.r.Next()
		return node, nil
	}
	for {
		p.skipJSONWhitespace()
		key, err := p.quotedString()
		if err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting a quoted object key")
		}
		p.skipJSONWhitespace()
		if _, err := p.expectLiteral(":"); err != nil {
			return nil, p.fail(ErrExpectingLiteral, false, "expecting ':' after object key")
		}
		val, err := p.jsonValue()
		if err != nil {
			return nil, err
		}
		node.Keys = append(node.Keys, key)
		node.Values = append(node.Values, val)
		p.skipJSONWhitespace()
		c, ok := p.r.Peek()
		if ok && c == ',' {
			p.r.Next()
			continue
		}
		if ok && c == '}' {
			p.r.Next()
			return node, nil
		}
		return nil, p.fail(ErrExpectingLiteral, false, "expecting ',' or '}' in JSON object")
	}
}

func (p *Parser) jsonArray() (*ast.JSONNode, error) {
	if _, err := p.expectLiteral("["); err != nil {
		return nil, err
	}
	node := &ast.JSONNode{Kind: ast.JSONArray}
	p.skipJSONWhitespace()
	if c, ok := p.r.Peek(); ok && c == ']' {
		p.r.Next()
		return node, nil
	}
	for {
		val, err := p.jsonValue()
		if err != nil {
			return nil, err
		}
		node.Elements = append(node.Elements, val)
		p.skipJSONWhitespace()
		c, ok := p.r.Peek()
		if ok && c == ',' {
			p.r.Next()
			continue
		}
		if ok && c == ']' {
			p.r.Next()
			return node, nil
		}
		return nil, p.fail(ErrExpectingLiteral, false, "expecting ',' or ']' in JSON array")
	}
}

func (p *Parser) skipJSONWhitespace() {
	for {
		c, ok := p.r.Peek()
		if !ok || (c != ' ' && c != '\t' && c != '\n' && c != '\r') {
			return
		}
		p.r.Next()
	}
}
