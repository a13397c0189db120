package parser

import (
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/internal/ast"
)

// number reads an integer or float literal (spec §4.1): integers fit
// into int64 when possible, otherwise become a BigInteger decimal
// string; floats require a decimal point or exponent.
func (p *Parser) number() (*ast.Literal, error) {
	start := p.pos()
	startOffset := p.r.Offset()
	if c, ok := p.r.Peek(); ok && (c == '+' || c == '-') {
		p.r.Next()
	}
	digits := 0
	for {
		c, ok := p.r.Peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		p.r.Next()
		digits++
	}
	if digits == 0 {
		return nil, newError(start, ErrInvalidNumber, true, "expecting number")
	}
	isFloat := false
	if c, ok := p.r.Peek(); ok && c == '.' {
		if next, ok2 := p.r.PeekAt(1); ok2 && next >= '0' && next <= '9' {
			isFloat = true
			p.r.Next()
			for {
				c, ok = p.r.Peek()
				if !ok || c < '0' || c > '9' {
					break
				}
				p.r.Next()
			}
		}
	}
	if c, ok := p.r.Peek(); ok && (c == 'e' || c == 'E') {
		mark := p.r.Mark()
		p.r.Next()
		if c2, ok2 := p.r.Peek(); ok2 && (c2 == '+' || c2 == '-') {
			p.r.Next()
		}
		expDigits := 0
		for {
			c, ok = p.r.Peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			p.r.Next()
			expDigits++
		}
		if expDigits == 0 {
			p.r.Reset(mark)
		} else {
			isFloat = true
		}
	}
	text := p.r.Slice(startOffset, p.r.Offset())
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, newError(start, ErrInvalidNumber, false, "invalid float literal %q", text)
		}
		return &ast.Literal{Kind: ast.LitFloat, Float: f}, nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &ast.Literal{Kind: ast.LitInt, Int: i}, nil
	}
	return &ast.Literal{Kind: ast.LitBigInt, BigInt: text}, nil
}

// duration reads `<digits>[ms|s|m]`; see ast.Duration for default-unit
// resolution.
func (p *Parser) duration() (ast.Duration, error) {
	start := p.pos()
	startOffset := p.r.Offset()
	digits := 0
	for {
		c, ok := p.r.Peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		p.r.Next()
		digits++
	}
	if digits == 0 {
		return ast.Duration{}, newError(start, ErrInvalidDuration, true, "expecting duration")
	}
	amountText := p.r.Slice(startOffset, p.r.Offset())
	amount, _ := strconv.ParseInt(amountText, 10, 64)

	if lit, err := p.expectLiteral("ms"); err == nil && lit == "ms" {
		return ast.Duration{Amount: amount, Unit: ast.UnitMillisecond, UnitWritten: true}, nil
	}
	if c, ok := p.r.Peek(); ok && c == 's' {
		p.r.Next()
		return ast.Duration{Amount: amount, Unit: ast.UnitSecond, UnitWritten: true}, nil
	}
	if c, ok := p.r.Peek(); ok && c == 'm' {
		p.r.Next()
		return ast.Duration{Amount: amount, Unit: ast.UnitMinute, UnitWritten: true}, nil
	}
	return ast.Duration{Amount: amount, UnitWritten: false}, nil
}

// boolLiteral reads `true`/`false`.
func (p *Parser) boolLiteral() (bool, error) {
	start := p.pos()
	if lit, err := p.expectLiteral("true"); err == nil && lit == "true" {
		return true, nil
	}
	if lit, err := p.expectLiteral("false"); err == nil && lit == "false" {
		return false, nil
	}
	return false, newError(start, ErrExpectingLiteral, true, "expecting true/false")
}

// bareWord reads a run of non-space characters (up to a space, tab,
// newline or EOF).
func (p *Parser) bareWord() string {
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || c == ' ' || c == '\t' || c == '\n' {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	return sb.String()
}
