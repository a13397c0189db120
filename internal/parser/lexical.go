package parser

import (
	"strings"
	"unicode"
)

func (p *Parser) skipSpacesNoNewline() {
	for {
		c, ok := p.r.Peek()
		if !ok || (c != ' ' && c != '\t') {
			return
		}
		p.r.Next()
	}
}

// skipCommentsAndBlankLines skips `#` comments and blank lines between
// entries/sections (spec §6: "Comments begin with `#` outside strings").
func (p *Parser) skipCommentsAndBlankLines() {
	for {
		p.skipSpacesNoNewline()
		c, ok := p.r.Peek()
		if !ok {
			return
		}
		if c == '#' {
			for {
				c, ok = p.r.Peek()
				if !ok || c == '\n' {
					break
				}
				p.r.Next()
			}
			continue
		}
		if c == '\n' {
			p.r.Next()
			continue
		}
		return
	}
}

func (p *Parser) expectLiteral(lit string) (string, error) {
	start := p.pos()
	mark := p.r.Mark()
	for _, want := range lit {
		got, ok := p.r.Next()
		if !ok || got != want {
			p.r.Reset(mark)
			return "", newError(start, ErrExpectingLiteral, true, "expecting %q", lit)
		}
	}
	return lit, nil
}

func (p *Parser) expectNewline() error {
	c, ok := p.r.Next()
	if !ok {
		return nil // EOF terminates the file, acts like a trailing newline
	}
	if c != '\n' {
		return p.fail(ErrExpectingLiteral, false, "expecting end of line")
	}
	return nil
}

// identifier reads runs of letters, digits, '_', '-' and '.' used for variable names,
// header names written without templating, and section-free tokens.
func (p *Parser) identifier() (string, error) {
	start := p.pos()
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || !isIdentChar(c) {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	if sb.Len() == 0 {
		return "", newError(start, ErrExpectingLiteral, true, "expecting identifier")
	}
	return sb.String(), nil
}

func isIdentChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' || c == '.'
}

// restOfLine reads up to (excluding) the next newline or EOF.
func (p *Parser) restOfLine() string {
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || c == '\n' {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	return sb.String()
}
