package parser

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/hurlgo/hurl/internal/ast"
)

// body parses one of the body variants described in spec §3/§6: base64
// blob, hex blob, file reference, JSON tree, or a multi-line
// (triple-backtick) / single-backtick templated string. An XML tree is
// not recognised here, so the parser never produces an ast.BodyXML body.
func (p *Parser) body() (*ast.Body, error) {
	start := p.pos()

	if b, err := Optional(p, (*Parser).base64Body); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := Optional(p, (*Parser).hexBody); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := Optional(p, (*Parser).fileBody); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := Optional(p, (*Parser).jsonBody); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := Optional(p, (*Parser).tripleBacktickBody); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := Optional(p, (*Parser).backtickBody); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}

	return nil, newError(start, ErrExpectingLiteral, true, "expecting a body")
}

func (p *Parser) base64Body() (*ast.Body, error) {
	start := p.pos()
	if _, err := p.expectLiteral("base64,"); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || c == ';' {
			break
		}
		if c != ' ' && c != '\n' && c != '\t' {
			sb.WriteRune(c)
		}
		p.r.Next()
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, p.fail(ErrEscapeError, false, "expecting ; terminating base64 literal")
	}
	raw, err := base64.StdEncoding.DecodeString(sb.String())
	if err != nil {
		return nil, newError(start, ErrEscapeError, false, "invalid base64 literal: %v", err)
	}
	return &ast.Body{Kind: ast.BodyBase64, Base64Bytes: raw}, nil
}

func (p *Parser) hexBody() (*ast.Body, error) {
	start := p.pos()
	if _, err := p.expectLiteral("hex,"); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || c == ';' {
			break
		}
		if c != ' ' && c != '\n' && c != '\t' {
			sb.WriteRune(c)
		}
		p.r.Next()
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, p.fail(ErrEscapeError, false, "expecting ; terminating hex literal")
	}
	raw, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, newError(start, ErrEscapeError, false, "invalid hex literal (must have an even digit count): %v", err)
	}
	return &ast.Body{Kind: ast.BodyHex, HexBytes: raw}, nil
}

func (p *Parser) fileBody() (*ast.Body, error) {
	if _, err := p.expectLiteral("file,"); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || c == ';' {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	if _, err := p.expectLiteral(";"); err != nil {
		return nil, p.fail(ErrEscapeError, false, "expecting ; terminating file reference")
	}
	return &ast.Body{Kind: ast.BodyFile, FilePath: strings.TrimSpace(sb.String())}, nil
}

// tripleBacktickBody parses ```[lang]\n ... \n``` with an optional
// language/encoding hint on the opening fence (e.g. ```json, ```base64).
func (p *Parser) tripleBacktickBody() (*ast.Body, error) {
	start := p.pos()
	if _, err := p.expectLiteral("```"); err != nil {
		return nil, err
	}
	hint := p.restOfLine()
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	startOffset := p.r.Offset()
	for {
		if p.r.Eof() {
			return nil, p.fail(ErrExpectingLiteral, false, "unterminated multi-line string (missing closing ```)")
		}
		mark := p.r.Mark()
		atLineStart := p.r.Offset() == startOffset || priorRuneIsNewline(p)
		if atLineStart {
			if _, err := p.expectLiteral("```"); err == nil {
				content := p.r.Slice(startOffset, mark.Offset())
				tmpl, terr := templateFromRawText(p, content)
				if terr != nil {
					return nil, terr
				}
				return (&ast.Body{Kind: ast.BodyMultilineString, Raw: tmpl, Encoding: strings.TrimSpace(hint)}).WithSpan(p.span(start)), nil
			}
			p.r.Reset(mark)
		}
		p.r.Next()
	}
}

func priorRuneIsNewline(p *Parser) bool {
	c, ok := p.r.PeekAt(-1)
	return ok && c == '\n'
}

// backtickBody parses a single-line `` `...` `` templated string body.
func (p *Parser) backtickBody() (*ast.Body, error) {
	start := p.pos()
	if _, err := p.expectLiteral("`"); err != nil {
		return nil, err
	}
	startOffset := p.r.Offset()
	for {
		c, ok := p.r.Peek()
		if !ok || c == '\n' {
			return nil, p.fail(ErrExpectingLiteral, false, "unterminated backtick string")
		}
		if c == '`' {
			content := p.r.Slice(startOffset, p.r.Offset())
			p.r.Next()
			tmpl, err := templateFromRawText(p, content)
			if err != nil {
				return nil, err
			}
			return (&ast.Body{Kind: ast.BodyRawString, Raw: tmpl}).WithSpan(p.span(start)), nil
		}
		p.r.Next()
	}
}

// templateFromRawText re-lexes already-consumed raw text for {{expr}}
// placeholders, since the outer scan above only needed to find the
// closing delimiter.
func templateFromRawText(p *Parser, text string) (*ast.Template, error) {
	sub := New(text, p.contextDir)
	return sub.templateUntil(func(rune) bool { return false })
}
