package parser

import "github.com/hurlgo/hurl/internal/ast"

// response parses `HTTP <VERSION> <STATUS>` plus headers and sections
// (spec §4.1), returning (nil, nil) when no response follows (the
// request is the last thing in the entry).
func (p *Parser) response() (*ast.Response, error) {
	start := p.pos()
	mark := p.r.Mark()
	p.skipCommentsAndBlankLines()

	version, err := p.versionExpectation()
	if err != nil {
		p.r.Reset(mark)
		return nil, nil
	}
	p.skipSpacesNoNewline()
	status, err := p.statusExpectation()
	if err != nil {
		return nil, p.fail(ErrExpectingLiteral, false, "expecting a status code or '*' after HTTP version")
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	resp := &ast.Response{Version: version, Status: status}

	headers, err := ZeroOrMore(p, func(p *Parser) (ast.Header, error) {
		m := p.r.Mark()
		if ok, _ := p.peekSectionOrBody(); ok {
			p.r.Reset(m)
			return ast.Header{}, p.fail(ErrExpectingLiteral, true, "no more headers")
		}
		return p.headerLine()
	})
	if err != nil {
		return nil, err
	}
	resp.Headers = headers

	if err := p.responseSections(resp); err != nil {
		return nil, err
	}

	body, err := Optional(p, (*Parser).body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
		resp.Body = body
	}

	resp.SetSpan(p.span(start))
	return resp, nil
}

func (p *Parser) versionExpectation() (ast.VersionExpectation, error) {
	for _, c := range []struct {
		lit string
		ver ast.VersionExpectation
	}{
		{"HTTP/1.0", ast.VersionHTTP10},
		{"HTTP/1.1", ast.VersionHTTP11},
		{"HTTP/2", ast.VersionHTTP2},
		{"HTTP/3", ast.VersionHTTP3},
		{"HTTP", ast.VersionAny},
	} {
		if _, err := p.expectLiteral(c.lit); err == nil {
			return c.ver, nil
		}
	}
	return 0, p.fail(ErrExpectingLiteral, true, "expecting an HTTP version")
}

func (p *Parser) statusExpectation() (ast.StatusExpectation, error) {
	if _, err := p.expectLiteral("*"); err == nil {
		return ast.StatusExpectation{Wildcard: true}, nil
	}
	lit, err := p.number()
	if err != nil || lit.Kind != ast.LitInt {
		return ast.StatusExpectation{}, p.fail(ErrExpectingLiteral, false, "expecting a numeric status code")
	}
	return ast.StatusExpectation{Code: int(lit.Int)}, nil
}

func (p *Parser) responseSections(resp *ast.Response) error {
	for {
		p.skipCommentsAndBlankLines()
		matched, err := p.sectionHeader("Captures")
		if err != nil {
			return err
		}
		if matched {
			captures, err := ZeroOrMore(p, func(p *Parser) (*ast.Capture, error) {
				m := p.r.Mark()
				p.skipCommentsAndBlankLines()
				if ok, _ := p.peekSectionOrBody(); ok {
					p.r.Reset(m)
					return nil, p.fail(ErrExpectingLiteral, true, "end of section")
				}
				return p.captureLine()
			})
			if err != nil {
				return err
			}
			resp.Captures = append(resp.Captures, captures...)
			continue
		}
		if matched, err = p.sectionHeader("Asserts"); err != nil {
			return err
		} else if matched {
			asserts, err := ZeroOrMore(p, func(p *Parser) (*ast.Assert, error) {
				m := p.r.Mark()
				p.skipCommentsAndBlankLines()
				if ok, _ := p.peekSectionOrBody(); ok {
					p.r.Reset(m)
					return nil, p.fail(ErrExpectingLiteral, true, "end of section")
				}
				return p.assertLine()
			})
			if err != nil {
				return err
			}
			resp.Asserts = append(resp.Asserts, asserts...)
			continue
		}
		return nil
	}
}
