package parser

import "github.com/hurlgo/hurl/internal/ast"

var methodNames = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true,
	"CONNECT": true, "OPTIONS": true, "TRACE": true, "PATCH": true,
}

// request parses `METHOD <SP> URL <LF>` plus headers and sections
// (spec §4.1).
func (p *Parser) request() (*ast.Request, error) {
	start := p.pos()
	method, err := p.templateUntil(func(r rune) bool { return r == ' ' })
	if err != nil {
		return nil, err
	}
	if method.IsLiteral() && !methodNames[method.Source] {
		return nil, newError(start, ErrInvalidMethod, true, "unknown HTTP method %q", method.Source)
	}
	p.skipSpacesNoNewline()
	url, err := p.templateUntil(func(rune) bool { return false })
	if err != nil {
		return nil, err
	}
	if url.Source == "" {
		return nil, p.fail(ErrInvalidURL, false, "expecting a request URL")
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	req := &ast.Request{Method: method, URL: url}

	headers, err := ZeroOrMore(p, func(p *Parser) (ast.Header, error) {
		mark := p.r.Mark()
		if ok, _ := p.peekSectionOrBody(); ok {
			p.r.Reset(mark)
			return ast.Header{}, p.fail(ErrExpectingLiteral, true, "no more headers")
		}
		return p.headerLine()
	})
	if err != nil {
		return nil, err
	}
	req.Headers = headers

	if err := p.requestSections(req); err != nil {
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
		req.Body = body
	}

	req.SetSpan(p.span(start))
	return req, nil
}

// peekSectionOrBody reports whether the cursor is at the start of a
// `[Section]` header, a recognizable body opener, or the `HTTP` status
// line of the response, used to decide when the header-line loop should
// stop.
func (p *Parser) peekSectionOrBody() (bool, error) {
	c, ok := p.r.Peek()
	if !ok {
		return true, nil
	}
	mark := p.r.Mark()
	if _, err := p.expectLiteral("HTTP"); err == nil {
		next, more := p.r.Peek()
		p.r.Reset(mark)
		if !more || next == ' ' || next == '/' || next == '\n' {
			return true, nil
		}
	}
	return c == '[' || c == '{' || c == '`' || c == '\n', nil
}

func (p *Parser) requestSections(req *ast.Request) error {
	for {
		p.skipCommentsAndBlankLines()
		matched, err := p.sectionHeader("QueryStringParams")
		if err != nil {
			return err
		}
		if matched {
			kvs, err := p.kvSectionBody()
			if err != nil {
				return err
			}
			req.QueryStringParams = append(req.QueryStringParams, kvs...)
			continue
		}
		if matched, err = p.sectionHeader("FormParams"); err != nil {
			return err
		} else if matched {
			kvs, err := p.kvSectionBody()
			if err != nil {
				return err
			}
			req.FormParams = append(req.FormParams, kvs...)
			continue
		}
		if matched, err = p.sectionHeader("MultipartFormData"); err != nil {
			return err
		} else if matched {
			fields, err := p.multipartSectionBody()
			if err != nil {
				return err
			}
			req.MultipartForm = append(req.MultipartForm, fields...)
			continue
		}
		if matched, err = p.sectionHeader("Cookies"); err != nil {
			return err
		} else if matched {
			kvs, err := p.kvSectionBody()
			if err != nil {
				return err
			}
			req.Cookies = append(req.Cookies, kvs...)
			continue
		}
		if matched, err = p.sectionHeader("BasicAuth"); err != nil {
			return err
		} else if matched {
			auth, err := p.basicAuthSectionBody()
			if err != nil {
				return err
			}
			req.BasicAuth = auth
			continue
		}
		if matched, err = p.sectionHeader("Options"); err != nil {
			return err
		} else if matched {
			opts, err := p.optionsSectionBody()
			if err != nil {
				return err
			}
			req.Options = opts
			continue
		}
		return nil
	}
}

func (p *Parser) kvSectionBody() ([]ast.KV, error) {
	return ZeroOrMore(p, func(p *Parser) (ast.KV, error) {
		mark := p.r.Mark()
		p.skipCommentsAndBlankLines()
		if ok, _ := p.peekSectionOrBody(); ok {
			p.r.Reset(mark)
			return ast.KV{}, p.fail(ErrExpectingLiteral, true, "end of section")
		}
		return p.kvLine()
	})
}

func (p *Parser) multipartSectionBody() ([]ast.MultipartField, error) {
	return ZeroOrMore(p, func(p *Parser) (ast.MultipartField, error) {
		mark := p.r.Mark()
		p.skipCommentsAndBlankLines()
		if ok, _ := p.peekSectionOrBody(); ok {
			p.r.Reset(mark)
			return ast.MultipartField{}, p.fail(ErrExpectingLiteral, true, "end of section")
		}
		return p.multipartFieldLine()
	})
}

func (p *Parser) basicAuthSectionBody() (*ast.BasicAuth, error) {
	p.skipCommentsAndBlankLines()
	return p.basicAuthLine()
}

func (p *Parser) optionsSectionBody() (*ast.EntryOptions, error) {
	opts := &ast.EntryOptions{}
	_, err := ZeroOrMore(p, func(p *Parser) (struct{}, error) {
		mark := p.r.Mark()
		p.skipCommentsAndBlankLines()
		if ok, _ := p.peekSectionOrBody(); ok {
			p.r.Reset(mark)
			return struct{}{}, p.fail(ErrExpectingLiteral, true, "end of section")
		}
		return struct{}{}, p.optionLine(opts)
	})
	if err != nil {
		return nil, err
	}
	return opts, nil
}
