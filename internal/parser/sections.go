package parser

import "github.com/hurlgo/hurl/internal/ast"

func (p *Parser) headerLine() (ast.Header, error) {
	start := p.pos()
	name, err := p.templateUntil(func(r rune) bool { return r == ':' })
	if err != nil {
		return ast.Header{}, err
	}
	if name.Source == "" {
		return ast.Header{}, newError(start, ErrExpectingLiteral, true, "expecting a header name")
	}
	if _, err := p.expectLiteral(":"); err != nil {
		return ast.Header{}, p.fail(ErrExpectingLiteral, false, "expecting ':' after header name")
	}
	p.skipSpacesNoNewline()
	value, err := p.templateUntil(func(rune) bool { return false })
	if err != nil {
		return ast.Header{}, err
	}
	if err := p.expectNewline(); err != nil {
		return ast.Header{}, err
	}
	return ast.Header{Name: name, Value: value}, nil
}

func (p *Parser) kvLine() (ast.KV, error) {
	name, err := p.templateUntil(func(r rune) bool { return r == ':' })
	if err != nil {
		return ast.KV{}, err
	}
	if _, err := p.expectLiteral(":"); err != nil {
		return ast.KV{}, p.fail(ErrExpectingLiteral, false, "expecting ':' after key")
	}
	p.skipSpacesNoNewline()
	value, err := p.templateUntil(func(rune) bool { return false })
	if err != nil {
		return ast.KV{}, err
	}
	if err := p.expectNewline(); err != nil {
		return ast.KV{}, err
	}
	return ast.KV{Name: name, Value: value}, nil
}

// sectionHeader recognizes `[Name]` on its own line, recoverable so the
// caller can try the next alternative (end of request, body, EOF).
func (p *Parser) sectionHeader(name string) (bool, error) {
	mark := p.r.Mark()
	if _, err := p.expectLiteral("[" + name + "]"); err != nil {
		p.r.Reset(mark)
		return false, nil
	}
	if err := p.expectNewline(); err != nil {
		return false, p.fail(ErrExpectingLiteral, false, "expecting end of line after [%s]", name)
	}
	return true, nil
}

func (p *Parser) captureLine() (*ast.Capture, error) {
	start := p.pos()
	name, err := p.identifier()
	if err != nil {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting a capture name")
	}
	p.skipSpacesNoNewline()
	if _, err := p.expectLiteral(":"); err != nil {
		return nil, p.fail(ErrExpectingLiteral, false, "expecting ':' after capture name")
	}
	p.skipSpacesNoNewline()
	q, err := p.query()
	if err != nil {
		return nil, p.fail(ErrExpectingLiteral, false, "expecting a query in capture %q", name)
	}
	filters, err := p.filterChain()
	if err != nil {
		return nil, err
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return ast.NewCapture(name, q, filters, nil, p.span(start)), nil
}

func (p *Parser) assertLine() (*ast.Assert, error) {
	start := p.pos()
	q, err := p.query()
	if err != nil {
		return nil, err
	}
	filters, err := p.filterChain()
	if err != nil {
		return nil, err
	}
	p.skipSpacesNoNewline()
	pred, err := p.predicate()
	if err != nil {
		return nil, p.fail(ErrExpectingLiteral, false, "expecting a predicate")
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return ast.NewAssert(q, filters, pred, p.span(start)), nil
}

func (p *Parser) filterChain() ([]*ast.Filter, error) {
	var filters []*ast.Filter
	for {
		mark := p.r.Mark()
		p.skipSpacesNoNewline()
		f, err := p.filter()
		if err != nil {
			if IsRecoverable(err) {
				p.r.Reset(mark)
				return filters, nil
			}
			return nil, err
		}
		filters = append(filters, f)
	}
}

func (p *Parser) multipartFieldLine() (ast.MultipartField, error) {
	name, err := p.templateUntil(func(r rune) bool { return r == ':' })
	if err != nil {
		return ast.MultipartField{}, err
	}
	if _, err := p.expectLiteral(":"); err != nil {
		return ast.MultipartField{}, p.fail(ErrExpectingLiteral, false, "expecting ':' after field name")
	}
	p.skipSpacesNoNewline()
	mark := p.r.Mark()
	if _, err := p.expectLiteral("file,"); err == nil {
		p.r.Reset(mark)
		body, err := p.fileBody()
		if err != nil {
			return ast.MultipartField{}, err
		}
		fp := ast.NewTemplate(nil, body.FilePath, body.Span())
		field := ast.MultipartField{Name: name, FilePath: fp}
		p.skipSpacesNoNewline()
		if _, err := p.expectLiteral(";"); err == nil {
			p.skipSpacesNoNewline()
			ct, err := p.templateUntil(func(rune) bool { return false })
			if err == nil {
				field.ContentType = ct
			}
		}
		if err := p.expectNewline(); err != nil {
			return ast.MultipartField{}, err
		}
		return field, nil
	}
	p.r.Reset(mark)
	value, err := p.templateUntil(func(rune) bool { return false })
	if err != nil {
		return ast.MultipartField{}, err
	}
	if err := p.expectNewline(); err != nil {
		return ast.MultipartField{}, err
	}
	return ast.MultipartField{Name: name, Value: value}, nil
}

func (p *Parser) basicAuthLine() (*ast.BasicAuth, error) {
	user, err := p.templateUntil(func(r rune) bool { return r == ':' })
	if err != nil {
		return nil, err
	}
	if _, err := p.expectLiteral(":"); err != nil {
		return nil, p.fail(ErrExpectingLiteral, false, "expecting ':' after username")
	}
	p.skipSpacesNoNewline()
	pass, err := p.templateUntil(func(rune) bool { return false })
	if err != nil {
		return nil, err
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.BasicAuth{Username: user, Password: pass}, nil
}

// optionLine parses one `name: value` line inside [Options], merging it
// into opts. Unknown option names are ignored rather than fatal, since
// the surface is intentionally broad (SPEC_FULL.md §3).
func (p *Parser) optionLine(opts *ast.EntryOptions) error {
	start := p.pos()
	name, err := p.identifier()
	if err != nil {
		return newError(start, ErrExpectingLiteral, true, "expecting an option name")
	}
	p.skipSpacesNoNewline()
	if _, err := p.expectLiteral(":"); err != nil {
		return p.fail(ErrExpectingLiteral, false, "expecting ':' after option name")
	}
	p.skipSpacesNoNewline()

	switch name {
	case "retry":
		lit, err := p.number()
		if err != nil {
			return p.fail(ErrInvalidNumber, false, "expecting an integer value for retry")
		}
		opts.Retry = &lit.Int
	case "retry-interval", "delay", "timeout", "connect-timeout":
		d, err := p.duration()
		if err != nil {
			return p.fail(ErrInvalidDuration, false, "expecting a duration for %s", name)
		}
		switch name {
		case "retry-interval":
			opts.RetryInterval = &d
		case "delay":
			opts.Delay = &d
		case "timeout":
			opts.Timeout = &d
		case "connect-timeout":
			opts.ConnectTimeout = &d
		}
	case "repeat":
		lit, err := p.number()
		if err != nil {
			return p.fail(ErrInvalidNumber, false, "expecting an integer value for repeat")
		}
		opts.Repeat = &lit.Int
	case "variable":
		kv, err := p.kvLine()
		if err != nil {
			return err
		}
		opts.Variables = append(opts.Variables, kv)
		return nil // kvLine already consumed the trailing newline
	case "compressed", "location", "insecure", "ipv4", "ipv6", "very-verbose":
		b, err := p.boolLiteral()
		if err != nil {
			return p.fail(ErrExpectingLiteral, false, "expecting true/false for %s", name)
		}
		switch name {
		case "compressed":
			opts.Compressed = &b
		case "location":
			opts.Location = &b
		case "insecure":
			opts.Insecure = &b
		case "ipv4":
			opts.IPv4 = &b
		case "ipv6":
			opts.IPv6 = &b
		case "very-verbose":
			opts.VeryVerbose = &b
		}
	case "cacert", "cert", "key", "proxy", "unix-socket", "http-version":
		t, err := p.templateUntil(func(rune) bool { return false })
		if err != nil {
			return err
		}
		switch name {
		case "cacert":
			opts.CaCert = t
		case "cert":
			opts.Cert = t
		case "key":
			opts.Key = t
		case "proxy":
			opts.Proxy = t
		case "unix-socket":
			opts.UnixSocket = t
		case "http-version":
			opts.HTTPVersion = t
		}
	case "resolve", "connect-to":
		t, err := p.templateUntil(func(rune) bool { return false })
		if err != nil {
			return err
		}
		if name == "resolve" {
			opts.Resolve = append(opts.Resolve, *t)
		} else {
			opts.ConnectTo = append(opts.ConnectTo, *t)
		}
	default:
		// Unknown option: consume the rest of the line and ignore it.
		_ = p.restOfLine()
	}
	return p.expectNewline()
}
