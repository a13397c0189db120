package parser

import "github.com/hurlgo/hurl/internal/ast"

// ParseFile parses a full Hurl document: a sequence of entries separated
// by blank lines (spec §4.1). On any non-recoverable error, parsing
// halts and returns the structured *Error.
func ParseFile(source, contextDir string) (*ast.File, error) {
	p := New(source, contextDir)
	start := p.pos()

	entries, err := ZeroOrMore(p, func(p *Parser) (*ast.Entry, error) {
		p.skipCommentsAndBlankLines()
		if p.r.Eof() {
			return nil, p.fail(ErrUnexpectedEOF, true, "end of file")
		}
		return p.entry()
	})
	if err != nil {
		return nil, err
	}
	p.skipCommentsAndBlankLines()
	if !p.r.Eof() {
		return nil, p.fail(ErrOther, false, "unexpected trailing content after last entry")
	}
	return ast.NewFile(entries, p.span(start)), nil
}

func (p *Parser) entry() (*ast.Entry, error) {
	start := p.pos()
	req, err := p.request()
	if err != nil {
		return nil, err
	}
	resp, err := p.response()
	if err != nil {
		return nil, err
	}
	return ast.NewEntry(req, resp, p.span(start)), nil
}
