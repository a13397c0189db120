// Package parser implements Hurl's hand-written combinator parser (spec
// §4.1): a character reader with a line/column cursor, combinators
// (optional, zero_or_more, one_or_more, choice, recover, non_recover),
// and a concrete grammar built from them that produces an
// internal/ast.File. Style is grounded on the teacher's
// ai/vectorstore/filter/parser package (a hand-written recursive-descent
// parser over its own lexer), adapted from a boolean-filter grammar to
// Hurl's request/response grammar and generalized with Go generics for
// the reusable combinators, the way flow.Processor generalizes pipeline
// stages.
package parser

import (
	"github.com/hurlgo/hurl/internal/reader"
	"github.com/hurlgo/hurl/internal/sourcepos"
)

// Parser holds the cursor and the context directory used to validate
// `file,...;` references against the allowlist (spec §6).
type Parser struct {
	r          *reader.Reader
	contextDir string
}

func New(input, contextDir string) *Parser {
	return &Parser{r: reader.New(input), contextDir: contextDir}
}

func (p *Parser) pos() sourcepos.Position { return p.r.Position() }

func (p *Parser) span(start sourcepos.Position) sourcepos.Span {
	return sourcepos.NewSpan(start, p.pos())
}

func (p *Parser) fail(kind ErrorKind, recoverable bool, format string, args ...any) error {
	return newError(p.pos(), kind, recoverable, format, args...)
}
