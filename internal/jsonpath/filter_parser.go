package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// parseFilterExpr parses the body of a `[?(...)]` / `[?...]` filter
// selector: a chain of `&&`/`and`-joined and `||`/`or`-joined comparisons
// or existence tests, with optional leading `!`/`not`.
func (p *pathParser) parseFilterExpr() (*FilterExpr, error) {
	return p.parseOrExpr()
}

func (p *pathParser) parseOrExpr() (*FilterExpr, error) {
	first, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	terms := []*FilterExpr{first}
	for {
		p.skipSpace()
		if !p.consumeOp("||") && !p.consumeWord("or") {
			break
		}
		p.skipSpace()
		next, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &FilterExpr{Or: terms}, nil
}

func (p *pathParser) parseAndExpr() (*FilterExpr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := []*FilterExpr{first}
	for {
		p.skipSpace()
		if !p.consumeOp("&&") && !p.consumeWord("and") {
			break
		}
		p.skipSpace()
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &FilterExpr{And: terms}, nil
}

func (p *pathParser) parseUnary() (*FilterExpr, error) {
	p.skipSpace()
	if p.consumeOp("!") || p.consumeWord("not") {
		p.skipSpace()
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &FilterExpr{Not: inner}, nil
	}
	return p.parsePrimary()
}

func (p *pathParser) parsePrimary() (*FilterExpr, error) {
	p.skipSpace()
	if c, ok := p.r.Peek(); ok && c == '(' {
		p.r.Next()
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	p.skipSpace()

	op, ok := p.peekCompareOp()
	if !ok {
		return &FilterExpr{IsExistence: true, Existence: left}, nil
	}
	p.consumeCompareOp(op)
	p.skipSpace()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &FilterExpr{IsComparison: true, Op: op, Left: left, Right: right}, nil
}

func (p *pathParser) peekCompareOp() (CompareOp, bool) {
	rest := p.r.Remainder()
	for _, cand := range []struct {
		lit string
		op  CompareOp
	}{
		{"==", OpEq}, {"!=", OpNe}, {"<=", OpLe}, {">=", OpGe}, {"<", OpLt}, {">", OpGt},
	} {
		if strings.HasPrefix(rest, cand.lit) {
			return cand.op, true
		}
	}
	return 0, false
}

func (p *pathParser) consumeCompareOp(op CompareOp) {
	n := 2
	switch op {
	case OpLt, OpGt:
		n = 1
	}
	for i := 0; i < n; i++ {
		p.r.Next()
	}
}

func (p *pathParser) consumeOp(lit string) bool {
	if strings.HasPrefix(p.r.Remainder(), lit) {
		for range lit {
			p.r.Next()
		}
		return true
	}
	return false
}

func (p *pathParser) consumeWord(word string) bool {
	rest := p.r.Remainder()
	if !strings.HasPrefix(rest, word) {
		return false
	}
	after := rest[len(word):]
	if len(after) > 0 {
		c := rune(after[0])
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return false
		}
	}
	for range word {
		p.r.Next()
	}
	return true
}

// parseOperand parses an @... / $... query (both rooted at the current
// candidate node when evaluated), a function call (standard dialect), or
// a literal.
func (p *pathParser) parseOperand() (*Operand, error) {
	p.skipSpace()
	c, ok := p.r.Peek()
	if !ok {
		return nil, fmt.Errorf("jsonpath: unexpected end of filter expression")
	}

	if c == '@' || c == '$' {
		sub := &pathParser{r: p.r}
		path, err := sub.parseRoot0(c)
		if err != nil {
			return nil, err
		}
		return &Operand{Query: path}, nil
	}

	if c == '\'' || c == '"' {
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return &Operand{IsLiteral: true, LitStr: s, LitIsStr: true}, nil
	}

	if c == '-' || (c >= '0' && c <= '9') {
		start := p.r.Offset()
		p.r.Next()
		for {
			c2, ok2 := p.r.Peek()
			if !ok2 || !(c2 == '.' || (c2 >= '0' && c2 <= '9')) {
				break
			}
			p.r.Next()
		}
		text := p.r.Slice(start, p.r.Offset())
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("jsonpath: invalid number %q in filter", text)
		}
		return &Operand{IsLiteral: true, LitNum: f, LitIsNum: true}, nil
	}

	if p.consumeWord("true") {
		return &Operand{IsLiteral: true, LitBool: true}, nil
	}
	if p.consumeWord("false") {
		return &Operand{IsLiteral: true, LitBool: false}, nil
	}
	if p.consumeWord("null") {
		return &Operand{IsLiteral: true, LitNull: true}, nil
	}

	// standard-dialect function extension: name(arg[, arg...])
	name := p.readFuncName()
	if name == "" {
		return nil, fmt.Errorf("jsonpath: unexpected character %q in filter expression", c)
	}
	p.skipSpace()
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var args []*Operand
	p.skipSpace()
	if c2, ok2 := p.r.Peek(); !ok2 || c2 != ')' {
		for {
			arg, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			if c3, ok3 := p.r.Peek(); ok3 && c3 == ',' {
				p.r.Next()
				p.skipSpace()
				continue
			}
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &Operand{Func: name, FuncArgs: args}, nil
}

func (p *pathParser) readFuncName() string {
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	return sb.String()
}

// parseRoot0 parses a query operand whose root rune has already been
// peeked (not yet consumed) — used inside filter expressions where
// parseRoot's own peek would otherwise re-check it redundantly.
func (p *pathParser) parseRoot0(root rune) (*Path, error) {
	p.r.Next()
	path := &Path{}
	for {
		c, ok := p.r.Peek()
		if !ok || !(c == '.' || c == '[') {
			break
		}
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, seg...)
	}
	return path, nil
}
