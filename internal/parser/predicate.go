package parser

import "github.com/hurlgo/hurl/internal/ast"

var comparisonPredicates = map[string]ast.PredicateKind{
	"==":         ast.PredEqual,
	"!=":         ast.PredNotEqual,
	"<=":         ast.PredLessOrEqual,
	">=":         ast.PredGreaterOrEqual,
	"<":          ast.PredLessThan,
	">":          ast.PredGreaterThan,
	"contains":   ast.PredContains,
	"includes":   ast.PredIncludes,
	"startsWith": ast.PredStartsWith,
	"endsWith":   ast.PredEndsWith,
	"matches":    ast.PredMatches,
}

var kindTestPredicates = map[string]ast.PredicateKind{
	"isInteger":    ast.PredIsInteger,
	"isFloat":      ast.PredIsFloat,
	"isString":     ast.PredIsString,
	"isCollection": ast.PredIsCollection,
	"isDate":       ast.PredIsDate,
	"isIsoDate":    ast.PredIsIsoDate,
	"isEmpty":      ast.PredIsEmpty,
	"isNumber":     ast.PredIsNumber,
	"isBoolean":    ast.PredIsBoolean,
	"exists":       ast.PredExists,
}

// predicate parses `(not)? PREDICATE-NAME ARG?` (spec §4.5).
func (p *Parser) predicate() (*ast.Predicate, error) {
	start := p.pos()
	negate := false
	mark := p.r.Mark()
	if word, err := p.identifier(); err == nil && word == "not" {
		negate = true
		p.skipSpacesNoNewline()
	} else {
		p.r.Reset(mark)
	}

	word, err := p.bareWordPredicateName()
	if err != nil {
		return nil, newError(start, ErrExpectingLiteral, true, "expecting a predicate")
	}

	if kind, ok := kindTestPredicates[word]; ok {
		pr := ast.NewPredicate(kind, negate, p.span(start))
		return pr, nil
	}

	kind, ok := comparisonPredicates[word]
	if !ok {
		return nil, newError(start, ErrExpectingLiteral, true, "unknown predicate %q", word)
	}
	pr := ast.NewPredicate(kind, negate, p.span(start))
	p.skipSpacesNoNewline()
	lit, err := p.predicateOperand()
	if err != nil {
		return nil, err
	}
	pr.Operand = lit
	return pr, nil
}

// bareWordPredicateName reads either a symbolic operator (==, !=, <=,
// >=, <, >) or an identifier-style predicate name.
func (p *Parser) bareWordPredicateName() (string, error) {
	for _, sym := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if lit, err := p.expectLiteral(sym); err == nil {
			return lit, nil
		}
	}
	return p.identifier()
}

func (p *Parser) predicateOperand() (*ast.Literal, error) {
	start := p.pos()
	if _, err := p.expectLiteral("null"); err == nil {
		return &ast.Literal{Kind: ast.LitNull, Null: true}, nil
	}
	if c, ok := p.r.Peek(); ok && c == '"' {
		t, err := p.quotedString()
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitString, Str: t}, nil
	}
	if c, ok := p.r.Peek(); ok && (c == 't' || c == 'f') {
		mark := p.r.Mark()
		b, err := p.boolLiteral()
		if err == nil {
			return &ast.Literal{Kind: ast.LitBool, Bool: b}, nil
		}
		p.r.Reset(mark)
	}
	lit, err := p.number()
	if err != nil {
		return nil, newError(start, ErrExpectingLiteral, false, "expecting a predicate operand")
	}
	return lit, nil
}
