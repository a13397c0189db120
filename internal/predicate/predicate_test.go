package predicate

import (
	"testing"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/sourcepos"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

func intLiteral(n int64) *ast.Literal {
	return &ast.Literal{Kind: ast.LitInt, Int: n}
}

// Mirrors spec §8 scenario 2's final step: count == 2.
func TestEqualIntPasses(t *testing.T) {
	p := ast.NewPredicate(ast.PredEqual, false, sourcepos.Span{})
	p.Operand = intLiteral(2)
	res, err := Evaluate(p, value.IntVal(2), true, variables.New())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Passed {
		t.Fatal("expected predicate to pass")
	}
}

func TestNotEqualNegation(t *testing.T) {
	p := ast.NewPredicate(ast.PredEqual, true, sourcepos.Span{})
	p.Operand = intLiteral(2)
	res, err := Evaluate(p, value.IntVal(3), true, variables.New())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Passed {
		t.Fatal("expected negated predicate to pass when values differ")
	}
}

func TestGreaterThanTypeMismatch(t *testing.T) {
	p := ast.NewPredicate(ast.PredGreaterThan, false, sourcepos.Span{})
	p.Operand = intLiteral(2)
	res, err := Evaluate(p, value.ListVal(nil), true, variables.New())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Passed || !res.TypeMismatch {
		t.Fatalf("expected a type mismatch failure, got %+v", res)
	}
}

func TestExistsWithoutValue(t *testing.T) {
	p := ast.NewPredicate(ast.PredExists, false, sourcepos.Span{})
	res, err := Evaluate(p, value.Value{}, false, variables.New())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Passed {
		t.Fatal("expected exists to fail when no value was produced")
	}
}

func TestIsEmptyOnList(t *testing.T) {
	p := ast.NewPredicate(ast.PredIsEmpty, false, sourcepos.Span{})
	res, err := Evaluate(p, value.ListVal(nil), true, variables.New())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Passed {
		t.Fatal("expected an empty list to satisfy isEmpty")
	}
}
