package runner

import (
	"testing"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/variables"
)

func TestRunAssertJsonpathCount(t *testing.T) {
	call := httpclient.Call{Response: httpclient.Response{
		Status: 200,
		Body:   []byte(`{"book":[{"price":8.95},{"price":22.99}]}`),
	}}
	qc := buildQueryCall(call, 0)

	q := ast.NewQuery(ast.QueryJsonpath, ast.Span{})
	q.JsonpathExpr = literalTemplate("$.book[*].price")
	count := ast.NewFilter(ast.FilterCount, ast.Span{})
	pred := ast.NewPredicate(ast.PredEqual, false, ast.Span{})
	pred.Operand = &ast.Literal{Kind: ast.LitInt, Int: 2}
	assert := ast.NewAssert(q, []*ast.Filter{count}, pred, ast.Span{})

	vs := variables.New()
	result := runAssert(assert, qc, vs)
	if !result.Passed {
		t.Fatalf("expected jsonpath count assert to pass, got %+v", result)
	}
}

func TestRunAssertTypeMismatch(t *testing.T) {
	call := httpclient.Call{Response: httpclient.Response{Status: 200}}
	qc := buildQueryCall(call, 0)

	q := ast.NewQuery(ast.QueryStatus, ast.Span{})
	pred := ast.NewPredicate(ast.PredEqual, false, ast.Span{})
	pred.Operand = &ast.Literal{Kind: ast.LitString, Str: literalTemplate("200")}
	assert := ast.NewAssert(q, nil, pred, ast.Span{})

	vs := variables.New()
	result := runAssert(assert, qc, vs)
	if result.Passed || !result.TypeMismatch {
		t.Fatalf("expected a type-mismatch failure, got %+v", result)
	}
}

func TestEvalImplicitAssertsStatusAndVersion(t *testing.T) {
	resp := httpclient.Response{Status: 200, Version: httpclient.Version11}
	expected := &ast.Response{Version: ast.VersionHTTP11, Status: ast.StatusExpectation{Code: 200}}
	qc := buildQueryCall(httpclient.Call{Response: resp}, 0)

	results := evalImplicitAsserts(expected, resp, qc, variables.New())
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected implicit assert %q to pass: %s", r.Description, r.Message)
		}
	}
}
