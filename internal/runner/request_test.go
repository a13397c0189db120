package runner

import (
	"testing"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/variables"
)

func TestBuildRequestRendersHeadersAndQueryParams(t *testing.T) {
	vs := variables.New()
	req := &ast.Request{
		Method: literalTemplate("GET"),
		URL:    literalTemplate("http://localhost:8000/search"),
		Headers: []ast.Header{
			{Name: literalTemplate("X-Test"), Value: literalTemplate("1")},
		},
		QueryStringParams: []ast.KV{
			{Name: literalTemplate("q"), Value: literalTemplate("hurl")},
		},
	}

	spec, err := buildRequest(req, vs, ".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Method != "GET" || spec.URL != "http://localhost:8000/search" {
		t.Fatalf("unexpected method/url: %+v", spec)
	}
	if len(spec.Headers) != 1 || spec.Headers[0].Value != "1" {
		t.Fatalf("unexpected headers: %+v", spec.Headers)
	}
	if len(spec.QueryStringParams) != 1 || spec.QueryStringParams[0].Value != "hurl" {
		t.Fatalf("unexpected query params: %+v", spec.QueryStringParams)
	}
}

func TestBuildRequestJSONBody(t *testing.T) {
	vs := variables.New()
	req := &ast.Request{
		Method: literalTemplate("POST"),
		URL:    literalTemplate("http://localhost:8000/items"),
		Body: &ast.Body{
			Kind: ast.BodyJSON,
			JSONTree: &ast.JSONNode{
				Kind: ast.JSONObject,
				Keys: []*ast.Template{literalTemplate("name")},
				Values: []*ast.JSONNode{
					{Kind: ast.JSONString, Str: literalTemplate("hurl")},
				},
			},
		},
	}

	spec, err := buildRequest(req, vs, ".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.ImplicitContentType != "application/json" {
		t.Fatalf("expected implicit json content-type, got %q", spec.ImplicitContentType)
	}
	if spec.Body.Text != `{"name":"hurl"}` {
		t.Fatalf("unexpected json body: %q", spec.Body.Text)
	}
}

func TestResolveContextPathRejectsEscape(t *testing.T) {
	if _, err := resolveContextPath("/tmp/hurl-ctx", "../../etc/passwd"); err == nil {
		t.Fatalf("expected an error for a path escaping the context directory")
	}
}
