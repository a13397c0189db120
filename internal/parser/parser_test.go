package parser

import "testing"

func TestParseBasicGetAndCapture(t *testing.T) {
	src := "GET http://localhost:8000/hello\n" +
		"HTTP 200\n" +
		"[Captures]\n" +
		"greeting: body\n"

	file, err := ParseFile(src, "")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(file.Entries))
	}
	e := file.Entries[0]
	if e.Request.Method.Source != "GET" {
		t.Fatalf("expected GET, got %q", e.Request.Method.Source)
	}
	if e.Response == nil {
		t.Fatal("expected a response")
	}
	if e.Response.Status.Code != 200 {
		t.Fatalf("expected status 200, got %d", e.Response.Status.Code)
	}
	if len(e.Response.Captures) != 1 || e.Response.Captures[0].Name != "greeting" {
		t.Fatalf("expected one capture named greeting, got %+v", e.Response.Captures)
	}
}

func TestParseHeadersAndJsonBody(t *testing.T) {
	src := "POST http://example.org/api\n" +
		"Content-Type: application/json\n" +
		"{\n" +
		"  \"id\": 1,\n" +
		"  \"name\": \"{{username}}\"\n" +
		"}\n" +
		"HTTP 201\n"

	file, err := ParseFile(src, "")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	req := file.Entries[0].Request
	if len(req.Headers) != 1 || req.Headers[0].Name.Source != "Content-Type" {
		t.Fatalf("expected one Content-Type header, got %+v", req.Headers)
	}
	if req.Body == nil || req.Body.JSONTree == nil {
		t.Fatal("expected a JSON body")
	}
	if len(req.Body.JSONTree.Keys) != 2 {
		t.Fatalf("expected 2 JSON keys, got %d", len(req.Body.JSONTree.Keys))
	}
}

func TestParseAssertWithFilterChain(t *testing.T) {
	src := "GET http://example.org\n" +
		"HTTP 200\n" +
		"[Asserts]\n" +
		"jsonpath \"$.book[*].price\" count == 2\n"

	file, err := ParseFile(src, "")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	asserts := file.Entries[0].Response.Asserts
	if len(asserts) != 1 {
		t.Fatalf("expected 1 assert, got %d", len(asserts))
	}
	a := asserts[0]
	if len(a.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(a.Filters))
	}
	if a.Predicate == nil {
		t.Fatal("expected a predicate")
	}
}

func TestParseInvalidMethodIsRejected(t *testing.T) {
	_, err := ParseFile("NOTAMETHOD http://x\nHTTP 200\n", "")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}
