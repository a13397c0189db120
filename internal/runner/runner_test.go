package runner

import (
	"context"
	"testing"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/variables"
)

func literalTemplate(s string) *ast.Template {
	return ast.NewTemplate([]ast.TemplateFragment{{Literal: s}}, s, ast.Span{})
}

// fakeClient answers Execute from a queue of canned responses, letting
// tests drive the entry runner's retry loop deterministically (spec §8
// scenario 5 "Retry to success").
type fakeClient struct {
	responses []httpclient.Response
	calls     int
}

func (f *fakeClient) Execute(ctx context.Context, spec httpclient.RequestSpec, opts httpclient.ClientOptions) (httpclient.CallResult, error) {
	resp := f.responses[f.calls]
	if f.calls < len(f.responses)-1 {
		f.calls++
	}
	return httpclient.CallResult{Calls: []httpclient.Call{{Request: spec, Response: resp}}}, nil
}

func basicEntry() *ast.Entry {
	req := &ast.Request{Method: literalTemplate("GET"), URL: literalTemplate("http://localhost:8000/hello")}
	resp := &ast.Response{
		Version: ast.VersionAny,
		Status:  ast.StatusExpectation{Code: 200},
		Captures: []*ast.Capture{
			ast.NewCapture("greeting", ast.NewQuery(ast.QueryBody, ast.Span{}), nil, nil, ast.Span{}),
		},
	}
	return ast.NewEntry(req, resp, ast.Span{})
}

func TestEntryRunnerBasicCaptureAndAsserts(t *testing.T) {
	client := &fakeClient{responses: []httpclient.Response{
		{Status: 200, Version: httpclient.VersionAny, Body: []byte("Hello World!")},
	}}
	er := NewEntryRunner(client, ".")
	vs := variables.New()

	result := er.Run(context.Background(), 1, basicEntry(), vs, Default())

	if !result.Success() {
		t.Fatalf("expected success, got errors=%v asserts=%+v", result.Errors, result.Asserts)
	}
	if len(result.Captures) != 1 || result.Captures[0].Name != "greeting" {
		t.Fatalf("expected one greeting capture, got %+v", result.Captures)
	}
	v, ok := vs.Get("greeting")
	if !ok {
		t.Fatalf("expected greeting variable to be set")
	}
	if s, _ := v.Value.AsString(); s != "Hello World!" {
		t.Fatalf("expected captured greeting %q, got %q", "Hello World!", s)
	}
}

func TestEntryRunnerRetryToSuccess(t *testing.T) {
	client := &fakeClient{responses: []httpclient.Response{
		{Status: 500, Version: httpclient.VersionAny, Body: []byte("err")},
		{Status: 500, Version: httpclient.VersionAny, Body: []byte("err")},
		{Status: 200, Version: httpclient.VersionAny, Body: []byte("ok")},
	}}
	er := NewEntryRunner(client, ".")
	vs := variables.New()

	req := &ast.Request{
		Method: literalTemplate("GET"),
		URL:    literalTemplate("http://localhost:8000/flaky"),
		Options: &ast.EntryOptions{
			Retry:         int64Ptr(3),
			RetryInterval: &ast.Duration{Amount: 1, Unit: ast.UnitMillisecond, UnitWritten: true},
		},
	}
	resp := &ast.Response{Version: ast.VersionAny, Status: ast.StatusExpectation{Code: 200}}
	entry := ast.NewEntry(req, resp, ast.Span{})

	result := er.Run(context.Background(), 1, entry, vs, Default())

	if !result.Success() {
		t.Fatalf("expected eventual success, got errors=%v asserts=%+v", result.Errors, result.Asserts)
	}
	if len(result.Calls) != 3 {
		t.Fatalf("expected 3 calls (2 failures + 1 success), got %d", len(result.Calls))
	}
}

func TestFileRunnerFailFastStopsEarly(t *testing.T) {
	client := &fakeClient{responses: []httpclient.Response{
		{Status: 500, Version: httpclient.VersionAny},
	}}
	er := NewEntryRunner(client, ".")
	vs := variables.New()

	file := ast.NewFile([]*ast.Entry{basicEntry(), basicEntry()}, ast.Span{})
	fr := &FileRunner{Entry: er, FailFast: true}

	result := fr.Run(context.Background(), "test.hurl", file, vs, Default())

	if result.Success {
		t.Fatalf("expected overall failure")
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected fail_fast to stop after the first entry, ran %d", len(result.Entries))
	}
}

func int64Ptr(n int64) *int64 { return &n }
