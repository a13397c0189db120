package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/runner"
	"github.com/hurlgo/hurl/internal/variables"
)

// stubClient answers every request with a fixed 200, enough to drive the
// scheduler without a live server.
type stubClient struct{ calls int32 }

func (c *stubClient) Execute(ctx context.Context, spec httpclient.RequestSpec, opts httpclient.ClientOptions) (httpclient.CallResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return httpclient.CallResult{Calls: []httpclient.Call{{
		Request:  spec,
		Response: httpclient.Response{Status: 200, Version: httpclient.VersionAny},
	}}}, nil
}

const helloFile = `GET http://localhost:8000/hello
HTTP 200
`

func TestSchedulerPreservesInputOrder(t *testing.T) {
	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{Seq: i, Filename: "file.hurl", Source: helloFile}
	}

	client := &stubClient{}
	sched := New(
		Config{Workers: 2},
		Options{
			Base:       runner.Default(),
			ContextDir: ".",
			SeedVars:   variables.New(),
			NewClient:  func(jar *httpclient.CookieJar) httpclient.Client { return client },
		},
		nil,
	)

	results := sched.Run(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		if r.Seq != i {
			t.Fatalf("expected results in input order, result %d has Seq=%d", i, r.Seq)
		}
		if r.Err != nil {
			t.Fatalf("unexpected job error: %v", r.Err)
		}
		if !r.Result.Success {
			t.Fatalf("expected job %d to succeed, got %+v", i, r.Result)
		}
	}
	if client.calls != int32(len(jobs)) {
		t.Fatalf("expected %d HTTP calls, got %d", len(jobs), client.calls)
	}
}

func TestSchedulerReportsParseError(t *testing.T) {
	jobs := []Job{{Seq: 0, Filename: "bad.hurl", Source: "not a valid hurl file {{{"}}
	sched := New(
		Config{Workers: 1},
		Options{Base: runner.Default(), ContextDir: ".", SeedVars: variables.New()},
		nil,
	)

	results := sched.Run(context.Background(), jobs)
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected a parse error for the malformed file, got %+v", results)
	}
}
