package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/variables"
)

// Hooks lets a caller observe or cancel entry execution without the
// runner itself knowing anything about CLI flags or plugins (spec §4.8
// steps 3/8 "pre_entry"/"post_entry").
type Hooks struct {
	// PreEntry runs before the request is built; returning cancel=true
	// stops the entry (and, per spec §4.9, the file if fail_fast is set).
	PreEntry func(entry *ast.Entry) (cancel bool)
	// PostEntry runs after the entry (including retries) has finished.
	PostEntry func(entry *ast.Entry, result *EntryResult)
}

// EntryRunner executes one entry's full state machine (spec §4.8).
type EntryRunner struct {
	Client     httpclient.Client
	ContextDir string
	Logger     *slog.Logger
	Hooks      Hooks
}

func NewEntryRunner(client httpclient.Client, contextDir string) *EntryRunner {
	return &EntryRunner{Client: client, ContextDir: contextDir, Logger: slog.Default()}
}

// Run executes entry against vs and base options, retrying per its
// [Options] retry/retry-interval when any error (including a failed
// assert) occurred (spec §4.8 step 7).
func (r *EntryRunner) Run(ctx context.Context, index int, entry *ast.Entry, vs *variables.VariableSet, base Options) EntryResult {
	result := EntryResult{EntryIndex: index}
	started := time.Now()
	defer func() { result.Duration = time.Since(started) }()

	if r.Hooks.PreEntry != nil {
		if cancel := r.Hooks.PreEntry(entry); cancel {
			result.Errors = append(result.Errors, fmt.Errorf("runner: entry %d cancelled by pre_entry hook", index))
			return result
		}
	}

	opts, err := Merge(base, entry.Request.Options, vs)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("runner: options: %w", err))
		return result
	}

	maxRetries := opts.Retry
	for attempt := int64(0); ; attempt++ {
		attemptErrs, calls, asserts, captures := r.runOnce(ctx, entry, vs, opts)

		result.Calls = append(result.Calls, calls...)
		hasError := len(attemptErrs) > 0
		for _, a := range asserts {
			if !a.Passed {
				hasError = true
				break
			}
		}

		if !hasError || !retryable(attempt, maxRetries) {
			result.Errors = append(result.Errors, attemptErrs...)
			result.Asserts = asserts
			result.Captures = captures
			result.RetryCount = attempt
			break
		}

		result.RetryCount = attempt + 1
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, attemptErrs...)
			result.Errors = append(result.Errors, ctx.Err())
			result.Asserts = asserts
			result.Captures = captures
			return result
		case <-time.After(opts.RetryInterval):
		}
	}

	if r.Hooks.PostEntry != nil {
		r.Hooks.PostEntry(entry, &result)
	}
	return result
}

// retryable reports whether another attempt should run: maxRetries<0
// means retry indefinitely, 0 means never retry, N means up to N retries
// after the first attempt.
func retryable(attempt int64, maxRetries int64) bool {
	if maxRetries < 0 {
		return true
	}
	return attempt < maxRetries
}

// runOnce performs steps 2-6 of spec §4.8 once: build the request, call
// the client, post-process, capture, and assert.
func (r *EntryRunner) runOnce(ctx context.Context, entry *ast.Entry, vs *variables.VariableSet, opts Options) ([]error, []Call, []AssertResult, []Capture) {
	if opts.Delay > 0 {
		select {
		case <-ctx.Done():
			return []error{ctx.Err()}, nil, nil, nil
		case <-time.After(opts.Delay):
		}
	}

	spec, err := buildRequest(entry.Request, vs, r.ContextDir)
	if err != nil {
		return []error{fmt.Errorf("runner: request: %w", err)}, nil, nil, nil
	}

	r.Logger.Debug("sending request", slog.String("method", spec.Method), slog.String("url", spec.URL))

	start := time.Now()
	cr, err := r.Client.Execute(ctx, spec, opts.ClientOptions)
	if err != nil {
		return []error{fmt.Errorf("runner: http: %w", err)}, nil, nil, nil
	}

	calls := make([]Call, 0, len(cr.Calls))
	for _, c := range cr.Calls {
		calls = append(calls, Call{Request: c.Request, Response: c.Response, Start: c.Timings.Start, End: c.Timings.End})
	}

	final := cr.Final()
	r.Logger.Debug("received response", slog.Int("status", final.Response.Status), slog.Duration("elapsed", time.Since(start)))

	qc := buildQueryCall(final, cr.RedirectCount())

	var errs []error
	asserts := evalImplicitAsserts(entry.Response, final.Response, qc, vs)

	var captures []Capture
	if entry.Response != nil {
		for _, c := range entry.Response.Captures {
			captures = append(captures, runCapture(c, qc, vs))
		}
		for _, a := range entry.Response.Asserts {
			asserts = append(asserts, runAssert(a, qc, vs))
		}
	}
	for _, c := range captures {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("runner: capture %q: %w", c.Name, c.Err))
		}
	}

	return errs, calls, asserts, captures
}
