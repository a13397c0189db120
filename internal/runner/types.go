// Package runner implements the entry runner and file runner of spec
// §4.8/§4.9: the state machine that executes one entry against an
// httpclient.Client, and the sequential driver that threads one
// VariableSet and cookie jar across a file's entries.
package runner

import (
	"time"

	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/value"
)

// Call is one runtime request/response pair belonging to an EntryResult —
// an entry produces several when it retries or when the client follows
// redirects (spec §3 Call, GLOSSARY "Call").
type Call struct {
	Request  httpclient.RequestSpec
	Response httpclient.Response
	Start    time.Time
	End      time.Time
}

// Capture is one successfully (or unsuccessfully) evaluated [Captures]
// line, recorded for reporting regardless of outcome.
type Capture struct {
	Name  string
	Value value.Value
	Err   error
}

// AssertResult is one evaluated implicit or explicit assert.
type AssertResult struct {
	Description string // e.g. "status" or "header Content-Type", for human-facing reports
	Passed      bool
	TypeMismatch bool
	Message     string
}

// EntryResult is the outcome of running one entry (spec §3): source index,
// every Call attempted (retries and redirects both produce extra Calls),
// captures, asserts, accumulated errors, and elapsed transfer time.
type EntryResult struct {
	EntryIndex int // 1-based, per spec §3
	Calls      []Call
	Captures   []Capture
	Asserts    []AssertResult
	Errors     []error
	Duration   time.Duration
	RetryCount int64
}

// Success reports whether the entry produced no errors and no failed
// assert (spec §8 "Idempotent re-run: success == errors().is_empty()").
func (r *EntryResult) Success() bool {
	if len(r.Errors) > 0 {
		return false
	}
	for _, a := range r.Asserts {
		if !a.Passed {
			return false
		}
	}
	return true
}

// HurlResult is the per-file outcome (spec §3): ordered EntryResults, an
// overall success flag, wall-clock duration, a timestamp, and a snapshot
// of the cookies accumulated over the run.
type HurlResult struct {
	Filename  string
	Entries   []EntryResult
	Success   bool
	Duration  time.Duration
	Timestamp time.Time
	Cookies   []httpclient.SetCookie
}
