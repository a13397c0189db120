package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/cache"
	"github.com/hurlgo/hurl/internal/filter"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/predicate"
	"github.com/hurlgo/hurl/internal/query"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

// buildQueryCall bridges one httpclient.Call into the query package's
// evaluation context (spec §4.6), parsing headers/cookies into the
// query.Call shape and attaching a fresh BodyCache per entry (spec §9
// "Body cache lifetime... scoped to one entry's assertion phase").
func buildQueryCall(hc httpclient.Call, redirectCount int) *query.Call {
	qc := &query.Call{
		URL:           hc.Response.URL,
		Version:       hc.Response.Version.String(),
		Status:        hc.Response.Status,
		Body:          hc.Response.Body,
		Cache:         cache.New(hc.Response.Body),
		Duration:      hc.Response.Duration,
		PeerIP:        hc.Response.PeerIP,
		RedirectCount: redirectCount,
	}
	for _, h := range hc.Response.Headers {
		qc.Headers = append(qc.Headers, query.Header{Name: h.Name, Value: h.Value})
	}
	for _, sc := range hc.Response.SetCookies {
		qc.Cookies = append(qc.Cookies, query.Cookie{
			Name: sc.Name, Value: sc.Value, Domain: sc.Domain, Path: sc.Path,
			Secure: sc.Secure, HTTPOnly: sc.HTTPOnly, SameSite: sc.SameSite,
			MaxAge:  maxAgeString(sc),
			Expires: expiresString(sc),
		})
	}
	if hc.Response.Certificate != nil {
		qc.Certificate = &query.Certificate{
			Subject:      hc.Response.Certificate.Subject,
			Issuer:       hc.Response.Certificate.Issuer,
			StartDate:    hc.Response.Certificate.StartDate,
			ExpireDate:   hc.Response.Certificate.ExpireDate,
			SerialNumber: hc.Response.Certificate.SerialNumber,
		}
	}
	return qc
}

func maxAgeString(sc httpclient.SetCookie) string {
	if !sc.HasMaxAge {
		return ""
	}
	return fmt.Sprintf("%d", sc.MaxAge)
}

func expiresString(sc httpclient.SetCookie) string {
	if !sc.HasExpires {
		return ""
	}
	return sc.Expires.Format("Mon, 02 Jan 2006 15:04:05 GMT")
}

// evalQueryChain runs q + fs and reports whether a value was produced.
// A query that is well-formed but structurally absent (missing header or
// cookie, no jsonpath/xpath match) reports found=false with no error,
// matching spec §4.5 "exists over a missing query succeeds only when
// preceded by not". Any other failure (bad jsonpath, filter error) is
// fatal and aborts the assert/capture.
func evalQueryChain(q *ast.Query, fs []*ast.Filter, qc *query.Call, vs *variables.VariableSet) (value.Value, bool, error) {
	v, err := query.Eval(q, qc, vs)
	if err != nil {
		if qerr, ok := err.(*query.Error); ok && (qerr.Kind == query.ErrHeaderNotFound || qerr.Kind == query.ErrCookieNotFound) {
			return value.Value{}, false, nil
		}
		return value.Value{}, false, err
	}
	if v.Kind() == value.Kind(0) {
		return value.Value{}, false, nil
	}
	out, err := filter.Chain(fs, v, vs)
	if err != nil {
		return value.Value{}, false, err
	}
	return out, true, nil
}

// runCapture evaluates one [Captures] line (spec §4.8 step 5): on success
// it inserts the resulting Value into vs, respecting secret/visibility
// rules; a capture that fails to produce a value, or whose optional
// trailing predicate fails, is recorded but not inserted.
func runCapture(c *ast.Capture, qc *query.Call, vs *variables.VariableSet) Capture {
	v, found, err := evalQueryChain(c.Query, c.Filters, qc, vs)
	if err != nil {
		return Capture{Name: c.Name, Err: err}
	}
	if !found {
		return Capture{Name: c.Name, Err: fmt.Errorf("runner: capture %q produced no value", c.Name)}
	}
	if c.Predicate != nil {
		res, perr := predicate.Evaluate(c.Predicate, v, found, vs)
		if perr != nil {
			return Capture{Name: c.Name, Err: perr}
		}
		if !res.Passed {
			return Capture{Name: c.Name, Err: fmt.Errorf("runner: capture %q gate predicate failed: %s", c.Name, res.Message)}
		}
	}
	if err := vs.Capture(c.Name, v); err != nil {
		return Capture{Name: c.Name, Value: v, Err: err}
	}
	return Capture{Name: c.Name, Value: v}
}

// runAssert evaluates one explicit [Asserts] line (spec §4.8 step 6).
func runAssert(a *ast.Assert, qc *query.Call, vs *variables.VariableSet) AssertResult {
	v, found, err := evalQueryChain(a.Query, a.Filters, qc, vs)
	if err != nil {
		return AssertResult{Passed: false, Message: err.Error()}
	}
	res, perr := predicate.Evaluate(a.Predicate, v, found, vs)
	if perr != nil {
		return AssertResult{Passed: false, Message: perr.Error()}
	}
	return AssertResult{Passed: res.Passed, TypeMismatch: res.TypeMismatch, Message: res.Message}
}

// evalImplicitAsserts checks the response-spec line itself: version,
// status, and (when the entry supplied a literal body) the body (spec
// §4.8 step 6 "implicit asserts").
func evalImplicitAsserts(expected *ast.Response, resp httpclient.Response, qc *query.Call, vs *variables.VariableSet) []AssertResult {
	var out []AssertResult
	if expected == nil {
		return out
	}
	out = append(out, AssertResult{
		Description: "http version",
		Passed:      versionMatches(expected.Version, resp.Version),
		Message:     fmt.Sprintf("expected HTTP version %v, got %v", expected.Version, resp.Version),
	})
	if !expected.Status.Wildcard {
		out = append(out, AssertResult{
			Description: "status",
			Passed:      expected.Status.Code == resp.Status,
			Message:     fmt.Sprintf("expected status %d, got %d", expected.Status.Code, resp.Status),
		})
	}
	for _, h := range expected.Headers {
		name, err := template.Render(h.Name, vs)
		if err != nil {
			out = append(out, AssertResult{Description: "header", Passed: false, Message: err.Error()})
			continue
		}
		want, err := template.Render(h.Value, vs)
		if err != nil {
			out = append(out, AssertResult{Description: "header " + name, Passed: false, Message: err.Error()})
			continue
		}
		got := qc.HeaderValues(name)
		passed := false
		for _, g := range got {
			if g == want {
				passed = true
				break
			}
		}
		out = append(out, AssertResult{
			Description: "header " + name,
			Passed:      passed,
			Message:     fmt.Sprintf("header %q: expected %q, got %v", name, want, got),
		})
	}
	if expected.Body != nil {
		out = append(out, evalImplicitBody(expected.Body, resp.Body, vs))
	}
	return out
}

// evalImplicitBody compares a response-spec's literal body against the
// actual response bytes (spec §4.8 step 6 "implicit... body").
func evalImplicitBody(b *ast.Body, actual []byte, vs *variables.VariableSet) AssertResult {
	switch b.Kind {
	case ast.BodyRawString, ast.BodyMultilineString:
		want, err := template.Render(b.Raw, vs)
		if err != nil {
			return AssertResult{Description: "body", Passed: false, Message: err.Error()}
		}
		return AssertResult{
			Description: "body",
			Passed:      want == string(actual),
			Message:     fmt.Sprintf("body mismatch: expected %q, got %q", want, string(actual)),
		}
	case ast.BodyBase64:
		return AssertResult{Description: "body", Passed: bytes.Equal(b.Base64Bytes, actual), Message: "body (base64) mismatch"}
	case ast.BodyHex:
		return AssertResult{Description: "body", Passed: bytes.Equal(b.HexBytes, actual), Message: "body (hex) mismatch"}
	case ast.BodyJSON:
		want, err := renderJSONNode(b.JSONTree, vs)
		if err != nil {
			return AssertResult{Description: "body", Passed: false, Message: err.Error()}
		}
		return AssertResult{Description: "body", Passed: jsonEquivalent(want, string(actual)), Message: "body (json) mismatch"}
	case ast.BodyXML:
		return AssertResult{Description: "body", Passed: b.XMLRaw == string(actual), Message: "body (xml) mismatch"}
	default:
		return AssertResult{Description: "body", Passed: false, Message: "unsupported implicit body kind"}
	}
}

// jsonEquivalent compares two JSON texts by parsed value rather than
// byte layout, so whitespace/key-order differences don't fail the assert.
func jsonEquivalent(want, got string) bool {
	var a, b any
	if err := json.Unmarshal([]byte(want), &a); err != nil {
		return want == got
	}
	if err := json.Unmarshal([]byte(got), &b); err != nil {
		return want == got
	}
	return reflect.DeepEqual(a, b)
}

func versionMatches(want ast.VersionExpectation, got httpclient.Version) bool {
	if want == ast.VersionAny {
		return true
	}
	table := map[ast.VersionExpectation]httpclient.Version{
		ast.VersionHTTP10: httpclient.Version10,
		ast.VersionHTTP11: httpclient.Version11,
		ast.VersionHTTP2:  httpclient.Version2,
		ast.VersionHTTP3:  httpclient.Version3,
	}
	return table[want] == got
}
