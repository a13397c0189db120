// Package query implements the query evaluator of spec §4.6: given one
// ast.Query and the Call it runs against, produce a value.Value (or a
// query-specific error). This is the layer a Capture/Assert's Query
// feeds into before any Filter/Predicate runs.
package query

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/hurlgo/hurl/internal/cache"
)

// foldCaser performs locale-independent caseless matching for header
// names and the Content-Type sniff below, the way HTTP field-name
// comparison is defined (case-insensitive, not just ASCII case-folded).
var foldCaser = cases.Fold()

// Header is one response header, order-preserving (spec §3 Call.Response
// keeps headers in wire order since "header" queries are case-
// insensitive-by-name but order matters for repeated headers).
type Header struct {
	Name  string
	Value string
}

// Cookie is one Set-Cookie entry as tracked by the client's cookie jar.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  string
	MaxAge   string
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// Certificate is the subset of peer-certificate fields spec §9's
// supplemented "certificate query" exposes.
type Certificate struct {
	Subject      string
	Issuer       string
	StartDate    string
	ExpireDate   string
	SerialNumber string
}

// Call is the evaluation context for one request/response exchange
// (spec §3 Call): everything a Query can read.
type Call struct {
	URL      string
	Version  string
	Status   int
	Headers  []Header
	Cookies  []Cookie
	Body     []byte
	Cache    *cache.BodyCache
	Duration time.Duration

	Certificate   *Certificate
	PeerIP        string
	RedirectCount int
}

// HeaderValues returns every value of the (case-insensitive) named
// header, in wire order.
func (c *Call) HeaderValues(name string) []string {
	var out []string
	for _, h := range c.Headers {
		if equalFold(h.Name, name) {
			out = append(out, h.Value)
		}
	}
	return out
}

func (c *Call) Cookie(name string) (Cookie, bool) {
	for _, ck := range c.Cookies {
		if ck.Name == name {
			return ck, true
		}
	}
	return Cookie{}, false
}

// isHTML reports whether the response Content-Type indicates HTML, used
// to pick the xpath/htmlquery document mode.
func (c *Call) isHTML() bool {
	for _, v := range c.HeaderValues("Content-Type") {
		if containsFold(v, "html") {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return foldCaser.String(a) == foldCaser.String(b)
}

func containsFold(s, substr string) bool {
	return strings.Contains(foldCaser.String(s), foldCaser.String(substr))
}
