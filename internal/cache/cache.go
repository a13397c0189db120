// Package cache implements the per-response BodyCache of spec §3/§9:
// memoized parsed JSON and XML, scoped to one entry's assertion phase so
// that N queries over the same body parse at most once per kind.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// BodyCache memoizes the parsed forms of one response body. It is not
// safe for concurrent use — each worker/entry owns its own instance,
// matching the "shared-nothing" concurrency model of spec §5.
type BodyCache struct {
	raw []byte

	jsonParsed   bool
	jsonValue    any
	jsonErr      error

	xmlParsed bool
	xmlDoc    *xmlquery.Node
	htmlDoc   *html.Node
	xmlErr    error
}

func New(body []byte) *BodyCache {
	return &BodyCache{raw: body}
}

// JSON returns the body parsed as generic JSON (map[string]any /
// []any / string / json.Number / bool / nil), memoized after the first
// call. Numbers decode via json.Number (not float64) so that
// internal/jsonpath.toValue can tell an Integer/BigInteger apart from a
// Float instead of collapsing every number through float64.
func (c *BodyCache) JSON() (any, error) {
	if !c.jsonParsed {
		c.jsonParsed = true
		dec := json.NewDecoder(bytes.NewReader(c.raw))
		dec.UseNumber()
		c.jsonErr = dec.Decode(&c.jsonValue)
	}
	return c.jsonValue, c.jsonErr
}

// XML returns the body parsed as XML (antchfx/xmlquery) or, when html is
// true, as permissive HTML (antchfx/htmlquery) — the XPath bridge's
// two document modes (spec §4.3).
func (c *BodyCache) XML(asHTML bool) (xmlNode *xmlquery.Node, htmlNode *html.Node, err error) {
	if c.xmlParsed {
		return c.xmlDoc, c.htmlDoc, c.xmlErr
	}
	c.xmlParsed = true
	if asHTML {
		c.htmlDoc, c.xmlErr = htmlquery.Parse(newReader(c.raw))
	} else {
		c.xmlDoc, c.xmlErr = xmlquery.Parse(newReader(c.raw))
	}
	if c.xmlErr != nil {
		c.xmlErr = fmt.Errorf("cache: invalid xml/html body: %w", c.xmlErr)
	}
	return c.xmlDoc, c.htmlDoc, c.xmlErr
}

// Raw returns the unparsed response body bytes.
func (c *BodyCache) Raw() []byte { return c.raw }
