package filter

import (
	"encoding/json"
	"strings"

	"github.com/antchfx/xmlquery"
)

// parseJSONString decodes with UseNumber() so internal/jsonpath.toValue
// can tell an Integer/BigInteger apart from a Float instead of
// collapsing every JSON number through float64.
func parseJSONString(s string) (any, error) {
	var v any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseXMLString(s string) (*xmlquery.Node, error) {
	return xmlquery.Parse(strings.NewReader(s))
}
