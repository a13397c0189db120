// Package xpath is the XPath bridge of spec §4.3: wraps antchfx's native
// XML/HTML library family and maps query results onto internal/value.
package xpath

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/hurlgo/hurl/internal/value"
)

// ErrorKind tags the two XPath-specific failure modes of spec §4.3/§7.
type ErrorKind int

const (
	ErrInvalidXML ErrorKind = iota
	ErrInvalidXpathEval
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// EvalXML evaluates expr against an already-parsed XML document (from
// internal/cache.BodyCache.XML).
func EvalXML(doc *xmlquery.Node, expr string) (value.Value, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidXpathEval, Msg: fmt.Sprintf("xpath: invalid expression %q: %v", expr, err)}
	}
	res := compiled.Evaluate(xmlquery.CreateXPathNavigator(doc))
	return toValue(res)
}

// EvalHTML evaluates expr against an already-parsed HTML document.
func EvalHTML(doc *html.Node, expr string) (value.Value, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidXpathEval, Msg: fmt.Sprintf("xpath: invalid expression %q: %v", expr, err)}
	}
	res := compiled.Evaluate(htmlquery.CreateXPathNavigator(doc))
	return toValue(res)
}

// toValue maps an antchfx/xpath evaluation result (bool, float64,
// string, or a node iterator) onto a Value: scalars map directly; node
// results become an opaque Nodeset(size) per spec §4.3 ("node contents
// are not exposed as Value trees").
func toValue(res any) (value.Value, error) {
	switch v := res.(type) {
	case bool:
		return value.BoolVal(v), nil
	case float64:
		fv, err := value.FloatVal(v)
		if err != nil {
			return value.Value{}, &Error{Kind: ErrInvalidXpathEval, Msg: "xpath: result is not a finite number"}
		}
		return fv, nil
	case string:
		return value.StrVal(v), nil
	case *xpath.NodeIterator:
		count := 0
		for v.MoveNext() {
			count++
		}
		return value.NodesetVal(count), nil
	default:
		return value.Value{}, &Error{Kind: ErrInvalidXpathEval, Msg: fmt.Sprintf("xpath: unsupported result type %T", res)}
	}
}
