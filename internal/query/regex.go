package query

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

// evalRegex matches q's pattern against the response body. With a
// capture group, the first group's text is returned; without one, the
// whole match is returned. A pattern-less "regex" query (spec's bare
// `regex` keyword with no argument) is rejected: it only makes sense
// chained after a string-producing query, which this evaluator has no
// way to see here.
func evalRegex(q *ast.Query, call *Call, vs *variables.VariableSet) (value.Value, error) {
	if !q.RegexHasPattern {
		return value.Value{}, &Error{Kind: ErrInvalidRegex, Msg: "query: regex query requires a pattern"}
	}
	pattern, err := template.Render(q.RegexPattern, vs)
	if err != nil {
		return value.Value{}, err
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidRegex, Msg: fmt.Sprintf("query: invalid regex %q: %v", pattern, err)}
	}
	m, err := re.FindStringMatch(string(call.Body))
	if err != nil || m == nil {
		return value.Value{}, nil
	}
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		return value.StrVal(g.String()), nil
	}
	return value.StrVal(m.String()), nil
}

func evalCertificate(q *ast.Query, call *Call) (value.Value, error) {
	if call.Certificate == nil {
		return value.Value{}, &Error{Kind: ErrCertificateUnavailable, Msg: "query: no peer certificate available (not a TLS connection?)"}
	}
	switch q.CertificateField {
	case "Subject":
		return value.StrVal(call.Certificate.Subject), nil
	case "Issuer":
		return value.StrVal(call.Certificate.Issuer), nil
	case "StartDate":
		return value.StrVal(call.Certificate.StartDate), nil
	case "ExpireDate":
		return value.StrVal(call.Certificate.ExpireDate), nil
	case "SerialNumber":
		return value.StrVal(call.Certificate.SerialNumber), nil
	default:
		return value.Value{}, &Error{Kind: ErrInvalidCertificateField, Msg: fmt.Sprintf("query: unknown certificate field %q", q.CertificateField)}
	}
}
