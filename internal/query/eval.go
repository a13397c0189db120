package query

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/jsonpath"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
	"github.com/hurlgo/hurl/internal/xpath"
)

// ErrorKind tags the query-evaluation failures of spec §7.
type ErrorKind int

const (
	ErrHeaderNotFound ErrorKind = iota
	ErrCookieNotFound
	ErrInvalidJsonpath
	ErrInvalidXpath
	ErrInvalidRegex
	ErrInvalidUtf8
	ErrCertificateUnavailable
	ErrInvalidCertificateField
	ErrUnsupported
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Eval evaluates q against call, rendering any templated argument
// through vs first. A zero Value (Kind 0) with a nil error means the
// query is well-formed but legitimately produced no result (e.g. a
// jsonpath with no match) — callers distinguish that from a hard Error.
func Eval(q *ast.Query, call *Call, vs *variables.VariableSet) (value.Value, error) {
	switch q.Kind {
	case ast.QueryStatus:
		return value.IntVal(int64(call.Status)), nil

	case ast.QueryVersion:
		return value.StrVal(call.Version), nil

	case ast.QueryURL:
		return value.StrVal(call.URL), nil

	case ast.QueryHeader:
		name, err := template.Render(q.HeaderName, vs)
		if err != nil {
			return value.Value{}, err
		}
		values := call.HeaderValues(name)
		if len(values) == 0 {
			return value.Value{}, &Error{Kind: ErrHeaderNotFound, Msg: fmt.Sprintf("query: header %q not found", name)}
		}
		return value.StrVal(values[0]), nil

	case ast.QueryCookie:
		name, err := template.Render(q.CookiePath, vs)
		if err != nil {
			return value.Value{}, err
		}
		ck, found := call.Cookie(name)
		if !found {
			return value.Value{}, &Error{Kind: ErrCookieNotFound, Msg: fmt.Sprintf("query: cookie %q not found", name)}
		}
		return cookieField(ck, q.CookieAttr)

	case ast.QueryBody:
		return value.StrVal(string(call.Body)), nil

	case ast.QueryBytes:
		return value.BytesVal(call.Body), nil

	case ast.QuerySha256:
		sum := sha256.Sum256(call.Body)
		return value.BytesVal(sum[:]), nil

	case ast.QueryMd5:
		sum := md5.Sum(call.Body)
		return value.BytesVal(sum[:]), nil

	case ast.QueryJsonpath:
		return evalJsonpath(q, call, vs)

	case ast.QueryXpath:
		return evalXpath(q, call, vs)

	case ast.QueryRegex:
		return evalRegex(q, call, vs)

	case ast.QueryVariable:
		name, err := template.Render(q.VariableName, vs)
		if err != nil {
			return value.Value{}, err
		}
		v, found := vs.Get(name)
		if !found {
			return value.Value{}, nil
		}
		return v.Value, nil

	case ast.QueryDuration:
		return value.IntVal(call.Duration.Milliseconds()), nil

	case ast.QueryCertificate:
		return evalCertificate(q, call)

	case ast.QueryIP:
		return value.StrVal(call.PeerIP), nil

	case ast.QueryRedirects:
		return value.IntVal(int64(call.RedirectCount)), nil

	default:
		return value.Value{}, &Error{Kind: ErrUnsupported, Msg: "query: unsupported query kind"}
	}
}

func cookieField(ck Cookie, attr string) (value.Value, error) {
	switch attr {
	case "", "Value":
		return value.StrVal(ck.Value), nil
	case "Domain":
		return value.StrVal(ck.Domain), nil
	case "Path":
		return value.StrVal(ck.Path), nil
	case "Expires":
		return value.StrVal(ck.Expires), nil
	case "Max-Age":
		return value.StrVal(ck.MaxAge), nil
	case "Secure":
		return value.BoolVal(ck.Secure), nil
	case "HttpOnly":
		return value.BoolVal(ck.HTTPOnly), nil
	case "SameSite":
		return value.StrVal(ck.SameSite), nil
	default:
		return value.Value{}, &Error{Kind: ErrUnsupported, Msg: fmt.Sprintf("query: unknown cookie attribute %q", attr)}
	}
}

// jsonpath queries compile through jsonpath.Compile, whose single
// grammar accepts both the legacy and the standard path surface; there
// is no dialect switch.
func evalJsonpath(q *ast.Query, call *Call, vs *variables.VariableSet) (value.Value, error) {
	expr, err := template.Render(q.JsonpathExpr, vs)
	if err != nil {
		return value.Value{}, err
	}
	doc, err := call.Cache.JSON()
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidJsonpath, Msg: fmt.Sprintf("query: body is not valid json: %v", err)}
	}
	path, err := jsonpath.Compile(expr)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidJsonpath, Msg: fmt.Sprintf("query: invalid jsonpath %q: %v", expr, err)}
	}
	result, ok := jsonpath.Eval(path, doc)
	if !ok {
		return value.Value{}, nil
	}
	return result, nil
}

func evalXpath(q *ast.Query, call *Call, vs *variables.VariableSet) (value.Value, error) {
	expr, err := template.Render(q.XpathExpr, vs)
	if err != nil {
		return value.Value{}, err
	}
	xmlDoc, htmlDoc, err := call.Cache.XML(call.isHTML())
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidXpath, Msg: fmt.Sprintf("query: body is not valid xml/html: %v", err)}
	}
	var result value.Value
	if call.isHTML() {
		result, err = xpath.EvalHTML(htmlDoc, expr)
	} else {
		result, err = xpath.EvalXML(xmlDoc, expr)
	}
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidXpath, Msg: err.Error()}
	}
	return result, nil
}
