// Package filter implements the 31-filter chain library of spec §4.4:
// each Filter takes a Value and produces a Value (or a filter-specific
// error), chained left to right after a Query and before a Predicate.
package filter

import (
	"encoding/base64"
	"fmt"
	"html"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/spf13/cast"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/jsonpath"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
	"github.com/hurlgo/hurl/internal/xpath"
)

// ErrorKind tags the filter failure modes of spec §7.
type ErrorKind int

const (
	ErrInvalidInput ErrorKind = iota
	ErrInvalidEncoding
	ErrDecode
	ErrDateParsingError
	ErrRegexNoCapture
	ErrInvalidArgument
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func invalidInput(kind ast.FilterKind, v value.Value) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: %s cannot apply to a %v value", filterName(kind), v.Kind())}
}

// Chain applies fs left to right, each consuming the previous result.
func Chain(fs []*ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	cur := in
	for _, f := range fs {
		next, err := Apply(f, cur, vs)
		if err != nil {
			return value.Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// Apply runs one filter against in.
func Apply(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	switch f.Kind {
	case ast.FilterCount:
		return applyCount(f, in)
	case ast.FilterFirst:
		return applyNth(f, in, 0)
	case ast.FilterLast:
		return applyLast(f, in)
	case ast.FilterNth:
		return applyNth(f, in, f.Nth)
	case ast.FilterRegex:
		return applyRegex(f, in, vs)
	case ast.FilterReplace:
		return applyReplace(f, in, vs)
	case ast.FilterReplaceRegex:
		return applyReplaceRegex(f, in, vs)
	case ast.FilterSplit:
		return applySplit(f, in, vs)
	case ast.FilterBase64Decode:
		return applyBase64Decode(f, in, base64.StdEncoding)
	case ast.FilterBase64Encode:
		return applyBase64Encode(f, in, base64.StdEncoding)
	case ast.FilterBase64UrlSafeDecode:
		return applyBase64Decode(f, in, base64.URLEncoding)
	case ast.FilterBase64UrlSafeEncode:
		return applyBase64Encode(f, in, base64.URLEncoding)
	case ast.FilterUrlDecode:
		return applyUrlDecode(f, in)
	case ast.FilterUrlEncode:
		return applyUrlEncode(f, in)
	case ast.FilterHtmlEscape:
		return applyHtmlEscape(f, in)
	case ast.FilterHtmlUnescape:
		return applyHtmlUnescape(f, in)
	case ast.FilterToInt:
		return applyToInt(f, in)
	case ast.FilterToFloat:
		return applyToFloat(f, in)
	case ast.FilterToString:
		return applyToString(f, in)
	case ast.FilterToHex:
		return applyToHex(f, in)
	case ast.FilterToDate:
		return applyToDate(f, in, vs)
	case ast.FilterFormat:
		return applyFormat(f, in, vs)
	case ast.FilterDaysAfterNow:
		return applyDaysAfterNow(f, in)
	case ast.FilterDaysBeforeNow:
		return applyDaysBeforeNow(f, in)
	case ast.FilterDecode:
		return applyDecode(f, in, vs)
	case ast.FilterUtf8Encode:
		return applyUtf8Encode(f, in)
	case ast.FilterUtf8Decode:
		return applyUtf8Decode(f, in)
	case ast.FilterJsonpath:
		return applyJsonpath(f, in, vs)
	case ast.FilterXpath:
		return applyXpath(f, in, vs)
	case ast.FilterLocation:
		return applyLocation(f, in)
	case ast.FilterUrlQueryParam:
		return applyUrlQueryParam(f, in, vs)
	default:
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: "filter: unknown filter kind"}
	}
}

func filterName(kind ast.FilterKind) string {
	names := [...]string{
		"count", "first", "last", "nth", "regex", "replace", "replaceRegex",
		"split", "base64Decode", "base64Encode", "base64UrlSafeDecode",
		"base64UrlSafeEncode", "urlDecode", "urlEncode", "htmlEscape",
		"htmlUnescape", "toInt", "toFloat", "toString", "toHex", "toDate",
		"format", "daysAfterNow", "daysBeforeNow", "decode", "utf8Encode",
		"utf8Decode", "jsonpath", "xpath", "location", "urlQueryParam",
	}
	if int(kind) >= 0 && int(kind) < len(names) {
		return names[kind]
	}
	return "filter"
}

func applyCount(f *ast.Filter, in value.Value) (value.Value, error) {
	if items, ok := in.AsList(); ok {
		return value.IntVal(int64(len(items))), nil
	}
	if n, ok := in.AsNodesetSize(); ok {
		return value.IntVal(int64(n)), nil
	}
	if obj, ok := in.AsObject(); ok {
		return value.IntVal(int64(obj.Len())), nil
	}
	if b, ok := in.AsBytes(); ok {
		return value.IntVal(int64(len(b))), nil
	}
	return value.Value{}, invalidInput(f.Kind, in)
}

func applyNth(f *ast.Filter, in value.Value, n int64) (value.Value, error) {
	items, ok := in.AsList()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	idx := n
	if idx < 0 {
		idx += int64(len(items))
	}
	if idx < 0 || idx >= int64(len(items)) {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: index %d out of range (list has %d elements)", n, len(items))}
	}
	return items[idx], nil
}

func applyLast(f *ast.Filter, in value.Value) (value.Value, error) {
	items, ok := in.AsList()
	if !ok || len(items) == 0 {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	return items[len(items)-1], nil
}

func asInputString(kind ast.FilterKind, in value.Value) (string, error) {
	if s, ok := in.AsString(); ok {
		return s, nil
	}
	if b, ok := in.AsBytes(); ok {
		return string(b), nil
	}
	return "", invalidInput(kind, in)
}

func applyRegex(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	pattern, err := template.Render(f.Pattern, vs)
	if err != nil {
		return value.Value{}, err
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf("filter: invalid regex %q: %v", pattern, err)}
	}
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return value.Value{}, &Error{Kind: ErrRegexNoCapture, Msg: fmt.Sprintf("filter: regex %q did not match", pattern)}
	}
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		return value.StrVal(g.String()), nil
	}
	return value.StrVal(m.String()), nil
}

func applyReplace(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	oldStr, err := template.Render(f.Old, vs)
	if err != nil {
		return value.Value{}, err
	}
	newStr, err := template.Render(f.New, vs)
	if err != nil {
		return value.Value{}, err
	}
	return value.StrVal(strings.ReplaceAll(s, oldStr, newStr)), nil
}

func applyReplaceRegex(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	pattern, err := template.Render(f.Pattern, vs)
	if err != nil {
		return value.Value{}, err
	}
	newStr, err := template.Render(f.New, vs)
	if err != nil {
		return value.Value{}, err
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf("filter: invalid regex %q: %v", pattern, err)}
	}
	out, err := re.Replace(s, newStr, -1, -1)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: err.Error()}
	}
	return value.StrVal(out), nil
}

func applySplit(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	sep, err := template.Render(f.Sep, vs)
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(s, sep)
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.StrVal(p)
	}
	return value.ListVal(items), nil
}

func applyBase64Decode(f *ast.Filter, in value.Value, enc *base64.Encoding) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrDecode, Msg: fmt.Sprintf("filter: invalid base64: %v", err)}
	}
	return value.BytesVal(b), nil
}

func applyBase64Encode(f *ast.Filter, in value.Value, enc *base64.Encoding) (value.Value, error) {
	var b []byte
	if bs, ok := in.AsBytes(); ok {
		b = bs
	} else if s, ok := in.AsString(); ok {
		b = []byte(s)
	} else {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	return value.StrVal(enc.EncodeToString(b)), nil
}

func applyUrlDecode(f *ast.Filter, in value.Value) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	decoded, decErr := url.QueryUnescape(s)
	if decErr != nil {
		return value.Value{}, &Error{Kind: ErrDecode, Msg: fmt.Sprintf("filter: invalid url encoding: %v", decErr)}
	}
	return value.StrVal(decoded), nil
}

func applyUrlEncode(f *ast.Filter, in value.Value) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	return value.StrVal(url.QueryEscape(s)), nil
}

func applyHtmlEscape(f *ast.Filter, in value.Value) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	return value.StrVal(html.EscapeString(s)), nil
}

func applyHtmlUnescape(f *ast.Filter, in value.Value) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	return value.StrVal(html.UnescapeString(s)), nil
}

func applyToInt(f *ast.Filter, in value.Value) (value.Value, error) {
	if n, ok := in.AsInt(); ok {
		return value.IntVal(n), nil
	}
	src := reprSource(in)
	n, err := cast.ToInt64E(src)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: cannot convert %v to int", in.Kind())}
	}
	return value.IntVal(n), nil
}

func applyToFloat(f *ast.Filter, in value.Value) (value.Value, error) {
	if fl, ok := in.AsFloat(); ok {
		return value.FloatVal(fl)
	}
	src := reprSource(in)
	fl, err := cast.ToFloat64E(src)
	if err != nil {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: cannot convert %v to float", in.Kind())}
	}
	return value.FloatVal(fl)
}

func applyToString(f *ast.Filter, in value.Value) (value.Value, error) {
	if s, ok := in.AsString(); ok {
		return value.StrVal(s), nil
	}
	if rendered, ok := in.Render(); ok {
		return value.StrVal(rendered), nil
	}
	return value.Value{}, invalidInput(f.Kind, in)
}

func reprSource(in value.Value) string {
	if rendered, ok := in.Render(); ok {
		return rendered
	}
	return in.Repr()
}

func applyToHex(f *ast.Filter, in value.Value) (value.Value, error) {
	if n, ok := in.AsInt(); ok {
		return value.StrVal(strconv.FormatInt(n, 16)), nil
	}
	if b, ok := in.AsBigInt(); ok {
		bi, ok2 := new(big.Int).SetString(b, 10)
		if !ok2 {
			return value.Value{}, invalidInput(f.Kind, in)
		}
		return value.StrVal(bi.Text(16)), nil
	}
	if b, ok := in.AsBytes(); ok {
		return value.StrVal(fmt.Sprintf("%x", b)), nil
	}
	return value.Value{}, invalidInput(f.Kind, in)
}

func applyToDate(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	layout, err := template.Render(f.Format, vs)
	if err != nil {
		return value.Value{}, err
	}
	t, parseErr := time.Parse(goLayout(layout), s)
	if parseErr != nil {
		return value.Value{}, &Error{Kind: ErrDateParsingError, Msg: fmt.Sprintf("filter: cannot parse %q with format %q: %v", s, layout, parseErr)}
	}
	return value.DateVal(t), nil
}

func applyFormat(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	t, ok := in.AsDate()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	layout, err := template.Render(f.Format, vs)
	if err != nil {
		return value.Value{}, err
	}
	return value.StrVal(t.Format(goLayout(layout))), nil
}

// goLayout maps the handful of strftime-style directives Hurl's format
// strings historically used onto Go's reference-time layout, falling
// back to the input unchanged for anything already Go-style.
func goLayout(layout string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006", "%m", "01", "%d", "02",
		"%H", "15", "%M", "04", "%S", "05",
		"%f", "000000", "%z", "-0700",
	)
	if strings.Contains(layout, "%") {
		return replacer.Replace(layout)
	}
	return layout
}

func applyDaysAfterNow(f *ast.Filter, in value.Value) (value.Value, error) {
	t, ok := in.AsDate()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	days := int64(time.Until(t).Hours() / 24)
	return value.IntVal(days), nil
}

func applyDaysBeforeNow(f *ast.Filter, in value.Value) (value.Value, error) {
	t, ok := in.AsDate()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	days := int64(time.Since(t).Hours() / 24)
	return value.IntVal(days), nil
}

func applyDecode(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	b, ok := in.AsBytes()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	encoding, err := template.Render(f.Encoding, vs)
	if err != nil {
		return value.Value{}, err
	}
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		if !utf8.Valid(b) {
			return value.Value{}, &Error{Kind: ErrInvalidEncoding, Msg: "filter: bytes are not valid utf-8"}
		}
		return value.StrVal(string(b)), nil
	default:
		return value.Value{}, &Error{Kind: ErrInvalidEncoding, Msg: fmt.Sprintf("filter: unsupported decode encoding %q", encoding)}
	}
}

func applyUtf8Encode(f *ast.Filter, in value.Value) (value.Value, error) {
	s, ok := in.AsString()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	return value.BytesVal([]byte(s)), nil
}

func applyUtf8Decode(f *ast.Filter, in value.Value) (value.Value, error) {
	b, ok := in.AsBytes()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	if !utf8.Valid(b) {
		return value.Value{}, &Error{Kind: ErrInvalidEncoding, Msg: "filter: bytes are not valid utf-8"}
	}
	return value.StrVal(string(b)), nil
}

func applyJsonpath(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	expr, err := template.Render(f.Expr, vs)
	if err != nil {
		return value.Value{}, err
	}
	doc, jsonErr := parseJSONString(s)
	if jsonErr != nil {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: jsonpath input is not valid json: %v", jsonErr)}
	}
	path, compErr := jsonpath.Compile(expr)
	if compErr != nil {
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf("filter: invalid jsonpath %q: %v", expr, compErr)}
	}
	result, ok := jsonpath.Eval(path, doc)
	if !ok {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: jsonpath %q matched nothing", expr)}
	}
	return result, nil
}

func applyXpath(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	expr, err := template.Render(f.Expr, vs)
	if err != nil {
		return value.Value{}, err
	}
	doc, xmlErr := parseXMLString(s)
	if xmlErr != nil {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: xpath input is not valid xml: %v", xmlErr)}
	}
	result, evalErr := xpath.EvalXML(doc, expr)
	if evalErr != nil {
		return value.Value{}, &Error{Kind: ErrInvalidArgument, Msg: evalErr.Error()}
	}
	return result, nil
}

func applyLocation(f *ast.Filter, in value.Value) (value.Value, error) {
	ref, ok := in.AsHttpResponse()
	if !ok {
		return value.Value{}, invalidInput(f.Kind, in)
	}
	if loc, present := ref.Header("Location"); present {
		return value.StrVal(loc), nil
	}
	return value.StrVal(ref.URL), nil
}

func applyUrlQueryParam(f *ast.Filter, in value.Value, vs *variables.VariableSet) (value.Value, error) {
	s, err := asInputString(f.Kind, in)
	if err != nil {
		return value.Value{}, err
	}
	name, err := template.Render(f.ParamName, vs)
	if err != nil {
		return value.Value{}, err
	}
	u, parseErr := url.Parse(s)
	if parseErr != nil {
		return value.Value{}, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("filter: invalid url %q: %v", s, parseErr)}
	}
	v := u.Query().Get(name)
	return value.StrVal(v), nil
}
