package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/cache"
	"github.com/hurlgo/hurl/internal/sourcepos"
	"github.com/hurlgo/hurl/internal/variables"
)

func literalTemplate(s string) *ast.Template {
	return ast.NewTemplate([]ast.TemplateFragment{{Literal: s}}, s, sourcepos.Span{})
}

func TestEvalStatusAndHeader(t *testing.T) {
	call := &Call{
		Status: 200,
		Headers: []Header{
			{Name: "Content-Type", Value: "application/json"},
		},
		Body:  []byte(`{"id":1}`),
		Cache: cache.New([]byte(`{"id":1}`)),
	}
	vs := variables.New()

	statusQ := ast.NewQuery(ast.QueryStatus, sourcepos.Span{})
	v, err := Eval(statusQ, call, vs)
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(200), n)

	headerQ := ast.NewQuery(ast.QueryHeader, sourcepos.Span{})
	headerQ.HeaderName = literalTemplate("content-type")
	v, err = Eval(headerQ, call, vs)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	require.Equal(t, "application/json", s)
}

// TestHeaderValuesCaseInsensitive exercises the Unicode-aware caseless
// header matching (golang.org/x/text/cases.Fold), not just plain ASCII
// case differences.
func TestHeaderValuesCaseInsensitive(t *testing.T) {
	call := &Call{
		Headers: []Header{
			{Name: "CONTENT-TYPE", Value: "application/json"},
			{Name: "X-Straße", Value: "kept"},
		},
	}
	require.Equal(t, []string{"application/json"}, call.HeaderValues("content-type"))
	require.Equal(t, []string{"kept"}, call.HeaderValues("x-strasse"))
}

func TestEvalHeaderNotFound(t *testing.T) {
	call := &Call{Cache: cache.New(nil)}
	vs := variables.New()
	headerQ := ast.NewQuery(ast.QueryHeader, sourcepos.Span{})
	headerQ.HeaderName = literalTemplate("X-Missing")
	_, err := Eval(headerQ, call, vs)
	require.Error(t, err)
}

func TestEvalJsonpathLegacyDialect(t *testing.T) {
	body := []byte(`{"book":[{"price":10},{"price":20}]}`)
	call := &Call{Body: body, Cache: cache.New(body)}
	vs := variables.New()

	q := ast.NewQuery(ast.QueryJsonpath, sourcepos.Span{})
	q.JsonpathExpr = literalTemplate("$.book[*].price")
	v, err := Eval(q, call, vs)
	require.NoError(t, err)
	items, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestEvalCookie(t *testing.T) {
	call := &Call{
		Cache:   cache.New(nil),
		Cookies: []Cookie{{Name: "session", Value: "abc123", Domain: "example.org"}},
	}
	vs := variables.New()
	q := ast.NewQuery(ast.QueryCookie, sourcepos.Span{})
	q.CookiePath = literalTemplate("session")
	q.CookieAttr = "Domain"
	v, err := Eval(q, call, vs)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	require.Equal(t, "example.org", s)
}
