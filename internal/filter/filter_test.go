package filter

import (
	"testing"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/sourcepos"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

func literalTemplate(s string) *ast.Template {
	return ast.NewTemplate([]ast.TemplateFragment{{Literal: s}}, s, sourcepos.Span{})
}

// Mirrors spec §8 scenario 2: jsonpath "$.book[*].price" -> count -> == 2.
func TestCountOnList(t *testing.T) {
	in := value.ListVal([]value.Value{value.IntVal(10), value.IntVal(20)})
	f := ast.NewFilter(ast.FilterCount, sourcepos.Span{})
	out, err := Apply(f, in, variables.New())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	n, ok := out.AsInt()
	if !ok || n != 2 {
		t.Fatalf("expected count 2, got %+v", out)
	}
}

func TestReplaceChain(t *testing.T) {
	f := ast.NewFilter(ast.FilterReplace, sourcepos.Span{})
	f.Old = literalTemplate("foo")
	f.New = literalTemplate("bar")
	out, err := Chain([]*ast.Filter{f}, value.StrVal("foobaz"), variables.New())
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	s, _ := out.AsString()
	if s != "barbaz" {
		t.Fatalf("expected barbaz, got %q", s)
	}
}

func TestRegexCaptureGroup(t *testing.T) {
	f := ast.NewFilter(ast.FilterRegex, sourcepos.Span{})
	f.Pattern = literalTemplate(`id=(\d+)`)
	out, err := Apply(f, value.StrVal("id=42"), variables.New())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s, _ := out.AsString()
	if s != "42" {
		t.Fatalf("expected 42, got %q", s)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	encF := ast.NewFilter(ast.FilterBase64Encode, sourcepos.Span{})
	encoded, err := Apply(encF, value.StrVal("hello"), variables.New())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s, _ := encoded.AsString()

	decF := ast.NewFilter(ast.FilterBase64Decode, sourcepos.Span{})
	decoded, err := Apply(decF, value.StrVal(s), variables.New())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, _ := decoded.AsBytes()
	if string(b) != "hello" {
		t.Fatalf("expected hello, got %q", string(b))
	}
}

func TestToIntInvalidInput(t *testing.T) {
	f := ast.NewFilter(ast.FilterToInt, sourcepos.Span{})
	_, err := Apply(f, value.StrVal("not-a-number"), variables.New())
	if err == nil {
		t.Fatal("expected an error converting a non-numeric string to int")
	}
}

func TestUrlQueryParam(t *testing.T) {
	f := ast.NewFilter(ast.FilterUrlQueryParam, sourcepos.Span{})
	f.ParamName = literalTemplate("q")
	out, err := Apply(f, value.StrVal("https://example.org/search?q=hurl&page=2"), variables.New())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s, _ := out.AsString()
	if s != "hurl" {
		t.Fatalf("expected hurl, got %q", s)
	}
}
