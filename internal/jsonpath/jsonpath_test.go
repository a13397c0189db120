package jsonpath

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustDoc(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	return v
}

// mustDocNumber decodes the way internal/cache.BodyCache.JSON does
// (json.Number instead of float64), the form real response bodies take.
func mustDocNumber(t *testing.T, raw string) any {
	t.Helper()
	var v any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("json.Decode: %v", err)
	}
	return v
}

// Mirrors spec §8 scenario 2: jsonpath "$.book[*].price" feeds the count
// filter which feeds the == 2 predicate.
func TestEvalBookPricesCount(t *testing.T) {
	doc := mustDoc(t, `{"book":[{"price":10},{"price":20}]}`)
	path, err := Compile("$.book[*].price")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, ok := Eval(path, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	items, isList := result.AsList()
	if !isList {
		t.Fatalf("expected a list result, got kind %v", result.Kind())
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(items))
	}
}

func TestEvalSingularName(t *testing.T) {
	doc := mustDoc(t, `{"id": 42, "name": "widget"}`)
	path, err := Compile("$.name")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, ok := Eval(path, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	s, isStr := result.AsString()
	if !isStr || s != "widget" {
		t.Fatalf("expected string widget, got %+v", result)
	}
}

func TestEvalIndexAndWildcard(t *testing.T) {
	doc := mustDoc(t, `{"items": ["a", "b", "c"]}`)

	idxPath, err := Compile("$.items[1]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	idxResult, ok := Eval(idxPath, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	if s, _ := idxResult.AsString(); s != "b" {
		t.Fatalf("expected b, got %+v", idxResult)
	}

	wildPath, err := Compile("$.items[*]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	wildResult, ok := Eval(wildPath, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	items, _ := wildResult.AsList()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestEvalRecursiveDescent(t *testing.T) {
	doc := mustDoc(t, `{"a": {"name": "x"}, "b": [{"name": "y"}, {"other": 1}]}`)
	path, err := Compile("$..name")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, ok := Eval(path, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	items, isList := result.AsList()
	if !isList {
		// a single match renders as a scalar since "..name" is not
		// singular by our IsSingular rule (SegRecursive present), so
		// this should always be a list.
		t.Fatalf("expected list result, got %+v", result)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 names, got %d", len(items))
	}
}

func TestEvalFilterSelectorStandardDialect(t *testing.T) {
	doc := mustDoc(t, `{"book":[{"price":10,"category":"a"},{"price":30,"category":"b"}]}`)
	path, err := Compile("$.book[?(@.price > 20)]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, ok := Eval(path, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	items, _ := result.AsList()
	if len(items) != 1 {
		t.Fatalf("expected 1 filtered item, got %d", len(items))
	}
	obj, isObj := items[0].AsObject()
	if !isObj {
		t.Fatalf("expected an object result")
	}
	cat, _ := obj.Get("category")
	if s, _ := cat.AsString(); s != "b" {
		t.Fatalf("expected category b, got %+v", cat)
	}
}

func TestEvalLegacyDialectSlice(t *testing.T) {
	doc := mustDoc(t, `{"items": [0, 1, 2, 3, 4]}`)
	path, err := Compile("$.items[1:3]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, ok := Eval(path, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	items, _ := result.AsList()
	if len(items) != 2 {
		t.Fatalf("expected 2 sliced items, got %d", len(items))
	}
}

func TestEvalNoMatch(t *testing.T) {
	doc := mustDoc(t, `{"a": 1}`)
	path, err := Compile("$.missing")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := Eval(path, doc); ok {
		t.Fatal("expected no match")
	}
}

// TestEvalPreservesIntegerAndBigInteger mirrors the body shape
// internal/cache.BodyCache.JSON() decodes (json.Number), confirming an
// integer field stays an Integer/BigInteger instead of collapsing to
// Float.
func TestEvalPreservesIntegerAndBigInteger(t *testing.T) {
	doc := mustDocNumber(t, `{"count":2,"huge":123456789012345678901234567890,"ratio":1.5}`)

	countPath, err := Compile("$.count")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	countResult, ok := Eval(countPath, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	if n, isInt := countResult.AsInt(); !isInt || n != 2 {
		t.Fatalf("expected integer 2, got kind=%v %+v", countResult.Kind(), countResult)
	}

	hugePath, err := Compile("$.huge")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	hugeResult, ok := Eval(hugePath, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	if s, isBig := hugeResult.AsBigInt(); !isBig || s != "123456789012345678901234567890" {
		t.Fatalf("expected big_integer, got kind=%v %+v", hugeResult.Kind(), hugeResult)
	}

	ratioPath, err := Compile("$.ratio")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ratioResult, ok := Eval(ratioPath, doc)
	if !ok {
		t.Fatal("expected a match")
	}
	if f, isFloat := ratioResult.AsFloat(); !isFloat || f != 1.5 {
		t.Fatalf("expected float 1.5, got kind=%v %+v", ratioResult.Kind(), ratioResult)
	}
}

// TestEvalFilterMatchAndSearch exercises the standard-dialect match/
// search function extensions (spec §4.2), not just the bare-existence
// fallback they used to silently become.
func TestEvalFilterMatchAndSearch(t *testing.T) {
	doc := mustDoc(t, `{"book":[{"name":"widget-1"},{"name":"gadget-2"},{"name":"thingamajig"}]}`)

	matchPath, err := Compile(`$.book[?match(@.name, "widget-[0-9]+")]`)
	if err != nil {
		t.Fatalf("Compile match: %v", err)
	}
	matchResult, ok := Eval(matchPath, doc)
	if !ok {
		t.Fatal("expected a match() result")
	}
	items, _ := matchResult.AsList()
	if len(items) != 1 {
		t.Fatalf("expected match() to select exactly 1 item, got %d", len(items))
	}

	searchPath, err := Compile(`$.book[?search(@.name, "get-")]`)
	if err != nil {
		t.Fatalf("Compile search: %v", err)
	}
	searchResult, ok := Eval(searchPath, doc)
	if !ok {
		t.Fatal("expected a search() result")
	}
	// "get-" occurs inside both "widget-1" and "gadget-2".
	items, _ = searchResult.AsList()
	if len(items) != 2 {
		t.Fatalf("expected search() to select exactly 2 items, got %d", len(items))
	}

	// match() anchors the whole string: a partial substring like "widget"
	// (missing its numeric suffix) must not match, unlike search().
	noMatchPath, err := Compile(`$.book[?match(@.name, "widget")]`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := Eval(noMatchPath, doc); ok {
		t.Fatal("expected match() to reject a partial substring")
	}
}
