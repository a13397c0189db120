// Package value implements the Hurl runtime's dynamically-typed Value
// model (spec §3): a tagged variant with a kind tag, a short repr, an
// optional render (human string used by template substitution), and a
// JSON projection used by captures and reports.
package value

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// HttpResponseRef is the opaque handle the Value.HttpResponse variant
// carries: enough to answer the `location` filter and similar queries
// without re-exposing the whole response as a Value tree.
type HttpResponseRef struct {
	URL    string
	Status int
	Header func(name string) (string, bool)
}

// Value is the runtime type threaded through queries, filters, and
// predicates. Exactly one of the typed fields is meaningful, selected by
// Kind; this mirrors the teacher's tagged-union style (ai/vectorstore
// filter/ast literal nodes) rather than a Go interface, since hot-path
// filter/predicate code switches on kind far more often than it
// dispatches polymorphically.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	bigVal   string // validated decimal literal exceeding int64 range
	strVal   string
	bytesVal []byte
	dateVal  time.Time
	reSrc    string
	reVal    *regexp2.Regexp
	listVal  []Value
	objVal   *Object
	nodeSize int
	httpVal  HttpResponseRef
}

func (v Value) Kind() Kind { return v.kind }

func BoolVal(b bool) Value { return Value{kind: Bool, boolVal: b} }

func IntVal(i int64) Value { return Value{kind: Integer, intVal: i} }

const maxFloat = 1.7976931348623157e+308

// FloatVal rejects NaN/±Inf, per the spec's Number::Float invariant.
func FloatVal(f float64) (Value, error) {
	if f != f || f > maxFloat || f < -maxFloat {
		return Value{}, fmt.Errorf("value: float must not be NaN or infinite")
	}
	return Value{kind: Float, floatVal: f}, nil
}

// BigIntVal stores a decimal literal too large for int64. The caller is
// responsible for validating it is a well-formed decimal integer.
func BigIntVal(decimal string) Value { return Value{kind: BigInteger, bigVal: decimal} }

func StrVal(s string) Value { return Value{kind: String, strVal: s} }

func BytesVal(b []byte) Value { return Value{kind: Bytes, bytesVal: b} }

// DateVal always stores a UTC timestamp, per spec invariant.
func DateVal(t time.Time) Value { return Value{kind: Date, dateVal: t.UTC()} }

// RegexVal compiles pattern once and keeps both the compiled form (used
// by predicates/filters) and the source (used for kind-preserving
// equality, since Regex values compare by source pattern per spec).
func RegexVal(pattern string) (Value, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return Value{}, fmt.Errorf("value: invalid regex %q: %w", pattern, err)
	}
	return Value{kind: Regex, reSrc: pattern, reVal: re}, nil
}

func ListVal(items []Value) Value { return Value{kind: List, listVal: items} }

func ObjectVal(o *Object) Value { return Value{kind: Object, objVal: o} }

func NodesetVal(size int) Value { return Value{kind: Nodeset, nodeSize: size} }

func HttpResponseVal(ref HttpResponseRef) Value {
	return Value{kind: HttpResponse, httpVal: ref}
}

func NullVal() Value { return Value{kind: Null} }

func UnitVal() Value { return Value{kind: Unit} }

func (v Value) AsBool() (bool, bool)      { return v.boolVal, v.kind == Bool }
func (v Value) AsInt() (int64, bool)      { return v.intVal, v.kind == Integer }
func (v Value) AsFloat() (float64, bool)  { return v.floatVal, v.kind == Float }
func (v Value) AsBigInt() (string, bool)  { return v.bigVal, v.kind == BigInteger }
func (v Value) AsString() (string, bool)  { return v.strVal, v.kind == String }
func (v Value) AsBytes() ([]byte, bool)   { return v.bytesVal, v.kind == Bytes }
func (v Value) AsDate() (time.Time, bool) { return v.dateVal, v.kind == Date }
func (v Value) AsRegex() (*regexp2.Regexp, string, bool) {
	return v.reVal, v.reSrc, v.kind == Regex
}
func (v Value) AsList() ([]Value, bool)   { return v.listVal, v.kind == List }
func (v Value) AsObject() (*Object, bool) { return v.objVal, v.kind == Object }
func (v Value) AsNodesetSize() (int, bool) {
	return v.nodeSize, v.kind == Nodeset
}
func (v Value) AsHttpResponse() (HttpResponseRef, bool) {
	return v.httpVal, v.kind == HttpResponse
}

// Repr is the short display form used in error messages and `--verbose`
// style tracing; unlike Render it is always defined, even for kinds with
// no string projection.
func (v Value) Repr() string {
	switch v.kind {
	case Bool:
		return fmt.Sprintf("%t", v.boolVal)
	case Integer:
		return fmt.Sprintf("%d", v.intVal)
	case Float:
		return fmt.Sprintf("%g", v.floatVal)
	case BigInteger:
		return v.bigVal
	case String:
		return fmt.Sprintf("%q", v.strVal)
	case Bytes:
		return fmt.Sprintf("<%d bytes>", len(v.bytesVal))
	case Date:
		return v.dateVal.Format(time.RFC3339)
	case Regex:
		return "/" + v.reSrc + "/"
	case List:
		return fmt.Sprintf("<list(%d)>", len(v.listVal))
	case Object:
		return fmt.Sprintf("<object(%d)>", v.objVal.Len())
	case Nodeset:
		return fmt.Sprintf("<nodeset(%d)>", v.nodeSize)
	case HttpResponse:
		return fmt.Sprintf("<response %d %s>", v.httpVal.Status, v.httpVal.URL)
	case Null:
		return "null"
	case Unit:
		return "unit"
	default:
		return "<invalid>"
	}
}
