// Package jsonpath implements the two JSONPath dialects of spec §4.2: a
// legacy path (dot/bracket, wildcard, recursive descent, simple
// `?(@.key OP VALUE)` filters, slices) and a standard path (name/index/
// wildcard/slice/filter selectors, absolute/relative roots, comparison
// and logical operators, function extensions). Both share this AST
// layer, per spec §9 "JSONPath two dialects": the one grammar in
// parser.go accepts both surfaces and feeds the one evaluator in eval.go.
package jsonpath

// SegmentKind tags one step of a compiled path.
type SegmentKind int

const (
	SegName SegmentKind = iota
	SegIndex
	SegWildcard
	SegRecursive
	SegSlice
	SegFilter
	SegUnion // bracketed list of names/indices, e.g. ['a','b'] or [0,2]
)

// Segment is one path step.
type Segment struct {
	Kind SegmentKind

	Name string // SegName

	Index int // SegIndex (negative indexes from the end)

	SliceStart, SliceEnd   *int // SegSlice, nil means "unbounded"
	SliceHasStart, SliceHasEnd bool

	Filter *FilterExpr // SegFilter

	UnionNames   []string // SegUnion string members
	UnionIndices []int    // SegUnion int members
}

// Path is a compiled path. Spec §9 notes the legacy and standard
// surfaces historically diverge on missing-key filter semantics, but
// also explicitly permits unifying them behind one evaluator; this
// package does, so there is no per-path dialect flag to carry.
type Path struct {
	Segments []Segment
}

// IsSingular reports whether every segment is a name/index selector —
// the "singular query" notion of spec §4.2/GLOSSARY, usable as a
// comparison operand inside a standard-path filter.
func (p *Path) IsSingular() bool {
	for _, s := range p.Segments {
		if s.Kind != SegName && s.Kind != SegIndex {
			return false
		}
	}
	return true
}

// FilterExpr is a logical expression evaluated per candidate node inside
// a `[?(...)]` / `?@...` filter selector.
type FilterExpr struct {
	// Logical composition.
	And, Or   []*FilterExpr
	Not       *FilterExpr

	// Leaf comparison: Left OP Right.
	IsComparison bool
	Op           CompareOp
	Left, Right  *Operand

	// Leaf existence test: just `@.key` with no operator.
	IsExistence bool
	Existence   *Operand
}

type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Operand is either a literal or a relative/absolute query (including
// the standard dialect's function calls: length/count/value/match/
// search).
type Operand struct {
	IsLiteral bool
	LitBool   bool
	LitNum    float64
	LitIsNum  bool
	LitStr    string
	LitIsStr  bool
	LitNull   bool

	Query *Path // @... or $... query; both are evaluated from the current candidate node, not the document root

	Func     string // "length","count","value","match","search", or ""
	FuncArgs []*Operand
}
