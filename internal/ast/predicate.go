package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// PredicateKind enumerates the predicate families of spec §4.5.
type PredicateKind int

const (
	PredEqual PredicateKind = iota
	PredNotEqual
	PredLessThan
	PredLessOrEqual
	PredGreaterThan
	PredGreaterOrEqual
	PredContains
	PredIncludes
	PredStartsWith
	PredEndsWith
	PredMatches
	PredIsInteger
	PredIsFloat
	PredIsString
	PredIsCollection
	PredIsDate
	PredIsIsoDate
	PredIsEmpty
	PredIsNumber
	PredIsBoolean
	PredExists
)

// Literal is a parsed literal operand: exactly one typed field is set,
// mirroring the structure of Body/Query/Filter nodes in this package.
type Literal struct {
	Kind    LiteralKind
	Bool    bool
	Int     int64
	Float   float64
	BigInt  string
	Str     *Template
	Null    bool
}

type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitInt
	LitFloat
	LitBigInt
	LitString
	LitNull
)

// Predicate is a comparison/containment/regex/kind-test/existence check,
// optionally negated by a leading `not`.
type Predicate struct {
	Negate bool
	Kind   PredicateKind

	Operand *Literal // comparison/containment/regex predicates

	span sourcepos.Span
}

func (p *Predicate) Span() sourcepos.Span { return p.span }

func NewPredicate(kind PredicateKind, negate bool, span sourcepos.Span) *Predicate {
	return &Predicate{Kind: kind, Negate: negate, span: span}
}
