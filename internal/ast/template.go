package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// TemplateExprKind distinguishes a variable reference from a built-in
// function call inside a `{{ expr }}` placeholder.
type TemplateExprKind int

const (
	ExprVariable TemplateExprKind = iota
	ExprFuncNewUuid
	ExprFuncNewDate
)

// TemplateExpr is one `{{expr}}` placeholder.
type TemplateExpr struct {
	Kind TemplateExprKind
	Name string // variable name, empty for function expressions
	span sourcepos.Span
}

func NewTemplateExpr(kind TemplateExprKind, name string, span sourcepos.Span) *TemplateExpr {
	return &TemplateExpr{Kind: kind, Name: name, span: span}
}

func (e *TemplateExpr) Span() sourcepos.Span { return e.span }

// TemplateFragment is either a literal run of source characters or a
// placeholder expression; exactly one of Literal/Expr is set.
type TemplateFragment struct {
	Literal string
	Expr    *TemplateExpr
}

// Template is a sequence of literal fragments and placeholders. The
// parser records the exact source characters of each literal fragment so
// that re-emission round-trips verbatim (spec §8 parse round-trip
// invariant).
type Template struct {
	Fragments []TemplateFragment
	Source    string // exact original source text, for round-trip re-emission
	span      sourcepos.Span
}

func NewTemplate(fragments []TemplateFragment, source string, span sourcepos.Span) *Template {
	return &Template{Fragments: fragments, Source: source, span: span}
}

func (t *Template) Span() sourcepos.Span { return t.span }

// IsLiteral reports whether the template has no placeholders, letting
// callers skip VariableSet lookups entirely for plain strings.
func (t *Template) IsLiteral() bool {
	for _, f := range t.Fragments {
		if f.Expr != nil {
			return false
		}
	}
	return true
}
