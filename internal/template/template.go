// Package template renders internal/ast templates against a VariableSet
// (spec §4.7). Unlike the teacher's pkg/strings.TextTemplate (which
// wraps text/template.Template), rendering here walks the AST's own
// fragment list directly, since Hurl's {{expr}} placeholders resolve
// through the dynamic Value model rather than Go's template engine.
package template

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

// ErrorKind tags a render-time error (spec §7 Template/variable errors).
type ErrorKind int

const (
	ErrTemplateVariableNotDefined ErrorKind = iota
	ErrUnrenderableExpression
)

type Error struct {
	Kind ErrorKind
	Name string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrTemplateVariableNotDefined:
		return fmt.Sprintf("template: variable %q is not defined", e.Name)
	default:
		return fmt.Sprintf("template: expression %q has no string projection", e.Name)
	}
}

// Render renders t against vs, per spec §4.7: literal fragments copy
// verbatim; placeholders evaluate their expression and render the
// resulting Value.
func Render(t *ast.Template, vs *variables.VariableSet) (string, error) {
	if t.IsLiteral() {
		var out string
		for _, f := range t.Fragments {
			out += f.Literal
		}
		return out, nil
	}
	var out string
	for _, f := range t.Fragments {
		if f.Expr == nil {
			out += f.Literal
			continue
		}
		v, err := Eval(f.Expr, vs)
		if err != nil {
			return "", err
		}
		rendered, ok := v.Render()
		if !ok {
			return "", &Error{Kind: ErrUnrenderableExpression, Name: f.Expr.Name}
		}
		out += rendered
	}
	return out, nil
}

// Eval evaluates one placeholder expression to a Value, without
// rendering it to a string. Render calls it for each placeholder; no
// other caller uses the unrendered Value.
func Eval(expr *ast.TemplateExpr, vs *variables.VariableSet) (value.Value, error) {
	switch expr.Kind {
	case ast.ExprFuncNewUuid:
		return value.StrVal(uuid.NewString()), nil
	case ast.ExprFuncNewDate:
		return value.StrVal(time.Now().UTC().Format(time.RFC3339)), nil
	default:
		v, ok := vs.Get(expr.Name)
		if !ok {
			return value.Value{}, &Error{Kind: ErrTemplateVariableNotDefined, Name: expr.Name}
		}
		return v.Value, nil
	}
}
