// Package predicate implements the 21 predicates of spec §4.5, the last
// stage of an Assert/Capture's query -> filter chain -> predicate
// pipeline.
package predicate

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/value"
	"github.com/hurlgo/hurl/internal/variables"
)

// Result is the outcome of one predicate evaluation: Passed reports
// pass/fail, and TypeMismatch distinguishes "values compared but
// differed" from "predicate does not apply to this value's kind" (spec
// §7 AssertFailure.type_mismatch).
type Result struct {
	Passed       bool
	TypeMismatch bool
	Message      string
}

// Error signals a predicate that could not even be evaluated (e.g. an
// unparsable regex pattern) — distinct from a Result that failed.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Evaluate runs p against actual. found reports whether the preceding
// query/filter chain produced a value at all; PredExists is the only
// predicate that can still answer meaningfully when found is false.
func Evaluate(p *ast.Predicate, actual value.Value, found bool, vs *variables.VariableSet) (Result, error) {
	if p.Kind == ast.PredExists {
		passed := found
		if p.Negate {
			passed = !passed
		}
		return Result{Passed: passed}, nil
	}
	if !found {
		return Result{Passed: false, Message: "predicate: query produced no value"}, nil
	}

	res, err := evalCore(p, actual, vs)
	if err != nil {
		return Result{}, err
	}
	if p.Negate {
		res.Passed = !res.Passed
	}
	return res, nil
}

func evalCore(p *ast.Predicate, actual value.Value, vs *variables.VariableSet) (Result, error) {
	switch p.Kind {
	case ast.PredEqual:
		operand, err := literalValue(p.Operand, vs)
		if err != nil {
			return Result{}, err
		}
		if !equalityComparable(actual, operand) {
			return Result{Passed: false, TypeMismatch: true, Message: fmt.Sprintf("predicate: cannot compare %v and %v", actual.Kind(), operand.Kind())}, nil
		}
		return Result{Passed: value.Equal(actual, operand)}, nil

	case ast.PredNotEqual:
		operand, err := literalValue(p.Operand, vs)
		if err != nil {
			return Result{}, err
		}
		if !equalityComparable(actual, operand) {
			return Result{Passed: false, TypeMismatch: true, Message: fmt.Sprintf("predicate: cannot compare %v and %v", actual.Kind(), operand.Kind())}, nil
		}
		return Result{Passed: !value.Equal(actual, operand)}, nil

	case ast.PredLessThan, ast.PredLessOrEqual, ast.PredGreaterThan, ast.PredGreaterOrEqual:
		operand, err := literalValue(p.Operand, vs)
		if err != nil {
			return Result{}, err
		}
		cmp, ok := value.Compare(actual, operand)
		if !ok {
			return Result{Passed: false, TypeMismatch: true, Message: fmt.Sprintf("predicate: cannot order-compare %v and %v", actual.Kind(), operand.Kind())}, nil
		}
		switch p.Kind {
		case ast.PredLessThan:
			return Result{Passed: cmp < 0}, nil
		case ast.PredLessOrEqual:
			return Result{Passed: cmp <= 0}, nil
		case ast.PredGreaterThan:
			return Result{Passed: cmp > 0}, nil
		default:
			return Result{Passed: cmp >= 0}, nil
		}

	case ast.PredContains:
		return evalContains(p, actual, vs)

	case ast.PredIncludes:
		return evalIncludes(p, actual, vs)

	case ast.PredStartsWith, ast.PredEndsWith:
		return evalPrefixSuffix(p, actual, vs)

	case ast.PredMatches:
		return evalMatches(p, actual, vs)

	case ast.PredIsInteger:
		_, ok := actual.AsInt()
		return Result{Passed: ok}, nil
	case ast.PredIsFloat:
		_, ok := actual.AsFloat()
		return Result{Passed: ok}, nil
	case ast.PredIsString:
		_, ok := actual.AsString()
		return Result{Passed: ok}, nil
	case ast.PredIsCollection:
		_, isList := actual.AsList()
		_, isObj := actual.AsObject()
		_, isNodeset := actual.AsNodesetSize()
		return Result{Passed: isList || isObj || isNodeset}, nil
	case ast.PredIsDate:
		_, ok := actual.AsDate()
		return Result{Passed: ok}, nil
	case ast.PredIsIsoDate:
		return evalIsIsoDate(actual), nil
	case ast.PredIsEmpty:
		return evalIsEmpty(actual), nil
	case ast.PredIsNumber:
		_, isInt := actual.AsInt()
		_, isFloat := actual.AsFloat()
		_, isBig := actual.AsBigInt()
		return Result{Passed: isInt || isFloat || isBig}, nil
	case ast.PredIsBoolean:
		_, ok := actual.AsBool()
		return Result{Passed: ok}, nil

	default:
		return Result{}, &Error{Msg: "predicate: unknown predicate kind"}
	}
}

// equalityComparable reports whether a and b may be compared for
// equality at all (spec §4.5: "equality... operate across compatible
// kinds"): same kind, both numeric (integer/float/big-integer interop),
// or a string against bytes. Anything else (e.g. integer vs string) is a
// type mismatch rather than a plain inequality.
func equalityComparable(a, b value.Value) bool {
	if a.Kind() == b.Kind() {
		return true
	}
	if a.Kind().IsNumeric() && b.Kind().IsNumeric() {
		return true
	}
	if (a.Kind() == value.String && b.Kind() == value.Bytes) || (a.Kind() == value.Bytes && b.Kind() == value.String) {
		return true
	}
	return false
}

func literalValue(lit *ast.Literal, vs *variables.VariableSet) (value.Value, error) {
	if lit == nil {
		return value.Value{}, &Error{Msg: "predicate: missing operand"}
	}
	switch lit.Kind {
	case ast.LitBool:
		return value.BoolVal(lit.Bool), nil
	case ast.LitInt:
		return value.IntVal(lit.Int), nil
	case ast.LitFloat:
		return value.FloatVal(lit.Float)
	case ast.LitBigInt:
		return value.BigIntVal(lit.BigInt), nil
	case ast.LitString:
		s, err := template.Render(lit.Str, vs)
		if err != nil {
			return value.Value{}, err
		}
		return value.StrVal(s), nil
	case ast.LitNull:
		return value.NullVal(), nil
	default:
		return value.Value{}, &Error{Msg: "predicate: unknown literal kind"}
	}
}

func evalContains(p *ast.Predicate, actual value.Value, vs *variables.VariableSet) (Result, error) {
	operand, err := literalValue(p.Operand, vs)
	if err != nil {
		return Result{}, err
	}
	if s, ok := actual.AsString(); ok {
		needle, ok := operand.AsString()
		if !ok {
			return Result{Passed: false, TypeMismatch: true, Message: "predicate: contains expects a string operand against a string value"}, nil
		}
		return Result{Passed: strings.Contains(s, needle)}, nil
	}
	if b, ok := actual.AsBytes(); ok {
		needle, ok := operand.AsBytes()
		if !ok {
			return Result{Passed: false, TypeMismatch: true, Message: "predicate: contains expects a bytes operand against a bytes value"}, nil
		}
		return Result{Passed: strings.Contains(string(b), string(needle))}, nil
	}
	if items, ok := actual.AsList(); ok {
		for _, it := range items {
			if value.Equal(it, operand) {
				return Result{Passed: true}, nil
			}
		}
		return Result{Passed: false}, nil
	}
	return Result{Passed: false, TypeMismatch: true, Message: fmt.Sprintf("predicate: contains does not apply to %v", actual.Kind())}, nil
}

func evalIncludes(p *ast.Predicate, actual value.Value, vs *variables.VariableSet) (Result, error) {
	operand, err := literalValue(p.Operand, vs)
	if err != nil {
		return Result{}, err
	}
	items, ok := actual.AsList()
	if !ok {
		return Result{Passed: false, TypeMismatch: true, Message: "predicate: includes expects a list value"}, nil
	}
	for _, it := range items {
		if value.Equal(it, operand) {
			return Result{Passed: true}, nil
		}
	}
	return Result{Passed: false}, nil
}

func evalPrefixSuffix(p *ast.Predicate, actual value.Value, vs *variables.VariableSet) (Result, error) {
	operand, err := literalValue(p.Operand, vs)
	if err != nil {
		return Result{}, err
	}
	s, ok := actual.AsString()
	if !ok {
		return Result{Passed: false, TypeMismatch: true, Message: "predicate: startsWith/endsWith expects a string value"}, nil
	}
	needle, ok := operand.AsString()
	if !ok {
		return Result{Passed: false, TypeMismatch: true, Message: "predicate: startsWith/endsWith expects a string operand"}, nil
	}
	if p.Kind == ast.PredStartsWith {
		return Result{Passed: strings.HasPrefix(s, needle)}, nil
	}
	return Result{Passed: strings.HasSuffix(s, needle)}, nil
}

func evalMatches(p *ast.Predicate, actual value.Value, vs *variables.VariableSet) (Result, error) {
	s, ok := actual.AsString()
	if !ok {
		return Result{Passed: false, TypeMismatch: true, Message: "predicate: matches expects a string value"}, nil
	}
	operand, err := literalValue(p.Operand, vs)
	if err != nil {
		return Result{}, err
	}
	pattern, ok := operand.AsString()
	if !ok {
		return Result{}, &Error{Msg: "predicate: matches expects a string pattern"}
	}
	re, compErr := regexp2.Compile(pattern, regexp2.None)
	if compErr != nil {
		return Result{}, &Error{Msg: fmt.Sprintf("predicate: invalid regex %q: %v", pattern, compErr)}
	}
	m, matchErr := re.MatchString(s)
	if matchErr != nil {
		return Result{}, &Error{Msg: matchErr.Error()}
	}
	return Result{Passed: m}, nil
}

func evalIsIsoDate(actual value.Value) Result {
	s, ok := actual.AsString()
	if !ok {
		return Result{Passed: false, TypeMismatch: true, Message: "predicate: isIsoDate expects a string value"}
	}
	return Result{Passed: isISO8601(s)}
}

func evalIsEmpty(actual value.Value) Result {
	if s, ok := actual.AsString(); ok {
		return Result{Passed: len(s) == 0}
	}
	if b, ok := actual.AsBytes(); ok {
		return Result{Passed: len(b) == 0}
	}
	if items, ok := actual.AsList(); ok {
		return Result{Passed: len(items) == 0}
	}
	if obj, ok := actual.AsObject(); ok {
		return Result{Passed: obj.Len() == 0}
	}
	return Result{Passed: false, TypeMismatch: true, Message: fmt.Sprintf("predicate: isEmpty does not apply to %v", actual.Kind())}
}
