package jsonpath

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/hurlgo/hurl/internal/value"
)

// Eval runs path against doc (the generic any-tree produced by
// internal/cache.BodyCache.JSON) and returns the result per spec §4.2:
// a single Value for a singular query that matched exactly one node, or
// a List Value collecting every matched node otherwise. A query that
// matches nothing returns ok=false.
func Eval(path *Path, doc any) (result value.Value, ok bool) {
	nodes := []any{doc}
	for _, seg := range path.Segments {
		nodes = applySegment(seg, nodes)
		if len(nodes) == 0 {
			return value.Value{}, false
		}
	}
	if len(nodes) == 0 {
		return value.Value{}, false
	}
	if path.IsSingular() && len(nodes) == 1 {
		return toValue(nodes[0]), true
	}
	vals := make([]value.Value, len(nodes))
	for i, n := range nodes {
		vals[i] = toValue(n)
	}
	return value.ListVal(vals), true
}

func applySegment(seg Segment, nodes []any) []any {
	switch seg.Kind {
	case SegName:
		var out []any
		for _, n := range nodes {
			if m, isMap := n.(map[string]any); isMap {
				if v, present := m[seg.Name]; present {
					out = append(out, v)
				}
			}
		}
		return out
	case SegIndex:
		var out []any
		for _, n := range nodes {
			if arr, isArr := n.([]any); isArr {
				if v, present := arrayIndex(arr, seg.Index); present {
					out = append(out, v)
				}
			}
		}
		return out
	case SegWildcard:
		var out []any
		for _, n := range nodes {
			out = append(out, children(n)...)
		}
		return out
	case SegRecursive:
		var out []any
		for _, n := range nodes {
			out = append(out, collectRecursive(n)...)
		}
		return out
	case SegSlice:
		var out []any
		for _, n := range nodes {
			if arr, isArr := n.([]any); isArr {
				out = append(out, sliceArray(arr, seg)...)
			}
		}
		return out
	case SegUnion:
		var out []any
		for _, n := range nodes {
			if len(seg.UnionNames) > 0 {
				if m, isMap := n.(map[string]any); isMap {
					for _, name := range seg.UnionNames {
						if v, present := m[name]; present {
							out = append(out, v)
						}
					}
				}
			}
			if len(seg.UnionIndices) > 0 {
				if arr, isArr := n.([]any); isArr {
					for _, idx := range seg.UnionIndices {
						if v, present := arrayIndex(arr, idx); present {
							out = append(out, v)
						}
					}
				}
			}
		}
		return out
	case SegFilter:
		var out []any
		for _, n := range nodes {
			for _, c := range children(n) {
				if evalFilter(seg.Filter, c) {
					out = append(out, c)
				}
			}
		}
		return out
	}
	return nil
}

func arrayIndex(arr []any, idx int) (any, bool) {
	n := len(arr)
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return nil, false
	}
	return arr[idx], true
}

func sliceArray(arr []any, seg Segment) []any {
	n := len(arr)
	start := 0
	end := n
	if seg.SliceHasStart {
		start = normalizeSliceIndex(*seg.SliceStart, n)
	}
	if seg.SliceHasEnd {
		end = normalizeSliceIndex(*seg.SliceEnd, n)
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return nil
	}
	return arr[start:end]
}

func normalizeSliceIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	return i
}

func children(n any) []any {
	switch v := n.(type) {
	case []any:
		return v
	case map[string]any:
		out := make([]any, 0, len(v))
		for _, val := range v {
			out = append(out, val)
		}
		return out
	default:
		return nil
	}
}

func collectRecursive(n any) []any {
	var out []any
	out = append(out, n)
	switch v := n.(type) {
	case []any:
		for _, e := range v {
			out = append(out, collectRecursive(e)...)
		}
	case map[string]any:
		for _, e := range v {
			out = append(out, collectRecursive(e)...)
		}
	}
	return out
}

func evalFilter(fe *FilterExpr, current any) bool {
	if fe == nil {
		return false
	}
	if fe.Not != nil {
		return !evalFilter(fe.Not, current)
	}
	if len(fe.And) > 0 {
		for _, sub := range fe.And {
			if !evalFilter(sub, current) {
				return false
			}
		}
		return true
	}
	if len(fe.Or) > 0 {
		for _, sub := range fe.Or {
			if evalFilter(sub, current) {
				return true
			}
		}
		return false
	}
	if fe.IsExistence {
		// match/search (spec §4.2 standard-dialect function extensions)
		// are LogicalType, not ValueType: they are never a plain query
		// result to test for existence, only a test in their own right.
		if fe.Existence.Func == "match" || fe.Existence.Func == "search" {
			return evalFuncTest(fe.Existence, current)
		}
		_, ok := evalOperand(fe.Existence, current)
		return ok
	}
	if fe.IsComparison {
		lv, lok := evalOperand(fe.Left, current)
		rv, rok := evalOperand(fe.Right, current)
		if !lok || !rok {
			return fe.Op == OpNe && lok != rok
		}
		return compareValues(fe.Op, lv, rv)
	}
	return false
}

func evalOperand(op *Operand, current any) (any, bool) {
	if op == nil {
		return nil, false
	}
	if op.IsLiteral {
		switch {
		case op.LitIsStr:
			return op.LitStr, true
		case op.LitIsNum:
			return op.LitNum, true
		case op.LitNull:
			return nil, true
		default:
			return op.LitBool, true
		}
	}
	if op.Query != nil {
		root := current
		nodes := []any{root}
		for _, seg := range op.Query.Segments {
			nodes = applySegment(seg, nodes)
			if len(nodes) == 0 {
				return nil, false
			}
		}
		if len(nodes) == 0 {
			return nil, false
		}
		return nodes[0], true
	}
	if op.Func != "" {
		return evalFunc(op, current)
	}
	return nil, false
}

func evalFunc(op *Operand, current any) (any, bool) {
	switch op.Func {
	case "length", "count":
		if len(op.FuncArgs) != 1 {
			return nil, false
		}
		v, ok := evalOperand(op.FuncArgs[0], current)
		if !ok {
			return nil, false
		}
		switch t := v.(type) {
		case string:
			return float64(len([]rune(t))), true
		case []any:
			return float64(len(t)), true
		case map[string]any:
			return float64(len(t)), true
		default:
			return nil, false
		}
	case "value":
		if len(op.FuncArgs) != 1 {
			return nil, false
		}
		return evalOperand(op.FuncArgs[0], current)
	default:
		// match/search are LogicalType (evalFuncTest), never resolvable
		// to a plain ValueType operand.
		return nil, false
	}
}

// evalFuncTest evaluates the standard-dialect match/search function
// extensions (spec §4.2): match(value, regex) requires the whole string
// to match, search(value, regex) requires the pattern to occur anywhere
// in it. Both are LogicalType — usable only as a filter test, never as
// a comparison operand.
func evalFuncTest(op *Operand, current any) bool {
	if len(op.FuncArgs) != 2 {
		return false
	}
	subject, ok := evalOperand(op.FuncArgs[0], current)
	if !ok {
		return false
	}
	s, isStr := subject.(string)
	if !isStr {
		return false
	}
	patternVal, ok := evalOperand(op.FuncArgs[1], current)
	if !ok {
		return false
	}
	pattern, isStr := patternVal.(string)
	if !isStr {
		return false
	}
	if op.Func == "match" {
		pattern = "^(?:" + pattern + ")$"
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return false
	}
	matched, err := re.MatchString(s)
	return err == nil && matched
}

func compareValues(op CompareOp, a, b any) bool {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		switch op {
		case OpEq:
			return af == bf
		case OpNe:
			return af != bf
		case OpLt:
			return af < bf
		case OpLe:
			return af <= bf
		case OpGt:
			return af > bf
		case OpGe:
			return af >= bf
		}
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		switch op {
		case OpEq:
			return as == bs
		case OpNe:
			return as != bs
		case OpLt:
			return as < bs
		case OpLe:
			return as <= bs
		case OpGt:
			return as > bs
		case OpGe:
			return as >= bs
		}
	}
	ab, aIsBool := a.(bool)
	bb, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		switch op {
		case OpEq:
			return ab == bb
		case OpNe:
			return ab != bb
		}
	}
	if op == OpNe {
		return true
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// numberToValue maps a json.Number decoded with UseNumber() onto the
// spec's Integer/Float/BigInteger split (spec §3), the same rule
// internal/parser/literals.go uses for numeric literals: it fits int64,
// or it's an integer too large for int64 (BigInteger, kept as the exact
// decimal text), or it has a fractional/exponent part (Float).
func numberToValue(n json.Number) value.Value {
	s := string(n)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.IntVal(i)
	}
	if strings.ContainsAny(s, ".eE") {
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return value.NullVal()
		}
		fv, ferr := value.FloatVal(f)
		if ferr != nil {
			return value.NullVal()
		}
		return fv
	}
	return value.BigIntVal(s)
}

func toValue(n any) value.Value {
	switch v := n.(type) {
	case nil:
		return value.NullVal()
	case bool:
		return value.BoolVal(v)
	case json.Number:
		return numberToValue(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return value.NullVal()
		}
		fv, err := value.FloatVal(v)
		if err != nil {
			return value.NullVal()
		}
		return fv
	case string:
		return value.StrVal(v)
	case []any:
		vals := make([]value.Value, len(v))
		for i, e := range v {
			vals[i] = toValue(e)
		}
		return value.ListVal(vals)
	case map[string]any:
		obj := value.NewObject()
		for k, e := range v {
			obj.Put(k, toValue(e))
		}
		return value.ObjectVal(obj)
	default:
		return value.NullVal()
	}
}
