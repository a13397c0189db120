package value

import (
	"math/big"
)

// Equal implements the spec's Open Question decision (see DESIGN.md):
// integer/float equality is value-based (1 == 1.0), while BigInteger
// equality compares decimal strings once both sides are normalized to a
// big.Int — this lets `1 == <bigint "1">` succeed without requiring the
// literal decimal spelling to match.
func Equal(a, b Value) bool {
	if a.kind == b.kind {
		return equalSameKind(a, b)
	}
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		return equalNumeric(a, b)
	}
	// String/Bytes interoperate for equality per spec §4.5.
	if a.kind == String && b.kind == Bytes {
		return a.strVal == string(b.bytesVal)
	}
	if a.kind == Bytes && b.kind == String {
		return string(a.bytesVal) == b.strVal
	}
	return false
}

func equalSameKind(a, b Value) bool {
	switch a.kind {
	case Bool:
		return a.boolVal == b.boolVal
	case Integer:
		return a.intVal == b.intVal
	case Float:
		return a.floatVal == b.floatVal
	case BigInteger:
		return bigOf(a.bigVal).Cmp(bigOf(b.bigVal)) == 0
	case String:
		return a.strVal == b.strVal
	case Bytes:
		return string(a.bytesVal) == string(b.bytesVal)
	case Date:
		return a.dateVal.Equal(b.dateVal)
	case Regex:
		return a.reSrc == b.reSrc
	case Null, Unit:
		return true
	case List:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	case Object:
		if a.objVal.Len() != b.objVal.Len() {
			return false
		}
		eq := true
		a.objVal.ForEach(func(k string, v Value) {
			bv, ok := b.objVal.Get(k)
			if !ok || !Equal(v, bv) {
				eq = false
			}
		})
		return eq
	default:
		return false
	}
}

func equalNumeric(a, b Value) bool {
	af, aok := numericAsFloat(a)
	bf, bok := numericAsFloat(b)
	if aok && bok {
		return af == bf
	}
	return bigOfValue(a).Cmp(bigOfValue(b)) == 0
}

func numericAsFloat(v Value) (float64, bool) {
	switch v.kind {
	case Integer:
		return float64(v.intVal), true
	case Float:
		return v.floatVal, true
	default:
		return 0, false
	}
}

func bigOf(decimal string) *big.Int {
	n := new(big.Int)
	n.SetString(decimal, 10)
	return n
}

func bigOfValue(v Value) *big.Float {
	switch v.kind {
	case Integer:
		return new(big.Float).SetInt64(v.intVal)
	case Float:
		return big.NewFloat(v.floatVal)
	case BigInteger:
		f, _, _ := big.ParseFloat(v.bigVal, 10, 256, big.ToNearestEven)
		return f
	default:
		return new(big.Float)
	}
}

// Compare implements ordered comparison for same-kind numeric or string
// values; spec §4.5 requires matching kinds for `<`,`<=`,`>`,`>=`.
// ok is false when the kinds are not comparable this way.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.kind != b.kind && !(a.kind.IsNumeric() && b.kind.IsNumeric()) {
		return 0, false
	}
	switch {
	case a.kind == String && b.kind == String:
		switch {
		case a.strVal < b.strVal:
			return -1, true
		case a.strVal > b.strVal:
			return 1, true
		default:
			return 0, true
		}
	case a.kind.IsNumeric() && b.kind.IsNumeric():
		af, bf := bigOfValue(a), bigOfValue(b)
		return af.Cmp(bf), true
	case a.kind == Date && b.kind == Date:
		switch {
		case a.dateVal.Before(b.dateVal):
			return -1, true
		case a.dateVal.After(b.dateVal):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}
