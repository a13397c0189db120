package value

import "testing"

func TestEqualMixedNumeric(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int vs float equal", IntVal(1), mustFloat(t, 1.0), true},
		{"int vs float not equal", IntVal(1), mustFloat(t, 1.5), false},
		{"bigint vs int not equal", BigIntVal("9999999999999999999"), IntVal(1), false},
		{"bigint vs bigint equal, different spelling", BigIntVal("007"), BigIntVal("7"), true},
		{"string vs bytes", StrVal("abc"), BytesVal([]byte("abc")), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a.Repr(), tc.b.Repr(), got, tc.want)
			}
		})
	}
}

func TestFloatRejectsNaN(t *testing.T) {
	if _, err := FloatVal(nan()); err == nil {
		t.Fatal("expected error for NaN")
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Put("b", IntVal(2))
	o.Put("a", IntVal(1))
	o.Put("b", IntVal(20))
	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %v", keys)
	}
	v, _ := o.Get("b")
	if got, _ := v.AsInt(); got != 20 {
		t.Fatalf("overwrite did not update value: %d", got)
	}
}

func TestRenderUndefinedForCompositeKinds(t *testing.T) {
	_, ok := ListVal(nil).Render()
	if ok {
		t.Fatal("list should not render")
	}
	_, ok = ObjectVal(NewObject()).Render()
	if ok {
		t.Fatal("object should not render")
	}
}

func mustFloat(t *testing.T, f float64) Value {
	t.Helper()
	v, err := FloatVal(f)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func nan() float64 {
	var zero float64
	return zero / zero
}
