package value

// Object is an insertion-ordered string-keyed map of Value, adapted from
// the teacher's generic OrderedKV (pkg/kv/ordered.go) but specialized to
// string keys and Value values since the AST never needs arbitrary key
// types here.
type Object struct {
	kv   map[string]Value
	keys []string
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{kv: make(map[string]Value)}
}

// Put inserts or overwrites key, appending it to the key order on first
// insertion only.
func (o *Object) Put(key string, v Value) {
	if _, exists := o.kv[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.kv[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.kv[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// ForEach visits entries in insertion order.
func (o *Object) ForEach(fn func(key string, v Value)) {
	for _, k := range o.keys {
		fn(k, o.kv[k])
	}
}

// Clone returns a deep-enough copy (values are themselves immutable trees).
func (o *Object) Clone() *Object {
	c := &Object{
		kv:   make(map[string]Value, len(o.kv)),
		keys: append([]string(nil), o.keys...),
	}
	for k, v := range o.kv {
		c.kv[k] = v
	}
	return c
}
