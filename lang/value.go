package lang

import (
	"log/slog"
	"math/big"
)

// Kind identifies the primitive kind of a value.
type Kind int

const (
	// KindInteger is the primitive kind of integer-valued types.
	KindInteger Kind = iota

	// KindBoolean is the primitive kind of boolean-valued types.
	KindBoolean
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Integer values are bounded to the signed 128-bit range during
// evaluation, regardless of the narrower range a declared type may later
// enforce.
//
//nolint:gochecknoglobals
var (
	minInt128 = new(big.Int).Lsh(big.NewInt(-1), 127)
	maxInt128 = new(big.Int).Sub(
		new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1),
	)
)

// Value is a resolved constant value: either an integer or a boolean.
// The zero value is the integer 0.
type Value struct {
	kind Kind
	num  *big.Int
	flag bool
}

// IntValue returns an integer Value.
// The argument is copied; callers may reuse it.
func IntValue(v *big.Int) Value {
	return Value{kind: KindInteger, num: new(big.Int).Set(v)}
}

// Int64Value returns an integer Value from a native int64.
func Int64Value(v int64) Value {
	return Value{kind: KindInteger, num: big.NewInt(v)}
}

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value {
	return Value{kind: KindBoolean, flag: v}
}

// Kind returns the primitive kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Int returns a copy of the integer payload.
// It must only be called on integer values.
func (v Value) Int() *big.Int {
	if v.num == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(v.num)
}

// Bool returns the boolean payload.
// It must only be called on boolean values.
func (v Value) Bool() bool { return v.flag }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	if v.kind == KindBoolean {
		return v.flag == o.flag
	}

	return v.Int().Cmp(o.Int()) == 0
}

// String returns the canonical text of the value: decimal for integers,
// "true"/"false" for booleans.
func (v Value) String() string {
	if v.kind == KindBoolean {
		if v.flag {
			return "true"
		}

		return "false"
	}

	return v.Int().String()
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.StringValue(v.String())
}

// SemanticType is a named domain type layered over a primitive kind.
// Integer types carry an explicit bit width and signedness used for
// range checking after evaluation.
type SemanticType struct {
	Name   string
	Kind   Kind
	Bits   uint
	Signed bool
}

// Range returns the inclusive bounds of an integer type.
// It must only be called on integer types.
func (t SemanticType) Range() (lo, hi *big.Int) {
	if t.Signed {
		lo = new(big.Int).Lsh(big.NewInt(-1), t.Bits-1)
		hi = new(big.Int).Sub(
			new(big.Int).Lsh(big.NewInt(1), t.Bits-1), big.NewInt(1),
		)

		return lo, hi
	}

	lo = new(big.Int)
	hi = new(big.Int).Sub(
		new(big.Int).Lsh(big.NewInt(1), t.Bits), big.NewInt(1),
	)

	return lo, hi
}

// TypeTable is the set of semantic types known to one run.
// It is built once from the builtin types plus any aliases declared in
// configuration, and is read-only thereafter.
type TypeTable struct {
	types map[string]SemanticType
}

// builtinTypes are always available without declaration.
func builtinTypes() []SemanticType {
	return []SemanticType{
		{Name: "bool", Kind: KindBoolean},
		{Name: "u8", Kind: KindInteger, Bits: 8},
		{Name: "u16", Kind: KindInteger, Bits: 16},
		{Name: "u32", Kind: KindInteger, Bits: 32},
		{Name: "u64", Kind: KindInteger, Bits: 64},
		{Name: "i8", Kind: KindInteger, Bits: 8, Signed: true},
		{Name: "i16", Kind: KindInteger, Bits: 16, Signed: true},
		{Name: "i32", Kind: KindInteger, Bits: 32, Signed: true},
		{Name: "i64", Kind: KindInteger, Bits: 64, Signed: true},
	}
}

// NewTypeTable returns a table containing the builtin types.
func NewTypeTable() *TypeTable {
	t := &TypeTable{types: make(map[string]SemanticType)}
	for _, st := range builtinTypes() {
		t.types[st.Name] = st
	}

	return t
}

// Declare registers a named alias of an existing type, e.g.
// PhysAddr as an alias of u64. The alias keeps the base type's kind,
// width, and signedness under its own name.
func (t *TypeTable) Declare(name, base string) error {
	if _, exists := t.types[name]; exists {
		return ErrDuplicateType.With(slog.String("type", name))
	}

	bt, ok := t.types[base]
	if !ok {
		return ErrUnknownType.With(
			slog.String("type", base),
			slog.String("alias", name),
		)
	}

	bt.Name = name
	t.types[name] = bt

	return nil
}

// Lookup returns the named type.
func (t *TypeTable) Lookup(name string) (SemanticType, bool) {
	st, ok := t.types[name]

	return st, ok
}

// Check validates that a value is representable by the named type:
// the primitive kinds must match, and integer values must fall within
// the type's declared range.
func (t *TypeTable) Check(name string, v Value) error {
	st, ok := t.types[name]
	if !ok {
		return ErrUnknownType.With(slog.String("type", name))
	}

	if st.Kind != v.Kind() {
		return ErrTypeMismatch.With(
			slog.String("type", name),
			slog.String("declared", st.Kind.String()),
			slog.String("actual", v.Kind().String()),
		)
	}

	if st.Kind == KindInteger {
		lo, hi := st.Range()
		if n := v.Int(); n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
			return ErrOverflow.With(
				slog.String("type", name),
				slog.String("value", n.String()),
			)
		}
	}

	return nil
}
