package lang

import (
	"errors"
	"math/big"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int64Value(0), "0"},
		{Int64Value(-42), "-42"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !Int64Value(5).Equal(Int64Value(5)) {
		t.Error("equal integers compare unequal")
	}

	if Int64Value(5).Equal(Int64Value(6)) {
		t.Error("distinct integers compare equal")
	}

	if Int64Value(1).Equal(BoolValue(true)) {
		t.Error("values of different kinds compare equal")
	}
}

func TestValueIntIsACopy(t *testing.T) {
	v := Int64Value(10)

	v.Int().SetInt64(99)

	if !v.Equal(Int64Value(10)) {
		t.Error("mutating the returned big.Int changed the value")
	}
}

func TestSemanticTypeRange(t *testing.T) {
	tests := []struct {
		typ    SemanticType
		lo, hi string
	}{
		{SemanticType{Bits: 8}, "0", "255"},
		{SemanticType{Bits: 8, Signed: true}, "-128", "127"},
		{SemanticType{Bits: 64}, "0", "18446744073709551615"},
		{
			SemanticType{Bits: 64, Signed: true},
			"-9223372036854775808", "9223372036854775807",
		},
	}

	for _, tt := range tests {
		lo, hi := tt.typ.Range()
		if lo.String() != tt.lo || hi.String() != tt.hi {
			t.Errorf("Range(bits=%d signed=%t) = [%s, %s], want [%s, %s]",
				tt.typ.Bits, tt.typ.Signed, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestTypeTableBuiltins(t *testing.T) {
	table := NewTypeTable()

	for _, name := range []string{
		"bool", "u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64",
	} {
		if _, ok := table.Lookup(name); !ok {
			t.Errorf("builtin type %s missing", name)
		}
	}
}

func TestTypeTableDeclare(t *testing.T) {
	table := NewTypeTable()

	if err := table.Declare("ByteSize", "u64"); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	st, ok := table.Lookup("ByteSize")
	if !ok {
		t.Fatal("declared alias missing")
	}

	if st.Name != "ByteSize" || st.Bits != 64 || st.Signed {
		t.Errorf("alias = %+v, want unsigned 64-bit ByteSize", st)
	}

	if err := table.Declare("ByteSize", "u32"); !errors.Is(err, ErrDuplicateType) {
		t.Errorf("redeclare error = %v, want %v", err, ErrDuplicateType)
	}

	if err := table.Declare("Bad", "nonesuch"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown base error = %v, want %v", err, ErrUnknownType)
	}
}

func TestTypeTableCheck(t *testing.T) {
	table := NewTypeTable()

	if err := table.Check("u8", Int64Value(200)); err != nil {
		t.Errorf("Check(u8, 200): %v", err)
	}

	if err := table.Check("u8", Int64Value(300)); !errors.Is(err, ErrOverflow) {
		t.Errorf("Check(u8, 300) = %v, want %v", err, ErrOverflow)
	}

	if err := table.Check("u8", BoolValue(true)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Check(u8, true) = %v, want %v", err, ErrTypeMismatch)
	}

	if err := table.Check("bool", BoolValue(true)); err != nil {
		t.Errorf("Check(bool, true): %v", err)
	}

	big128 := new(big.Int).Lsh(big.NewInt(1), 100)
	if err := table.Check("u64", IntValue(big128)); !errors.Is(err, ErrOverflow) {
		t.Errorf("Check(u64, 1<<100) = %v, want %v", err, ErrOverflow)
	}
}
