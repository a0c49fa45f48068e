package lang

import (
	"errors"
	"strings"
	"testing"
)

func makeSet(t *testing.T, decls ...[2]string) *ConstantSet {
	t.Helper()

	set := NewConstantSet(NewTypeTable(), Builtins())

	for _, d := range decls {
		name, value := d[0], d[1]
		typeName := ""

		if at := strings.IndexByte(name, ':'); at >= 0 {
			name, typeName = name[:at], name[at+1:]
		}

		if err := set.Add(name, typeName, value, ""); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	return set
}

func TestResolveSimpleChain(t *testing.T) {
	set := makeSet(t,
		[2]string{"A:u64", "5"},
		[2]string{"B:u64", "(add A 3)"},
	)

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	for name, want := range map[string]int64{"A": 5, "B": 8} {
		v, ok := res.Value(name)
		if !ok {
			t.Fatalf("missing value for %s", name)
		}

		if !v.Equal(Int64Value(want)) {
			t.Errorf("%s = %v, want %d", name, v, want)
		}
	}
}

func TestResolveForwardReference(t *testing.T) {
	// B is declared before A but depends on it; declaration order must
	// not constrain evaluation order.
	set := makeSet(t,
		[2]string{"B:u64", "(add A 1)"},
		[2]string{"A:u64", "5"},
	)

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, _ := res.Value("B"); !v.Equal(Int64Value(6)) {
		t.Errorf("B = %v, want 6", v)
	}

	// Declaration order is preserved for emission.
	consts := res.Constants()
	if consts[0].Name != "B" || consts[1].Name != "A" {
		t.Errorf("declaration order = %s, %s; want B, A",
			consts[0].Name, consts[1].Name)
	}
}

func TestResolveDeterminism(t *testing.T) {
	decls := [][2]string{
		{"size:u64", "0x1000"},
		{"start:u64", "0x8000_0000"},
		{"end:u64", "(add start size)"},
		{"double:u64", "(mul size 2)"},
	}

	set1 := makeSet(t, decls...)
	set2 := makeSet(t, decls...)

	res1, err := set1.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	res2, err := set2.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	for _, c := range set1.Constants() {
		v1, _ := res1.Value(c.Name)
		v2, _ := res2.Value(c.Name)

		if !v1.Equal(v2) {
			t.Errorf("%s differs across runs: %v vs %v", c.Name, v1, v2)
		}
	}
}

func TestResolveBooleans(t *testing.T) {
	set := makeSet(t,
		[2]string{"D:bool", "(and true false)"},
		[2]string{"E:bool", "(or D (not D))"},
	)

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, _ := res.Value("D"); v.Bool() {
		t.Error("D should resolve to false")
	}

	if v, _ := res.Value("E"); !v.Bool() {
		t.Error("E should resolve to true")
	}
}

func TestResolveDuplicateConstant(t *testing.T) {
	set := NewConstantSet(NewTypeTable(), Builtins())

	if err := set.Add("A", "u64", "1", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	err := set.Add("A", "u64", "2", "")
	if !errors.Is(err, ErrDuplicateConstant) {
		t.Errorf("error = %v, want %v", err, ErrDuplicateConstant)
	}
}

func TestResolveUnknownReference(t *testing.T) {
	set := makeSet(t, [2]string{"A:u64", "(add missing 1)"})

	_, err := set.Resolve()
	if !errors.Is(err, ErrUnknownReference) {
		t.Errorf("error = %v, want %v", err, ErrUnknownReference)
	}
}

func TestResolveSelfReference(t *testing.T) {
	set := makeSet(t, [2]string{"A:u64", "(add A 1)"})

	_, err := set.Resolve()
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("error = %v, want %v", err, ErrCyclicDependency)
	}
}

func TestResolveCyclePath(t *testing.T) {
	set := makeSet(t,
		[2]string{"A:u64", "(add B 1)"},
		[2]string{"B:u64", "(add C 1)"},
		[2]string{"C:u64", "(add A 1)"},
	)

	_, err := set.Resolve()
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("error = %v, want %v", err, ErrCyclicDependency)
	}

	// The report must name every member of the cycle.
	le := &Error{}
	if !errors.As(err, &le) {
		t.Fatalf("unexpected error type %T", err)
	}

	var cycle string

	for _, attr := range le.LogValue().Group() {
		if attr.Key == "cycle" {
			cycle = attr.Value.String()
		}
	}

	for _, name := range []string{"A", "B", "C"} {
		if !strings.Contains(cycle, name) {
			t.Errorf("cycle path %q missing %s", cycle, name)
		}
	}
}

func TestResolveStructuralErrorsPrecedeEvaluation(t *testing.T) {
	// Overflow in A would be an evaluation error, but the unknown
	// reference in B is structural and must be reported instead.
	set := makeSet(t,
		[2]string{"A:u8", "4096"},
		[2]string{"B:u64", "missing"},
	)

	_, err := set.Resolve()
	if !errors.Is(err, ErrUnknownReference) {
		t.Errorf("error = %v, want %v", err, ErrUnknownReference)
	}
}

func TestResolveOperatorTypeError(t *testing.T) {
	set := makeSet(t, [2]string{"A:u64", "(add 1 true)"})

	_, err := set.Resolve()
	if !errors.Is(err, ErrOperatorType) {
		t.Errorf("error = %v, want %v", err, ErrOperatorType)
	}
}

func TestResolveTypeMismatch(t *testing.T) {
	set := makeSet(t, [2]string{"A:bool", "42"})

	_, err := set.Resolve()
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("error = %v, want %v", err, ErrTypeMismatch)
	}
}

func TestResolveWidthOverflow(t *testing.T) {
	tests := []struct {
		name  string
		decl  [2]string
		valid bool
	}{
		{"u8 max", [2]string{"A:u8", "255"}, true},
		{"u8 over", [2]string{"A:u8", "256"}, false},
		{"u8 negative", [2]string{"A:u8", "-1"}, false},
		{"i8 min", [2]string{"A:i8", "-128"}, true},
		{"i8 under", [2]string{"A:i8", "-129"}, false},
		{"u64 max", [2]string{"A:u64", "0xffff_ffff_ffff_ffff"}, true},
		{"u64 over", [2]string{"A:u64", "(add 0xffff_ffff_ffff_ffff 1)"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := makeSet(t, tt.decl)

			_, err := set.Resolve()
			if tt.valid && err != nil {
				t.Errorf("Resolve: %v", err)
			}

			if !tt.valid && !errors.Is(err, ErrOverflow) {
				t.Errorf("error = %v, want %v", err, ErrOverflow)
			}
		})
	}
}

func TestResolveEvaluationOverflow(t *testing.T) {
	// The intermediate product exceeds the 128-bit evaluation range.
	set := makeSet(t,
		[2]string{"big:u64", "0xffff_ffff_ffff_ffff"},
		[2]string{"huge", "(mul big big big)"},
	)

	_, err := set.Resolve()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("error = %v, want %v", err, ErrOverflow)
	}
}

func TestResolveUnknownType(t *testing.T) {
	set := NewConstantSet(NewTypeTable(), Builtins())

	err := set.Add("A", "Nonesuch", "1", "")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("error = %v, want %v", err, ErrUnknownType)
	}
}

func TestResolveDeclaredTypeAlias(t *testing.T) {
	types := NewTypeTable()
	if err := types.Declare("PhysAddr", "u64"); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	set := NewConstantSet(types, Builtins())
	if err := set.Add("base", "PhysAddr", "0x8000_0000", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, _ := res.Value("base"); !v.Equal(Int64Value(0x80000000)) {
		t.Errorf("base = %v, want 2147483648", v)
	}
}

func TestResolutionEval(t *testing.T) {
	set := makeSet(t, [2]string{"A:u64", "5"})

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	v, err := res.Eval("(add A 37)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	if !v.Equal(Int64Value(42)) {
		t.Errorf("Eval = %v, want 42", v)
	}

	if _, err := res.Eval("(add nothere 1)"); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("error = %v, want %v", err, ErrUnknownReference)
	}
}

func TestResolveShifts(t *testing.T) {
	set := makeSet(t,
		[2]string{"page:u64", "(shl 1 12)"},
		[2]string{"half:u64", "(shr page 1)"},
	)

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, _ := res.Value("page"); !v.Equal(Int64Value(4096)) {
		t.Errorf("page = %v, want 4096", v)
	}

	if v, _ := res.Value("half"); !v.Equal(Int64Value(2048)) {
		t.Errorf("half = %v, want 2048", v)
	}
}

func TestResolveMinMax(t *testing.T) {
	set := makeSet(t,
		[2]string{"lo:u64", "(min 7 3 5)"},
		[2]string{"hi:u64", "(max 7 3 5)"},
	)

	res, err := set.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, _ := res.Value("lo"); !v.Equal(Int64Value(3)) {
		t.Errorf("lo = %v, want 3", v)
	}

	if v, _ := res.Value("hi"); !v.Equal(Int64Value(7)) {
		t.Errorf("hi = %v, want 7", v)
	}
}
