package lang

import (
	"log/slog"
	"math/big"
)

// Operator describes one builtin operator: its arity bounds, the
// primitive kind it accepts for every operand, the kind it produces, and
// a pure evaluation function. Operand kinds and arity are checked by the
// caller, so evaluation functions may assume both.
type Operator struct {
	Name    string
	MinArgs int
	MaxArgs int // < 0 means unbounded
	Operand Kind
	Result  Kind
	Eval    func(args []Value) (Value, error)
}

// Accepts reports whether the operator accepts n operands.
func (op *Operator) Accepts(n int) bool {
	return n >= op.MinArgs && (op.MaxArgs < 0 || n <= op.MaxArgs)
}

// OpSet is a registry of operators keyed by name. Adding an operator to
// the set is all that is required to make it available to expressions;
// the parser and evaluator have no per-operator control flow.
type OpSet map[string]*Operator

// Register adds an operator to the set, replacing any previous entry
// with the same name.
func (s OpSet) Register(op *Operator) {
	s[op.Name] = op
}

// Lookup returns the named operator.
func (s OpSet) Lookup(name string) (*Operator, bool) {
	op, ok := s[name]

	return op, ok
}

// Builtins returns a new registry containing the builtin operators.
func Builtins() OpSet {
	s := make(OpSet)

	for _, op := range []*Operator{
		{
			Name: "not", MinArgs: 1, MaxArgs: 1,
			Operand: KindBoolean, Result: KindBoolean,
			Eval: func(args []Value) (Value, error) {
				return BoolValue(!args[0].Bool()), nil
			},
		},
		{
			Name: "and", MinArgs: 1, MaxArgs: -1,
			Operand: KindBoolean, Result: KindBoolean,
			Eval: func(args []Value) (Value, error) {
				acc := true
				for _, a := range args {
					acc = acc && a.Bool()
				}

				return BoolValue(acc), nil
			},
		},
		{
			Name: "or", MinArgs: 1, MaxArgs: -1,
			Operand: KindBoolean, Result: KindBoolean,
			Eval: func(args []Value) (Value, error) {
				acc := false
				for _, a := range args {
					acc = acc || a.Bool()
				}

				return BoolValue(acc), nil
			},
		},
		{
			Name: "add", MinArgs: 2, MaxArgs: -1,
			Operand: KindInteger, Result: KindInteger,
			Eval: foldInt(func(acc, v *big.Int) { acc.Add(acc, v) }),
		},
		{
			Name: "sub", MinArgs: 2, MaxArgs: 2,
			Operand: KindInteger, Result: KindInteger,
			Eval: foldInt(func(acc, v *big.Int) { acc.Sub(acc, v) }),
		},
		{
			Name: "mul", MinArgs: 2, MaxArgs: -1,
			Operand: KindInteger, Result: KindInteger,
			Eval: foldInt(func(acc, v *big.Int) { acc.Mul(acc, v) }),
		},
		{
			Name: "min", MinArgs: 2, MaxArgs: -1,
			Operand: KindInteger, Result: KindInteger,
			Eval: foldInt(func(acc, v *big.Int) {
				if v.Cmp(acc) < 0 {
					acc.Set(v)
				}
			}),
		},
		{
			Name: "max", MinArgs: 2, MaxArgs: -1,
			Operand: KindInteger, Result: KindInteger,
			Eval: foldInt(func(acc, v *big.Int) {
				if v.Cmp(acc) > 0 {
					acc.Set(v)
				}
			}),
		},
		{
			Name: "shl", MinArgs: 2, MaxArgs: 2,
			Operand: KindInteger, Result: KindInteger,
			Eval: shiftInt(func(n *big.Int, by uint) { n.Lsh(n, by) }),
		},
		{
			Name: "shr", MinArgs: 2, MaxArgs: 2,
			Operand: KindInteger, Result: KindInteger,
			Eval: shiftInt(func(n *big.Int, by uint) { n.Rsh(n, by) }),
		},
	} {
		s.Register(op)
	}

	return s
}

// foldInt builds an evaluation function that folds an accumulator over
// the integer operands left to right, bounding each intermediate result
// to the 128-bit range.
func foldInt(step func(acc, v *big.Int)) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		acc := args[0].Int()

		for _, a := range args[1:] {
			step(acc, a.Int())

			if acc.Cmp(minInt128) < 0 || acc.Cmp(maxInt128) > 0 {
				return Value{}, ErrOverflow.
					With(slog.String("value", acc.String()))
			}
		}

		return IntValue(acc), nil
	}
}

// maxShift bounds shift counts to the width of the evaluation range.
const maxShift = 127

// shiftInt builds an evaluation function for the shift operators.
// The shift count must be between 0 and 127.
func shiftInt(step func(n *big.Int, by uint)) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		count := args[1].Int()
		if !count.IsUint64() || count.Uint64() > maxShift {
			return Value{}, ErrOperatorType.
				With(slog.String("shift", count.String()))
		}

		n := args[0].Int()
		step(n, uint(count.Uint64()))

		if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return Value{}, ErrOverflow.
				With(slog.String("value", n.String()))
		}

		return IntValue(n), nil
	}
}
