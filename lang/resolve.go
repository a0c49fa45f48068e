package lang

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Constant is one named, typed, immutable declaration. Constants are
// collected once when configuration is loaded and never mutate; resolved
// values live in the [Resolution] produced by [ConstantSet.Resolve].
type Constant struct {
	Name    string
	Type    string // semantic type name; empty for untyped constants
	Source  string // raw expression text
	Comment string
	Expr    *Expr

	ordinal int
}

// ConstantSet is the declared constant set of one run, in declaration
// order.
type ConstantSet struct {
	ops   OpSet
	types *TypeTable
	list  []*Constant
	index map[string]*Constant
}

// NewConstantSet returns an empty set using the given type table and
// operator registry.
func NewConstantSet(types *TypeTable, ops OpSet) *ConstantSet {
	return &ConstantSet{
		ops:   ops,
		types: types,
		index: make(map[string]*Constant),
	}
}

// Add parses the value expression and appends a declaration to the set.
// Names are case-sensitive and must be unique across the whole set; a
// non-empty type name must exist in the type table.
func (s *ConstantSet) Add(name, typeName, value, comment string) error {
	if _, exists := s.index[name]; exists {
		return ErrDuplicateConstant.With(slog.String("constant", name))
	}

	if typeName != "" {
		if _, ok := s.types.Lookup(typeName); !ok {
			return ErrUnknownType.With(
				slog.String("constant", name),
				slog.String("type", typeName),
			)
		}
	}

	expr, err := Parse(s.ops, value)
	if err != nil {
		return WrapError(err).With(slog.String("constant", name))
	}

	c := &Constant{
		Name:    name,
		Type:    typeName,
		Source:  value,
		Comment: comment,
		Expr:    expr,
		ordinal: len(s.list),
	}

	s.list = append(s.list, c)
	s.index[name] = c

	return nil
}

// Len returns the number of declared constants.
func (s *ConstantSet) Len() int { return len(s.list) }

// Constants returns the declarations in declaration order.
// The returned slice is shared and must not be modified.
func (s *ConstantSet) Constants() []*Constant { return s.list }

// Lookup returns the named declaration.
func (s *ConstantSet) Lookup(name string) (*Constant, bool) {
	c, ok := s.index[name]

	return c, ok
}

// Types returns the type table the set was built with.
func (s *ConstantSet) Types() *TypeTable { return s.types }

// Ops returns the operator registry the set was built with.
func (s *ConstantSet) Ops() OpSet { return s.ops }

// names returns all declared names in declaration order.
func (s *ConstantSet) names() []string {
	names := make([]string, len(s.list))
	for i, c := range s.list {
		names[i] = c.Name
	}

	return names
}

// Resolution holds the evaluated value of every declared constant.
// It is read-only once constructed; emission across targets may share
// one Resolution without locking.
type Resolution struct {
	set    *ConstantSet
	values map[string]Value
}

// Resolve orders and evaluates the declared set.
//
// Structural validation (unknown references, cycles) runs to completion
// before any evaluation, so a missing dependency is never reported as a
// spurious evaluation error. On any failure the returned error carries
// the offending constant's name and no partial resolution is observable.
func (s *ConstantSet) Resolve() (*Resolution, error) {
	deps := make(map[string][]string, len(s.list))
	for _, c := range s.list {
		deps[c.Name] = c.Expr.References()
	}

	if err := s.validateReferences(deps); err != nil {
		return nil, err
	}

	if err := s.detectCycles(deps); err != nil {
		return nil, err
	}

	values := make(map[string]Value, len(s.list))

	// Evaluate in dependency order. Among ready constants, the earliest
	// declaration wins, which makes evaluation order deterministic.
	for resolved := 0; resolved < len(s.list); {
		progressed := false

		for _, c := range s.list {
			if _, done := values[c.Name]; done {
				continue
			}

			if !ready(deps[c.Name], values) {
				continue
			}

			v, err := s.eval(c.Expr, values)
			if err != nil {
				return nil, WrapError(err).
					With(slog.String("constant", c.Name))
			}

			if c.Type != "" {
				if err := s.types.Check(c.Type, v); err != nil {
					return nil, WrapError(err).
						With(slog.String("constant", c.Name))
				}
			}

			values[c.Name] = v
			resolved++
			progressed = true

			break
		}

		if !progressed {
			// Unreachable: cycles were rejected above.
			return nil, ErrCyclicDependency
		}
	}

	return &Resolution{set: s, values: values}, nil
}

// validateReferences confirms every referenced name is declared,
// scanning constants in declaration order so the first structural error
// is deterministic.
func (s *ConstantSet) validateReferences(deps map[string][]string) error {
	for _, c := range s.list {
		for _, ref := range deps[c.Name] {
			if _, ok := s.index[ref]; ok {
				continue
			}

			e := ErrUnknownReference.With(
				slog.String("constant", c.Name),
				slog.String("reference", ref),
			)
			if hint := suggest(ref, s.names()); hint != "" {
				e = e.With(slog.String("suggestion", hint))
			}

			if node := findReference(c.Expr, ref); node != nil {
				e = e.At(node.Loc)
			}

			return e
		}
	}

	return nil
}

// detectCycles performs an iterative depth-first traversal over the
// reference graph, tracking the active path so the full cycle can be
// reported starting from the first-revisited name. Self-reference is a
// cycle of length one.
func (s *ConstantSet) detectCycles(deps map[string][]string) error {
	const (
		unvisited = iota
		active
		finished
	)

	state := make(map[string]int, len(s.list))

	type visit struct {
		name string
		next int
	}

	for _, c := range s.list {
		if state[c.Name] != unvisited {
			continue
		}

		state[c.Name] = active
		stack := []visit{{name: c.Name}}
		path := []string{c.Name}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := deps[top.name]

			if top.next >= len(edges) {
				state[top.name] = finished
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]

				continue
			}

			dep := edges[top.next]
			top.next++

			switch state[dep] {
			case active:
				from := slices.Index(path, dep)
				cycle := append(slices.Clone(path[from:]), dep)

				return ErrCyclicDependency.With(
					slog.String("constant", dep),
					slog.String("cycle", strings.Join(cycle, " -> ")),
				)

			case unvisited:
				state[dep] = active
				stack = append(stack, visit{name: dep})
				path = append(path, dep)
			}
		}
	}

	return nil
}

// ready reports whether every dependency has been resolved.
func ready(deps []string, values map[string]Value) bool {
	for _, d := range deps {
		if _, ok := values[d]; !ok {
			return false
		}
	}

	return true
}

// eval evaluates an expression tree against already-resolved values.
// Operands evaluate left to right; operand kinds are checked against the
// operator's accepted kind before its evaluation function runs.
func (s *ConstantSet) eval(e *Expr, values map[string]Value) (Value, error) {
	switch e.Kind {
	case ExprLiteral:
		return e.Lit, nil

	case ExprReference:
		v, ok := values[e.Name]
		if !ok {
			err := ErrUnknownReference.
				With(slog.String("reference", e.Name))
			if hint := suggest(e.Name, s.names()); hint != "" {
				err = err.With(slog.String("suggestion", hint))
			}

			return Value{}, err.At(e.Loc)
		}

		return v, nil

	default:
		op := s.ops[e.Name]
		args := make([]Value, len(e.Args))

		for i, arg := range e.Args {
			v, err := s.eval(arg, values)
			if err != nil {
				return Value{}, err
			}

			if v.Kind() != op.Operand {
				return Value{}, ErrOperatorType.
					With(
						slog.String("operator", op.Name),
						slog.Int("operand", i+1),
						slog.String("expected", op.Operand.String()),
						slog.String("actual", v.Kind().String()),
					).
					At(arg.Loc)
			}

			args[i] = v
		}

		v, err := op.Eval(args)
		if err != nil {
			return Value{}, WrapError(err).At(e.Loc)
		}

		return v, nil
	}
}

// findReference locates the first node referencing name, for diagnostics.
func findReference(e *Expr, name string) *Expr {
	stack := []*Expr{e}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Kind == ExprReference && n.Name == name {
			return n
		}

		for i := len(n.Args) - 1; i >= 0; i-- {
			stack = append(stack, n.Args[i])
		}
	}

	return nil
}

// Value returns the resolved value of the named constant.
func (r *Resolution) Value(name string) (Value, bool) {
	v, ok := r.values[name]

	return v, ok
}

// Constants returns the declarations in declaration order.
// Emission iterates this order, never evaluation order.
func (r *Resolution) Constants() []*Constant { return r.set.Constants() }

// Types returns the type table of the underlying set.
func (r *Resolution) Types() *TypeTable { return r.set.Types() }

// Ops returns the operator registry of the underlying set.
func (r *Resolution) Ops() OpSet { return r.set.Ops() }

// Eval parses and evaluates an ad-hoc expression against the resolved
// constant values. Used by the REPL.
func (r *Resolution) Eval(text string) (Value, error) {
	expr, err := Parse(r.set.ops, text)
	if err != nil {
		return Value{}, err
	}

	return r.set.eval(expr, r.values)
}

// suggest returns the closest fuzzy match for input among candidates,
// or an empty string when nothing matches.
func suggest(input string, candidates []string) string {
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
