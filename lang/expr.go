package lang

// ExprKind identifies the variant of an expression node.
type ExprKind int

const (
	// ExprLiteral is an integer or boolean literal.
	ExprLiteral ExprKind = iota

	// ExprReference refers to another constant's resolved value by name.
	ExprReference

	// ExprApply is a builtin operator applied to operand expressions.
	ExprApply
)

// Expr is one node of an immutable expression tree built at parse time.
// Exactly one payload group is meaningful per kind: Lit for literals,
// Name for references, Name+Args for applications.
type Expr struct {
	Kind ExprKind
	Loc  Location
	Lit  Value
	Name string
	Args []*Expr
}

// References returns the names of all constants referenced anywhere in
// the tree, deduplicated, in first-seen order. The walk is iterative so
// pathologically deep trees cannot exhaust the stack.
func (e *Expr) References() []string {
	var (
		names []string
		seen  = make(map[string]bool)
		stack = []*Expr{e}
	)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Kind {
		case ExprReference:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}

		case ExprApply:
			// Push operands in reverse so they pop in source order.
			for i := len(n.Args) - 1; i >= 0; i-- {
				stack = append(stack, n.Args[i])
			}

		case ExprLiteral:
		}
	}

	return names
}
