package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// frame is one open parenthesized application during parsing.
type frame struct {
	op      *Operator
	opLoc   Location
	openLoc Location
	args    []*Expr
	hasHead bool
}

// Parse converts an expression source string into an immutable [Expr]
// tree. The grammar is a single atom (literal or reference) or a
// parenthesized prefix application whose operands recursively follow the
// same grammar.
//
// Unknown operator names and statically-checkable arity violations are
// rejected here; reference resolution and kind checking are deferred to
// [ConstantSet.Resolve].
func Parse(ops OpSet, text string) (*Expr, error) {
	toks, err := scan(text)
	if err != nil {
		return nil, err
	}

	var (
		root  *Expr
		stack []*frame
	)

	for _, tok := range toks {
		if len(stack) == 0 && root != nil {
			return nil, ErrUnexpectedToken.At(tok.loc)
		}

		switch tok.kind {
		case tokenOpen:
			stack = append(stack, &frame{openLoc: tok.loc})

		case tokenClose:
			if len(stack) == 0 {
				return nil, ErrUnmatchedClose.At(tok.loc)
			}

			call, err := stack[len(stack)-1].finish()
			if err != nil {
				return nil, err
			}

			stack = stack[:len(stack)-1]

			if err := place(&root, stack, call); err != nil {
				return nil, err
			}

		case tokenLiteral:
			lit := &Expr{Kind: ExprLiteral, Loc: tok.loc, Lit: tok.lit}
			if err := place(&root, stack, lit); err != nil {
				return nil, err
			}

		case tokenSymbol:
			if len(stack) > 0 && !stack[len(stack)-1].hasHead {
				op, ok := ops.Lookup(tok.sym)
				if !ok {
					e := ErrUnknownOperator.
						With(slog.String("operator", tok.sym))
					if hint := suggest(tok.sym, opNames(ops)); hint != "" {
						e = e.With(slog.String("suggestion", hint))
					}

					return nil, e.At(tok.loc)
				}

				top := stack[len(stack)-1]
				top.op, top.opLoc, top.hasHead = op, tok.loc, true

				continue
			}

			ref := &Expr{Kind: ExprReference, Loc: tok.loc, Name: tok.sym}
			if err := place(&root, stack, ref); err != nil {
				return nil, err
			}
		}
	}

	if len(stack) > 0 {
		return nil, ErrUnmatchedOpen.At(stack[0].openLoc)
	}

	if root == nil {
		return nil, ErrEmptyExpression.
			At(Location{Source: text, Start: 0, Len: len(text)})
	}

	return root, nil
}

// place attaches a completed expression either as the root or as an
// operand of the innermost open application. An expression in head
// position of an application is rejected: only operator symbols can be
// applied.
func place(root **Expr, stack []*frame, e *Expr) error {
	if len(stack) == 0 {
		*root = e

		return nil
	}

	top := stack[len(stack)-1]
	if !top.hasHead {
		return ErrCallNonOperator.At(e.Loc)
	}

	top.args = append(top.args, e)

	return nil
}

// finish validates arity and builds the application node for a closed
// frame.
func (f *frame) finish() (*Expr, error) {
	if !f.hasHead {
		return nil, ErrEmptyExpression.At(f.openLoc)
	}

	if !f.op.Accepts(len(f.args)) {
		return nil, ErrOperandCount.
			With(
				slog.String("operator", f.op.Name),
				slog.Int("count", len(f.args)),
				slog.Int("min", f.op.MinArgs),
				slog.Int("max", f.op.MaxArgs),
			).
			At(f.opLoc)
	}

	return &Expr{
		Kind: ExprApply,
		Loc:  f.opLoc,
		Name: f.op.Name,
		Args: f.args,
	}, nil
}

func opNames(ops OpSet) []string {
	return slices.Sorted(maps.Keys(ops))
}
