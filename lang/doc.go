// Package lang implements the constant definition language: the typed
// value model, the S-expression grammar used for constant values, the
// builtin operator registry, and the dependency resolver that orders and
// evaluates a declared constant set.
//
// The package is pure: parsing produces immutable expression trees, and
// [ConstantSet.Resolve] is a function from the declared set to a
// [Resolution] (or an error) with no observable partial state on failure.
package lang
