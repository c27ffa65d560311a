// Package accessir implements an access-pattern intermediate representation
// for tensor programs, together with the compositional analysis that a host
// equality-saturation engine attaches to its equivalence classes.
//
// A term is a Node: an operator from a closed set plus operand e-class IDs.
// The Analysis assigns every class a Data summary -- an access pattern
// (outer shape, item shape and per-axis zero-region covers), a shape value,
// a literal array, an enum, an integer or a list -- via two functions:
//
//   - Analysis.Make synthesizes a node's summary from its operands'
//     summaries.
//   - Analysis.Merge joins the summaries of two classes the host has
//     unified, reporting whether the target changed.
//
// The Graph in this package is a minimal hash-consing store for building
// expressions and driving Make; saturation, rewriting and union-find belong
// to the host engine, which reaches the analysis through the DataSource
// interface and the typed accessors on Data.
//
// Tensor names are resolved to shapes through a built-in table and an
// environment map supplied to NewAnalysis; see the types, types/shapes and
// types/rangeset packages for the value domain.
package accessir
