package accessir

// This file defines one constructor per operator. Each builds the node,
// interns it in the graph and runs the analysis, returning the class ID.
// Operand arguments are class IDs of previously added nodes; a parser
// front-end maps kebab-case operator names to these constructors via
// optypes.OpTypeFromString.

import (
	"github.com/gomlx/accessir/internal/optypes"
	"github.com/gomlx/accessir/types"
)

// Usize adds a non-negative integer leaf.
func Usize(g *Graph, value int) (ClassID, error) {
	return g.Add(Node{Op: optypes.UsizeLiteral, UsizeValue: value})
}

// Float64 adds a floating-point leaf.
func Float64(g *Graph, value float64) (ClassID, error) {
	return g.Add(Node{Op: optypes.Float64Literal, FloatValue: value})
}

// Symbol adds a named tensor leaf; its shape is resolved against the
// built-in table and the analysis environment.
func Symbol(g *Graph, name string) (ClassID, error) {
	return g.Add(Node{Op: optypes.Symbol, SymbolName: name})
}

// PadType adds a pad-type leaf.
func PadType(g *Graph, padType types.PadType) (ClassID, error) {
	return g.Add(Node{Op: optypes.PadTypeLiteral, PadValue: padType})
}

// ComputeType adds a compute-type leaf.
func ComputeType(g *Graph, computeType types.ComputeType) (ClassID, error) {
	return g.Add(Node{Op: optypes.ComputeTypeLiteral, ComputeValue: computeType})
}

// ShapeOf returns the dimension list of a tensor-like class.
func ShapeOf(g *Graph, tensor ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.ShapeOf, Operands: []ClassID{tensor}})
}

// SliceShape returns the suffix of a shape value starting at dim.
func SliceShape(g *Graph, shape, dim ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.SliceShape, Operands: []ClassID{shape, dim}})
}

// ShapeInsertAxis inserts a length-1 axis into a shape value at dim.
func ShapeInsertAxis(g *Graph, shape, dim ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.ShapeInsertAxis, Operands: []ClassID{shape, dim}})
}

// ShapeRemoveAxis removes the axis at dim from a shape value.
func ShapeRemoveAxis(g *Graph, shape, dim ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.ShapeRemoveAxis, Operands: []ClassID{shape, dim}})
}

// Shape builds a shape value from integer classes.
func Shape(g *Graph, dims ...ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Shape, Operands: dims})
}

// List builds an integer list from integer classes.
func List(g *Graph, values ...ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.List, Operands: values})
}

// AccessShape pairs two shape values into an access pattern with no cover
// information.
func AccessShape(g *Graph, shape, itemShape ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessShape, Operands: []ClassID{shape, itemShape}})
}

// AccessTensor wraps a tensor as an access pattern with every axis outer.
func AccessTensor(g *Graph, tensor ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessTensor, Operands: []ClassID{tensor}})
}

// Access re-interprets an access pattern, placing the outer/item boundary
// at flattened axis dim.
func Access(g *Graph, access, dim ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Access, Operands: []ClassID{access, dim}})
}

// AccessShiftRight moves the last outer axis into the item shape.
func AccessShiftRight(g *Graph, access ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessShiftRight, Operands: []ClassID{access}})
}

// AccessFlatten collapses both halves of an access pattern to rank 1.
func AccessFlatten(g *Graph, access ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessFlatten, Operands: []ClassID{access}})
}

// AccessReshape replaces an access pattern's dimensions with the target's,
// preserving the element count of each half.
func AccessReshape(g *Graph, access, target ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessReshape, Operands: []ClassID{access, target}})
}

// AccessTranspose permutes the flattened axes of an access pattern by the
// given list.
func AccessTranspose(g *Graph, access, permutation ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessTranspose, Operands: []ClassID{access, permutation}})
}

// AccessInsertAxis inserts a length-1 axis at flattened position axis.
func AccessInsertAxis(g *Graph, access, axis ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessInsertAxis, Operands: []ClassID{access, axis}})
}

// AccessSqueeze removes the length-1 flattened axis at the given position.
func AccessSqueeze(g *Graph, access, axis ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessSqueeze, Operands: []ClassID{access, axis}})
}

// AccessBroadcast expands each length-1 axis to the target's extent.
func AccessBroadcast(g *Graph, access, target ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessBroadcast, Operands: []ClassID{access, target}})
}

// Literal lifts a float leaf into a literal-array class.
func Literal(g *Graph, value ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Literal, Operands: []ClassID{value}})
}

// AccessLiteral wraps a literal array as an access pattern whose axes are
// all item axes.
func AccessLiteral(g *Graph, literal ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessLiteral, Operands: []ClassID{literal}})
}

// AccessPair pairs the items of two identically shaped access patterns.
func AccessPair(g *Graph, a, b ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessPair, Operands: []ClassID{a, b}})
}

// AccessCartesianProduct pairs every item of a with every item of b.
func AccessCartesianProduct(g *Graph, a, b ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessCartesianProduct, Operands: []ClassID{a, b}})
}

// AccessConcatenate concatenates two access patterns along a flattened axis.
func AccessConcatenate(g *Graph, a, b, axis ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessConcatenate, Operands: []ClassID{a, b, axis}})
}

// AccessSlice slices the half-open range [low, high) of a flattened axis.
func AccessSlice(g *Graph, access, axis, low, high ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessSlice, Operands: []ClassID{access, axis, low, high}})
}

// AccessPad pads a flattened axis with before/after positions of the pad
// type's fill value.
func AccessPad(g *Graph, access, padType, axis, before, after ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessPad, Operands: []ClassID{access, padType, axis, before, after}})
}

// AccessWindows forms the sliding windows of the given filter shape and
// strides over a fully outer access pattern.
func AccessWindows(g *Graph, access, filters, strides ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.AccessWindows, Operands: []ClassID{access, filters, strides}})
}

// Compute applies a compute type to the items of an access pattern.
func Compute(g *Graph, computeType, access ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Compute, Operands: []ClassID{computeType, access}})
}

// SystolicArray matrix-multiplies on a rows x cols weight-stationary
// systolic array.
func SystolicArray(g *Graph, rows, cols, activations, weights ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.SystolicArray, Operands: []ClassID{rows, cols, activations, weights}})
}

// SystolicArrayWithBlocking matrix-multiplies on a rows x cols systolic
// array, tiling operands that are larger than the array.
func SystolicArrayWithBlocking(g *Graph, rows, cols, activations, weights ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.SystolicArrayWithBlocking, Operands: []ClassID{rows, cols, activations, weights}})
}

// MoveAxis swaps two axes of a raw tensor (legacy).
func MoveAxis(g *Graph, tensor, srcAxis, destAxis ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.MoveAxis, Operands: []ClassID{tensor, srcAxis, destAxis}})
}

// CartesianProduct forms the pairwise vector product of two raw tensors
// (legacy).
func CartesianProduct(g *Graph, a, b ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.CartesianProduct, Operands: []ClassID{a, b}})
}

// MapDotProduct dot-products the vector pairs of a raw tensor (legacy).
func MapDotProduct(g *Graph, tensor ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.MapDotProduct, Operands: []ClassID{tensor}})
}

// Slice slices a raw tensor along one axis (legacy).
func Slice(g *Graph, tensor, axis, low, high ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Slice, Operands: []ClassID{tensor, axis, low, high}})
}

// Concatenate concatenates two raw tensors along an axis (legacy).
func Concatenate(g *Graph, a, b, axis ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.Concatenate, Operands: []ClassID{a, b, axis}})
}

// ElementwiseAdd adds two identically shaped raw tensors (legacy).
func ElementwiseAdd(g *Graph, a, b ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.ElementwiseAdd, Operands: []ClassID{a, b}})
}

// BsgSystolicArray feeds two raw tensors through a systolic array (legacy).
func BsgSystolicArray(g *Graph, rows, cols, a, b ClassID) (ClassID, error) {
	return g.Add(Node{Op: optypes.BsgSystolicArray, Operands: []ClassID{rows, cols, a, b}})
}
