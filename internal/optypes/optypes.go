// Package optypes defines OpType, the closed set of operators of the
// access-pattern IR, together with their kebab-case surface names and
// arities.
package optypes

import (
	"github.com/gomlx/accessir/internal/utils"
	"github.com/pkg/errors"
)

// OpType is an enum of every operator the IR supports. The set is closed on
// purpose: rewrite rules in host engines enumerate it.
type OpType int

const (
	Invalid OpType = iota

	// Shape and list operators.
	ShapeOf
	SliceShape
	ShapeInsertAxis
	ShapeRemoveAxis
	Shape
	List
	AccessShape

	// Access constructors and re-framers.
	AccessTensor
	Access
	AccessShiftRight
	AccessFlatten
	AccessReshape
	AccessTranspose
	AccessInsertAxis
	AccessSqueeze
	AccessBroadcast

	// Value producers.
	Literal
	AccessLiteral

	// Combiners.
	AccessPair
	AccessCartesianProduct
	AccessConcatenate
	AccessSlice
	AccessPad

	// Windowing and compute.
	AccessWindows
	Compute

	// Systolic-array primitives.
	SystolicArray
	SystolicArrayWithBlocking

	// Legacy raw-tensor operators: these operate on bare shapes, predate
	// access patterns, and are kept callable for historical rewrites.
	MoveAxis
	CartesianProduct
	MapDotProduct
	Slice
	Concatenate
	ElementwiseAdd
	BsgSystolicArray

	// Leaves. They carry payloads (integer, float, enum, name) instead of
	// operands and have no surface operator name.
	UsizeLiteral
	Float64Literal
	PadTypeLiteral
	ComputeTypeLiteral
	Symbol

	// Last is kept last; it is used as a counter/marker.
	Last
)

var (
	// surfaceNameMappings overrides the default kebab-case naming for ops
	// whose Go name doesn't transliterate to their surface spelling --
	// currently only the leaves, which have no operator syntax at all, and
	// the Invalid and Last markers.
	surfaceNameMappings = map[OpType]string{
		UsizeLiteral:       "<usize>",
		Float64Literal:     "<float64>",
		PadTypeLiteral:     "<pad-type>",
		ComputeTypeLiteral: "<compute-type>",
		Symbol:             "<symbol>",
		Invalid:            "<invalid>",
		Last:               "<last>",
	}

	goNames = map[OpType]string{
		ShapeOf:                   "ShapeOf",
		SliceShape:                "SliceShape",
		ShapeInsertAxis:           "ShapeInsertAxis",
		ShapeRemoveAxis:           "ShapeRemoveAxis",
		Shape:                     "Shape",
		List:                      "List",
		AccessShape:               "AccessShape",
		AccessTensor:              "AccessTensor",
		Access:                    "Access",
		AccessShiftRight:          "AccessShiftRight",
		AccessFlatten:             "AccessFlatten",
		AccessReshape:             "AccessReshape",
		AccessTranspose:           "AccessTranspose",
		AccessInsertAxis:          "AccessInsertAxis",
		AccessSqueeze:             "AccessSqueeze",
		AccessBroadcast:           "AccessBroadcast",
		Literal:                   "Literal",
		AccessLiteral:             "AccessLiteral",
		AccessPair:                "AccessPair",
		AccessCartesianProduct:    "AccessCartesianProduct",
		AccessConcatenate:         "AccessConcatenate",
		AccessSlice:               "AccessSlice",
		AccessPad:                 "AccessPad",
		AccessWindows:             "AccessWindows",
		Compute:                   "Compute",
		SystolicArray:             "SystolicArray",
		SystolicArrayWithBlocking: "SystolicArrayWithBlocking",
		MoveAxis:                  "MoveAxis",
		CartesianProduct:          "CartesianProduct",
		MapDotProduct:             "MapDotProduct",
		Slice:                     "Slice",
		Concatenate:               "Concatenate",
		ElementwiseAdd:            "ElementwiseAdd",
		BsgSystolicArray:          "BsgSystolicArray",
	}

	opsByName = make(map[string]OpType, len(goNames))

	// arities maps each operator to its operand count. Variadic is -1
	// (shape and list literals); leaves are 0.
	arities = map[OpType]int{
		ShapeOf:                   1,
		SliceShape:                2,
		ShapeInsertAxis:           2,
		ShapeRemoveAxis:           2,
		Shape:                     Variadic,
		List:                      Variadic,
		AccessShape:               2,
		AccessTensor:              1,
		Access:                    2,
		AccessShiftRight:          1,
		AccessFlatten:             1,
		AccessReshape:             2,
		AccessTranspose:           2,
		AccessInsertAxis:          2,
		AccessSqueeze:             2,
		AccessBroadcast:           2,
		Literal:                   1,
		AccessLiteral:             1,
		AccessPair:                2,
		AccessCartesianProduct:    2,
		AccessConcatenate:         3,
		AccessSlice:               4,
		AccessPad:                 5,
		AccessWindows:             3,
		Compute:                   2,
		SystolicArray:             4,
		SystolicArrayWithBlocking: 4,
		MoveAxis:                  3,
		CartesianProduct:          2,
		MapDotProduct:             1,
		Slice:                     4,
		Concatenate:               3,
		ElementwiseAdd:            2,
		BsgSystolicArray:          4,
		UsizeLiteral:              0,
		Float64Literal:            0,
		PadTypeLiteral:            0,
		ComputeTypeLiteral:        0,
		Symbol:                    0,
	}
)

// Variadic marks operators whose operand count is not fixed.
const Variadic = -1

func init() {
	for op, goName := range goNames {
		opsByName[utils.ToKebabCase(goName)] = op
	}
}

// String returns the operator's kebab-case surface name. Leaves return a
// bracketed placeholder, since they are written as bare tokens rather than
// operator applications.
func (op OpType) String() string {
	if name, ok := surfaceNameMappings[op]; ok {
		return name
	}
	return utils.ToKebabCase(goNames[op])
}

// OpTypeFromString resolves a kebab-case surface name to its operator. Leaf
// tokens (integers, floats, enum spellings, symbols) are not operators and
// do not resolve.
func OpTypeFromString(name string) (OpType, error) {
	if op, ok := opsByName[name]; ok {
		return op, nil
	}
	return Invalid, errors.Errorf("unknown operator %q", name)
}

// Arity returns the operand count of the operator, or Variadic for the
// shape and list literals.
func (op OpType) Arity() int {
	arity, ok := arities[op]
	if !ok {
		return 0
	}
	return arity
}

// IsLeaf reports whether the operator is a payload-carrying leaf.
func (op OpType) IsLeaf() bool {
	switch op {
	case UsizeLiteral, Float64Literal, PadTypeLiteral, ComputeTypeLiteral, Symbol:
		return true
	}
	return false
}
