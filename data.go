package accessir

import (
	"maps"

	"github.com/gomlx/accessir/types"
	"github.com/gomlx/accessir/types/rangeset"
	"github.com/gomlx/accessir/types/shapes"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DataKind tags the variant held by a Data.
type DataKind int

const (
	KindInvalid DataKind = iota
	KindAccessPattern
	KindShape
	KindLiteral
	KindComputeType
	KindPadType
	KindList
	KindLegacy
)

var dataKindNames = map[DataKind]string{
	KindInvalid:       "invalid",
	KindAccessPattern: "access pattern",
	KindShape:         "shape",
	KindLiteral:       "literal",
	KindComputeType:   "compute type",
	KindPadType:       "pad type",
	KindList:          "list",
	KindLegacy:        "legacy",
}

// String implements fmt.Stringer.
func (k DataKind) String() string {
	return dataKindNames[k]
}

// AccessPattern is the analysis summary of a tensor access: the outer axes
// being iterated over (Shape), the shape of the item delivered at each outer
// position (ItemShape), and per-axis zero-region covers.
//
// ZeroRegions keys are flattened axis indices: 0..Shape.Rank() address the
// outer axes, Shape.Rank()..NDim() address the item axes. A missing key
// means no information, which is always sound.
type AccessPattern struct {
	Shape     shapes.Shape
	ItemShape shapes.Shape

	ZeroRegions map[int]rangeset.RangeSet
}

// NDim returns the total number of axes across both halves.
func (a *AccessPattern) NDim() int {
	return a.Shape.Rank() + a.ItemShape.Rank()
}

// Dim returns the extent of the flattened axis: outer axes first, then item
// axes.
func (a *AccessPattern) Dim(axis int) int {
	if axis < a.Shape.Rank() {
		return a.Shape.Dim(axis)
	}
	return a.ItemShape.Dim(axis - a.Shape.Rank())
}

// Dims returns the flattened dimension list, outer axes first.
func (a *AccessPattern) Dims() []int {
	return a.Shape.Concat(a.ItemShape).Dimensions
}

// Size returns the total element count, Π Shape × Π ItemShape.
func (a *AccessPattern) Size() int {
	return a.Shape.Size() * a.ItemShape.Size()
}

// Clone returns a deep copy, covers included.
func (a *AccessPattern) Clone() *AccessPattern {
	clone := &AccessPattern{
		Shape:     a.Shape.Clone(),
		ItemShape: a.ItemShape.Clone(),
	}
	if a.ZeroRegions != nil {
		clone.ZeroRegions = make(map[int]rangeset.RangeSet, len(a.ZeroRegions))
		for axis, cover := range a.ZeroRegions {
			clone.ZeroRegions[axis] = cover.Clone()
		}
	}
	return clone
}

// HasZeroRegions reports whether any axis carries cover information.
func (a *AccessPattern) HasZeroRegions() bool {
	return len(a.ZeroRegions) > 0
}

// Cover returns the zero-region cover of the flattened axis, or nil if none
// is recorded.
func (a *AccessPattern) Cover(axis int) rangeset.RangeSet {
	return a.ZeroRegions[axis]
}

// LegacyData is the summary attached by the raw-tensor operators that
// predate access patterns, and by the integer and symbol leaves: a bare
// shape, a bare integer, or (never both) depending on the node.
type LegacyData struct {
	Shape      *shapes.Shape
	UsizeValue *int
}

// Data is the analysis summary of an e-class: a tagged variant over the
// value kinds the operators produce. Exactly one arm is populated,
// according to Kind.
type Data struct {
	kind DataKind

	access  *AccessPattern
	shape   shapes.Shape
	literal *tensor.Dense
	compute types.ComputeType
	pad     types.PadType
	list    []int
	legacy  LegacyData
}

// Kind returns the populated variant's tag.
func (d *Data) Kind() DataKind {
	return d.kind
}

// NewAccessData wraps an access pattern as a summary.
func NewAccessData(a *AccessPattern) *Data {
	return &Data{kind: KindAccessPattern, access: a}
}

// NewShapeData wraps a standalone shape value as a summary.
func NewShapeData(s shapes.Shape) *Data {
	return &Data{kind: KindShape, shape: s}
}

// NewLiteralData wraps a concrete float64 array as a summary.
func NewLiteralData(t *tensor.Dense) *Data {
	return &Data{kind: KindLiteral, literal: t}
}

// NewComputeTypeData wraps a compute-type enum as a summary.
func NewComputeTypeData(c types.ComputeType) *Data {
	return &Data{kind: KindComputeType, compute: c}
}

// NewPadTypeData wraps a pad-type enum as a summary.
func NewPadTypeData(p types.PadType) *Data {
	return &Data{kind: KindPadType, pad: p}
}

// NewListData wraps an integer list as a summary.
func NewListData(list []int) *Data {
	return &Data{kind: KindList, list: list}
}

// NewUsizeData wraps a non-negative integer as a (legacy) summary.
func NewUsizeData(value int) *Data {
	return &Data{kind: KindLegacy, legacy: LegacyData{UsizeValue: &value}}
}

// NewLegacyShapeData wraps a bare tensor shape as a legacy summary.
func NewLegacyShapeData(s shapes.Shape) *Data {
	return &Data{kind: KindLegacy, legacy: LegacyData{Shape: &s}}
}

// Access returns the access-pattern arm.
func (d *Data) Access() (*AccessPattern, error) {
	if d.kind != KindAccessPattern {
		return nil, errors.Errorf("expected an access pattern summary, got %s", d.kind)
	}
	return d.access, nil
}

// ShapeValue returns the shape-value arm.
func (d *Data) ShapeValue() (shapes.Shape, error) {
	if d.kind != KindShape {
		return shapes.Shape{}, errors.Errorf("expected a shape summary, got %s", d.kind)
	}
	return d.shape, nil
}

// Literal returns the literal-array arm.
func (d *Data) Literal() (*tensor.Dense, error) {
	if d.kind != KindLiteral {
		return nil, errors.Errorf("expected a literal summary, got %s", d.kind)
	}
	return d.literal, nil
}

// ComputeType returns the compute-type arm.
func (d *Data) ComputeType() (types.ComputeType, error) {
	if d.kind != KindComputeType {
		return types.InvalidComputeType, errors.Errorf("expected a compute-type summary, got %s", d.kind)
	}
	return d.compute, nil
}

// PadType returns the pad-type arm.
func (d *Data) PadType() (types.PadType, error) {
	if d.kind != KindPadType {
		return types.InvalidPadType, errors.Errorf("expected a pad-type summary, got %s", d.kind)
	}
	return d.pad, nil
}

// List returns the integer-list arm.
func (d *Data) List() ([]int, error) {
	if d.kind != KindList {
		return nil, errors.Errorf("expected a list summary, got %s", d.kind)
	}
	return d.list, nil
}

// Usize returns the integer carried by a legacy summary.
func (d *Data) Usize() (int, error) {
	if d.kind != KindLegacy || d.legacy.UsizeValue == nil {
		return 0, errors.Errorf("expected an integer summary, got %s", d.kind)
	}
	return *d.legacy.UsizeValue, nil
}

// LegacyShape returns the bare tensor shape carried by a legacy summary.
// Symbols and the raw-tensor operators produce these.
func (d *Data) LegacyShape() (shapes.Shape, error) {
	if d.kind != KindLegacy || d.legacy.Shape == nil {
		return shapes.Shape{}, errors.Errorf("expected a tensor-shape summary, got %s", d.kind)
	}
	return *d.legacy.Shape, nil
}

// Equal reports whether both summaries hold the same variant with the same
// contents. Access-pattern covers participate in the comparison.
func (d *Data) Equal(other *Data) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindAccessPattern:
		if !d.access.Shape.Equal(other.access.Shape) ||
			!d.access.ItemShape.Equal(other.access.ItemShape) {
			return false
		}
		return maps.EqualFunc(d.access.ZeroRegions, other.access.ZeroRegions,
			func(a, b rangeset.RangeSet) bool { return a.Dominates(b) && b.Dominates(a) })
	case KindShape:
		return d.shape.Equal(other.shape)
	case KindLiteral:
		return literalsEqual(d.literal, other.literal)
	case KindComputeType:
		return d.compute == other.compute
	case KindPadType:
		return d.pad == other.pad
	case KindList:
		if len(d.list) != len(other.list) {
			return false
		}
		for i, v := range d.list {
			if other.list[i] != v {
				return false
			}
		}
		return true
	case KindLegacy:
		return legacyEqual(d.legacy, other.legacy)
	}
	return false
}

func legacyEqual(a, b LegacyData) bool {
	if (a.Shape == nil) != (b.Shape == nil) || (a.UsizeValue == nil) != (b.UsizeValue == nil) {
		return false
	}
	if a.Shape != nil && !a.Shape.Equal(*b.Shape) {
		return false
	}
	if a.UsizeValue != nil && *a.UsizeValue != *b.UsizeValue {
		return false
	}
	return true
}

func literalsEqual(a, b *tensor.Dense) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Shape().Eq(b.Shape()) {
		return false
	}
	aData, aOK := a.Data().([]float64)
	bData, bOK := b.Data().([]float64)
	if aOK && bOK {
		if len(aData) != len(bData) {
			return false
		}
		for i, v := range aData {
			if bData[i] != v {
				return false
			}
		}
		return true
	}
	// Scalar tensors expose their backing as a bare float64.
	aScalar, aOK := a.Data().(float64)
	bScalar, bOK := b.Data().(float64)
	return aOK && bOK && aScalar == bScalar
}
