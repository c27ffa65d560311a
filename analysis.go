package accessir

import (
	"github.com/gomlx/accessir/internal/optypes"
	"github.com/gomlx/accessir/shapeinference"
	"github.com/gomlx/accessir/types"
	"github.com/gomlx/accessir/types/rangeset"
	"github.com/gomlx/accessir/types/shapes"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"k8s.io/klog/v2"
)

// Analysis synthesizes and merges per-class summaries for a host e-graph.
// The only state is the name-to-shape environment consulted for leaf
// symbols; it is read-only for the analysis's lifetime, so an Analysis can
// serve any number of graphs.
type Analysis struct {
	nameToShape map[string]shapes.Shape
}

// NewAnalysis returns an Analysis resolving unknown symbols against the
// given environment. A nil environment is valid: only the built-in names
// and the v-/t- families resolve.
func NewAnalysis(nameToShape map[string]shapes.Shape) *Analysis {
	return &Analysis{nameToShape: nameToShape}
}

// warnDroppedCovers logs when an operator discards zero-region information.
// Dropping is always sound -- covers are optimization hints, never
// correctness claims -- but the loss is worth surfacing.
func warnDroppedCovers(op optypes.OpType, patterns ...*AccessPattern) {
	for _, a := range patterns {
		if a.HasZeroRegions() {
			klog.Warningf("discarding zero-region information in %s", op)
			return
		}
	}
}

// Operand readers: each resolves a child class and unwraps the expected
// variant, naming the operator and operand in the diagnostic otherwise.

func accessOperand(src DataSource, op optypes.OpType, id ClassID) (*AccessPattern, error) {
	a, err := src.DataAt(id).Access()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return a, nil
}

func usizeOperand(src DataSource, op optypes.OpType, id ClassID) (int, error) {
	v, err := src.DataAt(id).Usize()
	if err != nil {
		return 0, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return v, nil
}

func shapeValueOperand(src DataSource, op optypes.OpType, id ClassID) (shapes.Shape, error) {
	s, err := src.DataAt(id).ShapeValue()
	if err != nil {
		return shapes.Shape{}, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return s, nil
}

func legacyShapeOperand(src DataSource, op optypes.OpType, id ClassID) (shapes.Shape, error) {
	s, err := src.DataAt(id).LegacyShape()
	if err != nil {
		return shapes.Shape{}, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return s, nil
}

func listOperand(src DataSource, op optypes.OpType, id ClassID) ([]int, error) {
	l, err := src.DataAt(id).List()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return l, nil
}

func literalOperand(src DataSource, op optypes.OpType, id ClassID) (*tensor.Dense, error) {
	l, err := src.DataAt(id).Literal()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %%%d of %s", id, op)
	}
	return l, nil
}

// validateCovers checks the per-axis invariant len(cover) <= extent.
func validateCovers(op optypes.OpType, a *AccessPattern) error {
	for axis, cover := range a.ZeroRegions {
		if axis < 0 || axis >= a.NDim() {
			return errors.Errorf("%s produced a cover for non-existent axis %d", op, axis)
		}
		if len(cover) > a.Dim(axis) {
			return errors.Errorf("%s produced a cover of length %d for axis %d of extent %d",
				op, len(cover), axis, a.Dim(axis))
		}
	}
	return nil
}

// Make synthesizes the summary of a node from the summaries of its operand
// classes. It is deterministic and treats child summaries as read-only.
func (an *Analysis) Make(src DataSource, n *Node) (*Data, error) {
	if err := n.CheckArity(); err != nil {
		return nil, err
	}
	op := n.Op
	switch op {

	// Leaves.
	case optypes.UsizeLiteral:
		if n.UsizeValue < 0 {
			return nil, errors.Errorf("integer leaves are non-negative, got %d", n.UsizeValue)
		}
		return NewUsizeData(n.UsizeValue), nil
	case optypes.Float64Literal:
		return NewLiteralData(tensor.New(tensor.FromScalar(n.FloatValue))), nil
	case optypes.Symbol:
		shape, err := an.resolveSymbol(n.SymbolName)
		if err != nil {
			return nil, err
		}
		return NewLegacyShapeData(shape), nil
	case optypes.ComputeTypeLiteral:
		if n.ComputeValue == types.InvalidComputeType {
			return nil, errors.New("compute-type leaf holds no compute type")
		}
		return NewComputeTypeData(n.ComputeValue), nil
	case optypes.PadTypeLiteral:
		if n.PadValue == types.InvalidPadType {
			return nil, errors.New("pad-type leaf holds no pad type")
		}
		return NewPadTypeData(n.PadValue), nil

	// Shape and list operators.
	case optypes.ShapeOf:
		shape, err := legacyShapeOperand(src, op, n.Operands[0])
		if err != nil {
			return nil, err
		}
		return NewShapeData(shape.Clone()), nil
	case optypes.SliceShape:
		return an.makeSliceShape(src, n)
	case optypes.ShapeInsertAxis:
		shape, dim, err := an.shapeAndDim(src, n)
		if err != nil {
			return nil, err
		}
		inserted, err := shape.Insert(dim, 1)
		if err != nil {
			return nil, err
		}
		return NewShapeData(inserted), nil
	case optypes.ShapeRemoveAxis:
		shape, dim, err := an.shapeAndDim(src, n)
		if err != nil {
			return nil, err
		}
		removed, err := shape.Remove(dim)
		if err != nil {
			return nil, err
		}
		return NewShapeData(removed), nil
	case optypes.Shape:
		dims, err := an.usizeOperands(src, n)
		if err != nil {
			return nil, err
		}
		return NewShapeData(shapes.Make(dims...)), nil
	case optypes.List:
		list, err := an.usizeOperands(src, n)
		if err != nil {
			return nil, err
		}
		return NewListData(list), nil
	case optypes.AccessShape:
		return an.makeAccessShape(src, n)

	// Access constructors and re-framers.
	case optypes.AccessTensor:
		shape, err := legacyShapeOperand(src, op, n.Operands[0])
		if err != nil {
			return nil, err
		}
		return NewAccessData(&AccessPattern{Shape: shape.Clone(), ItemShape: shapes.Make()}), nil
	case optypes.Access:
		return an.makeAccess(src, n)
	case optypes.AccessShiftRight:
		return an.makeAccessShiftRight(src, n)
	case optypes.AccessFlatten:
		return an.makeAccessFlatten(src, n)
	case optypes.AccessReshape:
		return an.makeAccessReshape(src, n)
	case optypes.AccessTranspose:
		return an.makeAccessTranspose(src, n)
	case optypes.AccessInsertAxis:
		return an.makeAccessInsertAxis(src, n)
	case optypes.AccessSqueeze:
		return an.makeAccessSqueeze(src, n)
	case optypes.AccessBroadcast:
		return an.makeAccessBroadcast(src, n)

	// Value producers.
	case optypes.Literal:
		literal, err := literalOperand(src, op, n.Operands[0])
		if err != nil {
			return nil, err
		}
		return NewLiteralData(literal), nil
	case optypes.AccessLiteral:
		literal, err := literalOperand(src, op, n.Operands[0])
		if err != nil {
			return nil, err
		}
		return NewAccessData(&AccessPattern{
			Shape:     shapes.Make(),
			ItemShape: shapes.Make(literal.Shape()...),
		}), nil

	// Combiners.
	case optypes.AccessPair:
		return an.makeAccessPair(src, n)
	case optypes.AccessCartesianProduct:
		return an.makeAccessCartesianProduct(src, n)
	case optypes.AccessConcatenate:
		return an.makeAccessConcatenate(src, n)
	case optypes.AccessSlice:
		return an.makeAccessSlice(src, n)
	case optypes.AccessPad:
		return an.makeAccessPad(src, n)

	// Windowing and compute.
	case optypes.AccessWindows:
		return an.makeAccessWindows(src, n)
	case optypes.Compute:
		return an.makeCompute(src, n)

	// Systolic arrays.
	case optypes.SystolicArray, optypes.SystolicArrayWithBlocking:
		return an.makeSystolicArray(src, n)

	// Legacy raw-tensor operators.
	case optypes.MoveAxis:
		return an.makeMoveAxis(src, n)
	case optypes.CartesianProduct:
		return an.makeCartesianProduct(src, n)
	case optypes.MapDotProduct:
		return an.makeMapDotProduct(src, n)
	case optypes.Slice:
		return an.makeSlice(src, n)
	case optypes.Concatenate:
		return an.makeConcatenate(src, n)
	case optypes.ElementwiseAdd:
		return an.makeElementwiseAdd(src, n)
	case optypes.BsgSystolicArray:
		return an.makeBsgSystolicArray(src, n)
	}
	return nil, errors.Errorf("unknown operator %s", op)
}

func (an *Analysis) shapeAndDim(src DataSource, n *Node) (shapes.Shape, int, error) {
	shape, err := shapeValueOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return shapes.Shape{}, 0, err
	}
	dim, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return shapes.Shape{}, 0, err
	}
	return shape, dim, nil
}

func (an *Analysis) usizeOperands(src DataSource, n *Node) ([]int, error) {
	values := make([]int, len(n.Operands))
	for i, id := range n.Operands {
		value, err := usizeOperand(src, n.Op, id)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (an *Analysis) makeSliceShape(src DataSource, n *Node) (*Data, error) {
	shape, dim, err := an.shapeAndDim(src, n)
	if err != nil {
		return nil, err
	}
	suffix, err := shape.SliceFrom(dim)
	if err != nil {
		return nil, err
	}
	return NewShapeData(suffix), nil
}

func (an *Analysis) makeAccessShape(src DataSource, n *Node) (*Data, error) {
	outer, err := shapeValueOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	item, err := shapeValueOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	return NewAccessData(&AccessPattern{Shape: outer.Clone(), ItemShape: item.Clone()}), nil
}

func (an *Analysis) makeAccess(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	dim, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	combined := a.Dims()
	if dim > len(combined) {
		return nil, errors.Errorf("access boundary %d is out of range for %d axes", dim, len(combined))
	}
	warnDroppedCovers(n.Op, a)
	return NewAccessData(&AccessPattern{
		Shape:     shapes.Make(combined[:dim]...),
		ItemShape: shapes.Make(combined[dim:]...),
	}), nil
}

func (an *Analysis) makeAccessShiftRight(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	warnDroppedCovers(n.Op, a)
	combined := a.Dims()
	boundary := max(a.Shape.Rank()-1, 0)
	return NewAccessData(&AccessPattern{
		Shape:     shapes.Make(combined[:boundary]...),
		ItemShape: shapes.Make(combined[boundary:]...),
	}), nil
}

func (an *Analysis) makeAccessFlatten(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	warnDroppedCovers(n.Op, a)
	return NewAccessData(&AccessPattern{
		Shape:     shapes.Make(a.Shape.Size()),
		ItemShape: shapes.Make(a.ItemShape.Size()),
	}), nil
}

func (an *Analysis) makeAccessReshape(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	target, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if err := shapeinference.CheckReshape(a.Shape, target.Shape); err != nil {
		return nil, errors.WithMessage(err, "outer shapes")
	}
	if err := shapeinference.CheckReshape(a.ItemShape, target.ItemShape); err != nil {
		return nil, errors.WithMessage(err, "item shapes")
	}
	warnDroppedCovers(n.Op, a)
	return NewAccessData(&AccessPattern{
		Shape:     target.Shape.Clone(),
		ItemShape: target.ItemShape.Clone(),
	}), nil
}

func (an *Analysis) makeAccessTranspose(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	permutation, err := listOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	combined, err := shapeinference.Transpose(a.Dims(), permutation)
	if err != nil {
		return nil, err
	}

	// The one reorder that preserves covers: re-key each axis by where the
	// permutation put it.
	var zeroRegions map[int]rangeset.RangeSet
	for newAxis, oldAxis := range permutation {
		if cover, found := a.ZeroRegions[oldAxis]; found {
			if zeroRegions == nil {
				zeroRegions = make(map[int]rangeset.RangeSet)
			}
			zeroRegions[newAxis] = cover.Clone()
		}
	}

	boundary := a.Shape.Rank()
	return NewAccessData(&AccessPattern{
		Shape:       shapes.Make(combined[:boundary]...),
		ItemShape:   shapes.Make(combined[boundary:]...),
		ZeroRegions: zeroRegions,
	}), nil
}

func (an *Analysis) makeAccessInsertAxis(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if axis > a.NDim() {
		return nil, errors.Errorf("axis %d is out of range to insert into %d axes", axis, a.NDim())
	}
	warnDroppedCovers(n.Op, a)
	result := &AccessPattern{Shape: a.Shape.Clone(), ItemShape: a.ItemShape.Clone()}
	if axis <= a.Shape.Rank() {
		result.Shape, err = result.Shape.Insert(axis, 1)
	} else {
		result.ItemShape, err = result.ItemShape.Insert(axis-a.Shape.Rank(), 1)
	}
	if err != nil {
		return nil, err
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessSqueeze(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if axis >= a.NDim() {
		return nil, errors.Errorf("axis %d is out of range to squeeze from %d axes", axis, a.NDim())
	}
	if a.Dim(axis) != 1 {
		return nil, errors.Errorf("cannot squeeze axis %d of extent %d", axis, a.Dim(axis))
	}
	warnDroppedCovers(n.Op, a)
	result := &AccessPattern{Shape: a.Shape.Clone(), ItemShape: a.ItemShape.Clone()}
	if axis < a.Shape.Rank() {
		result.Shape, err = result.Shape.Remove(axis)
	} else {
		result.ItemShape, err = result.ItemShape.Remove(axis - a.Shape.Rank())
	}
	if err != nil {
		return nil, err
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessBroadcast(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	target, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	combined, err := shapeinference.Broadcast(a.Dims(), target.Dims())
	if err != nil {
		return nil, err
	}
	// Whether the broadcast-from covers could be replicated into the grown
	// extents is unresolved; they are discarded, never replicated.
	warnDroppedCovers(n.Op, a)
	boundary := a.Shape.Rank()
	return NewAccessData(&AccessPattern{
		Shape:     shapes.Make(combined[:boundary]...),
		ItemShape: shapes.Make(combined[boundary:]...),
	}), nil
}

func (an *Analysis) makeAccessPair(src DataSource, n *Node) (*Data, error) {
	a0, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	a1, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if !a0.Shape.Equal(a1.Shape) || !a0.ItemShape.Equal(a1.ItemShape) {
		return nil, errors.Errorf("access-pair operands must match, got %s %s and %s %s",
			a0.Shape, a0.ItemShape, a1.Shape, a1.ItemShape)
	}
	warnDroppedCovers(n.Op, a0, a1)
	item, err := a0.ItemShape.Insert(0, 2)
	if err != nil {
		return nil, err
	}
	return NewAccessData(&AccessPattern{Shape: a0.Shape.Clone(), ItemShape: item}), nil
}

func (an *Analysis) makeAccessCartesianProduct(src DataSource, n *Node) (*Data, error) {
	a0, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	a1, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if !a0.ItemShape.Equal(a1.ItemShape) {
		return nil, errors.Errorf("cartesian product item shapes must match, got %s and %s",
			a0.ItemShape, a1.ItemShape)
	}

	shape := a0.Shape.Concat(a1.Shape)
	item, err := a0.ItemShape.Insert(0, 2)
	if err != nil {
		return nil, err
	}

	// Covers survive only on item axes: an index of the paired item is
	// zero iff it is zero in both operands.
	var zeroRegions map[int]rangeset.RangeSet
	for itemDim := range a0.ItemShape.Rank() {
		cover0, found0 := a0.ZeroRegions[a0.Shape.Rank()+itemDim]
		cover1, found1 := a1.ZeroRegions[a1.Shape.Rank()+itemDim]
		if !found0 || !found1 {
			continue
		}
		both := rangeset.Intersect(cover0, cover1)
		if !both.AnyTrue() {
			continue
		}
		if zeroRegions == nil {
			zeroRegions = make(map[int]rangeset.RangeSet)
		}
		zeroRegions[a0.Shape.Rank()+a1.Shape.Rank()+1+itemDim] = both
	}

	result := &AccessPattern{Shape: shape, ItemShape: item, ZeroRegions: zeroRegions}
	if result.Size() != a0.Shape.Size()*a1.Shape.Size()*2*a0.ItemShape.Size() {
		return nil, errors.Errorf("cartesian product of %v and %v does not preserve the element count",
			a0.Dims(), a1.Dims())
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessConcatenate(src DataSource, n *Node) (*Data, error) {
	a0, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	a1, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	if a0.Shape.Rank() != a1.Shape.Rank() || a0.ItemShape.Rank() != a1.ItemShape.Rank() {
		return nil, errors.Errorf("concatenation requires matching ranks, got %s %s and %s %s",
			a0.Shape, a0.ItemShape, a1.Shape, a1.ItemShape)
	}
	if axis >= a0.NDim() {
		return nil, errors.Errorf("concatenation axis %d is out of range for %d axes", axis, a0.NDim())
	}
	for d := range a0.NDim() {
		if d != axis && a0.Dim(d) != a1.Dim(d) {
			return nil, errors.Errorf("extents of axis %d must match to concatenate along axis %d, got %d and %d",
				d, axis, a0.Dim(d), a1.Dim(d))
		}
	}
	// Joining two covers across the seam is intentionally unsupported.
	warnDroppedCovers(n.Op, a0, a1)
	result := &AccessPattern{Shape: a0.Shape.Clone(), ItemShape: a0.ItemShape.Clone()}
	if axis < a0.Shape.Rank() {
		result.Shape.Dimensions[axis] += a1.Shape.Dim(axis)
	} else {
		result.ItemShape.Dimensions[axis-a0.Shape.Rank()] += a1.ItemShape.Dim(axis - a0.Shape.Rank())
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessSlice(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	low, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	high, err := usizeOperand(src, n.Op, n.Operands[3])
	if err != nil {
		return nil, err
	}
	if axis >= a.NDim() {
		return nil, errors.Errorf("slice axis %d is out of range for %d axes", axis, a.NDim())
	}
	extent := a.Dim(axis)
	newExtent, err := shapeinference.SliceBounds(extent, low, high)
	if err != nil {
		return nil, errors.WithMessagef(err, "axis %d", axis)
	}

	result := a.Clone()
	if axis < a.Shape.Rank() {
		result.Shape.Dimensions[axis] = newExtent
	} else {
		result.ItemShape.Dimensions[axis-a.Shape.Rank()] = newExtent
	}
	// Tail first, then head, so indices stay consistent while splicing.
	if cover, found := result.ZeroRegions[axis]; found {
		cover.RemoveElements(high, extent-high)
		cover.RemoveElements(0, low)
		result.ZeroRegions[axis] = cover
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessPad(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	padType, err := src.DataAt(n.Operands[1]).PadType()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %%%d of %s", n.Operands[1], n.Op)
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	before, err := usizeOperand(src, n.Op, n.Operands[3])
	if err != nil {
		return nil, err
	}
	after, err := usizeOperand(src, n.Op, n.Operands[4])
	if err != nil {
		return nil, err
	}
	if axis >= a.NDim() {
		return nil, errors.Errorf("pad axis %d is out of range for %d axes", axis, a.NDim())
	}

	extent := a.Dim(axis)
	result := a.Clone()
	if axis < a.Shape.Rank() {
		result.Shape.Dimensions[axis] += before + after
	} else {
		result.ItemShape.Dimensions[axis-a.Shape.Rank()] += before + after
	}

	switch padType {
	case types.MinPadding:
		// The pad value is not the additive identity, so nothing provable
		// survives.
		warnDroppedCovers(n.Op, a)
		result.ZeroRegions = nil
	case types.ZeroPadding:
		if result.ZeroRegions == nil {
			result.ZeroRegions = make(map[int]rangeset.RangeSet)
		}
		cover := result.ZeroRegions[axis]
		cover.InsertElements(extent, after)
		cover.AddRange(extent, extent+after)
		cover.InsertElements(0, before)
		cover.AddRange(0, before)
		result.ZeroRegions[axis] = cover
	default:
		return nil, errors.Errorf("unknown pad type %d", padType)
	}

	if err := validateCovers(n.Op, result); err != nil {
		return nil, err
	}
	return NewAccessData(result), nil
}

func (an *Analysis) makeAccessWindows(src DataSource, n *Node) (*Data, error) {
	a, err := accessOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	filters, err := shapeValueOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	strides, err := shapeValueOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	if a.ItemShape.Rank() != 0 {
		return nil, errors.Errorf("windows require all axes to be outer, got item shape %s", a.ItemShape)
	}
	outer, err := shapeinference.Windows(a.Shape, filters, strides)
	if err != nil {
		return nil, err
	}
	warnDroppedCovers(n.Op, a)
	return NewAccessData(&AccessPattern{Shape: outer, ItemShape: filters.Clone()}), nil
}

func (an *Analysis) makeCompute(src DataSource, n *Node) (*Data, error) {
	computeType, err := src.DataAt(n.Operands[0]).ComputeType()
	if err != nil {
		return nil, errors.WithMessagef(err, "operand %%%d of %s", n.Operands[0], n.Op)
	}
	a, err := accessOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	// Every compute transforms element values, so no cover survives.
	warnDroppedCovers(n.Op, a)

	switch computeType {
	case types.DotProduct:
		if a.ItemShape.Rank() < 1 {
			return nil, errors.Errorf("%s requires a non-scalar item, got item shape %s", computeType, a.ItemShape)
		}
		return NewAccessData(&AccessPattern{Shape: a.Shape.Clone(), ItemShape: shapes.Make()}), nil
	case types.ReduceSum, types.ReduceMax, types.ReduceMean:
		return NewAccessData(&AccessPattern{Shape: a.Shape.Clone(), ItemShape: shapes.Make()}), nil
	case types.ReLU, types.Sqrt, types.Negative:
		return NewAccessData(&AccessPattern{Shape: a.Shape.Clone(), ItemShape: a.ItemShape.Clone()}), nil
	case types.Softmax:
		if a.ItemShape.Rank() != 1 {
			return nil, errors.Errorf("softmax is only defined for rank-1 items, got item shape %s", a.ItemShape)
		}
		return NewAccessData(&AccessPattern{Shape: a.Shape.Clone(), ItemShape: a.ItemShape.Clone()}), nil
	case types.ElementwiseAdd, types.ElementwiseMul, types.ElementwiseDiv:
		if a.ItemShape.Rank() < 1 {
			return nil, errors.Errorf("%s requires a leading tuple axis, got item shape %s", computeType, a.ItemShape)
		}
		item, err := a.ItemShape.SliceFrom(1)
		if err != nil {
			return nil, err
		}
		return NewAccessData(&AccessPattern{Shape: a.Shape.Clone(), ItemShape: item}), nil
	}
	return nil, errors.Errorf("unknown compute type %d", computeType)
}

func (an *Analysis) makeSystolicArray(src DataSource, n *Node) (*Data, error) {
	rows, err := usizeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	cols, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	a0, err := accessOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	a1, err := accessOperand(src, n.Op, n.Operands[3])
	if err != nil {
		return nil, err
	}

	if !a1.Shape.IsScalar() {
		return nil, errors.Errorf("the weight operand must be fully accessed, got shape %s", a1.Shape)
	}
	if a0.Shape.Rank() > 1 {
		return nil, errors.Errorf("the activation operand must have at most one outer axis, got shape %s", a0.Shape)
	}

	switch n.Op {
	case optypes.SystolicArray:
		if err := a1.ItemShape.CheckDims(rows, cols); err != nil {
			return nil, errors.Errorf("a %dx%d systolic array requires a %dx%d weight item, got %s",
				rows, cols, rows, cols, a1.ItemShape)
		}
		if err := a0.ItemShape.CheckDims(rows); err != nil {
			return nil, errors.Errorf("a %dx%d systolic array requires a %d-vector activation item, got %s",
				rows, cols, rows, a0.ItemShape)
		}
	case optypes.SystolicArrayWithBlocking:
		if a0.ItemShape.Rank() != 1 || a1.ItemShape.Rank() != 2 {
			return nil, errors.Errorf("blocking requires a vector activation item and a matrix weight item, got %s and %s",
				a0.ItemShape, a1.ItemShape)
		}
		if a0.ItemShape.Dim(0) != a1.ItemShape.Dim(0) {
			return nil, errors.Errorf("activation length %d must match weight rows %d",
				a0.ItemShape.Dim(0), a1.ItemShape.Dim(0))
		}
		// The blocking code tiles the full matrix multiply onto the
		// rows x cols array, so both extents must divide evenly.
		if a0.ItemShape.Dim(0)%rows != 0 {
			return nil, errors.Errorf("activation length %d is not a multiple of the array height %d",
				a0.ItemShape.Dim(0), rows)
		}
		if a1.ItemShape.Dim(1)%cols != 0 {
			return nil, errors.Errorf("weight columns %d are not a multiple of the array width %d",
				a1.ItemShape.Dim(1), cols)
		}
	}

	warnDroppedCovers(n.Op, a0, a1)
	return NewAccessData(&AccessPattern{
		Shape:     a0.Shape.Concat(shapes.Make(a1.ItemShape.Dim(1))),
		ItemShape: shapes.Make(),
	}), nil
}

func (an *Analysis) makeMoveAxis(src DataSource, n *Node) (*Data, error) {
	shape, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	src1, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	dest, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	if src1 >= shape.Rank() || dest >= shape.Rank() {
		return nil, errors.Errorf("axes %d and %d must be within rank %d", src1, dest, shape.Rank())
	}
	result := shape.Clone()
	result.Dimensions[dest], result.Dimensions[src1] = result.Dimensions[src1], result.Dimensions[dest]
	return NewLegacyShapeData(result), nil
}

func (an *Analysis) makeCartesianProduct(src DataSource, n *Node) (*Data, error) {
	left, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	right, err := legacyShapeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if left.Rank() < 1 || left.Rank() > 2 || right.Rank() < 1 || right.Rank() > 2 {
		return nil, errors.Errorf("cartesian product operands must be vectors or matrices, got %s and %s", left, right)
	}
	c := left.Dim(left.Rank() - 1)
	if c != right.Dim(right.Rank()-1) {
		return nil, errors.Errorf("cartesian product last axes must match, got %s and %s", left, right)
	}
	dims := make([]int, 0, left.Rank()+right.Rank())
	dims = append(dims, left.Dimensions[:left.Rank()-1]...)
	dims = append(dims, right.Dimensions[:right.Rank()-1]...)
	dims = append(dims, 2, c)
	return NewLegacyShapeData(shapes.Make(dims...)), nil
}

func (an *Analysis) makeMapDotProduct(src DataSource, n *Node) (*Data, error) {
	shape, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	if shape.Rank() < 3 {
		return nil, errors.Errorf("map-dot-product requires rank of at least 3, got %s", shape)
	}
	if shape.Dim(shape.Rank()-2) != 2 {
		return nil, errors.Errorf("map-dot-product requires a pair axis of extent 2, got %s", shape)
	}
	return NewLegacyShapeData(shapes.Make(shape.Dimensions[:shape.Rank()-2]...)), nil
}

func (an *Analysis) makeSlice(src DataSource, n *Node) (*Data, error) {
	shape, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	low, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	high, err := usizeOperand(src, n.Op, n.Operands[3])
	if err != nil {
		return nil, err
	}
	if axis >= shape.Rank() {
		return nil, errors.Errorf("slice axis %d is out of range for %s", axis, shape)
	}
	newExtent, err := shapeinference.SliceBounds(shape.Dim(axis), low, high)
	if err != nil {
		return nil, errors.WithMessagef(err, "axis %d", axis)
	}
	result := shape.Clone()
	result.Dimensions[axis] = newExtent
	return NewLegacyShapeData(result), nil
}

func (an *Analysis) makeConcatenate(src DataSource, n *Node) (*Data, error) {
	left, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	right, err := legacyShapeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	axis, err := usizeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	if left.Rank() != right.Rank() {
		return nil, errors.Errorf("concatenation requires matching ranks, got %s and %s", left, right)
	}
	if axis >= left.Rank() {
		return nil, errors.Errorf("concatenation axis %d is out of range for %s", axis, left)
	}
	for d := range left.Rank() {
		if d != axis && left.Dim(d) != right.Dim(d) {
			return nil, errors.Errorf("extents of axis %d must match to concatenate along axis %d, got %s and %s",
				d, axis, left, right)
		}
	}
	result := left.Clone()
	result.Dimensions[axis] += right.Dim(axis)
	return NewLegacyShapeData(result), nil
}

func (an *Analysis) makeElementwiseAdd(src DataSource, n *Node) (*Data, error) {
	left, err := legacyShapeOperand(src, n.Op, n.Operands[0])
	if err != nil {
		return nil, err
	}
	right, err := legacyShapeOperand(src, n.Op, n.Operands[1])
	if err != nil {
		return nil, err
	}
	if !left.Equal(right) {
		return nil, errors.Errorf("elementwise addition requires equal shapes, got %s and %s", left, right)
	}
	return NewLegacyShapeData(left.Clone()), nil
}

func (an *Analysis) makeBsgSystolicArray(src DataSource, n *Node) (*Data, error) {
	if _, err := usizeOperand(src, n.Op, n.Operands[0]); err != nil {
		return nil, err
	}
	if _, err := usizeOperand(src, n.Op, n.Operands[1]); err != nil {
		return nil, err
	}
	left, err := legacyShapeOperand(src, n.Op, n.Operands[2])
	if err != nil {
		return nil, err
	}
	right, err := legacyShapeOperand(src, n.Op, n.Operands[3])
	if err != nil {
		return nil, err
	}
	if left.Rank() != 1 && left.Rank() != 2 {
		return nil, errors.Errorf("the left operand must be a vector or matrix, got %s", left)
	}
	if right.Rank() != 2 {
		return nil, errors.Errorf("the right operand must be a matrix, got %s", right)
	}
	dims := make([]int, 0, left.Rank())
	dims = append(dims, left.Dimensions[:left.Rank()-1]...)
	dims = append(dims, right.Dimensions[1:]...)
	return NewLegacyShapeData(shapes.Make(dims...)), nil
}
