package accessir

import (
	"testing"

	"github.com/gomlx/accessir/types"
	"github.com/gomlx/accessir/types/rangeset"
	"github.com/gomlx/accessir/types/shapes"
	"github.com/stretchr/testify/require"
)

func accessWithCover(axis int, cover rangeset.RangeSet, dims ...int) *Data {
	a := &AccessPattern{
		Shape:     shapes.Make(dims[:1]...),
		ItemShape: shapes.Make(dims[1:]...),
	}
	if cover != nil {
		a.ZeroRegions = map[int]rangeset.RangeSet{axis: cover}
	}
	return NewAccessData(a)
}

func TestMergeAdoptsMissingCover(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(0, nil, 8, 32)
	from := accessWithCover(0, rangeset.RangeSet{true, true, false}, 8, 32)

	changed, err := an.Merge(to, from)
	require.NoError(t, err)
	require.True(t, changed, "adopting a cover mutates the target")

	toAccess, err := to.Access()
	require.NoError(t, err)
	require.True(t, toAccess.Cover(0).Covered(0, 2))

	// The adopted cover is a copy, not a shared slice.
	fromAccess, _ := from.Access()
	fromAccess.ZeroRegions[0][2] = true
	require.False(t, toAccess.Cover(0).Covered(2, 3))
}

func TestMergeIsAFixpoint(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(1, rangeset.RangeSet{true, false, false}, 8, 32)
	from := accessWithCover(1, rangeset.RangeSet{false, false, true, true}, 8, 32)

	changed, err := an.Merge(to, from)
	require.NoError(t, err)
	require.True(t, changed)

	toAccess, _ := to.Access()
	require.True(t, toAccess.Cover(1).Covered(2, 4))
	require.True(t, toAccess.Cover(1).Covered(0, 1))
	require.False(t, toAccess.Cover(1).Covered(1, 2))

	// The join is idempotent: merging the same information again is a
	// no-op, and the host schedules no rebuild.
	changed, err = an.Merge(to, from)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestMergeSkipsUninformativeCovers(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(0, nil, 8, 32)
	from := accessWithCover(0, rangeset.RangeSet{false, false, false}, 8, 32)

	changed, err := an.Merge(to, from)
	require.NoError(t, err)
	require.False(t, changed, "an all-false cover carries no information")

	toAccess, _ := to.Access()
	require.False(t, toAccess.HasZeroRegions())
}

func TestMergeDominatedCoverIsANoOp(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(0, rangeset.RangeSet{true, true, true, false}, 8, 32)
	from := accessWithCover(0, rangeset.RangeSet{true, false, true}, 8, 32)

	changed, err := an.Merge(to, from)
	require.NoError(t, err)
	require.False(t, changed, "the target already dominates the source")
}

func TestMergeShapeMismatchFails(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(0, nil, 8, 32)
	from := accessWithCover(0, nil, 4, 32)
	_, err := an.Merge(to, from)
	require.Error(t, err)

	from2 := accessWithCover(0, nil, 8, 16)
	_, err = an.Merge(to, from2)
	require.Error(t, err)
}

func TestMergeNonAccessVariants(t *testing.T) {
	an := NewAnalysis(nil)

	changed, err := an.Merge(NewUsizeData(3), NewUsizeData(3))
	require.NoError(t, err)
	require.False(t, changed)

	_, err = an.Merge(NewUsizeData(3), NewUsizeData(4))
	require.Error(t, err)

	changed, err = an.Merge(NewShapeData(shapes.Make(2, 3)), NewShapeData(shapes.Make(2, 3)))
	require.NoError(t, err)
	require.False(t, changed)

	_, err = an.Merge(NewShapeData(shapes.Make(2, 3)), NewShapeData(shapes.Make(3, 2)))
	require.Error(t, err)

	_, err = an.Merge(NewComputeTypeData(types.ReduceSum), NewComputeTypeData(types.ReduceMax))
	require.Error(t, err)

	_, err = an.Merge(NewPadTypeData(types.ZeroPadding), NewUsizeData(1))
	require.Error(t, err, "different kinds never merge")

	changed, err = an.Merge(NewListData([]int{1, 0}), NewListData([]int{1, 0}))
	require.NoError(t, err)
	require.False(t, changed)
}

func TestMergeDifferentCoverLengths(t *testing.T) {
	an := NewAnalysis(nil)
	to := accessWithCover(0, rangeset.RangeSet{true}, 8, 32)
	from := accessWithCover(0, rangeset.RangeSet{false, false, false, true}, 8, 32)

	changed, err := an.Merge(to, from)
	require.NoError(t, err)
	require.True(t, changed, "a true bit past the target's end is new information")

	toAccess, _ := to.Access()
	require.True(t, toAccess.Cover(0).Covered(0, 1))
	require.True(t, toAccess.Cover(0).Covered(3, 4))
	require.False(t, toAccess.Cover(0).Covered(1, 3))
	require.Len(t, toAccess.Cover(0), 4)
}
