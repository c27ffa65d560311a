// Package shapeinference holds the pure shape arithmetic shared by the
// operator dispatch: axis permutation, window extents, broadcasting,
// slicing bounds and reshape compatibility.
//
// Every function here is a total function of its inputs; the operator
// dispatch in the root package layers the access-pattern bookkeeping (outer
// versus item halves, zero-region covers) on top.
package shapeinference

import (
	"slices"

	"github.com/gomlx/accessir/internal/utils"
	"github.com/gomlx/accessir/types/shapes"
	"github.com/pkg/errors"
)

// Transpose reorders dims by the given permutation: output[i] =
// dims[permutation[i]]. The permutation must mention every axis exactly
// once.
func Transpose(dims []int, permutation []int) ([]int, error) {
	rank := len(dims)
	if len(permutation) != rank {
		return nil, errors.Errorf("permutation must have one entry per axis: got %d entries for rank %d", len(permutation), rank)
	}
	seen := utils.MakeSet[int](rank)
	for _, srcAxis := range permutation {
		if srcAxis < 0 || srcAxis >= rank {
			return nil, errors.Errorf("invalid permutation axis %d for rank %d", srcAxis, rank)
		}
		if seen.Has(srcAxis) {
			return nil, errors.Errorf("invalid permutation %v: axis %d appears more than once", permutation, srcAxis)
		}
		seen.Insert(srcAxis)
	}
	output := make([]int, rank)
	for axis, srcAxis := range permutation {
		output[axis] = dims[srcAxis]
	}
	return output, nil
}

// IsIdentityPermutation reports whether the permutation maps every axis to
// itself.
func IsIdentityPermutation(permutation []int) bool {
	for i, v := range permutation {
		if i != v {
			return false
		}
	}
	return true
}

// Windows returns the outer shape produced by sliding a filters-shaped
// window with the given strides over an input of the given shape: for each
// axis, ceil((extent - filter + 1) / stride). Every extent must be at least
// its filter.
func Windows(input, filters, strides shapes.Shape) (shapes.Shape, error) {
	if filters.Rank() != input.Rank() || strides.Rank() != input.Rank() {
		return shapes.Shape{}, errors.Errorf("windows over %s requires filter and stride shapes of the same rank, got %s and %s",
			input, filters, strides)
	}
	output := make([]int, input.Rank())
	for axis := range output {
		extent, filter, stride := input.Dim(axis), filters.Dim(axis), strides.Dim(axis)
		if extent < filter {
			return shapes.Shape{}, errors.Errorf("axis %d extent %d is smaller than its window %d", axis, extent, filter)
		}
		if stride < 1 {
			return shapes.Shape{}, errors.Errorf("axis %d stride must be positive, got %d", axis, stride)
		}
		spots := extent - (filter - 1)
		output[axis] = (spots + stride - 1) / stride
	}
	return shapes.Make(output...), nil
}

// Broadcast checks that from can broadcast to to -- equal rank, and every
// axis either matching or of extent 1 -- and returns the target dims.
func Broadcast(from, to []int) ([]int, error) {
	if len(from) != len(to) {
		return nil, errors.Errorf("broadcast requires equal ranks, got %v and %v", from, to)
	}
	for axis, fromDim := range from {
		if fromDim != 1 && fromDim != to[axis] {
			return nil, errors.Errorf("axis %d extent must be 1 or %d to broadcast, got %d", axis, to[axis], fromDim)
		}
	}
	return slices.Clone(to), nil
}

// SliceBounds validates a half-open slice [low, high) of an axis of the
// given extent and returns the sliced extent.
func SliceBounds(extent, low, high int) (int, error) {
	if low < 0 || low >= extent {
		return 0, errors.Errorf("slice low bound %d is out of range for extent %d", low, extent)
	}
	if high <= low || high > extent {
		return 0, errors.Errorf("slice bounds [%d, %d) are invalid for extent %d", low, high, extent)
	}
	return high - low, nil
}

// CheckReshape returns an error unless both shapes hold the same number of
// elements.
func CheckReshape(from, to shapes.Shape) error {
	if from.Size() != to.Size() {
		return errors.Errorf("cannot reshape %s (%d elements) into %s (%d elements)",
			from, from.Size(), to, to.Size())
	}
	return nil
}
