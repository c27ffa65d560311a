// Package shapes defines Shape, the dimension lists manipulated by the
// access-pattern IR and its analysis.
//
// A Shape is an ordered list of non-negative extents. Extents of 1 are legal
// and meaningful for broadcasting. There is no element type attached: the IR
// models a single floating-point element type throughout.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Shape is a list of axis extents.
type Shape struct {
	Dimensions []int
}

// Make returns a Shape with the given dimensions. A call with no dimensions
// returns the scalar (rank-0) shape.
func Make(dimensions ...int) Shape {
	return Shape{Dimensions: slices.Clone(dimensions)}
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s.Dimensions)
}

// IsScalar reports whether the shape has rank 0.
func (s Shape) IsScalar() bool {
	return len(s.Dimensions) == 0
}

// Dim returns the extent of the given axis.
func (s Shape) Dim(axis int) int {
	return s.Dimensions[axis]
}

// Size returns the product of all extents: the number of elements a tensor
// of this shape holds. The empty product is 1, so a scalar has size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	return Shape{Dimensions: slices.Clone(s.Dimensions)}
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s.Dimensions, other.Dimensions)
}

// Concat returns the concatenation of s's axes followed by other's.
func (s Shape) Concat(other Shape) Shape {
	dims := make([]int, 0, len(s.Dimensions)+len(other.Dimensions))
	dims = append(dims, s.Dimensions...)
	dims = append(dims, other.Dimensions...)
	return Shape{Dimensions: dims}
}

// Insert returns a copy of s with a new axis of the given extent inserted at
// position axis. It returns an error if axis > s.Rank().
func (s Shape) Insert(axis, extent int) (Shape, error) {
	if axis < 0 || axis > s.Rank() {
		return Shape{}, errors.Errorf("invalid axis %d to insert into shape %s", axis, s)
	}
	dims := make([]int, 0, len(s.Dimensions)+1)
	dims = append(dims, s.Dimensions[:axis]...)
	dims = append(dims, extent)
	dims = append(dims, s.Dimensions[axis:]...)
	return Shape{Dimensions: dims}, nil
}

// Remove returns a copy of s without the given axis. It returns an error if
// axis >= s.Rank().
func (s Shape) Remove(axis int) (Shape, error) {
	if axis < 0 || axis >= s.Rank() {
		return Shape{}, errors.Errorf("invalid axis %d to remove from shape %s", axis, s)
	}
	dims := make([]int, 0, len(s.Dimensions)-1)
	dims = append(dims, s.Dimensions[:axis]...)
	dims = append(dims, s.Dimensions[axis+1:]...)
	return Shape{Dimensions: dims}, nil
}

// SliceFrom returns the suffix of s starting at the given axis, so
// SliceFrom(0) is a copy of s and SliceFrom(s.Rank()) is the scalar shape.
// It returns an error if axis > s.Rank().
func (s Shape) SliceFrom(axis int) (Shape, error) {
	if axis < 0 || axis > s.Rank() {
		return Shape{}, errors.Errorf("invalid axis %d to slice shape %s", axis, s)
	}
	return Shape{Dimensions: slices.Clone(s.Dimensions[axis:])}, nil
}

// CheckDims returns an error if the shape's dimensions differ from the ones
// given.
func (s Shape) CheckDims(dimensions ...int) error {
	if !slices.Equal(s.Dimensions, dimensions) {
		return errors.Errorf("shape %s does not match dimensions %v", s, dimensions)
	}
	return nil
}

// String implements fmt.Stringer. Shapes print like "[3, 32, 32]".
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, dim := range s.Dimensions {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", dim)
	}
	b.WriteByte(']')
	return b.String()
}
