package accessir

import (
	"strconv"
	"strings"

	"github.com/gomlx/accessir/types/shapes"
	"github.com/pkg/errors"
)

// builtinShapes are the canonical test tensors every analysis knows about,
// regardless of the environment it was constructed with.
var builtinShapes = map[string][]int{
	"in": {1, 784},
	"w1": {784, 512},
	"w2": {512, 512},
	"w3": {512, 10},

	"single-matrix-multiply-input-a": {32, 32},
	"single-matrix-multiply-input-b": {32, 32},
}

// resolveSymbol maps a leaf name to its tensor shape: first the built-in
// table, then the v-<n> and t-<d0>-<d1>-... naming patterns, then the
// externally supplied environment. An unresolved name is a fatal error for
// the program under analysis.
func (an *Analysis) resolveSymbol(name string) (shapes.Shape, error) {
	if dims, found := builtinShapes[name]; found {
		return shapes.Make(dims...), nil
	}
	if dims, ok := parseShapedName(name); ok {
		return shapes.Make(dims...), nil
	}
	if shape, found := an.nameToShape[name]; found {
		return shape.Clone(), nil
	}
	return shapes.Shape{}, errors.Errorf("no shape defined for symbol %q", name)
}

// parseShapedName recognizes the vector and tensor test-name families:
// v-<n> is a vector of length n, and t-<d0>-<d1>-... spells out its
// dimensions (so t-3-32-32 is a 3x32x32 tensor).
func parseShapedName(name string) ([]int, bool) {
	parts := strings.Split(name, "-")
	if len(parts) < 2 {
		return nil, false
	}
	switch parts[0] {
	case "v":
		if len(parts) != 2 {
			return nil, false
		}
	case "t":
	default:
		return nil, false
	}
	dims := make([]int, 0, len(parts)-1)
	for _, part := range parts[1:] {
		dim, err := strconv.Atoi(part)
		if err != nil || dim < 0 {
			return nil, false
		}
		dims = append(dims, dim)
	}
	return dims, true
}
