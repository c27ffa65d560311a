// Package types defines the scalar enums shared by the IR and its analysis:
// ComputeType (what a compute node does to each item) and PadType (which
// value a pad node fills with).
//
// The textual forms below are the canonical spellings used by the surface
// syntax, so they are maintained by hand -- some of them (relu for ReLU) are
// not mechanical transliterations of the Go names.
package types

import "github.com/pkg/errors"

// ComputeType selects the computation a compute node applies to the items of
// its access-pattern operand.
type ComputeType int

const (
	InvalidComputeType ComputeType = iota
	DotProduct
	ReduceSum
	ReduceMax
	ReduceMean
	ReLU
	Sqrt
	Negative
	ElementwiseAdd
	ElementwiseMul
	ElementwiseDiv
	Softmax
)

var (
	computeTypeNames = map[ComputeType]string{
		DotProduct:     "dot-product",
		ReduceSum:      "reduce-sum",
		ReduceMax:      "reduce-max",
		ReduceMean:     "reduce-mean",
		ReLU:           "relu",
		Sqrt:           "sqrt",
		Negative:       "negative",
		ElementwiseAdd: "elementwise-add",
		ElementwiseMul: "elementwise-mul",
		ElementwiseDiv: "elementwise-div",
		Softmax:        "softmax",
	}
	computeTypesByName = make(map[string]ComputeType, len(computeTypeNames))
)

func init() {
	for c, name := range computeTypeNames {
		computeTypesByName[name] = c
	}
}

// String returns the canonical spelling, or "invalid" for the zero value.
func (c ComputeType) String() string {
	if name, ok := computeTypeNames[c]; ok {
		return name
	}
	return "invalid"
}

// ComputeTypeFromString parses a canonical spelling.
func ComputeTypeFromString(name string) (ComputeType, error) {
	if c, ok := computeTypesByName[name]; ok {
		return c, nil
	}
	return InvalidComputeType, errors.Errorf("unknown compute type %q", name)
}

// PadType selects the value a pad node fills new positions with.
type PadType int

const (
	InvalidPadType PadType = iota

	// ZeroPadding pads with zeroes, the additive identity. It is the only
	// pad type the zero-region analysis can track.
	ZeroPadding

	// MinPadding pads with the minimum representable number, used below
	// max-pooling style reductions.
	MinPadding
)

var (
	padTypeNames = map[PadType]string{
		ZeroPadding: "zero-padding",
		MinPadding:  "min-padding",
	}
	padTypesByName = make(map[string]PadType, len(padTypeNames))
)

func init() {
	for p, name := range padTypeNames {
		padTypesByName[name] = p
	}
}

// String returns the canonical spelling, or "invalid" for the zero value.
func (p PadType) String() string {
	if name, ok := padTypeNames[p]; ok {
		return name
	}
	return "invalid"
}

// PadTypeFromString parses a canonical spelling.
func PadTypeFromString(name string) (PadType, error) {
	if p, ok := padTypesByName[name]; ok {
		return p, nil
	}
	return InvalidPadType, errors.Errorf("unknown pad type %q", name)
}
