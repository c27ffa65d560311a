package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTypeRoundTrip(t *testing.T) {
	all := []ComputeType{
		DotProduct, ReduceSum, ReduceMax, ReduceMean, ReLU, Sqrt, Negative,
		ElementwiseAdd, ElementwiseMul, ElementwiseDiv, Softmax,
	}
	for _, c := range all {
		parsed, err := ComputeTypeFromString(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}
	require.Equal(t, "relu", ReLU.String())
	require.Equal(t, "dot-product", DotProduct.String())

	_, err := ComputeTypeFromString("re-l-u")
	require.Error(t, err)
	require.Equal(t, "invalid", InvalidComputeType.String())
}

func TestPadTypeRoundTrip(t *testing.T) {
	for _, p := range []PadType{ZeroPadding, MinPadding} {
		parsed, err := PadTypeFromString(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
	_, err := PadTypeFromString("max-padding")
	require.Error(t, err)
}
