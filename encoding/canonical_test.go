package encoding

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderDeterministic(t *testing.T) {
	a := NewBuilder().Int(big.NewInt(7)).String("voter-1").Build()
	b := NewBuilder().Int(big.NewInt(7)).String("voter-1").Build()
	require.Equal(t, a, b)
}

func TestBuilderDistinguishesFieldBoundaries(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc": length prefixes must
	// separate the two encodings even though the concatenated payload
	// bytes are identical.
	a := NewBuilder().String("ab").String("c").Build()
	b := NewBuilder().String("a").String("bc").Build()
	require.NotEqual(t, a, b)
}

func TestBuilderIntZeroValue(t *testing.T) {
	a := NewBuilder().Int(big.NewInt(0)).Build()
	b := NewBuilder().Int(nil).Build()
	require.Equal(t, a, b, "a nil big.Int and zero must encode identically")
}
