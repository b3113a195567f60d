package group

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenSafePrime(t *testing.T) {
	p, q, err := GenSafePrime(64)
	require.NoError(t, err)
	require.True(t, p.ProbablyPrime(32))
	require.True(t, q.ProbablyPrime(32))

	// p = 2q+1.
	want := new(big.Int).Lsh(q, 1)
	want.Add(want, big.NewInt(1))
	require.Equal(t, 0, p.Cmp(want))
}

func TestGenSafePrimeRejectsTinyBitLength(t *testing.T) {
	_, _, err := GenSafePrime(1)
	require.Error(t, err)
}

func TestFindGenerator(t *testing.T) {
	p, q, err := GenSafePrime(48)
	require.NoError(t, err)

	g, err := FindGenerator(p, q)
	require.NoError(t, err)

	require.NotEqual(t, 0, big.NewInt(1).Cmp(g))
	require.Equal(t, 0, new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1)))
	require.NotEqual(t, 0, new(big.Int).Exp(g, big.NewInt(2), p).Cmp(big.NewInt(1)))
}

func TestNewModPGroupFromSafePrime(t *testing.T) {
	p, _, err := GenSafePrime(48)
	require.NoError(t, err)

	g, err := NewModPGroupFromSafePrime("test", p)
	require.NoError(t, err)
	require.Equal(t, 0, g.P().Cmp(p))
}

func TestRandomScalarRange(t *testing.T) {
	q := big.NewInt(101)
	for i := 0; i < 200; i++ {
		r, err := RandomScalar(q)
		require.NoError(t, err)
		require.True(t, r.Sign() > 0)
		require.True(t, r.Cmp(q) < 0)
	}
}

func TestDiscreteLogBounded(t *testing.T) {
	for _, g := range allGroups {
		t.Run(g.Name(), func(t *testing.T) {
			for _, k := range []int64{0, 1, 5, 17} {
				h := g.Element().BaseScale(big.NewInt(k))
				got, err := DiscreteLogBounded(g, h, 32)
				require.NoError(t, err)
				require.Equal(t, k, got)
			}
		})
	}
}

func TestDiscreteLogBoundedOutOfRange(t *testing.T) {
	g := RFC3526ModPGroup3072
	h := g.Element().BaseScale(big.NewInt(50))
	_, err := DiscreteLogBounded(g, h, 10)
	require.Error(t, err)
}
