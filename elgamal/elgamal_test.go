package elgamal

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) (Params, *big.Int) {
	t.Helper()
	params, alpha, err := KeyGen(64)
	require.NoError(t, err)
	return params, alpha
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params, alpha := testParams(t)

	for _, m := range []int64{0, 1} {
		c, _, err := Encrypt(params, big.NewInt(m), nil)
		require.NoError(t, err)

		got, err := Decrypt(params, alpha, c, 4)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestHomomorphicSum(t *testing.T) {
	params, alpha := testParams(t)

	votes := []int64{1, 0, 1, 1, 0}
	var want int64
	var ciphertexts []Ciphertext
	for _, v := range votes {
		want += v
		c, _, err := Encrypt(params, big.NewInt(v), nil)
		require.NoError(t, err)
		ciphertexts = append(ciphertexts, c)
	}

	sum, err := HomomorphicSum(params, ciphertexts)
	require.NoError(t, err)

	got, err := Decrypt(params, alpha, sum, int64(len(votes)))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHomomorphicSumEmpty(t *testing.T) {
	params, _ := testParams(t)
	_, err := HomomorphicSum(params, nil)
	require.Error(t, err)
}

func TestRerandomizePreservesPlaintext(t *testing.T) {
	params, alpha := testParams(t)

	c, beta, err := Encrypt(params, big.NewInt(1), nil)
	require.NoError(t, err)

	c2, r, err := Rerandomize(params, c, nil)
	require.NoError(t, err)
	require.NotEqual(t, 0, r.Cmp(big.NewInt(0)))
	require.False(t, c.V.IsEqual(c2.V), "rerandomization must change the ciphertext encoding")

	got, err := Decrypt(params, alpha, c2, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), got)

	// beta is only asserted non-nil to document Encrypt's return contract.
	require.NotNil(t, beta)
}

func TestDecryptOutOfRange(t *testing.T) {
	params, alpha := testParams(t)

	c, _, err := Encrypt(params, big.NewInt(3), nil)
	require.NoError(t, err)

	_, err = Decrypt(params, alpha, c, 2)
	require.Error(t, err)
}
