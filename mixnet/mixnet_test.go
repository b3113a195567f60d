package mixnet

import (
	"math/big"
	"testing"

	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) elgamal.Params {
	t.Helper()
	params, _, err := elgamal.KeyGen(64)
	require.NoError(t, err)
	return params
}

func encryptBallots(t *testing.T, params elgamal.Params, bits []int64) []elgamal.Ciphertext {
	t.Helper()
	cs := make([]elgamal.Ciphertext, len(bits))
	for i, b := range bits {
		c, _, err := elgamal.Encrypt(params, big.NewInt(b), nil)
		require.NoError(t, err)
		cs[i] = c
	}
	return cs
}

func TestMixPreservesPlaintextSum(t *testing.T) {
	params, alpha, err := elgamal.KeyGen(64)
	require.NoError(t, err)

	votes := []int64{1, 0, 1, 1, 0, 1}
	X := encryptBallots(t, params, votes)

	Y, proof, err := Mix(params, X)
	require.NoError(t, err)
	require.Len(t, Y, len(X))

	require.NoError(t, Verify(params, X, Y, proof))

	sumBefore, err := elgamal.HomomorphicSum(params, X)
	require.NoError(t, err)
	mBefore, err := elgamal.Decrypt(params, alpha, sumBefore, int64(len(votes)))
	require.NoError(t, err)

	sumAfter, err := elgamal.HomomorphicSum(params, Y)
	require.NoError(t, err)
	mAfter, err := elgamal.Decrypt(params, alpha, sumAfter, int64(len(votes)))
	require.NoError(t, err)

	require.Equal(t, mBefore, mAfter)
}

func TestVerifyRejectsTamperedOutput(t *testing.T) {
	params := testParams(t)
	X := encryptBallots(t, params, []int64{1, 0, 1})

	Y, proof, err := Mix(params, X)
	require.NoError(t, err)

	Y[0].E = params.G.Element().Add(Y[0].E, params.G.Generator())

	require.Error(t, Verify(params, X, Y, proof))
}

func TestVerifyRejectsForgedOffset(t *testing.T) {
	params := testParams(t)
	X := encryptBallots(t, params, []int64{1, 0, 1})

	Y, proof, err := Mix(params, X)
	require.NoError(t, err)

	forged := *proof
	forged.R = new(big.Int).Add(proof.R, big.NewInt(1))

	require.Error(t, Verify(params, X, Y, &forged))
}

func TestMixRejectsEmptyBatch(t *testing.T) {
	params := testParams(t)
	_, _, err := Mix(params, nil)
	require.Error(t, err)
}
