package nizk

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

func TestProveVerifyCompleteness(t *testing.T) {
	params := testParams(t)

	for _, bit := range []int{0, 1} {
		c, beta, err := elgamal.Encrypt(params, big.NewInt(int64(bit)), nil)
		require.NoError(t, err)

		proof, err := Prove(params, c, beta, bit)
		require.NoError(t, err)

		require.NoError(t, Verify(params, c, proof))
	}
}

func TestProveRejectsBadBit(t *testing.T) {
	params := testParams(t)
	_, beta, err := elgamal.Encrypt(params, big.NewInt(0), nil)
	require.NoError(t, err)

	_, err = Prove(params, elgamal.Ciphertext{}, beta, 2)
	require.Error(t, err)
}

func TestVerifyRejectsMismatchedBit(t *testing.T) {
	params := testParams(t)

	c, beta, err := elgamal.Encrypt(params, big.NewInt(1), nil)
	require.NoError(t, err)

	// Proving with the wrong claimed bit produces a proof for a
	// statement the ciphertext does not satisfy.
	proof, err := Prove(params, c, beta, 0)
	require.NoError(t, err)

	require.Error(t, Verify(params, c, proof))
}

func TestVerifyRejectsTamperedCiphertext(t *testing.T) {
	params := testParams(t)

	c, beta, err := elgamal.Encrypt(params, big.NewInt(1), nil)
	require.NoError(t, err)

	proof, err := Prove(params, c, beta, 1)
	require.NoError(t, err)

	tampered := c
	tampered.E = params.G.Element().Add(c.E, params.G.Generator())

	require.Error(t, Verify(params, tampered, proof))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	params := testParams(t)

	c, beta, err := elgamal.Encrypt(params, big.NewInt(0), nil)
	require.NoError(t, err)

	proof, err := Prove(params, c, beta, 0)
	require.NoError(t, err)

	tampered := *proof
	tampered.R[0] = new(big.Int).Add(proof.R[0], big.NewInt(1))

	require.Error(t, Verify(params, c, &tampered))
}
