package rangeproof

import (
	"math/big"
	"testing"

	"github.com/kaarelvoter/evote-core/bulletproofs"
	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/group"
	"github.com/stretchr/testify/require"
)

const demoBits = 64

func newTallyFixture(t *testing.T, sum int64) (elgamal.Params, *big.Int, elgamal.Ciphertext, bulletproofs.BulletProofSetupParams) {
	t.Helper()

	params, alpha, err := elgamal.KeyGen(demoBits)
	require.NoError(t, err)

	cStar, _, err := elgamal.Encrypt(params, big.NewInt(sum), nil)
	require.NoError(t, err)

	bpParams, err := Setup(8, group.P256())
	require.NoError(t, err)

	return params, alpha, cStar, bpParams
}

func TestProveVerifyRoundTrip(t *testing.T) {
	params, alpha, cStar, bpParams := newTallyFixture(t, 5)

	rp, err := Prove(params, alpha, cStar, 5, bpParams)
	require.NoError(t, err)

	require.NoError(t, Verify(params, cStar, 5, rp))
}

func TestVerifyRejectsWrongSum(t *testing.T) {
	params, alpha, cStar, bpParams := newTallyFixture(t, 5)

	rp, err := Prove(params, alpha, cStar, 5, bpParams)
	require.NoError(t, err)

	err = Verify(params, cStar, 6, rp)
	require.Error(t, err)
}

func TestVerifyRejectsTamperedConsistencyProof(t *testing.T) {
	params, alpha, cStar, bpParams := newTallyFixture(t, 5)

	rp, err := Prove(params, alpha, cStar, 5, bpParams)
	require.NoError(t, err)

	rp.Consistency.S = new(big.Int).Add(rp.Consistency.S, big.NewInt(1))

	err = Verify(params, cStar, 5, rp)
	require.Error(t, err)
}

func TestVerifyRejectsTamperedGamma(t *testing.T) {
	params, alpha, cStar, bpParams := newTallyFixture(t, 5)

	rp, err := Prove(params, alpha, cStar, 5, bpParams)
	require.NoError(t, err)

	rp.Gamma = new(big.Int).Add(rp.Gamma, big.NewInt(1))

	err = Verify(params, cStar, 5, rp)
	require.Error(t, err)
}

func TestVerifyRejectsSumOutsideBulletproofCapacity(t *testing.T) {
	// bpParams is set up for a capacity of 8; 5000 overflows that
	// range, so even a proof honestly built for a ciphertext that
	// really does encrypt 5000 must fail the Bulletproofs range check.
	params, alpha, _, bpParams := newTallyFixture(t, 5)

	cStar, _, err := elgamal.Encrypt(params, big.NewInt(5000), nil)
	require.NoError(t, err)

	rp, err := Prove(params, alpha, cStar, 5000, bpParams)
	require.NoError(t, err)

	err = Verify(params, cStar, 5000, rp)
	require.Error(t, err)
}
