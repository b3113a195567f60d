// Package rangeproof implements an optional auxiliary check on a
// completed tally: independent evidence that the decrypted sum lies
// in range and genuinely corresponds to the aggregate ciphertext,
// for auditors who do not want to rely solely on the correctness of
// bounded discrete-log recovery. It binds a Bulletproofs range proof
// (over an elliptic-curve group, following bulletproofs.Setup/Prove)
// to the ElGamal aggregate via a Schnorr proof of knowledge of the
// election private key consistent with the announced sum.
package rangeproof

import (
	"crypto/sha256"
	"math/big"

	"github.com/kaarelvoter/evote-core/bulletproofs"
	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
	"github.com/kaarelvoter/evote-core/util"
)

// ConsistencyProof proves knowledge of the ElGamal private key alpha
// such that e = v^alpha · g^sum, without revealing alpha, tying a
// publicly announced sum to a specific ciphertext.
type ConsistencyProof struct {
	A group.Element
	C *big.Int
	S *big.Int
}

// RangeProof binds a Bulletproofs range proof of sum to the ElGamal
// aggregate ciphertext that decrypts to it. Gamma is revealed because
// sum is already public once a tally is announced; only alpha, proven
// via Consistency, stays hidden.
type RangeProof struct {
	Bulletproof bulletproofs.BulletProof
	Gamma       *big.Int
	Consistency *ConsistencyProof
}

// Setup builds Bulletproofs parameters over ecGroup for a range
// [0, 2^n) that contains [0, voterCountCap]. bulletproofs.Setup needs
// both the range end and its exponent n to be powers of two, so n is
// the bit length of voterCountCap rounded up to a power of two.
func Setup(voterCountCap int64, ecGroup group.Group) (bulletproofs.BulletProofSetupParams, error) {
	bits := nextPowerOfTwo(int64(big.NewInt(voterCountCap).BitLen()))
	return bulletproofs.Setup(int64(1)<<bits, ecGroup)
}

// Prove builds a RangeProof that cStar decrypts to sum under params
// and alpha, and that sum lies in the range bpParams was set up for.
func Prove(params elgamal.Params, alpha *big.Int, cStar elgamal.Ciphertext, sum int64, bpParams bulletproofs.BulletProofSetupParams) (*RangeProof, error) {
	sumBig := big.NewInt(sum)

	bp, gamma, err := bulletproofs.Prove(sumBig, bpParams)
	if err != nil {
		return nil, errs.Wrap(errs.ParameterError, "bulletproof generation failed", err)
	}

	consistency, err := proveConsistency(params, alpha, cStar, sum)
	if err != nil {
		return nil, err
	}

	return &RangeProof{Bulletproof: bp, Gamma: gamma, Consistency: consistency}, nil
}

// Verify checks that rp's Bulletproof and consistency proof both
// hold for the announced sum against cStar.
func Verify(params elgamal.Params, cStar elgamal.Ciphertext, sum int64, rp *RangeProof) error {
	ok, err := rp.Bulletproof.Verify()
	if err != nil || !ok {
		return errs.Wrap(errs.InvalidProof, "bulletproof range verification failed", err)
	}

	bpParams := rp.Bulletproof.Params
	wantV := util.PedersenCommit(big.NewInt(sum), rp.Gamma, bpParams.H, bpParams.GP)
	if !wantV.IsEqual(rp.Bulletproof.V) {
		return errs.New(errs.InvalidProof, "range commitment does not open to the announced sum")
	}

	return verifyConsistency(params, cStar, sum, rp.Consistency)
}

func proveConsistency(params elgamal.Params, alpha *big.Int, cStar elgamal.Ciphertext, sum int64) (*ConsistencyProof, error) {
	q := params.G.N()
	k, err := group.RandomScalar(q)
	if err != nil {
		return nil, err
	}

	A := params.G.Element().Scale(cStar.V, k)
	c := consistencyChallenge(params, cStar, sum, A)

	s := new(big.Int).Mul(c, alpha)
	s.Add(s, k)
	s.Mod(s, q)

	return &ConsistencyProof{A: A, C: c, S: s}, nil
}

func verifyConsistency(params elgamal.Params, cStar elgamal.Ciphertext, sum int64, proof *ConsistencyProof) error {
	c := consistencyChallenge(params, cStar, sum, proof.A)
	if c.Cmp(proof.C) != 0 {
		return errs.New(errs.InvalidProof, "consistency challenge mismatch")
	}

	target := params.G.Element().Subtract(cStar.E, params.G.Element().BaseScale(big.NewInt(sum)))
	lhs := params.G.Element().Scale(cStar.V, proof.S)
	rhs := params.G.Element().Add(proof.A, params.G.Element().Scale(target, proof.C))
	if !lhs.IsEqual(rhs) {
		return errs.New(errs.InvalidProof, "consistency proof failed")
	}
	return nil
}

func consistencyChallenge(params elgamal.Params, cStar elgamal.Ciphertext, sum int64, A group.Element) *big.Int {
	b := encoding.NewBuilder().Int(params.G.P()).Int(params.G.N()).Int(big.NewInt(sum))

	vBytes, _ := cStar.V.MarshalBinary()
	eBytes, _ := cStar.E.MarshalBinary()
	aBytes, _ := A.MarshalBinary()
	b.Bytes(vBytes).Bytes(eBytes).Bytes(aBytes)

	digest := sha256.Sum256(b.Build())
	h := new(big.Int).SetBytes(digest[:])
	return h.Mod(h, params.G.N())
}

func nextPowerOfTwo(n int64) int64 {
	p := int64(1)
	for p < n {
		p <<= 1
	}
	return p
}
