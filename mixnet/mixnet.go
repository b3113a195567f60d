// Package mixnet implements a re-encryption mix: a uniformly random
// permutation of a ciphertext batch, each entry re-randomized under a
// fresh blinding factor, together with a proof that the aggregate
// plaintext sum was preserved. This is weaker than a full shuffle
// proof (it does not bind any individual input ciphertext to its
// output position) but is sufficient for additive tallying, where
// only the sum of the mixed batch is ever decrypted.
package mixnet

import (
	"crypto/rand"
	"math/big"

	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
	"golang.org/x/crypto/sha3"
)

// Proof accompanies a mixed batch. R is the aggregate re-encryption
// offset Σr_i mod q, revealed in the clear; T and S are a Schnorr
// proof of knowledge of R against the commitment g^R, binding R to
// the transcript that produced it.
type Proof struct {
	R *big.Int
	T group.Element
	S *big.Int
}

// Mix returns a uniformly permuted, re-randomized copy of X along
// with a Proof of aggregate sum preservation.
func Mix(params elgamal.Params, X []elgamal.Ciphertext) ([]elgamal.Ciphertext, *Proof, error) {
	n := len(X)
	if n == 0 {
		return nil, nil, errs.New(errs.ParameterError, "mix of empty batch")
	}

	perm, err := randomPermutation(n)
	if err != nil {
		return nil, nil, err
	}

	q := params.G.N()
	R := big.NewInt(0)
	Y := make([]elgamal.Ciphertext, n)
	for i, srcIdx := range perm {
		c, r, err := elgamal.Rerandomize(params, X[srcIdx], nil)
		if err != nil {
			return nil, nil, err
		}
		Y[i] = c
		R.Add(R, r)
		R.Mod(R, q)
	}

	prodX, err := elgamal.HomomorphicSum(params, X)
	if err != nil {
		return nil, nil, err
	}
	prodY, err := elgamal.HomomorphicSum(params, Y)
	if err != nil {
		return nil, nil, err
	}

	k, err := group.RandomScalar(q)
	if err != nil {
		return nil, nil, err
	}
	T := params.G.Element().BaseScale(k)

	c := mixChallenge(params, prodX, prodY, T)
	s := new(big.Int).Mul(c, R)
	s.Add(s, k)
	s.Mod(s, q)

	return Y, &Proof{R: R, T: T, S: s}, nil
}

// Verify checks that Y, together with proof, is a valid re-encryption
// mix of X: the aggregate plaintext sum is preserved and proof.R is
// consistently the aggregate offset used to produce it.
func Verify(params elgamal.Params, X, Y []elgamal.Ciphertext, proof *Proof) error {
	if len(X) != len(Y) {
		return errs.New(errs.MixProofInvalid, "input and output batch sizes differ")
	}

	prodX, err := elgamal.HomomorphicSum(params, X)
	if err != nil {
		return errs.Wrap(errs.MixProofInvalid, "failed to aggregate input batch", err)
	}
	prodY, err := elgamal.HomomorphicSum(params, Y)
	if err != nil {
		return errs.Wrap(errs.MixProofInvalid, "failed to aggregate output batch", err)
	}

	expectedYV := params.G.Element().Add(prodX.V, params.G.Element().BaseScale(proof.R))
	if !expectedYV.IsEqual(prodY.V) {
		return errs.New(errs.MixProofInvalid, "aggregate V does not match claimed offset")
	}

	expectedYE := params.G.Element().Add(prodX.E, params.G.Element().Scale(params.U, proof.R))
	if !expectedYE.IsEqual(prodY.E) {
		return errs.New(errs.MixProofInvalid, "aggregate E does not match claimed offset")
	}

	c := mixChallenge(params, prodX, prodY, proof.T)

	commitment := params.G.Element().BaseScale(proof.R)
	lhs := params.G.Element().BaseScale(proof.S)
	rhs := params.G.Element().Add(proof.T, params.G.Element().Scale(commitment, c))
	if !lhs.IsEqual(rhs) {
		return errs.New(errs.MixProofInvalid, "Schnorr proof of knowledge of R failed")
	}

	return nil
}

// mixChallenge derives the Fiat-Shamir challenge for the aggregate
// offset Schnorr proof from the aggregated input/output products and
// the prover's commitment, using SHA3-256 to keep the mixnet
// transcript hash distinct from the SHA-256 transcript nizk uses.
func mixChallenge(params elgamal.Params, prodX, prodY elgamal.Ciphertext, T group.Element) *big.Int {
	b := encoding.NewBuilder()
	b.Int(params.G.P()).Int(params.G.N())

	elems := []group.Element{prodX.V, prodX.E, prodY.V, prodY.E, T}
	for _, el := range elems {
		enc, _ := el.MarshalBinary()
		b.Bytes(enc)
	}

	digest := sha3.Sum256(b.Build())
	h := new(big.Int).SetBytes(digest[:])
	return h.Mod(h, params.G.N())
}

// randomPermutation returns a uniformly random permutation of
// [0, n) via Fisher-Yates.
func randomPermutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, errs.Wrap(errs.ParameterError, "permutation sampling failed", err)
		}
		j := int(jBig.Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}
