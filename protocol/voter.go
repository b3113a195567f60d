package protocol

import (
	"math/big"

	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/nizk"
)

// CastBallot is the client-side helper a voter runs locally: it
// encrypts bit under params and produces the disjunctive proof that
// the ciphertext encrypts 0 or 1, binding the proof to the exact
// randomness used for encryption.
func CastBallot(params elgamal.Params, bit int) (elgamal.Ciphertext, *nizk.Proof, error) {
	c, beta, err := elgamal.Encrypt(params, big.NewInt(int64(bit)), nil)
	if err != nil {
		return elgamal.Ciphertext{}, nil, err
	}

	proof, err := nizk.Prove(params, c, beta, bit)
	if err != nil {
		return elgamal.Ciphertext{}, nil, err
	}

	return c, proof, nil
}
