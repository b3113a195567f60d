// Package elgamal implements the additively homomorphic ElGamal
// variant used to encrypt individual ballots and tally them without
// decrypting any single vote: the message is lifted into the exponent
// (g^m rather than m·g), so ciphertext products decrypt to the sum of
// the underlying plaintexts as long as that sum stays within a bound
// recoverable by bounded discrete-log search.
package elgamal

import (
	"math/big"

	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
)

// Params holds the public group parameters and public key for one
// election. G is the order-q group (its Generator() is g), U is the
// public key g^α.
type Params struct {
	G group.Group
	U group.Element
}

// Ciphertext is an ElGamal pair (V, E) = (g^β, U^β · g^m).
type Ciphertext struct {
	V group.Element
	E group.Element
}

// KeyGen samples a fresh safe-prime group of the given bit length and
// a private key α, and returns the resulting public Params alongside
// α. The demonstration bit lengths this is realistically called with
// (a few hundred bits) are not production-strength; see group.GenSafePrime.
func KeyGen(bits int) (Params, *big.Int, error) {
	p, _, err := group.GenSafePrime(bits)
	if err != nil {
		return Params{}, nil, err
	}
	g, err := group.NewModPGroupFromSafePrime("election", p)
	if err != nil {
		return Params{}, nil, err
	}

	alpha, err := group.RandomScalar(g.N())
	if err != nil {
		return Params{}, nil, err
	}

	u := g.Element().BaseScale(alpha)
	return Params{G: g, U: u}, alpha, nil
}

// Encrypt lifts m into the exponent and encrypts it under params.U. If
// beta is nil, a fresh blinding scalar is sampled uniformly from
// [1, q-1]. m may be any non-negative integer, not just {0,1}: the
// same operation encrypts individual ballots and re-encrypts partial
// tally sums.
func Encrypt(params Params, m *big.Int, beta *big.Int) (Ciphertext, *big.Int, error) {
	var err error
	if beta == nil {
		beta, err = group.RandomScalar(params.G.N())
		if err != nil {
			return Ciphertext{}, nil, err
		}
	}

	v := params.G.Element().BaseScale(beta)
	mask := params.G.Element().Scale(params.U, beta)
	liftedMessage := params.G.Element().BaseScale(m)
	e := params.G.Element().Add(liftedMessage, mask)

	return Ciphertext{V: v, E: e}, beta, nil
}

// Decrypt recovers M = E · (V^α)^-1 and then the plaintext m such that
// g^m = M, searching for m in [0, voterCountCap] via bounded
// discrete-log recovery.
func Decrypt(params Params, alpha *big.Int, c Ciphertext, voterCountCap int64) (int64, error) {
	sharedSecret := params.G.Element().Scale(c.V, alpha)
	m := params.G.Element().Subtract(c.E, sharedSecret)

	return group.DiscreteLogBounded(params.G, m, voterCountCap)
}

// Rerandomize returns a fresh encryption of the same plaintext under a
// new blinding factor r: (V·g^r, E·U^r). If r is nil, a fresh scalar
// is sampled uniformly from [1, q-1].
func Rerandomize(params Params, c Ciphertext, r *big.Int) (Ciphertext, *big.Int, error) {
	var err error
	if r == nil {
		r, err = group.RandomScalar(params.G.N())
		if err != nil {
			return Ciphertext{}, nil, err
		}
	}

	vOffset := params.G.Element().BaseScale(r)
	v := params.G.Element().Add(c.V, vOffset)

	eOffset := params.G.Element().Scale(params.U, r)
	e := params.G.Element().Add(c.E, eOffset)

	return Ciphertext{V: v, E: e}, r, nil
}

// HomomorphicSum returns the componentwise product of cs, which
// decrypts to the sum of the underlying plaintexts provided that sum
// stays within the recipient's discrete-log search bound.
func HomomorphicSum(params Params, cs []Ciphertext) (Ciphertext, error) {
	if len(cs) == 0 {
		return Ciphertext{}, errs.New(errs.ParameterError, "homomorphic sum of empty ciphertext set")
	}

	v := params.G.Identity()
	e := params.G.Identity()
	for _, c := range cs {
		v = params.G.Element().Add(v, c.V)
		e = params.G.Element().Add(e, c.E)
	}

	return Ciphertext{V: v, E: e}, nil
}
