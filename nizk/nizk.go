// Package nizk implements a disjunctive Fiat-Shamir Sigma protocol
// proving that an ElGamal ciphertext encrypts 0 or 1, without
// revealing which. Each branch of the disjunction is itself a Schnorr
// proof of knowledge of the encryption randomness; exactly one branch
// is proven honestly, the other simulated, so a verifier learns
// nothing beyond "one of the two statements holds."
package nizk

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
)

// Proof is a non-interactive disjunctive proof that a ciphertext
// encrypts 0 or 1. Branch j's commitments are A[j], B[j]; its
// challenge share and response are C[j], R[j]. The two challenge
// shares sum to the Fiat-Shamir challenge modulo q.
type Proof struct {
	A [2]group.Element
	B [2]group.Element
	C [2]*big.Int
	R [2]*big.Int
}

// Prove builds a Proof that ciphertext c, formed with encryption
// randomness beta, encrypts bit. bit must be 0 or 1 and must match
// what c actually encrypts, or the resulting proof will not verify.
func Prove(params elgamal.Params, c elgamal.Ciphertext, beta *big.Int, bit int) (*Proof, error) {
	if bit != 0 && bit != 1 {
		return nil, errs.New(errs.ParameterError, "bit must be 0 or 1")
	}
	other := 1 - bit
	q := params.G.N()

	w, err := group.RandomScalar(q)
	if err != nil {
		return nil, err
	}
	cOther, err := randomBelow(q)
	if err != nil {
		return nil, err
	}
	rOther, err := randomBelow(q)
	if err != nil {
		return nil, err
	}

	var A, B [2]group.Element
	var C, R [2]*big.Int

	A[bit] = params.G.Element().BaseScale(w)
	B[bit] = params.G.Element().Scale(params.U, w)

	A[other] = simulateA(params, c.V, cOther, rOther)
	B[other] = simulateB(params, c.E, other, cOther, rOther)
	C[other] = cOther
	R[other] = rOther

	challenge := challengeHash(params, c, A[0], A[1], B[0], B[1])

	cBit := new(big.Int).Sub(challenge, cOther)
	cBit.Mod(cBit, q)
	C[bit] = cBit

	rBit := new(big.Int).Mul(cBit, beta)
	rBit.Add(rBit, w)
	rBit.Mod(rBit, q)
	R[bit] = rBit

	return &Proof{A: A, B: B, C: C, R: R}, nil
}

// Verify checks that proof p is a valid disjunctive proof that c
// encrypts 0 or 1 under params. It returns an *errs.Error of kind
// errs.InvalidProof on any failure.
func Verify(params elgamal.Params, c elgamal.Ciphertext, p *Proof) error {
	q := params.G.N()

	challenge := challengeHash(params, c, p.A[0], p.A[1], p.B[0], p.B[1])

	sumC := new(big.Int).Add(p.C[0], p.C[1])
	sumC.Mod(sumC, q)
	if sumC.Cmp(challenge) != 0 {
		return errs.New(errs.InvalidProof, "challenge shares do not sum to the transcript hash")
	}

	for j := 0; j < 2; j++ {
		lhs := params.G.Element().BaseScale(p.R[j])
		rhs := params.G.Element().Add(p.A[j], params.G.Element().Scale(c.V, p.C[j]))
		if !lhs.IsEqual(rhs) {
			return errs.New(errs.InvalidProof, "branch A equation failed")
		}

		egj := params.G.Element().Subtract(c.E, params.G.Element().BaseScale(big.NewInt(int64(j))))
		lhs2 := params.G.Element().Scale(params.U, p.R[j])
		rhs2 := params.G.Element().Add(p.B[j], params.G.Element().Scale(egj, p.C[j]))
		if !lhs2.IsEqual(rhs2) {
			return errs.New(errs.InvalidProof, "branch B equation failed")
		}
	}

	return nil
}

// simulateA computes A_j = g^{r_j} · v^{-c_j} for the simulated branch.
func simulateA(params elgamal.Params, v group.Element, cj, rj *big.Int) group.Element {
	gr := params.G.Element().BaseScale(rj)
	vc := params.G.Element().Scale(v, cj)
	return params.G.Element().Subtract(gr, vc)
}

// simulateB computes B_j = u^{r_j} · (e · g^{-j})^{-c_j} for the
// simulated branch.
func simulateB(params elgamal.Params, e group.Element, j int, cj, rj *big.Int) group.Element {
	egj := params.G.Element().Subtract(e, params.G.Element().BaseScale(big.NewInt(int64(j))))
	ur := params.G.Element().Scale(params.U, rj)
	term := params.G.Element().Scale(egj, cj)
	return params.G.Element().Subtract(ur, term)
}

// challengeHash computes H(p, q, g, u, v, e, A0, A1, B0, B1) mod q
// over the canonical byte encoding of every listed field.
func challengeHash(params elgamal.Params, c elgamal.Ciphertext, A0, A1, B0, B1 group.Element) *big.Int {
	b := encoding.NewBuilder()
	b.Int(params.G.P()).Int(params.G.N())

	elems := []group.Element{params.G.Generator(), params.U, c.V, c.E, A0, A1, B0, B1}
	for _, el := range elems {
		enc, _ := el.MarshalBinary()
		b.Bytes(enc)
	}

	digest := sha256.Sum256(b.Build())
	h := new(big.Int).SetBytes(digest[:])
	return h.Mod(h, params.G.N())
}

// randomBelow returns a uniformly random integer in [0, n-1].
func randomBelow(n *big.Int) (*big.Int, error) {
	r, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, errs.Wrap(errs.ParameterError, "random sampling failed", err)
	}
	return r, nil
}
