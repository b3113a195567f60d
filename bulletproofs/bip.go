/*
 * Copyright (C) 2019 ING BANK N.V.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package bulletproofs

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/ing-bank/zkrp/util/bn"
	"github.com/ing-bank/zkrp/util/byteconversion"

	"github.com/kaarelvoter/evote-core/group"
)

var SEEDU = "BulletproofsDoesNotNeedTrustedSetupU"

// InnerProductParams holds the generators shared by proveInnerProduct
// and InnerProductProof.Verify.
type InnerProductParams struct {
	N  int64
	Cc *big.Int
	Uu group.Element
	Gg []group.Element
	Hh []group.Element
	P  group.Element
	GP group.Group
}

// InnerProductProof contains the elements needed to verify the
// logarithmic-size inner product argument.
type InnerProductProof struct {
	N      int64
	Ls     []group.Element
	Rs     []group.Element
	U      group.Element
	P      group.Element
	Gg     group.Element
	Hh     group.Element
	A      *big.Int
	B      *big.Int
	Params InnerProductParams
}

// setupInnerProduct computes the parameters common to proveInnerProduct
// and InnerProductProof.Verify. Nil g or h vectors are populated by
// mapping deterministic seeds into GP.
func setupInnerProduct(g, h []group.Element, N int64, GP group.Group) (InnerProductParams, error) {
	var params InnerProductParams

	if N <= 0 {
		return params, errors.New("N must be greater than zero")
	}
	params.N = N

	if g == nil {
		g = make([]group.Element, N)
		for i := int64(0); i < N; i++ {
			g[i], _ = GP.Element().MapToGroup(SEEDH + "g" + fmt.Sprint(i))
		}
	}
	params.Gg = g

	if h == nil {
		h = make([]group.Element, N)
		for i := int64(0); i < N; i++ {
			h[i], _ = GP.Element().MapToGroup(SEEDH + "h" + fmt.Sprint(i))
		}
	}
	params.Hh = h

	params.Uu, _ = GP.Element().MapToGroup(SEEDU)
	params.P = GP.Identity()
	params.GP = GP

	return params, nil
}

// commitInnerProduct computes g^a.h^b in GP.
func commitInnerProduct(g, h []group.Element, a, b []*big.Int, GP group.Group) group.Element {
	ga, _ := VectorExp(g, a, GP)
	hb, _ := VectorExp(h, b, GP)
	return GP.Element().Add(ga, hb)
}

// proveInnerProduct builds the recursive inner-product argument that
// <a,b> = c against commitment P.
func proveInnerProduct(a, b []*big.Int, P group.Element, c *big.Int, params InnerProductParams) (InnerProductProof, error) {
	var proof InnerProductProof

	n := int64(len(a))
	if n != int64(len(b)) {
		return proof, errors.New("size of first array argument must be equal to the second")
	}

	// Fiat-Shamir: x = Hash(g,h,P,c)
	x, err := hashIP(params.Gg, params.Hh, P, c, params.N)
	if err != nil {
		return proof, err
	}
	ux := params.GP.Element().Scale(params.Uu, x)
	uxc := params.GP.Element().Scale(ux, c)
	PP := params.GP.Element().Add(P, uxc)

	proof = computeBipRecursive(a, b, params.Gg, params.Hh, ux, PP, n, nil, nil, params.GP)
	proof.Params = params
	proof.Params.P = PP
	proof.Params.Cc = c
	return proof, nil
}

// computeBipRecursive halves the vectors on each round until a single
// pair (a[0], b[0]) remains, folding the generators along the way.
func computeBipRecursive(a, b []*big.Int, g, h []group.Element, u, P group.Element, n int64, Ls, Rs []group.Element, GP group.Group) InnerProductProof {
	var proof InnerProductProof

	if n == 1 {
		proof.A = a[0]
		proof.B = b[0]
		proof.Gg = g[0]
		proof.Hh = h[0]
		proof.P = P
		proof.U = u
		proof.Ls = Ls
		proof.Rs = Rs
		proof.N = n
		return proof
	}

	nprime := n / 2

	cL, _ := ScalarProduct(a[:nprime], b[nprime:], GP)
	cR, _ := ScalarProduct(a[nprime:], b[:nprime], GP)

	L, _ := VectorExp(g[nprime:], a[:nprime], GP)
	Lh, _ := VectorExp(h[:nprime], b[nprime:], GP)
	L = GP.Element().Add(L, Lh)
	L = GP.Element().Add(L, GP.Element().Scale(u, cL))

	R, _ := VectorExp(g[:nprime], a[nprime:], GP)
	Rh, _ := VectorExp(h[nprime:], b[:nprime], GP)
	R = GP.Element().Add(R, Rh)
	R = GP.Element().Add(R, GP.Element().Scale(u, cR))

	x, _, _ := HashBP(L, R)
	xinv := bn.ModInverse(x, ORDER)

	gprime, _ := VectorECAdd(vectorScalarExp(g[:nprime], xinv, GP), vectorScalarExp(g[nprime:], x, GP), GP)
	hprime, _ := VectorECAdd(vectorScalarExp(h[:nprime], x, GP), vectorScalarExp(h[nprime:], xinv, GP), GP)

	x2 := bn.Mod(bn.Multiply(x, x), ORDER)
	x2inv := bn.ModInverse(x2, ORDER)
	Pprime := GP.Element().Scale(L, x2)
	Pprime = GP.Element().Add(Pprime, P)
	Pprime = GP.Element().Add(Pprime, GP.Element().Scale(R, x2inv))

	aprime, _ := VectorAdd(mustScalarMul(a[:nprime], x), mustScalarMul(a[nprime:], xinv), ORDER)
	bprime, _ := VectorAdd(mustScalarMul(b[:nprime], xinv), mustScalarMul(b[nprime:], x), ORDER)

	Ls = append(Ls, L)
	Rs = append(Rs, R)

	proof = computeBipRecursive(aprime, bprime, gprime, hprime, u, Pprime, nprime, Ls, Rs, GP)
	proof.N = n
	return proof
}

func mustScalarMul(a []*big.Int, s *big.Int) []*big.Int {
	result, _ := VectorScalarMul(a, s, ORDER)
	return result
}

// Verify checks the recursively folded inner-product argument.
func (proof InnerProductProof) Verify() (bool, error) {
	GP := proof.Params.GP
	logn := len(proof.Ls)

	gprime := proof.Params.Gg
	hprime := proof.Params.Hh
	Pprime := proof.Params.P
	nprime := proof.N

	for i := 0; i < logn; i++ {
		nprime /= 2
		x, _, _ := HashBP(proof.Ls[i], proof.Rs[i])
		xinv := bn.ModInverse(x, ORDER)

		gprime, _ = VectorECAdd(vectorScalarExp(gprime[:nprime], xinv, GP), vectorScalarExp(gprime[nprime:], x, GP), GP)
		hprime, _ = VectorECAdd(vectorScalarExp(hprime[:nprime], x, GP), vectorScalarExp(hprime[nprime:], xinv, GP), GP)

		x2 := bn.Mod(bn.Multiply(x, x), ORDER)
		x2inv := bn.ModInverse(x2, ORDER)
		Pprime = GP.Element().Add(Pprime, GP.Element().Scale(proof.Ls[i], x2))
		Pprime = GP.Element().Add(Pprime, GP.Element().Scale(proof.Rs[i], x2inv))
	}

	ab := bn.Mod(bn.Multiply(proof.A, proof.B), ORDER)

	rhs := GP.Element().Scale(gprime[0], proof.A)
	hb := GP.Element().Scale(hprime[0], proof.B)
	rhs = GP.Element().Add(rhs, hb)
	rhs = GP.Element().Add(rhs, GP.Element().Scale(proof.U, ab))

	nP := GP.Element().Negate(Pprime)
	nP = GP.Element().Add(nP, rhs)

	return nP.IsIdentity(), nil
}

// hashIP folds the generators, commitment, and target inner product
// into a single Fiat-Shamir challenge.
func hashIP(g, h []group.Element, P group.Element, c *big.Int, n int64) (*big.Int, error) {
	digest := sha256.New()
	pBytes, err := P.MarshalBinary()
	if err != nil {
		return nil, err
	}
	digest.Write(pBytes)

	for i := int64(0); i < n; i++ {
		gBytes, err := g[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		hBytes, err := h[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		digest.Write(gBytes)
		digest.Write(hBytes)
	}

	digest.Write(c.Bytes())
	return byteconversion.FromByteArray(digest.Sum(nil))
}

// vectorScalarExp computes a[i]^b for each i.
func vectorScalarExp(a []group.Element, b *big.Int, GP group.Group) []group.Element {
	result := make([]group.Element, len(a))
	for i := range a {
		result[i] = GP.Element().Scale(a[i], b)
	}
	return result
}
