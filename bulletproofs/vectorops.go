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
	"math/big"

	"github.com/ing-bank/zkrp/util/bn"
	"github.com/ing-bank/zkrp/util/byteconversion"

	"github.com/kaarelvoter/evote-core/group"
)

// IsPowerOfTwo returns true if n is a power of 2.
func IsPowerOfTwo(n int64) bool {
	return n != 0 && (n&(n-1)) == 0
}

// VectorCopy returns a length-n vector with every entry equal to x.
func VectorCopy(x *big.Int, n int64) ([]*big.Int, error) {
	if n <= 0 {
		return nil, errors.New("length must be positive")
	}
	result := make([]*big.Int, n)
	for i := int64(0); i < n; i++ {
		result[i] = new(big.Int).Set(x)
	}
	return result, nil
}

// VectorConvertToBig converts a bit vector of int64 into a vector of big.Int.
func VectorConvertToBig(a []int64, n int64) ([]*big.Int, error) {
	if int64(len(a)) != n {
		return nil, errors.New("length mismatch")
	}
	result := make([]*big.Int, n)
	for i := int64(0); i < n; i++ {
		result[i] = big.NewInt(a[i])
	}
	return result, nil
}

// VectorAdd returns a+b, elementwise, reduced mod m.
func VectorAdd(a, b []*big.Int, m *big.Int) ([]*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("vector length mismatch")
	}
	result := make([]*big.Int, len(a))
	for i := range a {
		result[i] = new(big.Int).Mod(new(big.Int).Add(a[i], b[i]), m)
	}
	return result, nil
}

// VectorAddConst adds the scalar c to every entry of a, reduced mod m.
func VectorAddConst(a []*big.Int, c, m *big.Int) []*big.Int {
	result := make([]*big.Int, len(a))
	for i := range a {
		result[i] = new(big.Int).Mod(new(big.Int).Add(a[i], c), m)
	}
	return result
}

// VectorMul returns a*b, elementwise (Hadamard product), reduced mod m.
func VectorMul(a, b []*big.Int, m *big.Int) ([]*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("vector length mismatch")
	}
	result := make([]*big.Int, len(a))
	for i := range a {
		result[i] = new(big.Int).Mod(new(big.Int).Mul(a[i], b[i]), m)
	}
	return result, nil
}

// VectorScalarMul scales every entry of a by scalar, reduced mod m.
func VectorScalarMul(a []*big.Int, scalar, m *big.Int) ([]*big.Int, error) {
	result := make([]*big.Int, len(a))
	for i := range a {
		result[i] = new(big.Int).Mod(new(big.Int).Mul(a[i], scalar), m)
	}
	return result, nil
}

// VectorInnerProduct returns <a,b> mod m, without erroring on mismatched
// lengths (callers slice a and b to matching lengths beforehand).
func VectorInnerProduct(a, b []*big.Int, m *big.Int) *big.Int {
	result := big.NewInt(0)
	for i := range a {
		result.Add(result, new(big.Int).Mul(a[i], b[i]))
	}
	return result.Mod(result, m)
}

// ScalarProduct returns <a,b> reduced mod GP.N().
func ScalarProduct(a, b []*big.Int, GP group.Group) (*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("vector length mismatch")
	}
	return VectorInnerProduct(a, b, GP.N()), nil
}

// VectorExp computes the product of g[i]^exps[i] over GP.
func VectorExp(g []group.Element, exps []*big.Int, GP group.Group) (group.Element, error) {
	if len(g) != len(exps) {
		return nil, errors.New("vector length mismatch")
	}
	result := GP.Identity()
	for i := range g {
		result.Add(result, GP.Element().Scale(g[i], exps[i]))
	}
	return result, nil
}

// VectorECAdd returns a+b, elementwise, in GP.
func VectorECAdd(a, b []group.Element, GP group.Group) ([]group.Element, error) {
	if len(a) != len(b) {
		return nil, errors.New("vector length mismatch")
	}
	result := make([]group.Element, len(a))
	for i := range a {
		result[i] = GP.Element().Add(a[i], b[i])
	}
	return result, nil
}

// powerOf returns (base^0, base^1, ..., base^(n-1)) reduced mod GP.N().
func powerOf(base *big.Int, n int64, GP group.Group) []*big.Int {
	result := make([]*big.Int, n)
	mod := GP.N()
	current := big.NewInt(1)
	for i := int64(0); i < n; i++ {
		result[i] = new(big.Int).Set(current)
		current = new(big.Int).Mod(new(big.Int).Mul(current, base), mod)
	}
	return result
}

// HashBP derives two independent Fiat-Shamir challenges from a and b,
// always reduced modulo ORDER, the group order of secp256k1 (the curve
// behind zkrp's p256 package), whichever group a and b belong to.
func HashBP(a, b group.Element) (*big.Int, *big.Int, error) {
	aBytes, err := a.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	bBytes, err := b.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	d1 := sha256.Sum256(append(append(aBytes, bBytes...), 0x01))
	d2 := sha256.Sum256(append(append(aBytes, bBytes...), 0x02))

	x, err := byteconversion.FromByteArray(d1[:])
	if err != nil {
		return nil, nil, err
	}
	y, err := byteconversion.FromByteArray(d2[:])
	if err != nil {
		return nil, nil, err
	}

	return bn.Mod(x, ORDER), bn.Mod(y, ORDER), nil
}
