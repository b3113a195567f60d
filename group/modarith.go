package group

import (
	"crypto/rand"
	"math/big"

	"github.com/kaarelvoter/evote-core/errs"
)

// maxSafePrimeAttempts bounds the safe-prime search so callers get a
// ParameterError instead of hanging forever on an unlucky bit length.
const maxSafePrimeAttempts = 4096

// GenSafePrime searches for a prime p of the given bit length such
// that q = (p-1)/2 is also prime, i.e. p is a safe prime. bits below
// 3 always fails: there is no room for both p and q to be odd primes.
//
// The default demonstration bit length (128-512) is far too small for
// production use; production parameters are a caller concern, not
// this function's.
func GenSafePrime(bits int) (p, q *big.Int, err error) {
	if bits < 3 {
		return nil, nil, errs.New(errs.ParameterError, "bit length too small for a safe prime")
	}
	for attempt := 0; attempt < maxSafePrimeAttempts; attempt++ {
		candidateQ, genErr := rand.Prime(rand.Reader, bits-1)
		if genErr != nil {
			return nil, nil, errs.Wrap(errs.ParameterError, "prime generation failed", genErr)
		}
		candidateP := new(big.Int).Lsh(candidateQ, 1)
		candidateP.Add(candidateP, big.NewInt(1))
		if candidateP.ProbablyPrime(32) {
			return candidateP, candidateQ, nil
		}
	}
	return nil, nil, errs.New(errs.ParameterError, "safe prime search exhausted retries")
}

// FindGenerator searches [2, p-2] for a generator g of the order-q
// subgroup of (Z/pZ)*: g^q ≡ 1 (mod p) and g ≠ 1 (checked here via
// g^2 ≠ 1, which for a safe prime's order-q subgroup rules out the
// only other subgroup of small order, {1, p-1}).
func FindGenerator(p, q *big.Int) (*big.Int, error) {
	two := big.NewInt(2)
	pMinusTwo := new(big.Int).Sub(p, two)

	for attempt := 0; attempt < maxSafePrimeAttempts; attempt++ {
		h, err := rand.Int(rand.Reader, pMinusTwo)
		if err != nil {
			return nil, errs.Wrap(errs.ParameterError, "random candidate generation failed", err)
		}
		h.Add(h, two)

		// g = h^2 mod p lands in the order-q subgroup for any h
		// coprime to p (guaranteed since p is prime and h < p).
		g := new(big.Int).Exp(h, two, p)
		if g.Cmp(big.NewInt(1)) == 0 {
			continue
		}
		if new(big.Int).Exp(g, two, p).Cmp(big.NewInt(1)) == 0 {
			continue
		}
		if new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		return g, nil
	}
	return nil, errs.New(errs.ParameterError, "generator search exhausted retries")
}

// RandomScalar returns a uniformly random integer in [1, q-1].
func RandomScalar(q *big.Int) (*big.Int, error) {
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))
	if qMinusOne.Sign() <= 0 {
		return nil, errs.New(errs.ParameterError, "group order too small to sample a scalar")
	}
	r, err := rand.Int(rand.Reader, qMinusOne)
	if err != nil {
		return nil, errs.Wrap(errs.ParameterError, "random scalar generation failed", err)
	}
	return r.Add(r, big.NewInt(1)), nil
}

// DiscreteLogBounded returns the unique exponent k in [0, maxN] such
// that g.BaseScale(k) equals h, using a baby-step/giant-step table:
// O(sqrt(maxN)) group operations and memory instead of the O(maxN)
// exhaustive trial the spec describes as a baseline. maxN is the
// election's voter_count_cap, so the search space is always small in
// practice.
func DiscreteLogBounded(g Group, h Element, maxN int64) (int64, error) {
	if maxN < 0 {
		return 0, errs.New(errs.TallyOutOfRange, "negative search bound")
	}

	m := int64(1)
	for m*m < maxN+1 {
		m++
	}

	// Baby steps: table of g^j for j in [0, m).
	table := make(map[string]int64, m)
	step := g.Identity()
	gen := g.Generator()
	for j := int64(0); j < m; j++ {
		table[step.String()] = j
		step = g.Element().Add(step, gen)
	}

	// Giant stride: g^{-m}.
	giantStride := g.Element().BaseScale(big.NewInt(-m))

	current := g.Element().Set(h)
	for i := int64(0); i <= m; i++ {
		if j, ok := table[current.String()]; ok {
			k := i*m + j
			if k <= maxN {
				return k, nil
			}
		}
		current = g.Element().Add(current, giantStride)
	}
	return 0, errs.New(errs.TallyOutOfRange, "no discrete log within bound")
}
