package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/group"
	"github.com/kaarelvoter/evote-core/mixnet"
	"github.com/kaarelvoter/evote-core/nizk"
)

// hashVoterID returns the hex SHA-256 digest of a voter identifier,
// so audit payloads never carry the identifier itself.
func hashVoterID(voterID string) string {
	sum := sha256.Sum256([]byte(voterID))
	return hex.EncodeToString(sum[:])
}

func elementBytes(e group.Element) []byte {
	b, _ := e.MarshalBinary()
	return b
}

// setupPayload encodes the election manifest published at SETUP.
func setupPayload(params elgamal.Params, voterCountCap int64) []byte {
	return encoding.NewBuilder().
		Int(params.G.P()).
		Int(params.G.N()).
		Bytes(elementBytes(params.G.Generator())).
		Bytes(elementBytes(params.U)).
		Uint64(uint64(voterCountCap)).
		Build()
}

// registerPayload records that a voter was issued a token, without
// ever storing the token itself.
func registerPayload(voterID string) []byte {
	return encoding.NewBuilder().String(hashVoterID(voterID)).Build()
}

// castPayload encodes an accepted VOTE event: the hashed voter ID,
// the ciphertext, and the disjunctive proof transcript.
func castPayload(voterID string, c elgamal.Ciphertext, proof *nizk.Proof) []byte {
	b := encoding.NewBuilder().
		String(hashVoterID(voterID)).
		Bytes(elementBytes(c.V)).
		Bytes(elementBytes(c.E))

	for j := 0; j < 2; j++ {
		b.Bytes(elementBytes(proof.A[j])).Bytes(elementBytes(proof.B[j])).Int(proof.C[j]).Int(proof.R[j])
	}
	return b.Build()
}

// closePayload records the moment the election transitioned to CLOSED.
func closePayload() []byte {
	return encoding.NewBuilder().String("CLOSE").Build()
}

// mixPayload records a completed mix: the digest of the input batch,
// the output batch, and the aggregate offset proof.
func mixPayload(x, y []elgamal.Ciphertext, mu *mixnet.Proof) []byte {
	b := encoding.NewBuilder().Bytes(inputDigest(x))
	for _, c := range y {
		b.Bytes(elementBytes(c.V)).Bytes(elementBytes(c.E))
	}
	b.Int(mu.R).Bytes(elementBytes(mu.T)).Int(mu.S)
	return b.Build()
}

// inputDigest is SHA256(canonical(X)) as referenced by the mix record
// in the external-interfaces contract.
func inputDigest(x []elgamal.Ciphertext) []byte {
	b := encoding.NewBuilder()
	for _, c := range x {
		b.Bytes(elementBytes(c.V)).Bytes(elementBytes(c.E))
	}
	digest := sha256.Sum256(b.Build())
	return digest[:]
}

// tallyPayload encodes the final tally record. rangeProofDigest is
// the SHA-256 digest of the optional auxiliary RangeProof, or nil if
// the election never enabled one.
func tallyPayload(cStar elgamal.Ciphertext, sum int64, voterCount int64, rangeProofDigest []byte) []byte {
	b := encoding.NewBuilder().
		Bytes(elementBytes(cStar.V)).
		Bytes(elementBytes(cStar.E)).
		Int(big.NewInt(sum)).
		Uint64(uint64(voterCount))

	if rangeProofDigest != nil {
		b.Bytes(rangeProofDigest)
	} else {
		b.Bytes([]byte{})
	}
	return b.Build()
}
