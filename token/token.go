// Package token implements the single-use voting token registry: one
// HMAC-tagged token per registered voter, redeemable exactly once.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/errs"
	"golang.org/x/crypto/hkdf"
)

// keyLength is the size of the HMAC key K derived at registry setup.
const keyLength = 32

// record tracks one voter's issued token.
type record struct {
	digest [sha256.Size]byte
	issued time.Time
	used   *time.Time
}

// Registry issues and redeems single-use voting tokens. K is derived
// once at construction from fresh entropy via HKDF-SHA256 and never
// exposed outside the package.
type Registry struct {
	mu      sync.Mutex
	key     []byte
	records map[string]*record
}

// NewRegistry derives a fresh HMAC key K from 32 bytes of system
// randomness and returns an empty Registry.
func NewRegistry() (*Registry, error) {
	seed := make([]byte, keyLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, errs.Wrap(errs.ParameterError, "seed generation failed", err)
	}

	reader := hkdf.New(sha256.New, seed, nil, []byte("evote-core token registry key"))
	key := make([]byte, keyLength)
	if _, err := reader.Read(key); err != nil {
		return nil, errs.Wrap(errs.ParameterError, "key derivation failed", err)
	}

	return &Registry{key: key, records: make(map[string]*record)}, nil
}

// Issue mints a token for voterID: a fresh nonce and timestamp are
// HMAC-tagged under K, the digest is stored, and the token itself
// (not the digest) is returned to the caller for delivery to the
// voter. Issue fails with errs.AlreadyRegistered if voterID already
// has a token.
func (r *Registry) Issue(voterID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[voterID]; exists {
		return "", errs.New(errs.AlreadyRegistered, "voter already registered")
	}

	nonce := uuid.New().String()
	issued := time.Now()

	token := r.tag(voterID, issued, nonce)

	r.records[voterID] = &record{
		digest: sha256.Sum256([]byte(token)),
		issued: issued,
	}

	return token, nil
}

// AuthenticateAndConsume verifies that token matches the digest
// stored for voterID and, if so, marks it used so a second call with
// the same token fails. The digest comparison is constant-time.
// Errors: errs.UnknownVoter, errs.BadToken, errs.TokenAlreadyUsed.
func (r *Registry) AuthenticateAndConsume(voterID, presentedToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[voterID]
	if !exists {
		return errs.New(errs.UnknownVoter, "no token issued for this voter")
	}

	presentedDigest := sha256.Sum256([]byte(presentedToken))
	if subtle.ConstantTimeCompare(presentedDigest[:], rec.digest[:]) != 1 {
		return errs.New(errs.BadToken, "presented token does not match issued digest")
	}

	if rec.used != nil {
		return errs.New(errs.TokenAlreadyUsed, "token has already been consumed")
	}

	now := time.Now()
	rec.used = &now
	return nil
}

// tag computes HMAC_SHA256(K, voterID ‖ issued ‖ nonce) over the
// canonical byte encoding of its inputs.
func (r *Registry) tag(voterID string, issued time.Time, nonce string) string {
	b := encoding.NewBuilder().
		String(voterID).
		Uint64(uint64(issued.UnixNano())).
		String(nonce).
		Build()

	mac := hmac.New(sha256.New, r.key)
	mac.Write(b)
	return hex.EncodeToString(mac.Sum(nil))
}
