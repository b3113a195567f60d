// Package auditlog implements an append-only, tamper-evident event
// chain: each entry's hash covers its index, kind, payload digest and
// the previous entry's hash, so altering or reordering any entry
// breaks the chain from that point forward.
package auditlog

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kaarelvoter/evote-core/encoding"
	"github.com/kaarelvoter/evote-core/errs"
)

// Kind identifies the category of an audit event.
type Kind string

const (
	KindSetup    Kind = "SETUP"
	KindRegister Kind = "REGISTER"
	KindVote     Kind = "VOTE"
	KindRejected Kind = "REJECTED"
	KindClose    Kind = "CLOSE"
	KindMix      Kind = "MIX"
	KindTally    Kind = "TALLY"
)

// genesisHash seeds the chain: the SHA-256 digest of the empty byte
// string, so a fresh log's first entry has a well-defined predecessor.
var genesisHash = sha256.Sum256(nil)

// Entry is one link in the audit chain. Payload is retained for
// inspection but is never itself hashed into a later entry; only
// PayloadDigest and Hash propagate the chain's integrity.
type Entry struct {
	Index         int
	Kind          Kind
	Timestamp     time.Time
	Payload       []byte
	PayloadDigest [sha256.Size]byte
	PrevHash      [sha256.Size]byte
	Hash          [sha256.Size]byte
}

// Log is an append-only sequence of Entry values.
type Log struct {
	entries []Entry
}

// New returns an empty Log rooted at the genesis hash.
func New() *Log {
	return &Log{}
}

// Append computes payload_digest = SHA256(payload) and
// hash = SHA256(index ‖ kind ‖ payload_digest ‖ prev_hash ‖ timestamp),
// appends the resulting entry, and returns its index. Callers are
// responsible for redacting secrets from payload before calling
// Append: the log never inspects or transforms payload content.
func (l *Log) Append(kind Kind, payload []byte, timestamp time.Time) int {
	index := len(l.entries)
	prevHash := genesisHash
	if index > 0 {
		prevHash = l.entries[index-1].Hash
	}

	payloadDigest := sha256.Sum256(payload)

	b := encoding.NewBuilder().
		Uint64(uint64(index)).
		String(string(kind)).
		Bytes(payloadDigest[:]).
		Bytes(prevHash[:]).
		Uint64(uint64(timestamp.UnixNano())).
		Build()
	hash := sha256.Sum256(b)

	l.entries = append(l.entries, Entry{
		Index:         index,
		Kind:          kind,
		Timestamp:     timestamp,
		Payload:       payload,
		PayloadDigest: payloadDigest,
		PrevHash:      prevHash,
		Hash:          hash,
	})
	return index
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns the log's entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Verify recomputes every entry's hash and linkage in order. It
// returns an *errs.Error of kind errs.AuditTampered wrapping every
// offending index (via a *multierror.Error Cause) if any mismatch is
// found, or nil if the chain is intact.
func (l *Log) Verify() error {
	var result *multierror.Error

	prevHash := genesisHash
	for _, e := range l.entries {
		if e.PrevHash != prevHash {
			result = multierror.Append(result, errs.New(errs.AuditTampered,
				linkageMessage(e.Index)))
		}

		payloadDigest := sha256.Sum256(e.Payload)
		if payloadDigest != e.PayloadDigest {
			result = multierror.Append(result, errs.New(errs.AuditTampered,
				payloadMessage(e.Index)))
		}

		b := encoding.NewBuilder().
			Uint64(uint64(e.Index)).
			String(string(e.Kind)).
			Bytes(e.PayloadDigest[:]).
			Bytes(e.PrevHash[:]).
			Uint64(uint64(e.Timestamp.UnixNano())).
			Build()
		wantHash := sha256.Sum256(b)
		if wantHash != e.Hash {
			result = multierror.Append(result, errs.New(errs.AuditTampered,
				hashMessage(e.Index)))
		}

		prevHash = e.Hash
	}

	if result == nil {
		return nil
	}

	return errs.Wrap(errs.AuditTampered, firstOffenderMessage(result), result)
}

func linkageMessage(index int) string {
	return fmt.Sprintf("entry %d: prev_hash does not match preceding entry", index)
}

func payloadMessage(index int) string {
	return fmt.Sprintf("entry %d: payload digest mismatch", index)
}

func hashMessage(index int) string {
	return fmt.Sprintf("entry %d: hash does not reproduce from its fields", index)
}

func firstOffenderMessage(result *multierror.Error) string {
	return fmt.Sprintf("audit chain broken (%d finding(s)); first: %v", len(result.Errors), result.Errors[0])
}
