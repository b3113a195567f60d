// Package encoding implements the canonical byte encoding used
// wherever a hash or HMAC in the election core consumes structured
// data: the Fiat-Shamir transcript in nizk, the aggregate re-encryption
// transcript in mixnet, and the payload digests chained by auditlog.
//
// Fixing one encoding here, used identically by every hasher and every
// verifier, is what lets a non-interactive proof be reproduced byte
// for byte on both sides of the transcript.
package encoding

import (
	"encoding/binary"
	"math/big"
)

// Builder accumulates canonically encoded fields into one byte slice.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Int appends the minimal unsigned big-endian representation of n,
// prefixed by its 4-byte big-endian length.
func (b *Builder) Int(n *big.Int) *Builder {
	var v []byte
	if n != nil {
		v = n.Bytes()
	}
	b.length(len(v))
	b.buf = append(b.buf, v...)
	return b
}

// String appends s as UTF-8 bytes, prefixed by its 4-byte big-endian
// length.
func (b *Builder) String(s string) *Builder {
	v := []byte(s)
	b.length(len(v))
	b.buf = append(b.buf, v...)
	return b
}

// Bytes appends raw bytes, prefixed by their 4-byte big-endian length.
func (b *Builder) Bytes(v []byte) *Builder {
	b.length(len(v))
	b.buf = append(b.buf, v...)
	return b
}

// Uint64 appends n as an 8-byte big-endian value, unprefixed: fixed-
// width fields do not need a length tag.
func (b *Builder) Uint64(n uint64) *Builder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], n)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *Builder) length(n int) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	b.buf = append(b.buf, tmp[:]...)
}

// Build returns the accumulated canonical encoding.
func (b *Builder) Build() []byte {
	return b.buf
}
