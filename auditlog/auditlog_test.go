package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendAndVerifyIntact(t *testing.T) {
	log := New()

	i0 := log.Append(KindSetup, []byte("manifest"), time.Unix(1000, 0))
	i1 := log.Append(KindVote, []byte("vote-1"), time.Unix(1001, 0))
	i2 := log.Append(KindClose, []byte("close"), time.Unix(1002, 0))

	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 2, i2)
	require.Equal(t, 3, log.Len())

	require.NoError(t, log.Verify())
}

func TestVerifyDetectsPayloadTamper(t *testing.T) {
	log := New()
	log.Append(KindSetup, []byte("manifest"), time.Unix(1000, 0))
	log.Append(KindVote, []byte("vote-1"), time.Unix(1001, 0))

	entries := log.entries
	entries[1].Payload = []byte("tampered")

	err := log.Verify()
	require.Error(t, err)
}

func TestVerifyDetectsBrokenLinkage(t *testing.T) {
	log := New()
	log.Append(KindSetup, []byte("manifest"), time.Unix(1000, 0))
	log.Append(KindVote, []byte("vote-1"), time.Unix(1001, 0))
	log.Append(KindVote, []byte("vote-2"), time.Unix(1002, 0))

	log.entries[1].PrevHash[0] ^= 0xff

	err := log.Verify()
	require.Error(t, err)
}

func TestVerifyEmptyLog(t *testing.T) {
	log := New()
	require.NoError(t, log.Verify())
}

func TestEntriesReturnsACopy(t *testing.T) {
	log := New()
	log.Append(KindSetup, []byte("manifest"), time.Unix(1000, 0))

	entries := log.Entries()
	entries[0].Kind = "MUTATED"

	require.Equal(t, KindSetup, log.entries[0].Kind)
}
