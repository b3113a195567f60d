package protocol

import (
	"math/big"
	"testing"

	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
	"github.com/kaarelvoter/evote-core/telemetry"
	"github.com/stretchr/testify/require"
)

const demoBits = 64

func newElection(t *testing.T) (*Authority, *VotingCenter, *TallyingCenter) {
	t.Helper()
	logger := telemetry.NewNop()

	authority, err := NewAuthority(demoBits, 32, logger)
	require.NoError(t, err)

	vc := NewVotingCenter(authority, logger)
	tc := NewTallyingCenter(authority, vc, logger)
	return authority, vc, tc
}

func registerAndCast(t *testing.T, authority *Authority, vc *VotingCenter, voterID string, bit int) error {
	t.Helper()
	tok, err := authority.Register(voterID)
	require.NoError(t, err)

	c, proof, err := CastBallot(authority.Params(), bit)
	require.NoError(t, err)

	return vc.Cast(voterID, tok, c, proof)
}

// S1: 3 voters, bits [1, 0, 1], expected tally yes=2, no=1.
func TestScenarioS1SmallElection(t *testing.T) {
	authority, vc, tc := newElection(t)
	require.NoError(t, authority.Open())

	bits := []int{1, 0, 1}
	for i, b := range bits {
		voterID := voterName(i)
		require.NoError(t, registerAndCast(t, authority, vc, voterID, b))
	}

	require.NoError(t, authority.Close())

	yes, no, err := tc.Tally()
	require.NoError(t, err)
	require.Equal(t, int64(2), yes)
	require.Equal(t, int64(1), no)
}

// S2: 8 voters, expected yes=5, no=3; audit log has exactly
// 1 SETUP + 8 REGISTER + 8 VOTE + 1 MIX + 1 TALLY = 19 events.
func TestScenarioS2AuditCompleteness(t *testing.T) {
	authority, vc, tc := newElection(t)
	require.NoError(t, authority.Open())

	bits := []int{1, 1, 0, 1, 0, 0, 1, 1}
	for i, b := range bits {
		voterID := voterName(i)
		require.NoError(t, registerAndCast(t, authority, vc, voterID, b))
	}

	require.NoError(t, authority.Close())

	yes, no, err := tc.Tally()
	require.NoError(t, err)
	require.Equal(t, int64(5), yes)
	require.Equal(t, int64(3), no)

	require.Equal(t, 19, authority.Log().Len())
	require.NoError(t, authority.Log().Verify())
}

// S3: double-vote attempt fails with TokenAlreadyUsed; tally unchanged.
func TestScenarioS3DoubleVote(t *testing.T) {
	authority, vc, tc := newElection(t)
	require.NoError(t, authority.Open())

	tok, err := authority.Register("v1")
	require.NoError(t, err)

	c, proof, err := CastBallot(authority.Params(), 1)
	require.NoError(t, err)
	require.NoError(t, vc.Cast("v1", tok, c, proof))

	c2, proof2, err := CastBallot(authority.Params(), 1)
	require.NoError(t, err)
	err = vc.Cast("v1", tok, c2, proof2)
	require.ErrorIs(t, err, errs.New(errs.TokenAlreadyUsed, ""))

	require.NoError(t, authority.Close())
	yes, no, err := tc.Tally()
	require.NoError(t, err)
	require.Equal(t, int64(1), yes)
	require.Equal(t, int64(0), no)
}

// S4: a malformed proof (r_0 tampered) fails with InvalidProof and
// does not consume the token.
func TestScenarioS4MalformedProof(t *testing.T) {
	authority, vc, _ := newElection(t)
	require.NoError(t, authority.Open())

	tok, err := authority.Register("v1")
	require.NoError(t, err)

	c, proof, err := CastBallot(authority.Params(), 0)
	require.NoError(t, err)

	tampered := *proof
	tampered.R[0] = new(big.Int).Add(proof.R[0], big.NewInt(1))

	err = vc.Cast("v1", tok, c, &tampered)
	require.ErrorIs(t, err, errs.New(errs.InvalidProof, ""))

	// Token not consumed: the original proof still casts successfully.
	require.NoError(t, vc.Cast("v1", tok, c, proof))
}

// S6 (audit tamper detection) is exercised directly against
// auditlog.Log, since VotingCenter and Authority never expose a way
// to mutate an already-appended entry: see
// auditlog.TestVerifyDetectsPayloadTamper, which checks that Verify
// fails but not which index it reports.

func TestCastFailsOutsideOpen(t *testing.T) {
	authority, vc, _ := newElection(t)

	tok, err := authority.Register("v1")
	require.NoError(t, err)

	c, proof, err := CastBallot(authority.Params(), 1)
	require.NoError(t, err)

	err = vc.Cast("v1", tok, c, proof)
	require.ErrorIs(t, err, errs.New(errs.WrongState, ""))
}

// A tally with the optional range proof enabled still produces the
// correct yes/no split and a longer TALLY payload, but generation
// failures never block completion of the tally itself.
func TestTallyWithRangeProofEnabled(t *testing.T) {
	authority, vc, tc := newElection(t)
	require.NoError(t, authority.EnableRangeProof(group.P256()))
	require.NoError(t, authority.Open())

	bits := []int{1, 0, 1}
	for i, b := range bits {
		voterID := voterName(i)
		require.NoError(t, registerAndCast(t, authority, vc, voterID, b))
	}

	require.NoError(t, authority.Close())

	yes, no, err := tc.Tally()
	require.NoError(t, err)
	require.Equal(t, int64(2), yes)
	require.Equal(t, int64(1), no)
	require.NoError(t, authority.Log().Verify())
}

func TestTallyFailsOutsideClosed(t *testing.T) {
	authority, _, tc := newElection(t)
	require.NoError(t, authority.Open())

	_, _, err := tc.Tally()
	require.ErrorIs(t, err, errs.New(errs.WrongState, ""))
}

func voterName(i int) string {
	names := []string{"v0", "v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9"}
	if i < len(names) {
		return names[i]
	}
	return "v-overflow"
}
