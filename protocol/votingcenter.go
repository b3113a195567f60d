package protocol

import (
	"sync"
	"time"

	"github.com/kaarelvoter/evote-core/auditlog"
	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/nizk"
	"github.com/kaarelvoter/evote-core/telemetry"
)

// VotingCenter accepts ballots during OPEN and maintains the ordered
// input batch that TallyingCenter later mixes and sums.
type VotingCenter struct {
	// mu serializes cast so that token consumption, proof
	// verification, audit append and batch append happen atomically:
	// either all four occur, or none do.
	mu sync.Mutex

	authority *Authority
	batch     []elgamal.Ciphertext
	logger    telemetry.Logger
}

// NewVotingCenter returns a VotingCenter fronting authority.
func NewVotingCenter(authority *Authority, logger telemetry.Logger) *VotingCenter {
	if logger == nil {
		logger = telemetry.NewNop()
	}
	return &VotingCenter{authority: authority, logger: logger.Named("voting-center")}
}

// Cast verifies proof against c and only then authenticates and
// consumes voterID's token, appends a VOTE event, and adds c to the
// input batch. Proof verification runs before token consumption so a
// cast that fails verification never touches the token registry: the
// token is only spent once every other check has already passed.
func (vc *VotingCenter) Cast(voterID, presentedToken string, c elgamal.Ciphertext, proof *nizk.Proof) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	state := vc.authority.State()
	if state != StateOpen {
		err := errs.New(errs.WrongState, wrongStateMessage(StateOpen, state))
		vc.logger.Warn("cast rejected", "voter", hashVoterID(voterID), "error", err)
		return err
	}

	if err := nizk.Verify(vc.authority.Params(), c, proof); err != nil {
		vc.logger.Warn("cast rejected", "voter", hashVoterID(voterID), "error", err)
		return err
	}

	if err := vc.authority.AuthenticateAndConsume(voterID, presentedToken); err != nil {
		vc.logger.Warn("cast rejected", "voter", hashVoterID(voterID), "error", err)
		return err
	}

	vc.authority.Log().Append(auditlog.KindVote, castPayload(voterID, c, proof), time.Now())
	vc.batch = append(vc.batch, c)

	vc.logger.Info("vote accepted", "voter", hashVoterID(voterID), "index", vc.authority.Log().Len()-1)
	return nil
}

// Batch returns a copy of the ciphertexts accepted so far, in the
// order they were accepted.
func (vc *VotingCenter) Batch() []elgamal.Ciphertext {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	out := make([]elgamal.Ciphertext, len(vc.batch))
	copy(out, vc.batch)
	return out
}
