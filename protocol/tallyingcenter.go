package protocol

import (
	"crypto/sha256"
	"encoding/json"
	"time"

	"github.com/kaarelvoter/evote-core/auditlog"
	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/mixnet"
	"github.com/kaarelvoter/evote-core/telemetry"
)

// TallyingCenter runs the CLOSED-to-TALLIED sequence: mix the
// accepted ballots, verify the mix, homomorphically sum the mixed
// batch, and decrypt the sum through the Authority.
type TallyingCenter struct {
	authority    *Authority
	votingCenter *VotingCenter
	logger       telemetry.Logger
}

// NewTallyingCenter returns a TallyingCenter reading from
// votingCenter's batch and reporting through authority.
func NewTallyingCenter(authority *Authority, votingCenter *VotingCenter, logger telemetry.Logger) *TallyingCenter {
	if logger == nil {
		logger = telemetry.NewNop()
	}
	return &TallyingCenter{authority: authority, votingCenter: votingCenter, logger: logger.Named("tallying-center")}
}

// Tally mixes the accepted ballots, verifies the mix proof, sums the
// mixed batch homomorphically, and decrypts the sum. It returns the
// yes count (the decrypted sum) and the no count (voterCount - sum).
func (tc *TallyingCenter) Tally() (yes, no int64, err error) {
	if state := tc.authority.State(); state != StateClosed {
		return 0, 0, errs.New(errs.WrongState, wrongStateMessage(StateClosed, state))
	}

	x := tc.votingCenter.Batch()
	if len(x) == 0 {
		return 0, 0, errs.New(errs.ParameterError, "no ballots to tally")
	}

	y, mu, err := mixnet.Mix(tc.authority.Params(), x)
	if err != nil {
		return 0, 0, err
	}
	if err := mixnet.Verify(tc.authority.Params(), x, y, mu); err != nil {
		tc.logger.Error("mix verification failed", "error", err)
		return 0, 0, err
	}
	tc.authority.Log().Append(auditlog.KindMix, mixPayload(x, y, mu), time.Now())
	tc.logger.Info("mix accepted", "batch_size", len(x))

	cStar, err := elgamal.HomomorphicSum(tc.authority.Params(), y)
	if err != nil {
		return 0, 0, err
	}

	sum, err := tc.authority.DecryptSum(cStar)
	if err != nil {
		tc.logger.Error("tally decryption failed", "error", err)
		return 0, 0, err
	}

	voterCount := int64(len(x))

	var rangeProofDigest []byte
	if tc.authority.RangeProofEnabled() {
		rp, err := tc.authority.ProveRange(cStar, sum)
		if err != nil {
			tc.logger.Warn("range proof generation failed", "error", err)
		} else if raw, err := json.Marshal(rp); err != nil {
			tc.logger.Warn("range proof encoding failed", "error", err)
		} else {
			digest := sha256.Sum256(raw)
			rangeProofDigest = digest[:]
			tc.logger.Info("range proof attached to tally")
		}
	}

	tc.authority.Log().Append(auditlog.KindTally, tallyPayload(cStar, sum, voterCount, rangeProofDigest), time.Now())

	if err := tc.authority.MarkTallied(); err != nil {
		return 0, 0, err
	}

	tc.logger.Info("election tallied", "yes", sum, "no", voterCount-sum)
	return sum, voterCount - sum, nil
}
