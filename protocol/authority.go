package protocol

import (
	"math/big"
	"sync"
	"time"

	"github.com/kaarelvoter/evote-core/auditlog"
	"github.com/kaarelvoter/evote-core/bulletproofs"
	"github.com/kaarelvoter/evote-core/elgamal"
	"github.com/kaarelvoter/evote-core/errs"
	"github.com/kaarelvoter/evote-core/group"
	"github.com/kaarelvoter/evote-core/rangeproof"
	"github.com/kaarelvoter/evote-core/telemetry"
	"github.com/kaarelvoter/evote-core/token"
)

// Authority owns the election's group parameters, private key, token
// registry and audit log. It is the only role that ever sees alpha.
type Authority struct {
	mu sync.Mutex

	params        elgamal.Params
	alpha         *big.Int
	voterCountCap int64

	registry *token.Registry
	log      *auditlog.Log
	state    ElectionState

	rangeProofParams *bulletproofs.BulletProofSetupParams

	logger telemetry.Logger
}

// NewAuthority generates fresh election parameters over a bits-bit
// safe prime, derives a token registry key, appends the SETUP audit
// event, and returns an Authority in state SETUP.
func NewAuthority(bits int, voterCountCap int64, logger telemetry.Logger) (*Authority, error) {
	if logger == nil {
		logger = telemetry.NewNop()
	}

	params, alpha, err := elgamal.KeyGen(bits)
	if err != nil {
		return nil, err
	}

	registry, err := token.NewRegistry()
	if err != nil {
		return nil, err
	}

	log := auditlog.New()
	a := &Authority{
		params:        params,
		alpha:         alpha,
		voterCountCap: voterCountCap,
		registry:      registry,
		log:           log,
		state:         StateSetup,
		logger:        logger.Named("authority"),
	}

	log.Append(auditlog.KindSetup, setupPayload(params, voterCountCap), time.Now())
	a.logger.Info("election set up", "group", params.G.Name(), "voter_count_cap", voterCountCap)

	return a, nil
}

// Params returns the election's public parameters.
func (a *Authority) Params() elgamal.Params {
	return a.params
}

// VoterCountCap returns the upper bound on the number of ballots the
// tally's discrete-log recovery will search.
func (a *Authority) VoterCountCap() int64 {
	return a.voterCountCap
}

// Log returns the shared, append-only audit log.
func (a *Authority) Log() *auditlog.Log {
	return a.log
}

// State returns the current election state.
func (a *Authority) State() ElectionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Open transitions the election from SETUP to OPEN, allowing casts.
func (a *Authority) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSetup {
		return errs.New(errs.WrongState, wrongStateMessage(StateSetup, a.state))
	}
	a.state = StateOpen
	a.logger.Info("election opened")
	return nil
}

// Register issues a fresh token for voterID. Valid in SETUP or OPEN.
func (a *Authority) Register(voterID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSetup && a.state != StateOpen {
		return "", errs.New(errs.WrongState, wrongStateMessage(StateOpen, a.state))
	}

	tok, err := a.registry.Issue(voterID)
	if err != nil {
		a.logger.Warn("registration rejected", "voter", hashVoterID(voterID), "error", err)
		return "", err
	}

	a.log.Append(auditlog.KindRegister, registerPayload(voterID), time.Now())
	a.logger.Info("voter registered", "voter", hashVoterID(voterID))
	return tok, nil
}

// AuthenticateAndConsume delegates to the token registry. It is
// called by VotingCenter under VotingCenter's own cast-serializing
// lock, so token consumption is ordered after the caller's other
// cast-time checks.
func (a *Authority) AuthenticateAndConsume(voterID, presentedToken string) error {
	return a.registry.AuthenticateAndConsume(voterID, presentedToken)
}

// Close transitions the election from OPEN to CLOSED, ending casting.
func (a *Authority) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateOpen {
		return errs.New(errs.WrongState, wrongStateMessage(StateOpen, a.state))
	}
	a.state = StateClosed
	a.logger.Info("election closed")
	return nil
}

// DecryptSum recovers the plaintext sum encoded by an aggregate
// ciphertext, bounded by VoterCountCap.
func (a *Authority) DecryptSum(c elgamal.Ciphertext) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateClosed {
		return 0, errs.New(errs.WrongState, wrongStateMessage(StateClosed, a.state))
	}
	return elgamal.Decrypt(a.params, a.alpha, c, a.voterCountCap)
}

// EnableRangeProof turns on the optional auxiliary range-proof check
// for this election's tally, building Bulletproofs parameters over
// ecGroup sized to VoterCountCap. It must be called before Tally
// consumes it, i.e. any time before the election reaches TALLIED.
func (a *Authority) EnableRangeProof(ecGroup group.Group) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateTallied {
		return errs.New(errs.WrongState, wrongStateMessage(StateClosed, a.state))
	}

	bpParams, err := rangeproof.Setup(a.voterCountCap, ecGroup)
	if err != nil {
		return err
	}
	a.rangeProofParams = &bpParams
	return nil
}

// RangeProofEnabled reports whether EnableRangeProof was called.
func (a *Authority) RangeProofEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rangeProofParams != nil
}

// ProveRange builds the optional RangeProof binding cStar to sum. It
// is the only place outside DecryptSum that touches alpha.
func (a *Authority) ProveRange(cStar elgamal.Ciphertext, sum int64) (*rangeproof.RangeProof, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rangeProofParams == nil {
		return nil, errs.New(errs.ParameterError, "range proof was not enabled for this election")
	}
	return rangeproof.Prove(a.params, a.alpha, cStar, sum, *a.rangeProofParams)
}

// MarkTallied transitions the election from CLOSED to TALLIED. Only
// TallyingCenter calls this, once the tally record has been appended.
func (a *Authority) MarkTallied() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateClosed {
		return errs.New(errs.WrongState, wrongStateMessage(StateClosed, a.state))
	}
	a.state = StateTallied
	a.logger.Info("election tallied")
	return nil
}
