// Command evoted runs a single referendum end to end against an
// in-process Authority, VotingCenter, and TallyingCenter: open the
// election, register and cast a fixed slate of demo ballots, close,
// mix, and tally. It is a smoke harness, not a product surface.
package main

import (
	"fmt"
	"os"

	"github.com/kaarelvoter/evote-core/group"
	"github.com/kaarelvoter/evote-core/protocol"
	"github.com/kaarelvoter/evote-core/telemetry"
)

// demoBits sizes the safe-prime ElGamal group for a fast demo run.
// Real elections need a much larger modulus; see group.GenSafePrime.
const demoBits = 256

// demoBallots is the fixed slate of votes cast by the demo voters,
// one bit each, in registration order.
var demoBallots = []int{1, 1, 0, 1, 0, 0, 1, 1, 1, 0}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "evoted:", err)
		os.Exit(1)
	}
}

func run() error {
	logger := telemetry.New()

	authority, err := protocol.NewAuthority(demoBits, int64(len(demoBallots)), logger)
	if err != nil {
		return fmt.Errorf("initialize authority: %w", err)
	}
	votingCenter := protocol.NewVotingCenter(authority, logger)
	tallyingCenter := protocol.NewTallyingCenter(authority, votingCenter, logger)

	if err := authority.EnableRangeProof(group.P256()); err != nil {
		return fmt.Errorf("enable range proof: %w", err)
	}

	if err := authority.Open(); err != nil {
		return fmt.Errorf("open election: %w", err)
	}

	for i, bit := range demoBallots {
		voterID := fmt.Sprintf("voter-%02d", i)

		token, err := authority.Register(voterID)
		if err != nil {
			return fmt.Errorf("register %s: %w", voterID, err)
		}

		ciphertext, proof, err := protocol.CastBallot(authority.Params(), bit)
		if err != nil {
			return fmt.Errorf("build ballot for %s: %w", voterID, err)
		}

		if err := votingCenter.Cast(voterID, token, ciphertext, proof); err != nil {
			return fmt.Errorf("cast for %s: %w", voterID, err)
		}
	}

	if err := authority.Close(); err != nil {
		return fmt.Errorf("close election: %w", err)
	}

	yes, no, err := tallyingCenter.Tally()
	if err != nil {
		return fmt.Errorf("tally election: %w", err)
	}

	fmt.Printf("yes=%d no=%d audit_events=%d\n", yes, no, authority.Log().Len())
	return authority.Log().Verify()
}
