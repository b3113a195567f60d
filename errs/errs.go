// Package errs defines the error kinds shared by the election core.
//
// Every fallible operation in group, elgamal, nizk, mixnet, token,
// auditlog and protocol returns one of these kinds wrapped in an
// *Error, so callers can distinguish failure categories with
// errors.Is without parsing message strings.
package errs

import "fmt"

// Kind identifies a category of core failure.
type Kind int

const (
	// ParameterError signals that group parameter generation or
	// selection failed (e.g. safe-prime search exhausted its retries).
	ParameterError Kind = iota
	// InvalidProof signals that a NIZK 0-or-1 proof failed verification.
	InvalidProof
	// MixProofInvalid signals that a mixnet re-encryption proof failed
	// verification.
	MixProofInvalid
	// UnknownVoter signals that a voter ID has no registration.
	UnknownVoter
	// AlreadyRegistered signals a second token issuance for one voter.
	AlreadyRegistered
	// BadToken signals that a presented token does not match the
	// registered digest.
	BadToken
	// TokenAlreadyUsed signals a repeated authenticate-and-consume call.
	TokenAlreadyUsed
	// WrongState signals an operation attempted outside its required
	// election state.
	WrongState
	// TallyOutOfRange signals that discrete-log recovery found no
	// exponent within the supplied bound.
	TallyOutOfRange
	// AuditTampered signals a broken hash-chain linkage or payload
	// digest mismatch in the audit log.
	AuditTampered
)

func (k Kind) String() string {
	switch k {
	case ParameterError:
		return "ParameterError"
	case InvalidProof:
		return "InvalidProof"
	case MixProofInvalid:
		return "MixProofInvalid"
	case UnknownVoter:
		return "UnknownVoter"
	case AlreadyRegistered:
		return "AlreadyRegistered"
	case BadToken:
		return "BadToken"
	case TokenAlreadyUsed:
		return "TokenAlreadyUsed"
	case WrongState:
		return "WrongState"
	case TallyOutOfRange:
		return "TallyOutOfRange"
	case AuditTampered:
		return "AuditTampered"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by the core. It carries a
// Kind so callers can branch with errors.Is(err, errs.New(kind, ""))
// or errors.As, plus a human-readable message and an optional wrapped
// cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, errs.New(errs.BadToken, "")) matches regardless of
// message or wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around a lower-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
