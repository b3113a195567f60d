package token

import (
	"testing"

	"github.com/kaarelvoter/evote-core/errs"
	"github.com/stretchr/testify/require"
)

func TestIssueThenConsume(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tok, err := r.Issue("voter-1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	require.NoError(t, r.AuthenticateAndConsume("voter-1", tok))
}

func TestIssueRejectsDoubleRegistration(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Issue("voter-1")
	require.NoError(t, err)

	_, err = r.Issue("voter-1")
	require.ErrorIs(t, err, errs.New(errs.AlreadyRegistered, ""))
}

func TestAuthenticateRejectsUnknownVoter(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	err = r.AuthenticateAndConsume("ghost", "anything")
	require.ErrorIs(t, err, errs.New(errs.UnknownVoter, ""))
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Issue("voter-1")
	require.NoError(t, err)

	err = r.AuthenticateAndConsume("voter-1", "not-the-real-token")
	require.ErrorIs(t, err, errs.New(errs.BadToken, ""))
}

func TestAuthenticateRejectsReuse(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tok, err := r.Issue("voter-1")
	require.NoError(t, err)

	require.NoError(t, r.AuthenticateAndConsume("voter-1", tok))

	err = r.AuthenticateAndConsume("voter-1", tok)
	require.ErrorIs(t, err, errs.New(errs.TokenAlreadyUsed, ""))
}

func TestTwoVotersGetDistinctTokens(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	t1, err := r.Issue("voter-1")
	require.NoError(t, err)
	t2, err := r.Issue("voter-2")
	require.NoError(t, err)

	require.NotEqual(t, t1, t2)

	// voter-2's token must not authenticate voter-1.
	err = r.AuthenticateAndConsume("voter-1", t2)
	require.ErrorIs(t, err, errs.New(errs.BadToken, ""))
}
