package disclosure

import (
	"testing"

	"github.com/go-call-verify/internal/application/script"
	"github.com/go-call-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var record = &domain.CallerRecord{
	ReferenceNumber: "REF123",
	BalanceMinor:    32215,
	Currency:        "EUR",
	CreditorName:    "Irish Water",
}

func verified() domain.VerificationState {
	return domain.VerificationState{Status: domain.VerificationVerified, Passes: 2}
}

func TestBegin_RequiresVerified(t *testing.T) {
	c := NewController(script.New("CMOS"))
	for _, status := range []domain.VerificationStatus{
		domain.VerificationNotStarted,
		domain.VerificationAwaitingField,
		domain.VerificationRetrying,
		domain.VerificationFailed,
	} {
		st, step, err := c.Begin(domain.VerificationState{Status: status}, record)
		assert.ErrorIs(t, err, ErrNotVerified, "status %s", status)
		assert.Equal(t, domain.DisclosureNotEligible, st.Status)
		assert.Empty(t, step.Prompt)
	}
}

func TestBegin_DisclosesBalance(t *testing.T) {
	c := NewController(script.New("CMOS"))
	st, step, err := c.Begin(verified(), record)
	require.NoError(t, err)
	assert.Equal(t, domain.DisclosureAwaitingPaymentResponse, st.Status)
	assert.Contains(t, step.Prompt, "€322.15")
	assert.Contains(t, step.Prompt, "Irish Water")
	assert.Contains(t, step.Prompt, "We need payment of that in full today")
}

func TestTransition(t *testing.T) {
	c := NewController(script.New("CMOS"))
	awaiting := domain.DisclosureState{Status: domain.DisclosureAwaitingPaymentResponse}

	cases := []struct {
		name    string
		intents []domain.Intent
		want    domain.DisclosureStatus
		prompt  string
	}{
		{"yes", []domain.Intent{domain.IntentAffirmative}, domain.DisclosureResolvedPay, "we'll text you the payment details"},
		{"no", []domain.Intent{domain.IntentNegative}, domain.DisclosureResolvedNoPay, "negotiate more in the future"},
		{"unclear then yes", []domain.Intent{domain.IntentUnclear, domain.IntentAffirmative}, domain.DisclosureResolvedPay, "we'll text you"},
		{"unclear twice", []domain.Intent{domain.IntentUnclear, domain.IntentUnclear}, domain.DisclosureResolvedNoPay, "negotiate"},
		{"unclear once", []domain.Intent{domain.IntentUnclear}, domain.DisclosureAwaitingPaymentResponse, "yes or no"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := awaiting
			var step Step
			var err error
			for _, in := range tc.intents {
				st, step, err = c.Transition(st, in)
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, st.Status)
			assert.Contains(t, step.Prompt, tc.prompt)
		})
	}
}

func TestTransition_ResolvedIsTerminal(t *testing.T) {
	c := NewController(script.New("CMOS"))
	for _, status := range []domain.DisclosureStatus{domain.DisclosureResolvedPay, domain.DisclosureResolvedNoPay} {
		_, _, err := c.Transition(domain.DisclosureState{Status: status}, domain.IntentAffirmative)
		assert.ErrorIs(t, err, ErrDisclosureClosed)
	}
	_, _, err := c.Transition(domain.DisclosureState{}, domain.IntentAffirmative)
	assert.ErrorIs(t, err, ErrNotVerified)
}
