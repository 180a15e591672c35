package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallViewJSONRoundTrip(t *testing.T) {
	in := CallView{
		CallID: "01HX",
		Phase:  PhaseDisclosing,
		Verification: VerificationState{
			Status:   VerificationVerified,
			Field:    FieldName,
			Passes:   2,
			Outcomes: [FieldCount]FieldOutcome{FieldPassed, FieldPassed, FieldPending},
		},
		Disclosure: DisclosureAwaitingPaymentResponse,
	}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"phase":"disclosing"`)
	assert.Contains(t, string(raw), `"outcomes":["passed","passed","pending"]`)

	var out CallView
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Phase, out.Phase)
	assert.Equal(t, in.Verification, out.Verification)
	assert.Equal(t, in.Disclosure, out.Disclosure)
}

func TestUnmarshalText_Unknown(t *testing.T) {
	var k FieldKind
	err := k.UnmarshalText([]byte("shoe_size"))
	assert.ErrorIs(t, err, ErrBadRequest)

	var m MatchResult
	require.NoError(t, m.UnmarshalText([]byte("close")))
	assert.Equal(t, MatchClose, m)
}

func TestFormatBalance(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{32215, "EUR", "€322.15"},
		{5, "GBP", "£0.05"},
		{-1000, "USD", "-$10.00"},
		{12345, "CHF", "123.45 CHF"},
		{100, "", "1.00"},
	}
	for _, tc := range cases {
		r := &CallerRecord{BalanceMinor: tc.minor, Currency: tc.currency}
		assert.Equal(t, tc.want, r.FormatBalance())
	}
}

func TestCallerRecordField(t *testing.T) {
	r := &CallerRecord{FullName: "John Smith", DateOfBirth: "1985-03-02", Address: "12 Elm St"}
	assert.Equal(t, "1985-03-02", r.Field(FieldDateOfBirth))
	assert.Equal(t, "John Smith", r.Field(FieldName))
	assert.Equal(t, "12 Elm St", r.Field(FieldAddress))
	assert.Empty(t, r.Field(FieldKind(9)))
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentAffirmative, ParseIntent("yes"))
	assert.Equal(t, IntentNegative, ParseIntent("negative"))
	assert.Equal(t, IntentUnclear, ParseIntent("maybe"))
}

func TestTerminal(t *testing.T) {
	assert.True(t, VerificationFailed.Terminal())
	assert.False(t, VerificationRetrying.Terminal())
	assert.True(t, DisclosureResolvedNoPay.Terminal())
	assert.False(t, DisclosureAwaitingPaymentResponse.Terminal())
}

func TestCanonicalReference(t *testing.T) {
	cases := map[string]string{
		"REF123":      "REF123",
		"iw-1003":     "IW1003",
		"IW 1003":     "IW1003",
		"ab/99.":      "AB99",
		"ABCDEF":      "ABCDEF",
		" - ":         "",
		"Ó'Brien-7 ": "ÓBRIEN7",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalReference(in), "input: %q", in)
	}
}
