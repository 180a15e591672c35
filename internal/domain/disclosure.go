package domain

// DisclosureStatus is the phase of the balance disclosure and payment request.
type DisclosureStatus int

const (
	DisclosureNotEligible DisclosureStatus = iota
	DisclosureDisclosed
	DisclosureAwaitingPaymentResponse
	DisclosureResolvedPay
	DisclosureResolvedNoPay
)

func (s DisclosureStatus) String() string {
	switch s {
	case DisclosureNotEligible:
		return "not_eligible"
	case DisclosureDisclosed:
		return "disclosed"
	case DisclosureAwaitingPaymentResponse:
		return "awaiting_payment_response"
	case DisclosureResolvedPay:
		return "resolved_pay"
	case DisclosureResolvedNoPay:
		return "resolved_no_pay"
	}
	return "unknown"
}

func (s DisclosureStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DisclosureStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, DisclosureResolvedNoPay, s)
}

func (s DisclosureStatus) Terminal() bool {
	return s == DisclosureResolvedPay || s == DisclosureResolvedNoPay
}

type DisclosureState struct {
	Status  DisclosureStatus `json:"status"`
	Unclear int              `json:"unclear,omitempty"`
}

// Intent is the classified meaning of the caller's reply to the payment request.
type Intent int

const (
	IntentUnclear Intent = iota
	IntentAffirmative
	IntentNegative
)

func (i Intent) String() string {
	switch i {
	case IntentAffirmative:
		return "affirmative"
	case IntentNegative:
		return "negative"
	}
	return "unclear"
}

// ParseIntent maps a label to an Intent; anything unrecognised is IntentUnclear.
func ParseIntent(s string) Intent {
	switch s {
	case "affirmative", "yes":
		return IntentAffirmative
	case "negative", "no":
		return IntentNegative
	}
	return IntentUnclear
}
