package domain

// VerificationStatus is the phase of the identity check.
type VerificationStatus int

const (
	VerificationNotStarted VerificationStatus = iota
	VerificationAwaitingField
	VerificationRetrying
	VerificationVerified
	VerificationFailed
)

func (s VerificationStatus) String() string {
	switch s {
	case VerificationNotStarted:
		return "not_started"
	case VerificationAwaitingField:
		return "awaiting_field"
	case VerificationRetrying:
		return "retrying"
	case VerificationVerified:
		return "verified"
	case VerificationFailed:
		return "failed"
	}
	return "unknown"
}

func (s VerificationStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *VerificationStatus) UnmarshalText(b []byte) error {
	return parseEnum(b, VerificationFailed, s)
}

// Terminal reports whether no further verification question can be asked.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationVerified || s == VerificationFailed
}

// FieldOutcome is the resolved state of one field.
type FieldOutcome int

const (
	FieldPending FieldOutcome = iota
	FieldPassed
	FieldFailed
)

func (o FieldOutcome) String() string {
	switch o {
	case FieldPassed:
		return "passed"
	case FieldFailed:
		return "failed"
	}
	return "pending"
}

func (o FieldOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *FieldOutcome) UnmarshalText(b []byte) error { return parseEnum(b, FieldFailed, o) }

// PassesRequired is the number of field passes that verifies a caller.
const PassesRequired = 2

// VerificationState is a value: transitions return a new state and never mutate the old one.
// Field and Retries are meaningful in AwaitingField and Retrying.
type VerificationState struct {
	Status       VerificationStatus       `json:"status"`
	Field        FieldKind                `json:"field"`
	Retries      int                      `json:"retries,omitempty"`
	Passes       int                      `json:"passes"`
	Outcomes     [FieldCount]FieldOutcome `json:"outcomes"`
	RetryOffered bool                     `json:"retry_offered,omitempty"`
	Answers      int                      `json:"answers"`
}
