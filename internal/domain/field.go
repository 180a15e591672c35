package domain

import "time"

// FieldKind identifies one of the three identity questions.
type FieldKind int

const (
	FieldDateOfBirth FieldKind = iota
	FieldName
	FieldAddress
)

// AskOrder is the fixed order questions are asked in. It never changes based on prior answers.
var AskOrder = [...]FieldKind{FieldDateOfBirth, FieldName, FieldAddress}

// FieldCount is the number of verification fields.
const FieldCount = len(AskOrder)

func (k FieldKind) String() string {
	switch k {
	case FieldDateOfBirth:
		return "date_of_birth"
	case FieldName:
		return "name"
	case FieldAddress:
		return "address"
	}
	return "unknown"
}

func (k FieldKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *FieldKind) UnmarshalText(b []byte) error { return parseEnum(b, FieldAddress, k) }

// MatchResult is the scorer's classification of one answer.
type MatchResult int

const (
	MatchNoMatch MatchResult = iota
	MatchClose
	MatchExact
)

func (m MatchResult) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchClose:
		return "close"
	}
	return "no_match"
}

func (m MatchResult) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MatchResult) UnmarshalText(b []byte) error { return parseEnum(b, MatchExact, m) }

// Passed reports whether the result counts as a verification pass.
func (m MatchResult) Passed() bool { return m == MatchExact || m == MatchClose }

// FieldAttempt is one evaluated answer. Attempts are appended to the session log and never mutated.
type FieldAttempt struct {
	Field       FieldKind   `json:"field" dynamodbav:"field"`
	Raw         string      `json:"raw" dynamodbav:"raw"`
	Normalized  string      `json:"normalized" dynamodbav:"normalized"`
	Unparseable bool        `json:"unparseable,omitempty" dynamodbav:"unparseable"`
	Result      MatchResult `json:"result" dynamodbav:"result"`
	Retry       bool        `json:"retry,omitempty" dynamodbav:"retry"`
	Ordinal     int         `json:"ordinal" dynamodbav:"ordinal"`
	At          time.Time   `json:"at" dynamodbav:"at"`
}
