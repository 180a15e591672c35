package domain

import "time"

// CallPhase tells the orchestrator which component receives the next utterance.
type CallPhase int

const (
	PhaseAwaitingReference CallPhase = iota
	PhaseVerifying
	PhaseDisclosing
	PhaseEnded
)

func (p CallPhase) String() string {
	switch p {
	case PhaseAwaitingReference:
		return "awaiting_reference"
	case PhaseVerifying:
		return "verifying"
	case PhaseDisclosing:
		return "disclosing"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

func (p CallPhase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *CallPhase) UnmarshalText(b []byte) error { return parseEnum(b, PhaseEnded, p) }

// EndReason values recorded with a call outcome.
const (
	EndResolvedPay        = "resolved_pay"
	EndResolvedNoPay      = "resolved_no_pay"
	EndVerificationFailed = "verification_failed"
	EndRecordNotFound     = "record_not_found"
	EndSystemError        = "system_error"
)

// Speaker values for transcript lines.
const (
	SpeakerAgent  = "agent"
	SpeakerCaller = "caller"
)

type Utterance struct {
	Speaker string    `json:"speaker" dynamodbav:"speaker"`
	Text    string    `json:"text" dynamodbav:"text"`
	At      time.Time `json:"at" dynamodbav:"at"`
}

// CallSession is the sole owner of all per-call state. It lives in memory for the call's duration.
type CallSession struct {
	CallID          string
	ReferenceNumber string
	CallerPhone     string
	DayFirst        bool
	Record          *CallerRecord
	Phase           CallPhase
	Verification    VerificationState
	Attempts        []FieldAttempt
	Disclosure      DisclosureState
	Transcript      []Utterance
	EndReason       string
	StartedAt       time.Time
	UpdatedAt       time.Time
	EndedAt         *time.Time
}

// CallView is the externally visible projection of a session. It never carries record data.
type CallView struct {
	CallID          string            `json:"id"`
	ReferenceNumber string            `json:"reference_number,omitempty"`
	Phase           CallPhase         `json:"phase"`
	Verification    VerificationState `json:"verification"`
	Disclosure      DisclosureStatus  `json:"disclosure"`
	Attempts        int               `json:"attempts"`
	EndReason       string            `json:"end_reason,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
}

// View projects the session for API responses.
func (s *CallSession) View() *CallView {
	return &CallView{
		CallID:          s.CallID,
		ReferenceNumber: s.ReferenceNumber,
		Phase:           s.Phase,
		Verification:    s.Verification,
		Disclosure:      s.Disclosure.Status,
		Attempts:        len(s.Attempts),
		EndReason:       s.EndReason,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
	}
}

// CallOutcome is written once per call at its terminal transition.
// PK: call_id. GSI: reference_number-index.
type CallOutcome struct {
	CallID          string         `json:"id" dynamodbav:"call_id"`
	ReferenceNumber string         `json:"reference_number" dynamodbav:"reference_number"`
	AccountID       string         `json:"account_id,omitempty" dynamodbav:"account_id"`
	Outcome         string         `json:"outcome" dynamodbav:"outcome"`
	Verification    string         `json:"verification" dynamodbav:"verification"`
	Disclosure      string         `json:"disclosure" dynamodbav:"disclosure"`
	Passes          int            `json:"passes" dynamodbav:"passes"`
	Attempts        []FieldAttempt `json:"attempts" dynamodbav:"attempts"`
	SMSSent         bool           `json:"sms_sent" dynamodbav:"sms_sent"`
	TranscriptKey   string         `json:"transcript_key,omitempty" dynamodbav:"transcript_key"`
	StartedAt       time.Time      `json:"started_at" dynamodbav:"started_at"`
	EndedAt         time.Time      `json:"ended_at" dynamodbav:"ended_at"`
}

// Transcript is the archived record of one call: every spoken line plus the attempt log.
type Transcript struct {
	CallID          string         `json:"call_id"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	Outcome         string         `json:"outcome"`
	Lines           []Utterance    `json:"lines"`
	Attempts        []FieldAttempt `json:"attempts"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         time.Time      `json:"ended_at"`
}
