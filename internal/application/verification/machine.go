// Package verification runs the 2-of-3 identity check as a pure state machine.
package verification

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-call-verify/internal/application/script"
	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/pkg/match"
	"github.com/go-call-verify/internal/pkg/normalize"
)

var (
	// ErrVerificationClosed is returned for input after the check reached Verified or Failed.
	ErrVerificationClosed = errors.New("verification closed")
	ErrNotStarted         = errors.New("verification not started")
)

// Scorer evaluates one normalized answer against the stored value.
type Scorer interface {
	Evaluate(kind domain.FieldKind, answer normalize.Value, stored string) match.Outcome
}

type Input struct {
	Utterance string
	At        time.Time
}

// Step is what one transition produced: the next thing to say and the attempt it logged.
type Step struct {
	Prompt  string
	Attempt *domain.FieldAttempt
}

// Machine is bound to one caller record. It performs no I/O and holds no state of its own.
type Machine struct {
	record     *domain.CallerRecord
	normalizer normalize.Normalizer
	scorer     Scorer
	script     script.Script
}

func NewMachine(record *domain.CallerRecord, n normalize.Normalizer, scorer Scorer, sc script.Script) *Machine {
	return &Machine{record: record, normalizer: n, scorer: scorer, script: sc}
}

// Start opens the check with the first field in ask order.
func (m *Machine) Start() (domain.VerificationState, Step) {
	st := domain.VerificationState{
		Status: domain.VerificationAwaitingField,
		Field:  domain.AskOrder[0],
	}
	return st, Step{Prompt: m.script.Ask(st.Field)}
}

// Transition scores the answer to the field currently asked and returns the next state.
// st is never modified.
func (m *Machine) Transition(st domain.VerificationState, in Input) (domain.VerificationState, Step, error) {
	switch st.Status {
	case domain.VerificationVerified, domain.VerificationFailed:
		return st, Step{}, fmt.Errorf("answer in status %s: %w", st.Status, ErrVerificationClosed)
	case domain.VerificationNotStarted:
		return st, Step{}, ErrNotStarted
	}

	kind := st.Field
	answer := m.normalizer.Normalize(kind, in.Utterance)
	out := m.scorer.Evaluate(kind, answer, m.record.Field(kind))

	next := st
	next.Answers++
	attempt := &domain.FieldAttempt{
		Field:       kind,
		Raw:         in.Utterance,
		Normalized:  answer.Text,
		Unparseable: answer.Unparseable,
		Result:      out.Result,
		Retry:       st.Status == domain.VerificationRetrying,
		Ordinal:     next.Answers,
		At:          in.At,
	}

	if out.Result.Passed() {
		next.Outcomes[kind] = domain.FieldPassed
		next.Passes++
		if next.Passes >= domain.PassesRequired {
			next.Status = domain.VerificationVerified
			next.Retries = 0
			return next, Step{Prompt: m.script.Correct(), Attempt: attempt}, nil
		}
		return m.advance(next, m.script.Correct(), attempt)
	}

	if kind == domain.FieldName && out.NearMiss && !st.RetryOffered {
		next.Status = domain.VerificationRetrying
		next.Retries = 1
		next.RetryOffered = true
		return next, Step{Prompt: m.script.SimilarOnRecord(), Attempt: attempt}, nil
	}

	next.Outcomes[kind] = domain.FieldFailed
	return m.advance(next, m.script.Mismatch(), attempt)
}

// advance moves to the next field in ask order, or fails the check when none is left.
func (m *Machine) advance(st domain.VerificationState, ack string, attempt *domain.FieldAttempt) (domain.VerificationState, Step, error) {
	st.Retries = 0
	for _, k := range domain.AskOrder {
		if st.Outcomes[k] == domain.FieldPending {
			st.Status = domain.VerificationAwaitingField
			st.Field = k
			return st, Step{Prompt: script.Join(ack, m.script.Ask(k)), Attempt: attempt}, nil
		}
	}
	st.Status = domain.VerificationFailed
	return st, Step{Prompt: script.Join(ack, m.script.VerificationFailed()), Attempt: attempt}, nil
}
