package call

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-call-verify/internal/application/disclosure"
	"github.com/go-call-verify/internal/application/script"
	"github.com/go-call-verify/internal/application/verification"
	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/infrastructure/metrics"
	"github.com/go-call-verify/internal/pkg/id"
	"github.com/go-call-verify/internal/pkg/normalize"
)

const defaultIdleTimeout = 15 * time.Minute

type AccountRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.CallerRecord, error)
	MarkContacted(ctx context.Context, reference, outcome string, at time.Time) error
}

type OutcomeRecorder interface {
	Put(ctx context.Context, o *domain.CallOutcome) error
}

// TranscriptArchiver stores a finished call's transcript and returns its object key.
type TranscriptArchiver interface {
	Archive(ctx context.Context, t *domain.Transcript) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// PaymentLinker creates a hosted payment page for the balance on rec.
type PaymentLinker interface {
	PaymentLink(ctx context.Context, rec *domain.CallerRecord, callID string) (string, error)
}

type StartRequest struct {
	CallerPhone string `json:"caller_phone" validate:"omitempty,e164"`
	DateOrder   string `json:"date_order" validate:"omitempty,oneof=day-first month-first dmy mdy"`
}

type TurnRequest struct {
	Utterance string `json:"utterance" validate:"max=2000"`
}

// TurnResult is what the telephony worker speaks next, plus the call's visible state.
type TurnResult struct {
	Prompt string           `json:"prompt"`
	Ended  bool             `json:"ended"`
	Call   *domain.CallView `json:"call"`
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (*TurnResult, error)
	Turn(ctx context.Context, callID, utterance string) (*TurnResult, error)
	Get(ctx context.Context, callID string) (*domain.CallView, error)
	Hangup(ctx context.Context, callID string) error
	Sweep(now time.Time) int
	Run(ctx context.Context, every time.Duration)
}

// ServiceDeps holds all dependencies for the call service.
type ServiceDeps struct {
	Accounts    AccountRepository
	Outcomes    OutcomeRecorder
	Transcripts TranscriptArchiver
	SMS         SMSSender
	Payments    PaymentLinker // optional; PaymentLinkBase is used without it
	Classifier  disclosure.IntentClassifier
	Scorer      verification.Scorer
	Script      script.Script
	Metrics     *metrics.Metrics

	DefaultDateOrder normalize.DateOrder
	PaymentLinkBase  string
	IdleTimeout      time.Duration
	Location         *time.Location
	Now              func() time.Time
}

type service struct {
	ServiceDeps
	disclosure *disclosure.Controller
	calls      *registry
}

func NewService(deps ServiceDeps) Service {
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = defaultIdleTimeout
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		ServiceDeps: deps,
		disclosure:  disclosure.NewController(deps.Script),
		calls:       newRegistry(),
	}
}

func (s *service) Start(_ context.Context, req StartRequest) (*TurnResult, error) {
	order := s.DefaultDateOrder
	if req.DateOrder != "" {
		var err error
		if order, err = normalize.ParseDateOrder(req.DateOrder); err != nil {
			return nil, err
		}
	}
	now := s.Now().UTC()
	sess := &domain.CallSession{
		CallID:      id.New(),
		CallerPhone: req.CallerPhone,
		DayFirst:    order == normalize.DayFirst,
		Phase:       domain.PhaseAwaitingReference,
		StartedAt:   now,
		UpdatedAt:   now,
	}
	prompt := s.Script.Greeting(now.In(s.Location))
	sess.Transcript = append(sess.Transcript, domain.Utterance{Speaker: domain.SpeakerAgent, Text: prompt, At: now})

	s.calls.add(&entry{session: sess})
	s.Metrics.CallStarted()
	slog.Info("call started", "call_id", sess.CallID)
	return &TurnResult{Prompt: prompt, Call: sess.View()}, nil
}

// Turn feeds one recognized utterance to the call. A call already processing a turn
// returns domain.ErrConflict.
func (s *service) Turn(ctx context.Context, callID, utterance string) (*TurnResult, error) {
	e, err := s.lock(callID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	sess := e.session
	if sess.Phase == domain.PhaseEnded {
		return nil, fmt.Errorf("call %s: %w", callID, domain.ErrCallEnded)
	}
	start := time.Now()
	phase := sess.Phase
	now := s.Now().UTC()
	sess.Transcript = append(sess.Transcript, domain.Utterance{Speaker: domain.SpeakerCaller, Text: utterance, At: now})

	var prompt string
	if strings.TrimSpace(utterance) == "" {
		prompt = s.repeatQuestion(e)
	} else {
		switch sess.Phase {
		case domain.PhaseAwaitingReference:
			prompt = s.captureReference(ctx, e, utterance, now)
		case domain.PhaseVerifying:
			prompt = s.verify(e, utterance, now)
		case domain.PhaseDisclosing:
			prompt = s.disclose(ctx, e, utterance, now)
		}
	}

	sess.Transcript = append(sess.Transcript, domain.Utterance{Speaker: domain.SpeakerAgent, Text: prompt, At: now})
	sess.UpdatedAt = now
	ended := sess.Phase == domain.PhaseEnded
	if ended {
		s.finish(ctx, sess)
		s.calls.remove(callID)
	}
	s.Metrics.ObserveTurn(phase.String(), start)
	return &TurnResult{Prompt: prompt, Ended: ended, Call: sess.View()}, nil
}

func (s *service) Get(_ context.Context, callID string) (*domain.CallView, error) {
	e, err := s.calls.get(callID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.View(), nil
}

// Hangup discards the call without recording an outcome.
func (s *service) Hangup(_ context.Context, callID string) error {
	e, err := s.lock(callID)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	if s.calls.remove(callID) {
		s.Metrics.CallEnded("")
		slog.Info("call hung up", "call_id", callID, "phase", e.session.Phase.String())
	}
	return nil
}

// lock looks up a call and takes its turn lock.
func (s *service) lock(callID string) (*entry, error) {
	e, err := s.calls.get(callID)
	if err != nil {
		return nil, err
	}
	if err := s.acquire(callID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// acquire takes e's turn lock. An entry removed by Hangup or Sweep after it was
// looked up is reported as not found and left unlocked.
func (s *service) acquire(callID string, e *entry) error {
	if !e.mu.TryLock() {
		return fmt.Errorf("call %s is processing a turn: %w", callID, domain.ErrConflict)
	}
	if !s.calls.live(callID, e) {
		e.mu.Unlock()
		return fmt.Errorf("call %s: %w", callID, domain.ErrNotFound)
	}
	return nil
}

// Sweep discards calls idle for longer than the idle timeout and returns how many it removed.
func (s *service) Sweep(now time.Time) int {
	n := 0
	for _, e := range s.calls.snapshot() {
		if !e.mu.TryLock() {
			continue
		}
		idle := now.Sub(e.session.UpdatedAt) > s.IdleTimeout
		if idle && s.calls.remove(e.session.CallID) {
			s.Metrics.CallEnded("")
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Run sweeps idle calls every interval until ctx is cancelled.
func (s *service) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.Now().UTC()); n > 0 {
				slog.Info("evicted idle calls", "count", n)
			}
		}
	}
}

func (s *service) captureReference(ctx context.Context, e *entry, utterance string, now time.Time) string {
	sess := e.session
	ref := normalizeReference(utterance)
	if ref == "" {
		return s.Script.AskReferenceAgain()
	}
	sess.ReferenceNumber = ref

	record, err := s.Accounts.GetByReference(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		s.end(sess, domain.EndRecordNotFound, now)
		return s.Script.ReferenceNotFound()
	}
	if err != nil {
		slog.Error("account lookup failed", "call_id", sess.CallID, "error", err)
		s.end(sess, domain.EndSystemError, now)
		return s.Script.Apology()
	}

	sess.Record = record
	order := normalize.MonthFirst
	if sess.DayFirst {
		order = normalize.DayFirst
	}
	e.machine = verification.NewMachine(record, normalize.New(order), s.Scorer, s.Script)
	st, step := e.machine.Start()
	sess.Verification = st
	sess.Phase = domain.PhaseVerifying
	return script.Join(s.Script.CheckingReference(), step.Prompt)
}

func (s *service) verify(e *entry, utterance string, now time.Time) string {
	sess := e.session
	st, step, err := e.machine.Transition(sess.Verification, verification.Input{Utterance: utterance, At: now})
	if err != nil {
		slog.Error("verification transition rejected", "call_id", sess.CallID, "error", err)
		s.end(sess, domain.EndSystemError, now)
		return s.Script.Apology()
	}
	sess.Verification = st
	if a := step.Attempt; a != nil {
		sess.Attempts = append(sess.Attempts, *a)
		s.Metrics.FieldAnswered(a.Field.String(), a.Result.String())
	}

	switch st.Status {
	case domain.VerificationFailed:
		s.end(sess, domain.EndVerificationFailed, now)
		return step.Prompt
	case domain.VerificationVerified:
		ds, dstep, err := s.disclosure.Begin(st, sess.Record)
		if err != nil {
			slog.Error("disclosure refused", "call_id", sess.CallID, "error", err)
			s.end(sess, domain.EndSystemError, now)
			return s.Script.Apology()
		}
		sess.Disclosure = ds
		sess.Phase = domain.PhaseDisclosing
		return script.Join(step.Prompt, dstep.Prompt)
	}
	return step.Prompt
}

func (s *service) disclose(ctx context.Context, e *entry, utterance string, now time.Time) string {
	sess := e.session
	intent, err := s.Classifier.Classify(ctx, utterance)
	if err != nil {
		slog.Warn("intent classification failed", "call_id", sess.CallID, "error", err)
		intent = domain.IntentUnclear
	}
	ds, step, err := s.disclosure.Transition(sess.Disclosure, intent)
	if err != nil {
		slog.Error("disclosure transition rejected", "call_id", sess.CallID, "error", err)
		s.end(sess, domain.EndSystemError, now)
		return s.Script.Apology()
	}
	sess.Disclosure = ds
	switch ds.Status {
	case domain.DisclosureResolvedPay:
		s.end(sess, domain.EndResolvedPay, now)
	case domain.DisclosureResolvedNoPay:
		s.end(sess, domain.EndResolvedNoPay, now)
	}
	return step.Prompt
}

// repeatQuestion answers silence by asking the pending question again without scoring it.
func (s *service) repeatQuestion(e *entry) string {
	sess := e.session
	switch sess.Phase {
	case domain.PhaseVerifying:
		if sess.Verification.Status == domain.VerificationRetrying {
			return s.Script.SimilarOnRecord()
		}
		return script.Join(s.Script.DidNotCatch(), s.Script.Ask(sess.Verification.Field))
	case domain.PhaseDisclosing:
		return s.Script.AskPaymentAgain()
	}
	return s.Script.AskReferenceAgain()
}

func (s *service) end(sess *domain.CallSession, reason string, now time.Time) {
	sess.Phase = domain.PhaseEnded
	sess.EndReason = reason
	sess.EndedAt = &now
}

// finish runs the terminal side effects. Failures are logged and counted, never returned.
func (s *service) finish(ctx context.Context, sess *domain.CallSession) {
	ctx = context.WithoutCancel(ctx)
	endedAt := s.Now().UTC()
	if sess.EndedAt != nil {
		endedAt = *sess.EndedAt
	}

	outcome := &domain.CallOutcome{
		CallID:          sess.CallID,
		ReferenceNumber: sess.ReferenceNumber,
		Outcome:         sess.EndReason,
		Verification:    sess.Verification.Status.String(),
		Disclosure:      sess.Disclosure.Status.String(),
		Passes:          sess.Verification.Passes,
		Attempts:        sess.Attempts,
		StartedAt:       sess.StartedAt,
		EndedAt:         endedAt,
	}
	if sess.Record != nil {
		outcome.AccountID = sess.Record.AccountID
	}

	if s.Transcripts != nil {
		key, err := s.Transcripts.Archive(ctx, &domain.Transcript{
			CallID:          sess.CallID,
			ReferenceNumber: sess.ReferenceNumber,
			Outcome:         sess.EndReason,
			Lines:           sess.Transcript,
			Attempts:        sess.Attempts,
			StartedAt:       sess.StartedAt,
			EndedAt:         endedAt,
		})
		if err != nil {
			slog.Error("archive transcript", "call_id", sess.CallID, "error", err)
			s.Metrics.SideEffectFailed("transcript")
		}
		outcome.TranscriptKey = key
	}

	if sess.EndReason == domain.EndResolvedPay && s.SMS != nil {
		outcome.SMSSent = s.sendPaymentDetails(ctx, sess)
	}

	if sess.Record != nil {
		if err := s.Accounts.MarkContacted(ctx, sess.ReferenceNumber, sess.EndReason, endedAt); err != nil {
			slog.Warn("mark account contacted", "call_id", sess.CallID, "error", err)
			s.Metrics.SideEffectFailed("account")
		}
	}

	if s.Outcomes != nil {
		if err := s.Outcomes.Put(ctx, outcome); err != nil {
			slog.Error("record call outcome", "call_id", sess.CallID, "error", err)
			s.Metrics.SideEffectFailed("outcome")
		}
	}

	s.Metrics.CallEnded(sess.EndReason)
	slog.Info("call ended", "call_id", sess.CallID, "outcome", sess.EndReason,
		"verification", outcome.Verification, "passes", outcome.Passes)
}

func (s *service) sendPaymentDetails(ctx context.Context, sess *domain.CallSession) bool {
	to := sess.Record.PhoneNumber
	if to == "" {
		to = sess.CallerPhone
	}
	if to == "" {
		return false
	}
	msg := s.Script.PaymentSMS(sess.Record, s.paymentURL(ctx, sess))
	if err := s.SMS.SendSMS(ctx, to, msg); err != nil {
		slog.Error("send payment details", "call_id", sess.CallID, "error", err)
		s.Metrics.SideEffectFailed("sms")
		return false
	}
	return true
}

// paymentURL prefers a hosted checkout link and falls back to the static base URL.
func (s *service) paymentURL(ctx context.Context, sess *domain.CallSession) string {
	if s.Payments != nil {
		link, err := s.Payments.PaymentLink(ctx, sess.Record, sess.CallID)
		if err == nil && link != "" {
			return link
		}
		slog.Error("create payment link", "call_id", sess.CallID, "error", err)
		s.Metrics.SideEffectFailed("payment_link")
	}
	return paymentLink(s.PaymentLinkBase, sess.ReferenceNumber)
}

func paymentLink(base, reference string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(reference)
}
