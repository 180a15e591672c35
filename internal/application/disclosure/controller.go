// Package disclosure gates the balance read-out behind a verified identity and records the
// caller's answer to the payment request.
package disclosure

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-call-verify/internal/application/script"
	"github.com/go-call-verify/internal/domain"
)

var (
	ErrNotVerified      = errors.New("caller not verified")
	ErrDisclosureClosed = errors.New("disclosure resolved")
)

// maxUnclear is how many unclear replies are tolerated before the answer counts as no.
const maxUnclear = 2

// IntentClassifier maps the caller's reply to the payment request onto an Intent.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (domain.Intent, error)
}

type Step struct {
	Prompt string
}

type Controller struct {
	script script.Script
}

func NewController(sc script.Script) *Controller {
	return &Controller{script: sc}
}

// Begin discloses the balance. It refuses unless verification has already succeeded.
func (c *Controller) Begin(v domain.VerificationState, record *domain.CallerRecord) (domain.DisclosureState, Step, error) {
	if v.Status != domain.VerificationVerified {
		return domain.DisclosureState{Status: domain.DisclosureNotEligible}, Step{},
			fmt.Errorf("disclose with verification %s: %w", v.Status, ErrNotVerified)
	}
	st := domain.DisclosureState{Status: domain.DisclosureDisclosed}
	prompt := c.script.Disclosure(record)
	st.Status = domain.DisclosureAwaitingPaymentResponse
	return st, Step{Prompt: prompt}, nil
}

// Transition applies the classified payment answer.
func (c *Controller) Transition(st domain.DisclosureState, intent domain.Intent) (domain.DisclosureState, Step, error) {
	switch {
	case st.Status.Terminal():
		return st, Step{}, fmt.Errorf("payment answer in status %s: %w", st.Status, ErrDisclosureClosed)
	case st.Status != domain.DisclosureAwaitingPaymentResponse:
		return st, Step{}, fmt.Errorf("payment answer in status %s: %w", st.Status, ErrNotVerified)
	}

	next := st
	switch intent {
	case domain.IntentAffirmative:
		next.Status = domain.DisclosureResolvedPay
		return next, Step{Prompt: c.script.WillPay()}, nil
	case domain.IntentNegative:
		next.Status = domain.DisclosureResolvedNoPay
		return next, Step{Prompt: c.script.WontPay()}, nil
	}

	next.Unclear++
	if next.Unclear >= maxUnclear {
		next.Status = domain.DisclosureResolvedNoPay
		return next, Step{Prompt: c.script.WontPay()}, nil
	}
	return next, Step{Prompt: c.script.AskPaymentAgain()}, nil
}
