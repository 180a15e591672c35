// Package script holds the caller-facing lines spoken by the agent.
// No line ever carries a stored record value except the post-verification disclosure.
package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-call-verify/internal/domain"
)

// Script renders prompts for one agency.
type Script struct {
	Agency string
}

func New(agency string) Script {
	if agency == "" {
		agency = "the accounts team"
	}
	return Script{Agency: agency}
}

// Salutation picks the time-of-day opener for t in its own location.
func Salutation(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Good morning"
	case h >= 12 && h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (s Script) Greeting(t time.Time) string {
	return fmt.Sprintf("%s, you're through to %s. For security purposes, can I take your reference number please?", Salutation(t), s.Agency)
}

func (Script) AskReferenceAgain() string {
	return "Sorry, I didn't catch that. Can you give me your reference number please?"
}

func (Script) DidNotCatch() string {
	return "Sorry, I didn't catch that."
}

func (Script) ReferenceNotFound() string {
	return "I'm sorry, I couldn't find an account with that reference number. Please check it and call us back. Goodbye."
}

func (Script) CheckingReference() string {
	return "Okay, let me just pull that up for you."
}

// Ask returns the open question for kind. Questions never reveal what is on file.
func (Script) Ask(kind domain.FieldKind) string {
	switch kind {
	case domain.FieldDateOfBirth:
		return "Can you confirm your date of birth for me?"
	case domain.FieldName:
		return "What is the full name on the account?"
	case domain.FieldAddress:
		return "And what is the address on the account?"
	}
	return ""
}

func (Script) Correct() string { return "That's correct." }

func (Script) Mismatch() string { return "That doesn't match what we have." }

func (Script) SimilarOnRecord() string {
	return "I have something similar on record but not exactly that. Can you try again?"
}

func (Script) VerificationFailed() string {
	return "I'm sorry, I wasn't able to verify your identity, so I can't discuss the account today. Goodbye."
}

// Disclosure reads out the balance and creditor and asks for payment.
func (Script) Disclosure(r *domain.CallerRecord) string {
	return fmt.Sprintf("Thank you, you're verified. The balance on your account is %s owed to %s. We need payment of that in full today. Are you able to make that payment?",
		r.FormatBalance(), r.CreditorName)
}

func (Script) AskPaymentAgain() string {
	return "Sorry, I didn't quite get that. Are you able to make the payment in full today, yes or no?"
}

func (Script) WillPay() string {
	return "Great, we'll text you the payment details. Thank you for your call."
}

func (Script) WontPay() string {
	return "That's unfortunate, but hopefully we can negotiate more in the future. Thank you for your call."
}

func (Script) Apology() string {
	return "I'm sorry, we're having a technical problem and can't continue the call right now. Please call us back later."
}

func (Script) CallEnded() string {
	return "This call has ended."
}

// PaymentSMS is the text message sent after the caller agrees to pay.
func (Script) PaymentSMS(r *domain.CallerRecord, link string) string {
	msg := fmt.Sprintf("Payment of %s to %s, reference %s.", r.FormatBalance(), r.CreditorName, r.ReferenceNumber)
	if link != "" {
		msg += " Pay securely here: " + link
	}
	return msg
}

// Join concatenates the non-empty lines of one agent turn.
func Join(lines ...string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, " ")
}
