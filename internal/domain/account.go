package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// CallerRecord is the account returned by the external lookup, keyed by reference number.
// It is read-only for the lifetime of a call.
type CallerRecord struct {
	ReferenceNumber string `json:"reference_number" dynamodbav:"reference_number"`
	AccountID       string `json:"account_id" dynamodbav:"account_id"`
	FullName        string `json:"full_name" dynamodbav:"full_name"`
	DateOfBirth     string `json:"date_of_birth" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	Address         string `json:"address" dynamodbav:"address"`
	BalanceMinor    int64  `json:"balance_minor" dynamodbav:"balance_minor"` // cents
	Currency        string `json:"currency" dynamodbav:"currency"`           // ISO 4217
	CreditorName    string `json:"creditor_name" dynamodbav:"creditor_name"`
	PhoneNumber     string `json:"phone_number,omitempty" dynamodbav:"phone_number"`
	Status          string `json:"status,omitempty" dynamodbav:"status"`
	Notes           string `json:"notes,omitempty" dynamodbav:"notes"`
}

// Field returns the stored value the caller is asked to confirm for kind.
func (r *CallerRecord) Field(kind FieldKind) string {
	switch kind {
	case FieldDateOfBirth:
		return r.DateOfBirth
	case FieldName:
		return r.FullName
	case FieldAddress:
		return r.Address
	}
	return ""
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"GBP": "£",
	"USD": "$",
}

// FormatBalance renders the balance the way it is read out to the caller, e.g. "€322.15".
func (r *CallerRecord) FormatBalance() string {
	neg := r.BalanceMinor < 0
	v := r.BalanceMinor
	if neg {
		v = -v
	}
	amount := fmt.Sprintf("%d.%02d", v/100, v%100)
	if sym, ok := currencySymbols[r.Currency]; ok {
		amount = sym + amount
	} else if r.Currency != "" {
		amount = amount + " " + r.Currency
	}
	if neg {
		amount = "-" + amount
	}
	return amount
}

// CanonicalReference is the lookup key for a reference number: its letters uppercased
// and its digits, with spaces and separators such as "-" or "/" dropped.
// "iw-1003", "IW 1003" and "IW1003" share one key.
func CanonicalReference(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
