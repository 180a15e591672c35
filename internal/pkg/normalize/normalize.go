// Package normalize canonicalizes recognized caller speech per verification field so the
// scorer can compare it with stored account values.
//
// Normalization never fails. Input that cannot be read as the requested field yields a
// Value with Unparseable set, which scorers treat as a non-match.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-call-verify/internal/domain"
)

// DateOrder decides which reading of an ambiguous numeric date such as 01/05/1990 is preferred.
type DateOrder int

const (
	DayFirst DateOrder = iota
	MonthFirst
)

func (o DateOrder) String() string {
	if o == MonthFirst {
		return "month-first"
	}
	return "day-first"
}

// ParseDateOrder accepts "day-first"/"dmy" and "month-first"/"mdy". Empty means DayFirst.
func ParseDateOrder(s string) (DateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day-first", "dmy":
		return DayFirst, nil
	case "month-first", "mdy":
		return MonthFirst, nil
	}
	return DayFirst, fmt.Errorf("unknown date order %q: %w", s, domain.ErrBadRequest)
}

// Date is a canonical calendar date.
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Value is the comparable form of one answer or stored field.
// For dates, Dates lists every calendar-valid reading, preferred reading first.
type Value struct {
	Kind        domain.FieldKind
	Text        string
	Tokens      []string
	Dates       []Date
	Unparseable bool
}

// Normalizer is safe to copy and share; it holds no mutable state.
type Normalizer struct {
	Order DateOrder
}

func New(order DateOrder) Normalizer {
	return Normalizer{Order: order}
}

// Normalize canonicalizes raw for the given field.
func (n Normalizer) Normalize(kind domain.FieldKind, raw string) Value {
	switch kind {
	case domain.FieldDateOfBirth:
		return n.normalizeDate(raw)
	case domain.FieldName:
		return normalizeName(raw)
	case domain.FieldAddress:
		return normalizeAddress(raw)
	}
	return Value{Kind: kind, Unparseable: true}
}

// flatten lowercases s and replaces every rune that is not a letter, digit or one of keep
// with a space, then collapses whitespace.
func flatten(s string, keep string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "’", "'")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(keep, r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripLeadIn removes the first matching conversational lead-in such as "my name is".
func stripLeadIn(s string, leadIns []string) string {
	for _, l := range leadIns {
		if s == l {
			return ""
		}
		if strings.HasPrefix(s, l+" ") {
			return strings.TrimSpace(s[len(l):])
		}
	}
	return s
}
