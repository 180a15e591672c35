// Package match scores a normalized caller answer against a stored account value.
package match

import (
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/pkg/normalize"
)

const (
	defaultNameDistanceRatio = 0.2
	defaultNearMissRatio     = 0.6
	defaultAddressOverlap    = 0.8
	minAddressRun            = 3
)

// Outcome is a match result plus whether a failed name answer was close enough to offer a retry.
type Outcome struct {
	Result   domain.MatchResult
	NearMiss bool
}

// Scorer is pure and stateless per call; one instance can serve every session.
type Scorer struct {
	normalizer        normalize.Normalizer
	aliases           *Aliases
	nameDistanceRatio float64
	nearMissRatio     float64
	addressOverlap    float64
}

type Option func(*Scorer)

// WithAliases replaces the embedded nickname table.
func WithAliases(a *Aliases) Option { return func(s *Scorer) { s.aliases = a } }

// WithNameDistanceRatio sets the edit distance, as a share of the longer name, still scored Close.
func WithNameDistanceRatio(r float64) Option { return func(s *Scorer) { s.nameDistanceRatio = r } }

// WithNearMissRatio sets the similarity at which a non-matching name is offered a retry.
func WithNearMissRatio(r float64) Option { return func(s *Scorer) { s.nearMissRatio = r } }

// WithAddressOverlap sets the share of tokens two addresses must have in common to be Close.
func WithAddressOverlap(r float64) Option { return func(s *Scorer) { s.addressOverlap = r } }

// New returns a Scorer that normalizes stored values with n.
func New(n normalize.Normalizer, opts ...Option) *Scorer {
	s := &Scorer{
		normalizer:        n,
		nameDistanceRatio: defaultNameDistanceRatio,
		nearMissRatio:     defaultNearMissRatio,
		addressOverlap:    defaultAddressOverlap,
	}
	for _, o := range opts {
		o(s)
	}
	if s.aliases == nil {
		s.aliases = DefaultAliases()
	}
	return s
}

// Score classifies answer against the stored value for kind.
func (s *Scorer) Score(kind domain.FieldKind, answer normalize.Value, stored string) domain.MatchResult {
	return s.Evaluate(kind, answer, stored).Result
}

// Evaluate is Score plus the near-miss signal used for the name retry.
func (s *Scorer) Evaluate(kind domain.FieldKind, answer normalize.Value, stored string) Outcome {
	ref := s.normalizer.Normalize(kind, stored)
	if answer.Unparseable || ref.Unparseable || answer.Kind != kind {
		return Outcome{Result: domain.MatchNoMatch}
	}
	switch kind {
	case domain.FieldDateOfBirth:
		return Outcome{Result: scoreDate(answer, ref)}
	case domain.FieldName:
		return s.scoreName(answer, ref)
	case domain.FieldAddress:
		return Outcome{Result: s.scoreAddress(answer, ref)}
	}
	return Outcome{Result: domain.MatchNoMatch}
}

// scoreDate tries every reading of both sides. Dates are never Close.
func scoreDate(answer, ref normalize.Value) domain.MatchResult {
	for _, a := range answer.Dates {
		for _, r := range ref.Dates {
			if a == r {
				return domain.MatchExact
			}
		}
	}
	return domain.MatchNoMatch
}

func (s *Scorer) scoreName(answer, ref normalize.Value) Outcome {
	a, r := answer.Tokens, ref.Tokens
	if equalTokens(a, r) {
		return Outcome{Result: domain.MatchExact}
	}
	if len(a) == len(r) && s.tokensEquivalent(a, r) {
		return Outcome{Result: domain.MatchClose}
	}

	dist := levenshtein.ComputeDistance(answer.Text, ref.Text)
	longer := max(utf8.RuneCountInString(answer.Text), utf8.RuneCountInString(ref.Text))
	if dist <= max(1, int(float64(longer)*s.nameDistanceRatio)) {
		return Outcome{Result: domain.MatchClose}
	}

	// Extra or missing middle names.
	if len(a) >= 2 && len(r) >= 2 && s.aliases.Equivalent(a[0], r[0]) && a[len(a)-1] == r[len(r)-1] {
		return Outcome{Result: domain.MatchClose}
	}

	similarity := 1 - float64(dist)/float64(longer)
	near := similarity >= s.nearMissRatio ||
		(len(a) >= 2 && len(r) >= 2 && a[len(a)-1] == r[len(r)-1]) ||
		(len(a) > 0 && len(r) > 0 && s.aliases.Related(a[0], r[0]))
	return Outcome{Result: domain.MatchNoMatch, NearMiss: near}
}

func (s *Scorer) tokensEquivalent(a, r []string) bool {
	for i := range a {
		if !s.aliases.Equivalent(a[i], r[i]) {
			return false
		}
	}
	return true
}

func (s *Scorer) scoreAddress(answer, ref normalize.Value) domain.MatchResult {
	if answer.Text == ref.Text {
		return domain.MatchExact
	}
	if tokenOverlap(answer.Tokens, ref.Tokens) >= s.addressOverlap {
		return domain.MatchClose
	}
	// The caller left off the town or county but gave the street itself.
	if len(answer.Tokens) >= minAddressRun && containsRun(ref.Tokens, answer.Tokens) && keepsHouseNumber(answer.Tokens, ref.Tokens) {
		return domain.MatchClose
	}
	// The caller added a flat number or town around the stored street.
	if len(ref.Tokens) >= minAddressRun && containsRun(answer.Tokens, ref.Tokens) && keepsHouseNumber(answer.Tokens, ref.Tokens) {
		return domain.MatchClose
	}
	return domain.MatchNoMatch
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tokenOverlap is |A∩B| / max(|A|,|B|) over the distinct tokens of each side.
func tokenOverlap(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	denom := max(len(setA), len(setB))
	if denom == 0 {
		return 0
	}
	shared := 0
	for t := range setA {
		if setB[t] {
			shared++
		}
	}
	return float64(shared) / float64(denom)
}

func toSet(tokens []string) map[string]bool {
	m := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}

// containsRun reports whether sub appears contiguously in full.
func containsRun(full, sub []string) bool {
	for i := 0; i+len(sub) <= len(full); i++ {
		if equalTokens(full[i:i+len(sub)], sub) {
			return true
		}
	}
	return false
}

// keepsHouseNumber reports whether the first numeric stored token, if any, is in answer.
func keepsHouseNumber(answer, ref []string) bool {
	for _, t := range ref {
		if isNumeric(t) {
			return toSet(answer)[t]
		}
	}
	return true
}

func isNumeric(t string) bool {
	for _, r := range t {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return t != ""
}
