// Package intent classifies a caller's reply to a yes/no question by keyword.
package intent

import (
	"context"
	"strings"
	"unicode"

	"github.com/go-call-verify/internal/domain"
)

var affirmativePhrases = []string{
	"yes", "yeah", "yep", "yup", "ya", "aye", "sure", "ok", "okay", "alright", "all right",
	"of course", "certainly", "definitely", "absolutely", "no problem", "grand", "fine",
	"i can", "i will", "go ahead", "that's fine", "sounds good", "i'll pay", "i can pay",
}

var negativePhrases = []string{
	"no", "nope", "nah", "not", "never", "can't", "cannot", "won't", "don't", "unable",
	"i can't", "not today", "no way", "i refuse", "not able", "can't afford", "no money",
}

// unsurePhrases win over any yes or no cue they contain, e.g. "don't" in "I don't know".
var unsurePhrases = []string{
	"don't know", "do not know", "dunno", "not sure", "unsure", "no idea", "not certain",
	"maybe", "perhaps", "possibly", "i'd have to check", "need to think",
}

// Keyword is a deterministic classifier. A reply carrying both a yes and a no cue is unclear.
type Keyword struct{}

func NewKeyword() Keyword { return Keyword{} }

func (Keyword) Classify(_ context.Context, text string) (domain.Intent, error) {
	return Classify(text), nil
}

// Classify is the context-free form of Keyword.Classify.
func Classify(text string) domain.Intent {
	padded := " " + clean(text) + " "
	if containsAny(padded, unsurePhrases) {
		return domain.IntentUnclear
	}
	yes := containsAny(padded, affirmativePhrases)
	no := containsAny(padded, negativePhrases)
	switch {
	case yes && !no:
		return domain.IntentAffirmative
	case no && !yes:
		return domain.IntentNegative
	}
	return domain.IntentUnclear
}

func clean(text string) string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return strings.Join(fields, " ")
}

func containsAny(padded string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
