package call

import (
	"strings"

	"github.com/go-call-verify/internal/domain"
)

// referenceLeadIns are stripped from the front of the utterance, repeatedly, so
// "okay so my reference number is" leaves only the reference. Longer phrases come first.
var referenceLeadIns = splitPhrases(
	"my account reference number is", "my reference number is", "the reference number is",
	"reference number is", "my reference is", "the reference is", "reference is",
	"my account number is", "account number is", "my number is", "the number is",
	"my reference number", "reference number", "reference",
	"it's", "it is", "its", "that's", "that is", "i have", "i've got", "i got", "here it is",
	"okay", "ok", "yeah", "yes", "sure", "right", "well", "so", "oh", "um", "uh", "erm",
)

var spokenDigits = map[string]string{
	"zero": "0", "oh": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
}

func splitPhrases(phrases ...string) [][]string {
	out := make([][]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.Fields(p)
	}
	return out
}

// normalizeReference turns a spoken or typed reference into its lookup key.
// Any text is accepted; "" means nothing but lead-ins or punctuation was said.
// Digits may be spoken one word at a time.
func normalizeReference(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	var words []string
	for _, w := range strings.Fields(s) {
		if w = strings.Trim(w, ",.!?;:\"()"); w != "" {
			words = append(words, w)
		}
	}
	words = stripLeadIns(words)

	var b strings.Builder
	for _, w := range words {
		if d, ok := spokenDigits[w]; ok {
			w = d
		}
		b.WriteString(w)
	}
	return domain.CanonicalReference(b.String())
}

func stripLeadIns(words []string) []string {
	for {
		stripped := false
		for _, l := range referenceLeadIns {
			if hasWordPrefix(words, l) {
				words = words[len(l):]
				stripped = true
				break
			}
		}
		if !stripped {
			return words
		}
	}
}

func hasWordPrefix(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i, p := range prefix {
		if words[i] != p {
			return false
		}
	}
	return true
}
