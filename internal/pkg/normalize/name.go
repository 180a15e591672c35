package normalize

import (
	"strings"

	"github.com/go-call-verify/internal/domain"
)

var nameLeadIns = []string{
	"my full name is", "my name is", "the name is", "name is", "the name on the account is",
	"it's", "it is", "its", "this is", "i'm", "i am", "yes it's", "yeah it's",
}

var honorifics = map[string]bool{
	"mr": true, "mister": true, "mrs": true, "missus": true, "ms": true, "miss": true, "mx": true,
	"dr": true, "doctor": true, "prof": true, "professor": true, "sir": true, "dame": true,
	"madam": true, "rev": true, "reverend": true, "fr": true, "father": true, "lord": true, "lady": true,
}

var nameSuffixes = map[string]bool{
	"jr": true, "junior": true, "sr": true, "senior": true,
	"ii": true, "iii": true, "iv": true, "esq": true, "phd": true,
}

// normalizeName lowercases, drops lead-ins, leading titles and trailing suffixes, and
// splits the rest into ordered tokens. Apostrophes and hyphens inside names are kept.
func normalizeName(raw string) Value {
	v := Value{Kind: domain.FieldName}
	s := stripLeadIn(flatten(raw, "'-"), nameLeadIns)
	tokens := strings.Fields(strings.Trim(s, "'-"))
	for len(tokens) > 0 && honorifics[tokens[0]] {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && nameSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		v.Unparseable = true
		return v
	}
	v.Tokens = tokens
	v.Text = strings.Join(tokens, " ")
	return v
}
