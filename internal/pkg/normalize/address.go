package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-call-verify/internal/domain"
)

var addressLeadIns = []string{
	"my address is", "the address is", "address is", "i live at", "i live in",
	"it's", "it is", "its", "that's", "that is",
}

// addressAbbreviations expands common street-type and unit abbreviations.
var addressAbbreviations = map[string]string{
	"st":   "street",
	"str":  "street",
	"rd":   "road",
	"ave":  "avenue",
	"av":   "avenue",
	"apt":  "apartment",
	"ln":   "lane",
	"dr":   "drive",
	"ct":   "court",
	"blvd": "boulevard",
	"pl":   "place",
	"sq":   "square",
	"cres": "crescent",
	"tce":  "terrace",
	"terr": "terrace",
	"pk":   "park",
	"hwy":  "highway",
	"mt":   "mount",
	"co":   "county",
	"ste":  "suite",
	"bldg": "building",
	"est":  "estate",
	"gdns": "gardens",
	"hts":  "heights",
}

// eircode matches Irish postcodes such as "H91 XY56" or "D6W 1234".
var eircode = regexp.MustCompile(`\b[a-z][0-9][0-9w]\s?[a-z0-9]{4}\b`)

// normalizeAddress lowercases, strips punctuation and postcodes, turns number words and
// digit ordinals ("1st") into plain digits and expands abbreviations.
func normalizeAddress(raw string) Value {
	v := Value{Kind: domain.FieldAddress}
	s := strings.ToLower(raw)
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = eircode.ReplaceAllString(s, " ")
	s = stripLeadIn(flatten(s, ""), addressLeadIns)

	words := strings.Fields(s)
	tokens := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if isNumberWord(words[i]) && words[i] != "o" {
			end := numberRunEnd(words, i)
			for _, num := range parseNumberRun(words[i:end]) {
				tokens = append(tokens, strconv.Itoa(num.n))
			}
			i = end
			continue
		}
		w := words[i]
		if full, ok := addressAbbreviations[w]; ok {
			w = full
		} else if num, ok := parseDigits(w); ok && num.ordinal {
			w = strconv.Itoa(num.n)
		}
		tokens = append(tokens, w)
		i++
	}
	if len(tokens) == 0 {
		v.Unparseable = true
		return v
	}
	v.Tokens = tokens
	v.Text = strings.Join(tokens, " ")
	return v
}
