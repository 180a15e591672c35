package normalize

type wordKind int

const (
	wordUnit wordKind = iota
	wordTeen
	wordTens
	wordHundred
	wordThousand
	wordZero
)

type numberWord struct {
	val     int
	kind    wordKind
	ordinal bool
}

var numberWords = map[string]numberWord{
	"zero": {0, wordZero, false}, "oh": {0, wordZero, false}, "o": {0, wordZero, false},
	"one": {1, wordUnit, false}, "two": {2, wordUnit, false}, "three": {3, wordUnit, false},
	"four": {4, wordUnit, false}, "five": {5, wordUnit, false}, "six": {6, wordUnit, false},
	"seven": {7, wordUnit, false}, "eight": {8, wordUnit, false}, "nine": {9, wordUnit, false},
	"ten": {10, wordTeen, false}, "eleven": {11, wordTeen, false}, "twelve": {12, wordTeen, false},
	"thirteen": {13, wordTeen, false}, "fourteen": {14, wordTeen, false}, "fifteen": {15, wordTeen, false},
	"sixteen": {16, wordTeen, false}, "seventeen": {17, wordTeen, false}, "eighteen": {18, wordTeen, false},
	"nineteen": {19, wordTeen, false},
	"twenty": {20, wordTens, false}, "thirty": {30, wordTens, false}, "forty": {40, wordTens, false},
	"fifty": {50, wordTens, false}, "sixty": {60, wordTens, false}, "seventy": {70, wordTens, false},
	"eighty": {80, wordTens, false}, "ninety": {90, wordTens, false},
	"hundred": {100, wordHundred, false}, "thousand": {1000, wordThousand, false},

	"first": {1, wordUnit, true}, "second": {2, wordUnit, true}, "third": {3, wordUnit, true},
	"fourth": {4, wordUnit, true}, "fifth": {5, wordUnit, true}, "sixth": {6, wordUnit, true},
	"seventh": {7, wordUnit, true}, "eighth": {8, wordUnit, true}, "ninth": {9, wordUnit, true},
	"tenth": {10, wordTeen, true}, "eleventh": {11, wordTeen, true}, "twelfth": {12, wordTeen, true},
	"thirteenth": {13, wordTeen, true}, "fourteenth": {14, wordTeen, true}, "fifteenth": {15, wordTeen, true},
	"sixteenth": {16, wordTeen, true}, "seventeenth": {17, wordTeen, true}, "eighteenth": {18, wordTeen, true},
	"nineteenth": {19, wordTeen, true},
	"twentieth": {20, wordTens, true}, "thirtieth": {30, wordTens, true},
}

// number is one numeric item read from speech or digits.
type number struct {
	n       int
	ordinal bool
	digits  int  // digit count when written with digits or "oh five"; 0 for plain words
	spoken  bool // built from number words
}

func isNumberWord(w string) bool {
	_, ok := numberWords[w]
	return ok
}

// numberRunEnd returns the index just past the run of number words starting at i.
// "and" joins a run only when number words sit on both sides of it.
func numberRunEnd(words []string, i int) int {
	j := i
	for j < len(words) {
		if isNumberWord(words[j]) {
			j++
			continue
		}
		if words[j] == "and" && j > i && j+1 < len(words) && isNumberWord(words[j+1]) {
			j++
			continue
		}
		break
	}
	return j
}

// parseNumberRun turns a run of consecutive number words into numbers. A new number starts
// whenever a word cannot extend the current one by place value, so "nineteen eighty five"
// yields 19 and 85 while "two thousand and one" yields 2001.
func parseNumberRun(words []string) []number {
	var out []number
	cur := number{n: -1, spoken: true}
	var curKind wordKind
	scaled := false

	flush := func() {
		if cur.n >= 0 {
			out = append(out, cur)
		}
		cur = number{n: -1, spoken: true}
		scaled = false
	}
	start := func(w numberWord) {
		flush()
		cur.n = w.val
		cur.ordinal = w.ordinal
		curKind = w.kind
	}

	for _, s := range words {
		w, ok := numberWords[s]
		if !ok {
			continue
		}
		switch w.kind {
		case wordZero:
			start(w)
		case wordUnit:
			switch {
			case cur.n == 0 && curKind == wordZero && !cur.ordinal:
				cur.n = w.val
				cur.digits = 2
				cur.ordinal = w.ordinal
				curKind = wordUnit
			case cur.n >= 20 && cur.n%10 == 0 && !cur.ordinal && (curKind == wordTens || scaled):
				cur.n += w.val
				cur.ordinal = w.ordinal
				curKind = wordUnit
			default:
				start(w)
			}
		case wordTeen, wordTens:
			if scaled && cur.n%100 == 0 && !cur.ordinal {
				cur.n += w.val
				cur.ordinal = w.ordinal
				curKind = w.kind
			} else {
				start(w)
			}
		case wordHundred:
			if cur.n > 0 && !cur.ordinal && cur.n < 100 {
				cur.n *= 100
			} else {
				start(w)
			}
			scaled = true
			curKind = wordHundred
		case wordThousand:
			if cur.n > 0 && !cur.ordinal && cur.n < 1000 {
				cur.n *= 1000
			} else {
				start(w)
			}
			scaled = true
			curKind = wordThousand
		}
	}
	flush()
	return out
}
