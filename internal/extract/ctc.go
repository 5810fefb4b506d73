package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Compensation is a current/expected CTC pair. Either side may be missing.
type Compensation struct {
	Current  *float64
	Expected *float64
}

// Complete reports whether both sides were found.
func (c Compensation) Complete() bool {
	return c.Current != nil && c.Expected != nil
}

var (
	lakhAmountRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)\s*(?:lakhs?|lpa|lac|l)\b`)
	numberRe     = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

	currentContextRe  = regexp.MustCompile(`(?i)\b(current|present|now|earn|mak(?:e|ing)|get)`)
	expectedContextRe = regexp.MustCompile(`(?i)\b(expect|looking|want|desired|asking)`)
)

type ctcKind int

const (
	kindUnknown ctcKind = iota
	kindCurrent
	kindExpected
)

// CTC extracts current and expected compensation. Two or more amounts with a
// lakh/LPA unit are taken in order; otherwise numbers are classified by the
// context words next to them in their sentence.
//
// A sentence whose first number is preceded by a keyword reads each number
// with the nearest keyword before it ("current 50000 expected 70000").
// Otherwise keywords trail their numbers ("12 is my current and 15 is
// expected") and each number takes the nearest keyword after it.
func CTC(text string) Compensation {
	var out Compensation

	if m := lakhAmountRe.FindAllStringSubmatch(text, -1); len(m) >= 2 {
		cur, err1 := parseAmount(m[0][1])
		exp, err2 := parseAmount(m[1][1])
		if err1 == nil && err2 == nil {
			out.Current = &cur
			out.Expected = &exp
			return out
		}
	}

	for _, sentence := range splitSentences(text) {
		locs := numberRe.FindAllStringIndex(sentence, -1)
		if len(locs) == 0 {
			continue
		}
		trailing := nearestBefore(sentence[:locs[0][0]]) == kindUnknown

		for i, loc := range locs {
			v, err := parseAmount(sentence[loc[0]:loc[1]])
			if err != nil {
				continue
			}

			var kind ctcKind
			if trailing {
				end := len(sentence)
				if i+1 < len(locs) {
					end = locs[i+1][0]
				}
				kind = nearestAfter(sentence[loc[1]:end])
			} else {
				start := 0
				if i > 0 {
					start = locs[i-1][1]
				}
				kind = nearestBefore(sentence[start:loc[0]])
			}

			switch {
			case kind == kindCurrent && out.Current == nil:
				out.Current = &v
			case kind == kindExpected && out.Expected == nil:
				out.Expected = &v
			case out.Current == nil:
				out.Current = &v
			case out.Expected == nil:
				out.Expected = &v
			}
		}
	}

	return out
}

// nearestBefore picks the class whose keyword appears last in s, i.e. the one
// nearest to a number that follows s.
func nearestBefore(s string) ctcKind {
	cur := keywordIndex(currentContextRe, s, true)
	exp := keywordIndex(expectedContextRe, s, true)
	switch {
	case cur < 0 && exp < 0:
		return kindUnknown
	case cur > exp:
		return kindCurrent
	default:
		return kindExpected
	}
}

// nearestAfter picks the class whose keyword appears first in s.
func nearestAfter(s string) ctcKind {
	cur := keywordIndex(currentContextRe, s, false)
	exp := keywordIndex(expectedContextRe, s, false)
	switch {
	case cur < 0 && exp < 0:
		return kindUnknown
	case exp < 0 || (cur >= 0 && cur < exp):
		return kindCurrent
	default:
		return kindExpected
	}
}

func keywordIndex(re *regexp.Regexp, s string, last bool) int {
	all := re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return -1
	}
	if last {
		return all[len(all)-1][0]
	}
	return all[0][0]
}

// splitSentences splits on '.', ';' and ','. A separator sitting between two
// digits is part of a number ("10.5", "12,50,000") and does not split.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i, r := range runes {
		if r != '.' && r != ';' && r != ',' {
			continue
		}
		if r != ';' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i]))
		start = i + 1
	}
	return append(out, string(runes[start:]))
}

// parseAmount reads a number where ',' groups digits and '.' marks decimals.
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
