// Package extract turns free-text candidate utterances into typed values.
//
// Every extractor is pure and reports "not found" instead of guessing:
// ambiguous or partial input is routed by the dialogue to a retry branch.
package extract

import "regexp"

var (
	affirmativeRe = regexp.MustCompile(`(?i)\b(yes|yeah|sure|definitely|correct|right|ok|okay|yep|yup|positive|true|confirm)\b`)
	negativeRe    = regexp.MustCompile(`(?i)\b(no|nope|not|negative|false|incorrect|wrong|nah)\b`)
)

// Boolean reports a yes/no answer. Affirmative words win when both kinds are
// present. ok is false when neither matches.
func Boolean(text string) (value bool, ok bool) {
	if affirmativeRe.MatchString(text) {
		return true, true
	}
	if negativeRe.MatchString(text) {
		return false, true
	}
	return false, false
}
