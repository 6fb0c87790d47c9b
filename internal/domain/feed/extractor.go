// Package feed turns the CNB daily fixing text into exchange rates
package feed

import (
	"iter"
	"regexp"
)

// DefaultHeaderRecords is the number of leading records the CNB feed publishes
// before its data lines. Only the date line matches the record pattern.
const DefaultHeaderRecords = 1

// recordPattern matches a digit run followed by the rest of the line
var recordPattern = regexp.MustCompile(`(\d+)(\d|.+)`)

// Extract yields the candidate records found in text, dropping the first skip matches.
// The sequence scans text lazily and can be ranged over more than once.
func Extract(text string, skip int) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := 0
		rest := text
		for len(rest) > 0 {
			loc := recordPattern.FindStringIndex(rest)
			if loc == nil {
				return
			}

			match := rest[loc[0]:loc[1]]
			rest = rest[loc[1]:]

			seen++
			if seen <= skip {
				continue
			}

			if !yield(match) {
				return
			}
		}
	}
}
