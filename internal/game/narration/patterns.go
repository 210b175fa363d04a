package narration

import (
	"regexp"
	"strconv"
)

// linePattern pairs a matcher with the field updates it performs on the
// accumulator. Patterns are tried in table order and the first match wins;
// in well-formed logs at most one pattern applies per line.
type linePattern struct {
	re *regexp.Regexp
	// opens, when non-empty, marks the pattern as a contest header of
	// that kind: the previous contest (if any) is flushed and a fresh
	// accumulator starts with submatch 1 as the subject.
	opens ContestKind
	// apply updates the open contest from the submatches. Never called
	// for header patterns, and skipped entirely when no contest is open.
	apply func(c *contest, m []string, line string)
}

var patterns = []linePattern{
	{
		re:    regexp.MustCompile(`^--- Resolving Election for (.+) ---$`),
		opens: KindElection,
	},
	{
		re:    regexp.MustCompile(`^--- Resolving Legislation: (.+) ---$`),
		opens: KindLegislation,
	},
	{
		// Must precede the named score pattern, which would otherwise
		// capture "An unaffiliated challenger" as a player name.
		re: regexp.MustCompile(`^An unaffiliated challenger's Score: (-?\d+) \(d6\) \+ (-?\d+) \(PC bonus\) = (-?\d+)$`),
		apply: func(c *contest, m []string, _ string) {
			c.upsert(ParticipantResult{
				Name:  UnnamedChallenger,
				Roll:  mustInt(m[1]),
				Bonus: mustInt(m[2]),
				Total: mustInt(m[3]),
			})
		},
	},
	{
		re: regexp.MustCompile(`^(.+?)'s Score: (-?\d+) \(d6\) \+ (-?\d+) \(PC bonus\) = (-?\d+)$`),
		apply: func(c *contest, m []string, _ string) {
			c.upsert(ParticipantResult{
				Name:  m[1],
				Roll:  mustInt(m[2]),
				Bonus: mustInt(m[3]),
				Total: mustInt(m[4]),
			})
		},
	},
	{
		re: regexp.MustCompile(`^(.+?) revealed a commitment of (\d+) PC\b.*$`),
		apply: func(c *contest, m []string, _ string) {
			// A reveal preceding the participant's score line is
			// dropped: there is no entry to attach the amount to.
			if p := c.find(m[1]); p != nil {
				p.Committed = mustInt(m[2])
			}
		},
	},
	{
		re: regexp.MustCompile(`^(.+?) wins the .+$`),
		apply: func(c *contest, m []string, _ string) {
			if p := c.find(m[1]); p != nil {
				p.Winner = true
			}
		},
	},
	{
		re: regexp.MustCompile(`^(.+?) loses the .+$`),
		apply: func(c *contest, m []string, _ string) {
			if p := c.find(m[1]); p != nil {
				p.Winner = false
			}
		},
	},
	{
		// Catch-all for tie narration; ordered last so that a
		// tie-breaker being *won* is handled by the winner pattern.
		re: regexp.MustCompile(`(?i)\btie(?:d|s)?(?:[ -]?breaker)?\b`),
		apply: func(c *contest, m []string, line string) {
			c.tieBreaker = line
		},
	},
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// Unreachable: every capture group feeding this is \d+.
		return 0
	}
	return n
}
