// Package narration reconstructs structured contest outcomes from the
// server's human-readable narration log.
//
// The server never sends structured outcome records for elections or
// legislation resolution, only prose. This package is the only source of
// queryable outcome data: a single left-to-right scan over the log applies
// an ordered table of line patterns to a current-contest accumulator and
// flushes a record whenever a new contest header appears, plus once at end
// of log. Reconstruction is total (a line matching no pattern is free text
// and skipped) and pure, so re-running it on the same log yields
// structurally equal output, and extending the log never changes records
// for contests that were already closed.
package narration

// ContestKind distinguishes election contests from legislation votes.
type ContestKind string

const (
	// KindElection is a contest for an elected office.
	KindElection ContestKind = "election"
	// KindLegislation is a resolution vote on a sponsored bill.
	KindLegislation ContestKind = "legislation"
)

// UnnamedChallenger is the synthetic display name recorded for the
// non-player opponent the server fields when an election is uncontested.
const UnnamedChallenger = "Unaffiliated Challenger"

// ParticipantResult is one participant's reconstructed line in a contest.
// Committed stays 0 unless a reveal line named the participant.
type ParticipantResult struct {
	Name      string
	Roll      int
	Bonus     int
	Total     int
	Committed int
	Winner    bool
}

// OutcomeRecord is one reconstructed contest: an election for an office or
// a legislation resolution. TieBreaker carries the full text of the last
// tie line seen, or empty when the contest resolved cleanly.
type OutcomeRecord struct {
	Kind         ContestKind
	Subject      string
	Participants []ParticipantResult
	TieBreaker   string
}

// contest is the mutable accumulator for the contest currently being
// scanned. Participants are keyed by display name, last write wins; the
// log format carries no stable participant identifier, so two players
// sharing a name merge silently.
type contest struct {
	kind         ContestKind
	subject      string
	participants []ParticipantResult
	tieBreaker   string
}

// upsert replaces the named participant's entry or appends a new one.
func (c *contest) upsert(result ParticipantResult) {
	for i := range c.participants {
		if c.participants[i].Name == result.Name {
			c.participants[i] = result
			return
		}
	}
	c.participants = append(c.participants, result)
}

// find returns the named participant's entry, or nil when the name has not
// scored yet in this contest.
func (c *contest) find(name string) *ParticipantResult {
	for i := range c.participants {
		if c.participants[i].Name == name {
			return &c.participants[i]
		}
	}
	return nil
}

// record copies the accumulator into an immutable OutcomeRecord.
func (c *contest) record() OutcomeRecord {
	participants := make([]ParticipantResult, len(c.participants))
	copy(participants, c.participants)
	return OutcomeRecord{
		Kind:         c.kind,
		Subject:      c.subject,
		Participants: participants,
		TieBreaker:   c.tieBreaker,
	}
}
