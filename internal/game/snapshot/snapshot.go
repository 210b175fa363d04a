// Package snapshot holds the authoritative public game state as last
// received from the server, plus the store that owns the current copy.
//
// A snapshot is replaced wholesale on every successful sync. The server is
// the single source of truth: there is no merging or diffing, and a field
// absent from a new snapshot is absent, not "unchanged".
package snapshot

// Phase identifies the current phase of a round.
type Phase string

const (
	// PhaseEvent is the event draw at the start of a round.
	PhaseEvent Phase = "Event"
	// PhaseAction is the per-player action phase.
	PhaseAction Phase = "Action"
	// PhaseLegislation resolves the term's sponsored legislation.
	PhaseLegislation Phase = "Legislation"
	// PhaseElection resolves office elections at the end of a term.
	PhaseElection Phase = "Election"
)

// Player is one seated player in server turn order.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LegislationRecord references a sponsored piece of legislation.
// Owned by the snapshot; read-only to the client.
type LegislationRecord struct {
	LegislationID string `json:"legislation_id"`
	SponsorID     string `json:"sponsor_id"`
	Resolved      bool   `json:"resolved"`
}

// LegislationDef is a static catalog entry for one piece of legislation.
type LegislationDef struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Cost             int    `json:"cost"`
	SuccessThreshold int    `json:"success_threshold"`
	CritThreshold    int    `json:"crit_threshold"`
	RewardPC         int    `json:"reward_pc"`
	PenaltyPC        int    `json:"penalty_pc"`
}

// OfficeDef is a static catalog entry for one elected office.
type OfficeDef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	BonusPC  int    `json:"bonus_pc"`
	TermRank int    `json:"term_rank"`
}

// Snapshot is the full public game state emitted by the server after every
// mutation. The narration log is append-only: the log of snapshot N is a
// prefix-extension of snapshot N-1's log, and round/term counters never
// decrease across snapshots received in sequence.
type Snapshot struct {
	Phase            Phase                     `json:"phase"`
	Round            int                       `json:"round"`
	Term             int                       `json:"term"`
	RoundsPerTerm    int                       `json:"rounds_per_term"`
	CurrentPlayerID  string                    `json:"current_player_id"`
	Players          []Player                  `json:"players"`
	ActionPoints     map[string]int            `json:"action_points"`
	PoliticalCapital map[string]int            `json:"political_capital"`
	Favors           map[string]int            `json:"favors"`
	Pending          *LegislationRecord        `json:"pending_legislation,omitempty"`
	TermLegislation  []LegislationRecord       `json:"term_legislation"`
	Legislation      map[string]LegislationDef `json:"legislation_catalog"`
	Offices          map[string]OfficeDef      `json:"offices"`
	Log              []string                  `json:"log"`
}

// Active reports whether the snapshot describes a running game. The zero
// value is the "no game" sentinel returned by Store.Current before the
// first install.
func (s Snapshot) Active() bool {
	return s.Phase != ""
}

// PlayerName resolves a player ID to its display name, falling back to the
// ID for players absent from the roster.
func (s Snapshot) PlayerName(id string) string {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// HasUnresolvedLegislation reports whether any legislation is still open:
// either the pending record or an unresolved entry in the term list.
func (s Snapshot) HasUnresolvedLegislation() bool {
	if s.Pending != nil && !s.Pending.Resolved {
		return true
	}
	for _, record := range s.TermLegislation {
		if !record.Resolved {
			return true
		}
	}
	return false
}

// OpenLegislation reports whether the legislation ID is present and still
// unresolved, either as the pending record or within the term list.
func (s Snapshot) OpenLegislation(id string) bool {
	if id == "" {
		return false
	}
	if s.Pending != nil && s.Pending.LegislationID == id && !s.Pending.Resolved {
		return true
	}
	for _, record := range s.TermLegislation {
		if record.LegislationID == id && !record.Resolved {
			return true
		}
	}
	return false
}

// FinalRoundOfTerm reports whether the current round is the last round of
// the current term. The round counter is global and monotone, so the check
// is positional within the term.
func (s Snapshot) FinalRoundOfTerm() bool {
	if s.RoundsPerTerm <= 0 {
		return false
	}
	return s.Round%s.RoundsPerTerm == 0
}

// ExtendsLog reports whether next's narration log is a prefix-extension of
// prev's: every line of prev appears unchanged, in order, at the head of
// next. The server guarantees this for snapshots received in sequence.
func ExtendsLog(prev, next Snapshot) bool {
	if len(next.Log) < len(prev.Log) {
		return false
	}
	for i, line := range prev.Log {
		if next.Log[i] != line {
			return false
		}
	}
	return true
}
