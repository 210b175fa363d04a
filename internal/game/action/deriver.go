// Package action derives the list of currently legal player actions from a
// snapshot.
//
// Derivation is a pure function of the snapshot and the acting player: it
// consults nothing else, so it can run on every snapshot replacement
// without a network round-trip. The result is advisory. The server remains
// authoritative and may reject an action the deriver offered, or accept one
// it withheld; local derivation exists for responsiveness, not enforcement.
package action

import "github.com/petrellis/caucus/internal/game/snapshot"

// Kind identifies one action a player can take.
type Kind string

const (
	// KindFundraise gains political capital.
	KindFundraise Kind = "fundraise"
	// KindNetwork builds favors with other players.
	KindNetwork Kind = "network"
	// KindUseFavor spends a held favor.
	KindUseFavor Kind = "use_favor"
	// KindSupportLegislation commits capital in favor of a bill.
	KindSupportLegislation Kind = "support_legislation"
	// KindOpposeLegislation commits capital against a bill.
	KindOpposeLegislation Kind = "oppose_legislation"
	// KindSponsorLegislation introduces a new bill.
	KindSponsorLegislation Kind = "sponsor_legislation"
	// KindCampaign campaigns for an upcoming election.
	KindCampaign Kind = "campaign"
	// KindDeclareCandidacy declares candidacy for an office.
	KindDeclareCandidacy Kind = "declare_candidacy"
	// KindPassTurn ends the actor's turn.
	KindPassTurn Kind = "pass_turn"
)

// Descriptor describes one currently legal action. Descriptors are
// ephemeral: recomputed fresh from each snapshot and never persisted.
type Descriptor struct {
	Kind    Kind
	Cost    int
	Enabled bool
}

// Derive returns the ordered list of legal actions for actorID under snap.
//
// The list is empty unless it is the actor's turn during the Action phase.
// Pass-turn is always present in that case, even at zero AP. One-point
// actions require at least 1 AP; two-point actions at least 2. Supporting
// or opposing legislation is offered whenever any legislation is
// unresolved, including the actor's own bill. Declaring candidacy is only
// offered during the final round of a term.
//
// Ordering is fixed declaration order, independent of snapshot map
// iteration, so output is deterministic.
func Derive(snap snapshot.Snapshot, actorID string) []Descriptor {
	if snap.Phase != snapshot.PhaseAction || snap.CurrentPlayerID != actorID {
		return nil
	}

	ap := snap.ActionPoints[actorID]
	var actions []Descriptor

	if ap >= 1 {
		actions = append(actions,
			Descriptor{Kind: KindFundraise, Cost: 1, Enabled: true},
			Descriptor{Kind: KindNetwork, Cost: 1, Enabled: true},
		)
		if snap.Favors[actorID] >= 1 {
			actions = append(actions, Descriptor{Kind: KindUseFavor, Cost: 1, Enabled: true})
		}
		if snap.HasUnresolvedLegislation() {
			actions = append(actions,
				Descriptor{Kind: KindSupportLegislation, Cost: 1, Enabled: true},
				Descriptor{Kind: KindOpposeLegislation, Cost: 1, Enabled: true},
			)
		}
	}
	if ap >= 2 {
		actions = append(actions,
			Descriptor{Kind: KindSponsorLegislation, Cost: 2, Enabled: true},
			Descriptor{Kind: KindCampaign, Cost: 2, Enabled: true},
		)
		if snap.FinalRoundOfTerm() {
			actions = append(actions, Descriptor{Kind: KindDeclareCandidacy, Cost: 2, Enabled: true})
		}
	}

	actions = append(actions, Descriptor{Kind: KindPassTurn, Cost: 0, Enabled: true})
	return actions
}
