package action

import (
	"testing"

	"github.com/petrellis/caucus/internal/game/snapshot"
)

func baseSnapshot(ap int) snapshot.Snapshot {
	return snapshot.Snapshot{
		Phase:           snapshot.PhaseAction,
		Round:           1,
		RoundsPerTerm:   3,
		CurrentPlayerID: "p1",
		Players:         []snapshot.Player{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}},
		ActionPoints:    map[string]int{"p1": ap, "p2": 3},
	}
}

func kinds(actions []Descriptor) []Kind {
	out := make([]Kind, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Kind)
	}
	return out
}

func hasKind(actions []Descriptor, kind Kind) bool {
	for _, a := range actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

func TestDeriveZeroAPReturnsOnlyPassTurn(t *testing.T) {
	actions := Derive(baseSnapshot(0), "p1")

	if len(actions) != 1 {
		t.Fatalf("expected exactly one action, got %v", kinds(actions))
	}
	if actions[0].Kind != KindPassTurn || actions[0].Cost != 0 {
		t.Errorf("expected zero-cost pass turn, got %+v", actions[0])
	}
}

func TestDeriveOutsideActionPhaseIsEmpty(t *testing.T) {
	snap := baseSnapshot(3)
	snap.Phase = snapshot.PhaseElection

	if actions := Derive(snap, "p1"); len(actions) != 0 {
		t.Errorf("expected no actions outside Action phase, got %v", kinds(actions))
	}
}

func TestDeriveNotActorsTurnIsEmpty(t *testing.T) {
	if actions := Derive(baseSnapshot(3), "p2"); len(actions) != 0 {
		t.Errorf("expected no actions off turn, got %v", kinds(actions))
	}
}

func TestDeriveGating(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*snapshot.Snapshot)
		want    Kind
		present bool
	}{
		{
			name:    "favor action requires a held favor",
			mutate:  func(s *snapshot.Snapshot) {},
			want:    KindUseFavor,
			present: false,
		},
		{
			name: "favor action offered with a favor",
			mutate: func(s *snapshot.Snapshot) {
				s.Favors = map[string]int{"p1": 1}
			},
			want:    KindUseFavor,
			present: true,
		},
		{
			name:    "support requires open legislation",
			mutate:  func(s *snapshot.Snapshot) {},
			want:    KindSupportLegislation,
			present: false,
		},
		{
			name: "support offered for the actor's own bill",
			mutate: func(s *snapshot.Snapshot) {
				s.Pending = &snapshot.LegislationRecord{LegislationID: "leg-1", SponsorID: "p1"}
			},
			want:    KindSupportLegislation,
			present: true,
		},
		{
			name: "oppose offered alongside support",
			mutate: func(s *snapshot.Snapshot) {
				s.TermLegislation = []snapshot.LegislationRecord{{LegislationID: "leg-1", SponsorID: "p2"}}
			},
			want:    KindOpposeLegislation,
			present: true,
		},
		{
			name:    "candidacy withheld mid-term",
			mutate:  func(s *snapshot.Snapshot) {},
			want:    KindDeclareCandidacy,
			present: false,
		},
		{
			name: "candidacy offered in the final round of a term",
			mutate: func(s *snapshot.Snapshot) {
				s.Round = 3
			},
			want:    KindDeclareCandidacy,
			present: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot(2)
			tt.mutate(&snap)
			actions := Derive(snap, "p1")
			if got := hasKind(actions, tt.want); got != tt.present {
				t.Errorf("expected %s present=%v, got %v", tt.want, tt.present, kinds(actions))
			}
		})
	}
}

func TestDeriveTwoPointActionsRequireTwoAP(t *testing.T) {
	snap := baseSnapshot(1)
	snap.Round = 3

	actions := Derive(snap, "p1")
	for _, kind := range []Kind{KindSponsorLegislation, KindCampaign, KindDeclareCandidacy} {
		if hasKind(actions, kind) {
			t.Errorf("expected %s to be withheld at 1 AP", kind)
		}
	}
}

// The descriptor set at ap=k must be a subset of the set at ap=k+1 with
// all other snapshot fields held fixed.
func TestDeriveMonotonicInActionPoints(t *testing.T) {
	for ap := 0; ap < 3; ap++ {
		snap := baseSnapshot(ap)
		snap.Round = 3
		snap.Favors = map[string]int{"p1": 1}
		snap.Pending = &snapshot.LegislationRecord{LegislationID: "leg-1", SponsorID: "p2"}

		lower := Derive(snap, "p1")
		snap.ActionPoints["p1"] = ap + 1
		higher := Derive(snap, "p1")

		for _, a := range lower {
			if !hasKind(higher, a.Kind) {
				t.Errorf("ap=%d offers %s but ap=%d does not", ap, a.Kind, ap+1)
			}
		}
	}
}

func TestDeriveOrderIsDeterministic(t *testing.T) {
	snap := baseSnapshot(2)
	snap.Round = 3
	snap.Favors = map[string]int{"p1": 2}
	snap.Pending = &snapshot.LegislationRecord{LegislationID: "leg-1", SponsorID: "p2"}

	want := []Kind{
		KindFundraise,
		KindNetwork,
		KindUseFavor,
		KindSupportLegislation,
		KindOpposeLegislation,
		KindSponsorLegislation,
		KindCampaign,
		KindDeclareCandidacy,
		KindPassTurn,
	}
	got := kinds(Derive(snap, "p1"))
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
