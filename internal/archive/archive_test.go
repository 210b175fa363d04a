package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/petrellis/caucus/internal/game/narration"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected empty path to be rejected")
	}
}

func TestRecordSyncAppendsOnlyNewLines(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := snapshot.Snapshot{
		Round: 1,
		Log:   []string{"The round begins.", "Alice fundraises."},
	}
	if err := store.RecordSync(ctx, first, nil); err != nil {
		t.Fatalf("record first sync: %v", err)
	}

	second := snapshot.Snapshot{
		Round: 2,
		Log:   []string{"The round begins.", "Alice fundraises.", "Bob networks."},
	}
	if err := store.RecordSync(ctx, second, nil); err != nil {
		t.Fatalf("record second sync: %v", err)
	}
	// Re-recording the same snapshot must not duplicate lines.
	if err := store.RecordSync(ctx, second, nil); err != nil {
		t.Fatalf("record repeated sync: %v", err)
	}

	lines, err := store.NarrationLines(ctx)
	if err != nil {
		t.Fatalf("read narration: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 archived lines, got %d", len(lines))
	}
	if lines[2] != "Bob networks." {
		t.Errorf("expected lines in log order, got %v", lines)
	}
}

func TestRecordSyncRewritesOutcomes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	outcomes := []narration.OutcomeRecord{
		{
			Kind:    narration.KindElection,
			Subject: "President",
			Participants: []narration.ParticipantResult{
				{Name: "Alice", Roll: 4, Bonus: 3, Total: 7, Winner: true},
				{Name: "Bob", Roll: 2, Bonus: 1, Total: 3},
			},
		},
	}
	if err := store.RecordSync(ctx, snapshot.Snapshot{Round: 1}, outcomes); err != nil {
		t.Fatalf("record sync: %v", err)
	}

	updated := append(outcomes, narration.OutcomeRecord{
		Kind:       narration.KindLegislation,
		Subject:    "Budget Act",
		TieBreaker: "The vote on Budget Act is tied.",
	})
	if err := store.RecordSync(ctx, snapshot.Snapshot{Round: 2}, updated); err != nil {
		t.Fatalf("record updated sync: %v", err)
	}

	records, err := store.Outcomes(ctx)
	if err != nil {
		t.Fatalf("read outcomes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 outcome records, got %d", len(records))
	}
	if records[0].Subject != "President" || !records[0].Participants[0].Winner {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if records[1].TieBreaker == "" {
		t.Errorf("expected tie-breaker to round-trip, got %+v", records[1])
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.RecordSync(context.Background(), snapshot.Snapshot{Log: []string{"line"}}, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	lines, err := second.NarrationLines(context.Background())
	if err != nil {
		t.Fatalf("read narration: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("expected archived line to survive reopen, got %v", lines)
	}
}
