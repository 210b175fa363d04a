package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/petrellis/caucus/internal/errors"
	"github.com/petrellis/caucus/internal/game/gamesync"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

func TestFetchSnapshotDecodesState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/state" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot.Snapshot{
			Phase:           snapshot.PhaseAction,
			Round:           4,
			Term:            2,
			CurrentPlayerID: "p1",
			Log:             []string{"The round begins."},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	snap, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("fetch snapshot: %v", err)
	}
	if snap.Phase != snapshot.PhaseAction || snap.Round != 4 || snap.Term != 2 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if len(snap.Log) != 1 {
		t.Errorf("expected narration log to decode, got %+v", snap.Log)
	}
}

func TestFetchSnapshotMapsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    apperrors.Code
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: apperrors.CodeTransportFailure,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			want: apperrors.CodeSnapshotDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewHTTPClient(server.URL, time.Second)
			_, err := client.FetchSnapshot(context.Background())
			if !apperrors.IsCode(err, tt.want) {
				t.Errorf("expected code %s, got %v", tt.want, err)
			}
		})
	}
}

func TestFetchSnapshotUnreachableServer(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := client.FetchSnapshot(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeTransportFailure) {
		t.Errorf("expected transport failure, got %v", err)
	}
}

func TestSendActionPostsRequest(t *testing.T) {
	var received gamesync.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/actions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode action request: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	err := client.SendAction(context.Background(), gamesync.Request{
		ActionKind:    "support_legislation",
		LegislationID: "leg-1",
		Amount:        3,
	})
	if err != nil {
		t.Fatalf("send action: %v", err)
	}
	if received.ActionKind != "support_legislation" || received.LegislationID != "leg-1" || received.Amount != 3 {
		t.Errorf("unexpected request body %+v", received)
	}
}

func TestSendActionMapsRejectionWithServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "not your turn"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	err := client.SendAction(context.Background(), gamesync.Request{ActionKind: "fundraise"})
	if !apperrors.IsCode(err, apperrors.CodeServerRejected) {
		t.Fatalf("expected server rejection, got %v", err)
	}
	if err.Error() != "not your turn" {
		t.Errorf("expected the server's reason to surface, got %q", err.Error())
	}
}

func TestSendActionMapsServerErrorToTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	err := client.SendAction(context.Background(), gamesync.Request{ActionKind: "fundraise"})
	if !apperrors.IsCode(err, apperrors.CodeTransportFailure) {
		t.Errorf("expected transport failure, got %v", err)
	}
}
