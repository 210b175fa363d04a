// Package transport implements the client's two ways of reaching the
// server: an HTTP JSON poll transport and an optional websocket push
// listener that nudges the sync driver when the server announces a change.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/petrellis/caucus/internal/errors"
	"github.com/petrellis/caucus/internal/game/gamesync"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

const defaultTimeout = 8 * time.Second

// HTTPClient fetches snapshots and sends action requests over HTTP JSON.
// The client's own timeout is the single fetch deadline; the sync driver
// adds no retry of its own.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the server at baseURL. A zero timeout
// selects the default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSnapshot retrieves the current game state from GET /v1/state.
func (c *HTTPClient) FetchSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/state", nil)
	if err != nil {
		return snapshot.Snapshot{}, apperrors.Wrap(apperrors.CodeTransportFailure, "build state request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return snapshot.Snapshot{}, apperrors.Wrap(apperrors.CodeTransportFailure, "fetch state", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snapshot.Snapshot{}, apperrors.New(apperrors.CodeTransportFailure,
			fmt.Sprintf("fetch state: server returned status %d", resp.StatusCode))
	}

	var snap snapshot.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snapshot.Snapshot{}, apperrors.Wrap(apperrors.CodeSnapshotDecode, "decode snapshot", err)
	}
	return snap, nil
}

// rejection is the error body the server sends with a 4xx response.
type rejection struct {
	Error string `json:"error"`
}

// SendAction posts an action request to POST /v1/actions. A 4xx response
// is a server rejection and carries the server's reason; anything else
// that fails reads as a transport failure.
func (c *HTTPClient) SendAction(ctx context.Context, action gamesync.Request) error {
	body, err := json.Marshal(action)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, "encode action request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/actions", bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, "build action request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransportFailure, "send action", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var decoded rejection
		message := fmt.Sprintf("server rejected %s (status %d)", action.ActionKind, resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && decoded.Error != "" {
			message = decoded.Error
		}
		return apperrors.New(apperrors.CodeServerRejected, message)
	default:
		return apperrors.New(apperrors.CodeTransportFailure,
			fmt.Sprintf("send action: server returned status %d", resp.StatusCode))
	}
}
