// Package gamesync orchestrates snapshot fetches against the authoritative
// server and owns the only write path into the snapshot store.
//
// At most one fetch is in flight at any time. The guard is a single
// boolean, not a queue: a sync requested while one is outstanding is
// dropped silently, which is what prevents a slow earlier response from
// overwriting a newer one. Retry is the next poll tick; the driver itself
// never retries.
package gamesync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/petrellis/caucus/internal/errors"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

const tracerName = "github.com/petrellis/caucus/internal/game/gamesync"

// Request is the outbound action or commitment shape sent to the server.
type Request struct {
	ActionKind     string `json:"action_kind"`
	LegislationID  string `json:"legislation_id,omitempty"`
	Amount         int    `json:"amount,omitempty"`
	TargetPlayerID string `json:"target_player_id,omitempty"`
}

// Fetcher retrieves the current snapshot from the server. A fetch that
// does not resolve within the transport's own timeout must return an
// error; the driver adds no timeout of its own.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (snapshot.Snapshot, error)
}

// Sender delivers an outbound action request to the server.
type Sender interface {
	SendAction(ctx context.Context, req Request) error
}

// NoticeKind distinguishes the two user-visible failure flavors.
type NoticeKind string

const (
	// NoticeTransport marks a fetch or send that never completed.
	NoticeTransport NoticeKind = "transport"
	// NoticeRejection marks a request the server declined.
	NoticeRejection NoticeKind = "rejection"
)

// Notice is a transient, dismissible user-visible failure message. The
// prior snapshot always stays intact; the view self-corrects on the next
// successful sync.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogf sets the logging function. Defaults to a no-op.
func WithLogf(logf func(string, ...any)) Option {
	return func(d *Driver) {
		if logf != nil {
			d.logf = logf
		}
	}
}

// Driver serializes snapshot fetches and installs results into the store.
// No other component writes to the store.
type Driver struct {
	fetcher Fetcher
	sender  Sender
	store   *snapshot.Store
	logf    func(string, ...any)
	tracer  trace.Tracer

	inFlight atomic.Bool

	mu        sync.Mutex
	onReplace []func(snapshot.Snapshot)
	notice    *Notice
}

// New creates a driver fetching through fetcher, sending through sender,
// and writing into store.
func New(fetcher Fetcher, sender Sender, store *snapshot.Store, opts ...Option) *Driver {
	d := &Driver{
		fetcher: fetcher,
		sender:  sender,
		store:   store,
		logf:    func(string, ...any) {},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnReplace registers a recomputation callback. Callbacks run
// synchronously after every successful replace, in registration order,
// and receive the exact snapshot that was installed.
func (d *Driver) OnReplace(fn func(snapshot.Snapshot)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReplace = append(d.onReplace, fn)
}

// Sync performs one fetch attempt. A call that finds another fetch in
// flight is dropped without informing the caller; the next scheduled tick
// is the retry. On success the snapshot is installed and callbacks fire;
// on failure the prior snapshot stays intact and a transport notice is
// recorded.
func (d *Driver) Sync(ctx context.Context) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer d.inFlight.Store(false)

	ctx, span := d.tracer.Start(ctx, "gamesync.fetch")
	defer span.End()

	snap, err := d.fetcher.FetchSnapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		d.logf("sync: fetch failed: %v", err)
		d.setNotice(Notice{Kind: NoticeTransport, Message: err.Error()})
		return
	}
	span.SetAttributes(
		attribute.Int("game.round", snap.Round),
		attribute.Int("game.term", snap.Term),
		attribute.Int("game.log_lines", len(snap.Log)),
	)

	d.store.Replace(snap)
	d.mu.Lock()
	callbacks := make([]func(snapshot.Snapshot), len(d.onReplace))
	copy(callbacks, d.onReplace)
	d.mu.Unlock()
	for _, fn := range callbacks {
		fn(snap)
	}
}

// Submit sends an action or commitment request. A server rejection is
// surfaced as a distinct notice so the user understands the action itself
// was declined; a transport failure reads as transient. Either way the
// prior snapshot stays intact and nothing is retried. On success a
// follow-up sync picks up the resulting state.
func (d *Driver) Submit(ctx context.Context, req Request) error {
	ctx, span := d.tracer.Start(ctx, "gamesync.submit",
		trace.WithAttributes(attribute.String("game.action_kind", req.ActionKind)))
	defer span.End()

	if err := d.sender.SendAction(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		d.logf("sync: submit %s failed: %v", req.ActionKind, err)
		kind := NoticeTransport
		if apperrors.IsCode(err, apperrors.CodeServerRejected) {
			kind = NoticeRejection
		}
		d.setNotice(Notice{Kind: kind, Message: err.Error()})
		return err
	}

	d.Sync(ctx)
	return nil
}

// RunPolling syncs immediately and then once per interval until ctx is
// done. Ticks that find a fetch in flight are dropped, not queued.
func (d *Driver) RunPolling(ctx context.Context, interval time.Duration) error {
	d.Sync(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Sync(ctx)
		}
	}
}

// Notice returns the current transient notice, if any.
func (d *Driver) Notice() (Notice, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.notice == nil {
		return Notice{}, false
	}
	return *d.notice, true
}

// DismissNotice clears the current notice.
func (d *Driver) DismissNotice() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notice = nil
}

func (d *Driver) setNotice(n Notice) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notice = &n
}
