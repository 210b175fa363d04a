package transport

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const redialDelay = 3 * time.Second

// PushListener subscribes to the server's update feed over a websocket and
// invokes a trigger for every message received. The payload is not
// inspected: a push means "something changed", and the trigger (the sync
// driver's Sync) fetches the authoritative snapshot as usual. The
// in-flight guard in the driver makes overlapping pushes and poll ticks
// harmless.
type PushListener struct {
	url     string
	trigger func(ctx context.Context)
	logf    func(string, ...any)
}

// NewPushListener creates a listener for the websocket at url.
func NewPushListener(url string, trigger func(ctx context.Context), logf func(string, ...any)) *PushListener {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &PushListener{url: url, trigger: trigger, logf: logf}
}

// Run connects and reads until ctx is done, redialing after a fixed delay
// when the connection drops.
func (l *PushListener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil {
			l.logf("push: connection lost: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(redialDelay):
		}
	}
}

func (l *PushListener) listen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the read loop when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		l.trigger(ctx)
	}
}
