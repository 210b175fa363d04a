// Package client parses client command flags and runs the sync loop.
package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/petrellis/caucus/internal/archive"
	"github.com/petrellis/caucus/internal/game/gamesync"
	"github.com/petrellis/caucus/internal/game/narration"
	"github.com/petrellis/caucus/internal/game/snapshot"
	"github.com/petrellis/caucus/internal/game/view"
	entrypoint "github.com/petrellis/caucus/internal/platform/cmd"
	"github.com/petrellis/caucus/internal/transport"
)

// Config holds client command configuration.
type Config struct {
	ServerURL    string        `env:"CAUCUS_SERVER_URL" envDefault:"http://localhost:8080"`
	PushURL      string        `env:"CAUCUS_PUSH_URL"`
	PlayerID     string        `env:"CAUCUS_PLAYER_ID"`
	PollInterval time.Duration `env:"CAUCUS_POLL_INTERVAL" envDefault:"2s"`
	FetchTimeout time.Duration `env:"CAUCUS_FETCH_TIMEOUT" envDefault:"8s"`
	ArchivePath  string        `env:"CAUCUS_ARCHIVE_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ServerURL, "server-url", cfg.ServerURL, "The game server base URL")
	fs.StringVar(&cfg.PushURL, "push-url", cfg.PushURL, "Optional websocket update feed URL")
	fs.StringVar(&cfg.PlayerID, "player-id", cfg.PlayerID, "The acting player ID")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Snapshot poll interval")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Single fetch attempt timeout")
	fs.StringVar(&cfg.ArchivePath, "archive-path", cfg.ArchivePath, "Optional SQLite transcript archive path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the client sync loop and blocks until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceClient, func(ctx context.Context) error {
		httpClient := transport.NewHTTPClient(cfg.ServerURL, cfg.FetchTimeout)
		store := snapshot.NewStore()
		driver := gamesync.New(httpClient, httpClient, store, gamesync.WithLogf(log.Printf))

		gameView := view.New(store, cfg.PlayerID)
		driver.OnReplace(gameView.Refresh)
		driver.OnReplace(func(snap snapshot.Snapshot) {
			log.Printf("sync: term %d round %d phase %s, %d narration lines",
				snap.Term, snap.Round, snap.Phase, len(snap.Log))
		})

		if cfg.ArchivePath != "" {
			transcript, err := archive.Open(cfg.ArchivePath)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer transcript.Close()
			driver.OnReplace(func(snap snapshot.Snapshot) {
				outcomes := narration.Reconstruct(snap.Log)
				if err := transcript.RecordSync(ctx, snap, outcomes); err != nil {
					log.Printf("archive: record sync: %v", err)
				}
			})
		}

		if cfg.PushURL != "" {
			listener := transport.NewPushListener(cfg.PushURL, driver.Sync, log.Printf)
			go func() {
				if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("push: listener stopped: %v", err)
				}
			}()
		}

		err := driver.RunPolling(ctx, cfg.PollInterval)
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})
}
