package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/glabrego/ipsw-timeline/internal/app"
	"github.com/glabrego/ipsw-timeline/internal/config"
	"github.com/glabrego/ipsw-timeline/internal/feed"
	"github.com/glabrego/ipsw-timeline/internal/render/table"
	"github.com/glabrego/ipsw-timeline/internal/storage"
	"github.com/glabrego/ipsw-timeline/internal/terminal"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, terminal.Stdout()))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, term table.Terminal) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, config.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, cfg.Verbose)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client := feed.NewClient(&http.Client{Timeout: cfg.Timeout})
	state := storage.NewStateStore(cfg.StateFile)
	renderer := table.NewRenderer(term, table.Options{Color: cfg.ColorMode(), ShowLinks: cfg.ShowLinks})
	service := app.NewService(client, state, renderer, logger)

	res, err := service.Run(ctx, stdout, app.Options{
		FeedURL:  cfg.FeedURL,
		Limit:    cfg.Limit,
		Contains: cfg.Contains,
		OnlyNew:  cfg.OnlyNew,
		Remember: cfg.Remember,
	})
	if err != nil {
		var transportErr *feed.TransportError
		var formatErr *feed.FormatError
		switch {
		case errors.As(err, &transportErr):
			fmt.Fprintf(stderr, "failed to download feed: %v\n", transportErr)
		case errors.As(err, &formatErr):
			fmt.Fprintf(stderr, "failed to parse feed: %v\n", formatErr.Err)
		default:
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return exitFailed
	}
	if res.SaveErr != nil {
		cause := res.SaveErr
		var ioErr *storage.StateIOError
		if errors.As(cause, &ioErr) {
			cause = ioErr.Err
		}
		fmt.Fprintf(stderr, "warning: failed to save state to %s: %v\n", state.Path(), cause)
	}
	logger.Debug("done", "fetched", res.Fetched, "shown", res.Shown)
	return exitOK
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
