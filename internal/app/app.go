package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/lo"

	"github.com/glabrego/ipsw-timeline/internal/feed"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type StateStore interface {
	LastGUID() (string, bool)
	Save(guid string) error
}

type Renderer interface {
	Render(entries []feed.Entry) string
}

type Options struct {
	FeedURL  string
	Limit    int
	Contains string
	OnlyNew  bool
	Remember bool
}

// Result describes a completed run. SaveErr is set when the entries were
// printed but remembering the newest one failed.
type Result struct {
	Fetched int
	Shown   int
	Saved   string
	SaveErr error
}

type Service struct {
	fetcher  Fetcher
	state    StateStore
	renderer Renderer
	logger   *slog.Logger
}

func NewService(fetcher Fetcher, state StateStore, renderer Renderer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{fetcher: fetcher, state: state, renderer: renderer, logger: logger}
}

// Run fetches, parses, filters and renders the feed to out. Nothing is
// written when fetching or parsing fails.
func (s *Service) Run(ctx context.Context, out io.Writer, opts Options) (Result, error) {
	var res Result

	s.logger.Debug("fetching feed", "url", opts.FeedURL)
	data, err := s.fetcher.Fetch(ctx, opts.FeedURL)
	if err != nil {
		return res, fmt.Errorf("download feed: %w", err)
	}

	entries, err := feed.Parse(data)
	if err != nil {
		return res, err
	}
	res.Fetched = len(entries)
	undated := lo.CountBy(entries, func(e feed.Entry) bool { return !e.HasPublishDate() })
	s.logger.Debug("parsed feed", "bytes", len(data), "entries", len(entries), "undated", undated)

	filter := feed.FilterOptions{Contains: opts.Contains}
	if opts.OnlyNew || opts.Remember {
		filter.NewerThanGUID = s.lastSeen()
	}
	entries = feed.Limit(feed.Filter(entries, filter), opts.Limit)
	res.Shown = len(entries)
	s.logger.Debug("filtered entries", "contains", opts.Contains, "cutoff", filter.NewerThanGUID, "shown", len(entries))

	if _, err := io.WriteString(out, s.renderer.Render(entries)+"\n"); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}

	if opts.Remember && len(entries) > 0 {
		guid := entries[0].GUID
		if err := s.state.Save(guid); err != nil {
			res.SaveErr = err
		} else {
			res.Saved = guid
			s.logger.Debug("saved state", "guid", guid)
		}
	}
	return res, nil
}

func (s *Service) lastSeen() string {
	guid, ok := s.state.LastGUID()
	if !ok {
		s.logger.Debug("no usable state, showing all entries")
		return ""
	}
	return guid
}
