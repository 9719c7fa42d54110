package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/ipsw-timeline/internal/feed"
	"github.com/glabrego/ipsw-timeline/internal/storage"
)

const feedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>timeline</title>
<item><title>iOS 17.5.1 (21F90)</title><guid>g3</guid><pubDate>Mon, 20 May 2024 17:04:00 GMT</pubDate></item>
<item><title>macOS 14.5 (23F79)</title><guid>g2</guid><pubDate>Mon, 13 May 2024 17:00:00 GMT</pubDate></item>
<item><title>iOS 17.5 (21F79)</title><guid>g1</guid><pubDate>Mon, 13 May 2024 16:00:00 GMT</pubDate></item>
</channel></rss>`

type fakeFetcher struct {
	data []byte
	err  error
	url  string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.url = url
	return f.data, f.err
}

type fakeState struct {
	last    string
	loadErr error
	saveErr error
	loads   int
	saved   []string
}

func (f *fakeState) LastGUID() (string, bool) {
	f.loads++
	if f.loadErr != nil || f.last == "" {
		return "", false
	}
	return f.last, true
}

func (f *fakeState) Save(guid string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, guid)
	return nil
}

// titleRenderer prints one guid per line so tests can see what was shown.
type titleRenderer struct{}

func (titleRenderer) Render(entries []feed.Entry) string {
	if len(entries) == 0 {
		return "none"
	}
	guids := make([]string, 0, len(entries))
	for _, e := range entries {
		guids = append(guids, e.GUID)
	}
	return strings.Join(guids, "\n")
}

func TestService_Run_RendersAllEntries(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte(feedXML)}
	state := &fakeState{last: "g2"}
	var out bytes.Buffer

	res, err := NewService(fetcher, state, titleRenderer{}, nil).Run(context.Background(), &out, Options{FeedURL: "https://example.com/rss"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/rss", fetcher.url)
	assert.Equal(t, "g3\ng2\ng1\n", out.String())
	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 3, res.Shown)
	assert.Zero(t, state.loads, "state is not consulted without -only-new or -remember")
	assert.Empty(t, state.saved)
}

func TestService_Run_OnlyNewStopsAtSavedGUID(t *testing.T) {
	state := &fakeState{last: "g2"}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, state, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{OnlyNew: true})
	require.NoError(t, err)

	assert.Equal(t, "g3\n", out.String())
	assert.Equal(t, 1, res.Shown)
}

func TestService_Run_OnlyNewWithoutStateShowsEverything(t *testing.T) {
	state := &fakeState{loadErr: storage.ErrNoState}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, state, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{OnlyNew: true})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Shown)
	assert.Equal(t, 1, state.loads)
}

func TestService_Run_ContainsAndLimit(t *testing.T) {
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, &fakeState{}, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{Contains: "ios", Limit: 1})
	require.NoError(t, err)

	assert.Equal(t, "g3\n", out.String())
	assert.Equal(t, 1, res.Shown)
}

func TestService_Run_RememberSavesNewestShown(t *testing.T) {
	state := &fakeState{}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, state, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{Contains: "macOS", Remember: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"g2"}, state.saved)
	assert.Equal(t, "g2", res.Saved)
	assert.NoError(t, res.SaveErr)
}

func TestService_Run_RememberAppliesSavedCutoff(t *testing.T) {
	state := &fakeState{last: "g2"}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, state, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{Remember: true})
	require.NoError(t, err)

	assert.Equal(t, "g3\n", out.String())
	assert.Equal(t, 1, res.Shown)
	assert.Equal(t, 1, state.loads)
	assert.Equal(t, []string{"g3"}, state.saved)
}

func TestService_Run_RememberWithNothingShown(t *testing.T) {
	state := &fakeState{last: "g3"}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, state, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{Remember: true})
	require.NoError(t, err)

	assert.Equal(t, "none\n", out.String())
	assert.Zero(t, res.Shown)
	assert.Empty(t, state.saved)
}

func TestService_Run_SaveFailureIsNotFatal(t *testing.T) {
	saveErr := &storage.StateIOError{Op: "save", Path: "/nope", Err: errors.New("read-only")}
	var out bytes.Buffer

	res, err := NewService(&fakeFetcher{data: []byte(feedXML)}, &fakeState{saveErr: saveErr}, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{Remember: true})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Shown)
	assert.ErrorIs(t, res.SaveErr, saveErr)
	assert.NotEmpty(t, out.String())
}

func TestService_Run_FetchErrorWritesNothing(t *testing.T) {
	fetchErr := &feed.TransportError{URL: "https://example.com/rss", StatusCode: 503}
	var out bytes.Buffer

	_, err := NewService(&fakeFetcher{err: fetchErr}, &fakeState{}, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{FeedURL: "https://example.com/rss"})

	var transportErr *feed.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 503, transportErr.StatusCode)
	assert.Empty(t, out.String())
}

func TestService_Run_ParseErrorWritesNothing(t *testing.T) {
	var out bytes.Buffer

	_, err := NewService(&fakeFetcher{data: []byte("<rss><item>")}, &fakeState{}, titleRenderer{}, nil).
		Run(context.Background(), &out, Options{})

	var formatErr *feed.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Empty(t, out.String())
}

func TestService_Run_LogsPipelineSteps(t *testing.T) {
	const undatedFeed = `<rss version="2.0"><channel>
<item><title>iOS 17.5.1 (21F90)</title><guid>g3</guid><pubDate>Mon, 20 May 2024 17:04:00 GMT</pubDate></item>
<item><title>tvOS 17.5 (21L569)</title><guid>g0</guid></item>
</channel></rss>`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var out bytes.Buffer

	_, err := NewService(&fakeFetcher{data: []byte(undatedFeed)}, &fakeState{}, titleRenderer{}, logger).
		Run(context.Background(), &out, Options{FeedURL: "https://example.com/rss"})
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "msg=\"parsed feed\"")
	assert.Contains(t, logs.String(), "entries=2")
	assert.Contains(t, logs.String(), "undated=1")
}
