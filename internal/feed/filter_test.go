package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []Entry {
	return []Entry{
		{Title: "iOS 18.1 (22B83) for iPhone", GUID: "g1"},
		{Title: "macOS 15.1 (24B83)", GUID: "g2"},
		{Title: "iPadOS 18.1 (22B83) for iPad", GUID: "g3"},
		{Title: "iOS 18.0.1 (22A3370) for iPhone", GUID: "g4"},
		{Title: "watchOS 11.1 (22R423)", GUID: "g5"},
	}
}

func TestFilter_ContainsIsCaseInsensitive(t *testing.T) {
	entries := filterFixture()
	got := Filter(entries, FilterOptions{Contains: "IOS 18"})

	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"iOS 18.1 (22B83) for iPhone", "iOS 18.0.1 (22A3370) for iPhone"}, titles)

	kept := make(map[string]bool, len(got))
	for _, e := range got {
		kept[e.GUID] = true
		assert.Contains(t, strings.ToLower(e.Title), "ios 18")
	}
	for _, e := range entries {
		if !kept[e.GUID] {
			assert.NotContains(t, strings.ToLower(e.Title), "ios 18")
		}
	}
}

func TestFilter_StopsAtCutoff(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{NewerThanGUID: "g3"})
	assert.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].GUID)
	assert.Equal(t, "g2", got[1].GUID)
}

func TestFilter_CutoffAppliesEvenWhenItDoesNotMatch(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{Contains: "ios", NewerThanGUID: "g2"})
	assert.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].GUID)
}

func TestFilter_UnknownCutoffKeepsEverything(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{NewerThanGUID: "missing"})
	assert.Len(t, got, 5)
}

func TestFilter_CutoffOnFirstEntryYieldsNothing(t *testing.T) {
	got := Filter(filterFixture(), FilterOptions{NewerThanGUID: "g1"})
	assert.Empty(t, got)
}

func TestLimit(t *testing.T) {
	entries := filterFixture()
	assert.Len(t, Limit(entries, 2), 2)
	assert.Len(t, Limit(entries, 10), 5)
	assert.Len(t, Limit(entries, 0), 5)
	assert.Len(t, Limit(entries, -1), 5)
	assert.Equal(t, "g1", Limit(entries, 1)[0].GUID)
}
