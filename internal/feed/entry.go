package feed

import "time"

const publishedLayout = "2006-01-02 15:04 UTC"

// Epoch marks an entry whose pubDate was missing or could not be parsed.
var Epoch = time.Unix(0, 0).UTC()

// Entry is one normalized item of the release timeline.
type Entry struct {
	Title        string
	Link         string
	Published    time.Time
	PublishedRaw string
	GUID         string
	Description  string
}

// PublishedDisplay formats the publish time as shown in the table.
func (e Entry) PublishedDisplay() string {
	return e.Published.UTC().Format(publishedLayout)
}

// PublishedDay is the UTC calendar day used for day grouping.
func (e Entry) PublishedDay() string {
	return e.Published.UTC().Format(time.DateOnly)
}

func (e Entry) HasPublishDate() bool {
	return !e.Published.Equal(Epoch)
}
