package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed/rss"
	"github.com/samber/lo"
	"golang.org/x/net/html/charset"
)

const untitled = "(untitled)"

var errMissingChannel = errors.New("rss feed missing <channel>")

// FormatError means the document could not be used at all: it is not
// well-formed XML or it has no channel element.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "parse feed: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Parse decodes an RSS document into entries ordered newest first. Broken
// items are repaired with defaults instead of failing the batch.
func Parse(data []byte) ([]Entry, error) {
	if err := checkDocument(data); err != nil {
		return nil, &FormatError{Err: err}
	}

	parsed, err := (&rss.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Err: err}
	}

	entries := lo.Map(parsed.Items, func(item *rss.Item, _ int) Entry {
		return entryFromItem(item)
	})
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Published.Compare(a.Published)
	})
	return entries, nil
}

// checkDocument walks the whole token stream so malformed XML anywhere in
// the document is rejected, and requires a channel directly under the root.
func checkDocument(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	sawRoot := false
	sawChannel := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				sawRoot = true
			}
			if depth == 1 && strings.EqualFold(t.Name.Local, "channel") {
				sawChannel = true
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return errors.New("malformed xml: no root element")
	}
	if !sawChannel {
		return errMissingChannel
	}
	return nil
}

func entryFromItem(item *rss.Item) Entry {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = untitled
	}
	link := strings.TrimSpace(item.Link)

	guid := ""
	if item.GUID != nil {
		guid = strings.TrimSpace(item.GUID.Value)
	}
	if guid == "" {
		guid = link
	}
	if guid == "" {
		guid = title
	}

	published := Epoch
	if item.PubDateParsed != nil {
		published = *item.PubDateParsed
	}

	return Entry{
		Title:        title,
		Link:         link,
		Published:    published,
		PublishedRaw: strings.TrimSpace(item.PubDate),
		GUID:         guid,
		Description:  strings.TrimSpace(item.Description),
	}
}
