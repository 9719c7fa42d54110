package feed

import "strings"

type FilterOptions struct {
	// Contains keeps entries whose title includes it, ignoring case.
	Contains string
	// NewerThanGUID stops the scan at the entry carrying this guid.
	NewerThanGUID string
}

// Filter returns the entries newer than the cutoff that match Contains, in
// their original order. Nothing after the cutoff entry is looked at, so the
// result relies on the feed being ordered newest first.
func Filter(entries []Entry, opts FilterOptions) []Entry {
	needle := strings.ToLower(opts.Contains)
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if opts.NewerThanGUID != "" && entry.GUID == opts.NewerThanGUID {
			break
		}
		if needle != "" && !strings.Contains(strings.ToLower(entry.Title), needle) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Limit keeps the first n entries. n <= 0 disables the limit.
func Limit(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
