package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// Tags shared by every cached search result. Any user or address mutation
// flushes all three.
const (
	TagUsers      = "users"
	TagUserSearch = "user-search"
	TagIndex      = "index"
)

// Operation kinds that shape a search cache key.
const (
	KindPaginated  = "paginated"
	KindCollection = "collection"
)

// emptyQueryHash is the sentinel for a blank (unfiltered) query.
const emptyQueryHash = "all"

// SearchTags returns the tag set for search result entries.
func SearchTags() []string {
	return []string{TagUsers, TagUserSearch, TagIndex}
}

// SearchKey builds a deterministic key from the operation kind, a hash of the
// trimmed query, the page size, and the page number. Collection reads pass
// page 0. Identical arguments always produce identical keys.
func SearchKey(kind, query string, perPage, page int) string {
	q := strings.TrimSpace(query)
	h := emptyQueryHash
	if q != "" {
		h = strconv.FormatUint(xxhash.Sum64String(q), 16)
	}
	return strings.Join([]string{
		TagUserSearch,
		kind,
		h,
		strconv.Itoa(perPage),
		strconv.Itoa(page),
	}, KeySeparator)
}
