package corpus

import (
	"strings"

	"github.com/safekb/safesearch/internal/domain"
)

// Compose builds the search text for one record: the values of the designated
// fields joined by single spaces, in the given order, with empty strings for
// missing fields. Pure and total — record order is the caller's concern.
func Compose(rec domain.Record, fieldOrder []string) string {
	parts := make([]string, len(fieldOrder))
	for i, field := range fieldOrder {
		parts[i] = rec[field]
	}
	return strings.Join(parts, " ")
}

// ComposeAll derives the search text for every record, preserving order.
// searchTexts[i] always corresponds to records[i].
func ComposeAll(records []domain.Record, fieldOrder []string) []string {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = Compose(rec, fieldOrder)
	}
	return texts
}
