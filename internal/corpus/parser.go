// Package corpus turns raw inspection-record text into structured records
// and derives the canonical search text for each one.
package corpus

import (
	"fmt"
	"os"
	"strings"

	"github.com/safekb/safesearch/internal/domain"
)

// Parse splits raw corpus text into records. Blocks are separated by a line
// consisting solely of "#". Within a block every line containing a ":" becomes
// a field: the part before the first ":" (trimmed) is the name, the rest is
// the value. Lines without ":" are ignored, blocks with no fields are dropped,
// and a duplicate field name within a block keeps the last occurrence.
//
// Parsing is permissive: malformed input never produces an error, only fewer
// records.
func Parse(raw string) []domain.Record {
	var records []domain.Record

	for _, block := range splitBlocks(raw) {
		rec := parseBlock(block)
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}

	return records
}

// ParseFile reads and parses a corpus file. The only failure mode is the read
// itself; the content is parsed permissively.
func ParseFile(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return Parse(string(data)), nil
}

func splitBlocks(raw string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "#" {
			blocks = append(blocks, current)
			current = nil
			continue
		}
		current = append(current, line)
	}
	blocks = append(blocks, current)

	return blocks
}

func parseBlock(lines []string) domain.Record {
	rec := make(domain.Record)
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rec[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return rec
}
