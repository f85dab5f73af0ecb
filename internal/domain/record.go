package domain

// Record is one parsed corpus entry: an open field-name to field-value mapping.
// No schema is enforced — any "key: value" line in the source becomes a field.
type Record map[string]string

// Clone returns an independent shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ScoredRecord is a query result: a copy of the matched record plus the
// 1-based rank within the result list and a similarity score in (0, 1].
//
// Score is 1/(1+distance) over squared L2 distance. The transform is kept
// exactly for wire compatibility with existing consumers; it is not
// calibrated across embedding models.
type ScoredRecord struct {
	Record   Record
	Rank     int
	Score    float64
	Position int
}

// Metadata describes a persisted corpus snapshot.
type Metadata struct {
	Dimension   int    `json:"dimension"`
	RecordCount int    `json:"record_count"`
	Model       string `json:"model"`
}
