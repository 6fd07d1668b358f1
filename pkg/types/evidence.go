package types

// EVIDENCE_EXCERPT_LIMIT caps the stored excerpt length in runes.
const EVIDENCE_EXCERPT_LIMIT = 1000

// Evidence links a field on a record to the chunk the value was extracted
// from. Evidence rows outlive data edits; a field changed by a reviewer keeps
// its original provenance.
type Evidence struct {
	ID          string  `json:"id" db:"id"`
	RecordID    string  `json:"record_id" db:"record_id"`
	ChunkID     string  `json:"chunk_id" db:"chunk_id"`
	FieldPath   string  `json:"field_path" db:"field_path"`
	Excerpt     string  `json:"excerpt" db:"excerpt"`
	Confidence  float64 `json:"confidence" db:"confidence"`
	StartOffset int     `json:"start_offset" db:"start_offset"`
	EndOffset   int     `json:"end_offset" db:"end_offset"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
}

// TruncateExcerpt enforces EVIDENCE_EXCERPT_LIMIT on extractor-provided text.
func TruncateExcerpt(s string) string {
	r := []rune(s)
	if len(r) <= EVIDENCE_EXCERPT_LIMIT {
		return s
	}
	return string(r[:EVIDENCE_EXCERPT_LIMIT])
}
