package types

import (
	"github.com/pgvector/pgvector-go"
)

// Chunk is an immutable segment of a document's parsed text. Created once by
// the extraction pipeline, read-only afterwards.
type Chunk struct {
	ID          string           `json:"id" db:"id"`
	DocumentID  string           `json:"document_id" db:"document_id"`
	SectionPath string           `json:"section_path" db:"section_path"`
	ChunkIndex  int              `json:"chunk_index" db:"chunk_index"`
	Text        string           `json:"text" db:"text"`
	Confidence  float64          `json:"confidence" db:"confidence"`
	StartOffset int              `json:"start_offset" db:"start_offset"`
	EndOffset   int              `json:"end_offset" db:"end_offset"`
	Embedding   *pgvector.Vector `json:"-" db:"embedding"`
	CreatedAt   int64            `json:"created_at" db:"created_at"`
}
