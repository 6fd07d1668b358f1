// Package extractor turns document text into structured record candidates
// that match a knowledge schema.
package extractor

import (
	"context"

	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
)

// EvidencePointer ties an extracted field to the text it came from.
type EvidencePointer struct {
	FieldPath   string
	Excerpt     string
	ChunkIndex  int
	StartOffset int
	EndOffset   int
}

// Context carries document metadata into the extraction.
type Context struct {
	Department string
	DocType    string
	DocumentID string
	Filename   string
	ChunkIndex int
}

// ExtractedRecord is one candidate record found in the document.
type ExtractedRecord struct {
	Data          fielddata.Value
	SchemaType    string
	Evidence      []EvidencePointer
	Confidence    float64
	SourceSection string
}

// Result is the outcome of extracting a whole document. A document can yield
// several records when it describes several entities.
type Result struct {
	Records     []ExtractedRecord
	Valid       bool
	Errors      []string
	Confidence  float64
	NeedsReview bool
}

type Extractor interface {
	Extract(ctx context.Context, text string, def schema.Definition, ec Context) (*Result, error)
}
