// Package chunker splits parsed documents into overlapping text chunks sized
// by token count.
package chunker

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jokari-ai/knowledge-hub/pkg/parser"
)

const (
	DEFAULT_CHUNK_TOKENS   = 500
	DEFAULT_OVERLAP_TOKENS = 50
	DEFAULT_MIN_TOKENS     = 100

	encodingName = "cl100k_base"
)

// TextChunk is one slice of a document ready for embedding.
type TextChunk struct {
	Text        string
	SectionPath string
	StartOffset int
	EndOffset   int
	ChunkIndex  int
	Confidence  float64
}

type Chunker struct {
	maxTokens     int
	overlapTokens int
	minTokens     int
	encoder       *tiktoken.Tiktoken
}

func NewChunker() (*Chunker, error) {
	return NewChunkerWithLimits(DEFAULT_CHUNK_TOKENS, DEFAULT_OVERLAP_TOKENS, DEFAULT_MIN_TOKENS)
}

func NewChunkerWithLimits(maxTokens, overlapTokens, minTokens int) (*Chunker, error) {
	encoder, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Chunker{
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		minTokens:     minTokens,
		encoder:       encoder,
	}, nil
}

func (c *Chunker) CountTokens(text string) int {
	return len(c.encoder.Encode(text, nil, nil))
}

// CreateChunks chunks each section separately so chunks never span section
// boundaries. Documents whose parser produced no sections fall back to the
// raw text.
func (c *Chunker) CreateChunks(doc *parser.ParsedDocument) []TextChunk {
	var chunks []TextChunk

	for _, section := range doc.Sections {
		if section.Content == "" {
			continue
		}
		path := section.Path
		if section.Title != "" {
			if path != "" {
				path = path + " > " + section.Title
			} else {
				path = section.Title
			}
		}
		chunks = append(chunks, c.splitText(section.Content, path, len(chunks), doc.Confidence, section.StartOffset)...)
	}

	if len(chunks) == 0 && doc.RawText != "" {
		chunks = c.splitText(doc.RawText, "", 0, doc.Confidence, 0)
	}

	return chunks
}

// splitText packs paragraphs into chunks up to the token target, carrying a
// tail overlap into the next chunk.
func (c *Chunker) splitText(text, sectionPath string, startIndex int, confidence float64, baseOffset int) []TextChunk {
	var chunks []TextChunk

	if c.CountTokens(text) <= c.maxTokens {
		return []TextChunk{{
			Text:        strings.TrimSpace(text),
			SectionPath: sectionPath,
			StartOffset: baseOffset,
			EndOffset:   baseOffset + len(text),
			ChunkIndex:  startIndex,
			Confidence:  confidence,
		}}
	}

	paragraphs := strings.Split(text, "\n\n")
	var (
		current      string
		currentStart = baseOffset
		index        = startIndex
	)

	flush := func() {
		trimmed := strings.TrimSpace(current)
		if trimmed == "" {
			return
		}
		chunks = append(chunks, TextChunk{
			Text:        trimmed,
			SectionPath: sectionPath,
			StartOffset: currentStart,
			EndOffset:   currentStart + len(current),
			ChunkIndex:  index,
			Confidence:  confidence,
		})
		index++
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		candidate := para
		if current != "" {
			candidate = current + "\n\n" + para
		}

		if c.CountTokens(candidate) > c.maxTokens && c.CountTokens(current) >= c.minTokens {
			flush()

			overlap := c.tailTokens(current, c.overlapTokens)
			currentStart = currentStart + len(current) - len(overlap)
			if overlap != "" {
				current = overlap + "\n\n" + para
			} else {
				current = para
			}
			continue
		}
		current = candidate
	}

	flush()
	return chunks
}

// tailTokens returns the suffix of text that is at most n tokens long.
func (c *Chunker) tailTokens(text string, n int) string {
	tokens := c.encoder.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text
	}
	return c.encoder.Decode(tokens[len(tokens)-n:])
}
