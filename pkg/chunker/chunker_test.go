package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokari-ai/knowledge-hub/pkg/parser"
)

func TestCreateChunksSmallDocument(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	doc := &parser.ParsedDocument{
		RawText:    "short text",
		Confidence: 1.0,
		Sections: []parser.Section{
			{Title: "Intro", Content: "short text", Level: 1},
		},
	}

	chunks := c.CreateChunks(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Text)
	assert.Equal(t, "Intro", chunks[0].SectionPath)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1.0, chunks[0].Confidence)
}

func TestCreateChunksSplitsLongSection(t *testing.T) {
	c, err := NewChunkerWithLimits(40, 5, 10)
	require.NoError(t, err)

	para := strings.Repeat("the quick brown fox jumps over the lazy dog ", 8)
	content := strings.Join([]string{para, para, para}, "\n\n")

	doc := &parser.ParsedDocument{
		RawText:    content,
		Confidence: 0.7,
		Sections: []parser.Section{
			{Title: "Kapitel 1", Content: content, Level: 1},
		},
	}

	chunks := c.CreateChunks(doc)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, "Kapitel 1", chunk.SectionPath)
		assert.Equal(t, 0.7, chunk.Confidence)
		assert.NotEmpty(t, chunk.Text)
	}
}

func TestCreateChunksSectionPathIncludesParents(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	doc := &parser.ParsedDocument{
		Confidence: 1.0,
		Sections: []parser.Section{
			{Title: "Unterkapitel", Content: "inhalt", Level: 2, Path: "Kapitel 1"},
		},
	}

	chunks := c.CreateChunks(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Kapitel 1 > Unterkapitel", chunks[0].SectionPath)
}

func TestCreateChunksFallsBackToRawText(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	doc := &parser.ParsedDocument{
		RawText:    "raw only",
		Confidence: 1.0,
	}

	chunks := c.CreateChunks(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "raw only", chunks[0].Text)
}

func TestCountTokens(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	assert.Greater(t, c.CountTokens("hello world, this is a test"), 0)
	assert.Equal(t, 0, c.CountTokens(""))
}
