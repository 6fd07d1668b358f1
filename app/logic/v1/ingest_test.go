package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokari-ai/knowledge-hub/pkg/extractor"
	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func TestBuildEvidence(t *testing.T) {
	data, err := fielddata.FromJSON([]byte(`{"title":"Safety Training","owner":"sales"}`))
	require.NoError(t, err)

	chunks := []*types.Chunk{
		{ID: "chunk-0", ChunkIndex: 0},
		{ID: "chunk-1", ChunkIndex: 1},
	}

	pointers := []extractor.EvidencePointer{
		{FieldPath: "title", ChunkIndex: 1, Excerpt: "Safety Training", StartOffset: 10, EndOffset: 25},
		{FieldPath: "owner", ChunkIndex: 99, Excerpt: "missing chunk"},
	}

	evidence := buildEvidence("record-1", data, pointers, chunks)
	assert.Len(t, evidence, 2)

	assert.Equal(t, "record-1", evidence[0].RecordID)
	assert.Equal(t, "chunk-1", evidence[0].ChunkID)
	assert.Equal(t, "title", evidence[0].FieldPath)
	assert.Equal(t, "Safety Training", evidence[0].Excerpt)
	assert.Equal(t, 10, evidence[0].StartOffset)
	assert.Equal(t, 25, evidence[0].EndOffset)

	// 指向不存在的分块时退回第一块
	assert.Equal(t, "chunk-0", evidence[1].ChunkID)
}

func TestBuildEvidenceDropsUnresolvablePaths(t *testing.T) {
	data, err := fielddata.FromJSON([]byte(`{"title":"A"}`))
	require.NoError(t, err)

	chunks := []*types.Chunk{{ID: "chunk-0", ChunkIndex: 0}}
	pointers := []extractor.EvidencePointer{
		{FieldPath: "title", ChunkIndex: 0, Excerpt: "A"},
		{FieldPath: "nonexistent.field", ChunkIndex: 0, Excerpt: "ghost"},
	}

	evidence := buildEvidence("record-1", data, pointers, chunks)
	assert.Len(t, evidence, 1)
	assert.Equal(t, "title", evidence[0].FieldPath)
}

func TestBuildEvidenceEmpty(t *testing.T) {
	data, err := fielddata.FromJSON([]byte(`{}`))
	require.NoError(t, err)

	evidence := buildEvidence("record-1", data, nil, []*types.Chunk{{ID: "chunk-0"}})
	assert.Empty(t, evidence)
}
