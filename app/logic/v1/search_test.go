package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func TestRelevance(t *testing.T) {
	record := &types.Record{
		PrimaryKey:        "x200|blue",
		Data:              types.RecordData(`{"title":"X200 Widget","description":"the x200 ships in blue"}`),
		CompletenessScore: 1.0,
	}

	// 主键命中 +2.0，数据出现 2 次 +1.0，完整度 1.0 不打折
	assert.Equal(t, 3.0, relevance(record, "x200"))

	// 仅数据命中一次
	assert.Equal(t, 0.5, relevance(record, "widget"))

	assert.Equal(t, 0.0, relevance(record, "missing"))
	assert.Equal(t, 0.0, relevance(record, ""))
}

func TestRelevanceCompletenessBoost(t *testing.T) {
	full := &types.Record{Data: types.RecordData(`{"title":"alpha"}`), CompletenessScore: 1.0}
	sparse := &types.Record{Data: types.RecordData(`{"title":"alpha"}`), CompletenessScore: 0.0}

	assert.Greater(t, relevance(full, "alpha"), relevance(sparse, "alpha"))
	assert.Equal(t, 0.25, relevance(sparse, "alpha"))
}

func TestRelevanceOccurrenceCap(t *testing.T) {
	record := &types.Record{
		Data:              types.RecordData(`{"a":"w w w w w w w w w w"}`),
		CompletenessScore: 1.0,
	}
	// 出现次数贡献封顶 3.0
	assert.Equal(t, 3.0, relevance(record, "w"))
}
