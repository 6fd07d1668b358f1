package v1

import (
	"context"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type KnowledgeLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewKnowledgeLogic(ctx context.Context, core *core.Core) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:  ctx,
		core: core,
	}
}

// Schemas exposes the configured schema catalog to the UI.
func (l *KnowledgeLogic) Schemas() []schema.Definition {
	return schema.All()
}

type SchemaStats struct {
	SchemaType      string  `json:"schema_type"`
	Approved        uint64  `json:"approved"`
	AvgCompleteness float64 `json:"avg_completeness"`
}

// Stats breaks the approved knowledge base down per schema type.
func (l *KnowledgeLogic) Stats() ([]SchemaStats, error) {
	var out []SchemaStats
	for _, def := range schema.All() {
		opts := types.GetRecordOptions{
			SchemaType: def.Name,
			Status:     types.RECORD_STATUS_APPROVED,
		}
		total, err := l.core.Store().RecordStore().Total(l.ctx, opts)
		if err != nil {
			return nil, errors.New("KnowledgeLogic.Stats.Total", i18n.ERROR_INTERNAL, err)
		}
		avg, err := l.core.Store().RecordStore().AvgCompleteness(l.ctx, opts)
		if err != nil {
			return nil, errors.New("KnowledgeLogic.Stats.AvgCompleteness", i18n.ERROR_INTERNAL, err)
		}
		out = append(out, SchemaStats{
			SchemaType:      def.Name,
			Approved:        total,
			AvgCompleteness: avg,
		})
	}
	return out, nil
}
