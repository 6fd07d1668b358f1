package v1

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"strings"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type SearchLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewSearchLogic(ctx context.Context, core *core.Core) *SearchLogic {
	return &SearchLogic{
		ctx:  ctx,
		core: core,
	}
}

type SearchArgs struct {
	Query      string
	Department types.Department
	SchemaType string
	Limit      uint64
}

// SearchEvidence carries one evidence item with an explicit signal when the
// stored excerpt is shorter than the source span it was cut from.
type SearchEvidence struct {
	*types.Evidence
	Truncated bool `json:"truncated"`
}

type SearchResult struct {
	Record         *types.Record    `json:"record"`
	Evidence       []SearchEvidence `json:"evidence"`
	RelevanceScore float64          `json:"relevance_score"`
}

// Search is the read-only gateway over the knowledge base. Whatever the
// filters, only approved records are visible.
func (l *SearchLogic) Search(args SearchArgs) ([]SearchResult, error) {
	if args.Limit == 0 || args.Limit > 100 {
		args.Limit = 10
	}

	opts := types.GetRecordOptions{
		Status:     types.RECORD_STATUS_APPROVED,
		Department: args.Department,
		SchemaType: args.SchemaType,
		Query:      args.Query,
	}

	list, err := l.core.Store().RecordStore().ListRecords(l.ctx, opts, types.RECORD_SORT_UPDATED, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("SearchLogic.Search", i18n.ERROR_INTERNAL, err)
	}

	term := strings.ToLower(args.Query)

	var results []SearchResult
	for _, record := range list {
		score := relevance(record, term)
		if score <= 0 {
			continue
		}
		results = append(results, SearchResult{Record: record, RelevanceScore: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if uint64(len(results)) > args.Limit {
		results = results[:args.Limit]
	}

	for i := range results {
		evidence, err := l.core.Store().EvidenceStore().ListByRecord(l.ctx, results[i].Record.ID)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.New("SearchLogic.Search.evidence", i18n.ERROR_INTERNAL, err)
		}
		for _, e := range evidence {
			results[i].Evidence = append(results[i].Evidence, SearchEvidence{
				Evidence:  e,
				Truncated: e.EndOffset-e.StartOffset > len(e.Excerpt),
			})
		}
	}

	return results, nil
}

// relevance is a keyword score over the stored payload. Semantic ranking
// lives outside this service; approved-only visibility is the contract here.
func relevance(record *types.Record, term string) float64 {
	if term == "" {
		return 0
	}

	var score float64
	if strings.Contains(strings.ToLower(record.PrimaryKey), term) {
		score += 2.0
	}

	data := strings.ToLower(record.Data.String())
	if occurrences := strings.Count(data, term); occurrences > 0 {
		score += math.Min(float64(occurrences)*0.5, 3.0)
	}

	// 完整度高的记录优先
	score *= 0.5 + record.CompletenessScore*0.5
	return math.Round(score*100) / 100
}
