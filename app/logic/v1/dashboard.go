package v1

import (
	"context"
	"database/sql"
	"sort"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type DashboardLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewDashboardLogic(ctx context.Context, core *core.Core) *DashboardLogic {
	return &DashboardLogic{
		ctx:  ctx,
		core: core,
	}
}

type DashboardStats struct {
	Documents      map[types.DocumentStatus]uint64 `json:"documents"`
	Records        map[types.RecordStatus]uint64   `json:"records"`
	PendingUpdates uint64                          `json:"pending_updates"`
	// CompletenessByDepartment 各部门已入库记录的平均完整度
	CompletenessByDepartment map[types.Department]float64 `json:"completeness_by_department"`
	AvgCompleteness          float64                      `json:"avg_completeness"`
	StaleRecords             []StaleRecord                `json:"stale_records"`
	TopMissingFields         []MissingField               `json:"top_missing_fields"`
}

// StaleRecord flags an approved record that has not been touched for half a
// year and likely needs re-verification.
type StaleRecord struct {
	RecordID   string `json:"record_id"`
	SchemaType string `json:"schema_type"`
	PrimaryKey string `json:"primary_key"`
	AgeMonths  int    `json:"age_months"`
}

type MissingField struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

const (
	staleAfterSeconds = 180 * 24 * 3600
	staleRecordLimit  = 10
	missingFieldScan  = 100
	missingFieldTop   = 10
)

func (l *DashboardLogic) Stats() (*DashboardStats, error) {
	documents, err := l.core.Store().DocumentStore().TotalByStatus(l.ctx)
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.documents", i18n.ERROR_INTERNAL, err)
	}

	records, err := l.core.Store().RecordStore().TotalByStatus(l.ctx)
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.records", i18n.ERROR_INTERNAL, err)
	}

	pendingUpdates, err := l.core.Store().ProposedUpdateStore().Total(l.ctx, types.GetProposedUpdateOptions{
		Status: types.UPDATE_STATUS_PENDING,
	})
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.updates", i18n.ERROR_INTERNAL, err)
	}

	avg, err := l.core.Store().RecordStore().AvgCompleteness(l.ctx, types.GetRecordOptions{
		Status: types.RECORD_STATUS_APPROVED,
	})
	if err != nil {
		return nil, errors.New("DashboardLogic.Stats.AvgCompleteness", i18n.ERROR_INTERNAL, err)
	}

	byDepartment := make(map[types.Department]float64, len(types.Departments()))
	for _, department := range types.Departments() {
		v, err := l.core.Store().RecordStore().AvgCompleteness(l.ctx, types.GetRecordOptions{
			Status:     types.RECORD_STATUS_APPROVED,
			Department: department,
		})
		if err != nil {
			return nil, errors.New("DashboardLogic.Stats.AvgCompleteness.department", i18n.ERROR_INTERNAL, err)
		}
		byDepartment[department] = v
	}

	stale, err := l.staleRecords()
	if err != nil {
		return nil, err
	}

	missing, err := l.topMissingFields()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Documents:                documents,
		Records:                  records,
		PendingUpdates:           pendingUpdates,
		CompletenessByDepartment: byDepartment,
		AvgCompleteness:          avg,
		StaleRecords:             stale,
		TopMissingFields:         missing,
	}, nil
}

func (l *DashboardLogic) staleRecords() ([]StaleRecord, error) {
	now := types.GetCurrentTimestamp()
	list, err := l.core.Store().RecordStore().ListRecords(l.ctx, types.GetRecordOptions{
		Status:    types.RECORD_STATUS_APPROVED,
		UpdatedLt: now - staleAfterSeconds,
	}, types.RECORD_SORT_UPDATED, 1, staleRecordLimit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.staleRecords", i18n.ERROR_INTERNAL, err)
	}

	var stale []StaleRecord
	for _, r := range list {
		stale = append(stale, StaleRecord{
			RecordID:   r.ID,
			SchemaType: r.SchemaType,
			PrimaryKey: r.PrimaryKey,
			AgeMonths:  int((now - r.UpdatedAt) / (30 * 24 * 3600)),
		})
	}
	return stale, nil
}

// topMissingFields counts the most frequently absent required fields across
// the current review queue.
func (l *DashboardLogic) topMissingFields() ([]MissingField, error) {
	list, err := l.core.Store().RecordStore().ListRecords(l.ctx, types.GetRecordOptions{
		Statuses: []types.RecordStatus{types.RECORD_STATUS_PENDING, types.RECORD_STATUS_NEEDS_REVIEW},
	}, types.RECORD_SORT_CREATED, 1, missingFieldScan)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DashboardLogic.topMissingFields", i18n.ERROR_INTERNAL, err)
	}

	counts := make(map[string]int)
	for _, r := range list {
		def, ok := schema.GetByName(r.SchemaType)
		if !ok {
			continue
		}
		data, err := fielddata.FromJSON([]byte(r.Data))
		if err != nil {
			continue
		}
		for _, field := range def.MissingRequired(data) {
			counts[r.SchemaType+"."+field]++
		}
	}

	fields := make([]MissingField, 0, len(counts))
	for field, count := range counts {
		fields = append(fields, MissingField{Field: field, Count: count})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Count != fields[j].Count {
			return fields[i].Count > fields[j].Count
		}
		return fields[i].Field < fields[j].Field
	})
	if len(fields) > missingFieldTop {
		fields = fields[:missingFieldTop]
	}
	return fields, nil
}

// Activity lists the most recent audit entries.
func (l *DashboardLogic) Activity(opts types.GetAuditLogOptions, page, pageSize uint64) ([]*types.AuditLog, uint64, error) {
	list, err := l.core.Store().AuditLogStore().ListAuditLogs(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("DashboardLogic.Activity", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().AuditLogStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("DashboardLogic.Activity.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}
