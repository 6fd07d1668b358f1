package v1

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/app/store"
	"github.com/jokari-ai/knowledge-hub/app/store/sqlstore"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.SetupIDWorker(1)
	os.Exit(m.Run())
}

// fakeRecordStore 内存实现，保留真实 store 的乐观锁语义
type fakeRecordStore struct {
	store.RecordStore
	records map[string]*types.Record
}

func (s *fakeRecordStore) GetRecord(ctx context.Context, id string) (*types.Record, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (s *fakeRecordStore) UpdateData(ctx context.Context, id string, expectVersion int64, data types.RecordData, completeness float64) (bool, error) {
	r, ok := s.records[id]
	if !ok || r.Version != expectVersion {
		return false, nil
	}
	r.Data = data
	r.CompletenessScore = completeness
	r.Version++
	r.UpdatedAt = types.GetCurrentTimestamp()
	return true, nil
}

func (s *fakeRecordStore) UpdateStatus(ctx context.Context, id string, status types.RecordStatus, reviewedBy string, reviewedAt int64) error {
	r, ok := s.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	r.ReviewedBy = reviewedBy
	r.ReviewedAt = reviewedAt
	return nil
}

func (s *fakeRecordStore) Total(ctx context.Context, opts types.GetRecordOptions) (uint64, error) {
	var total uint64
	for _, r := range s.records {
		if opts.DocumentID != "" && r.DocumentID != opts.DocumentID {
			continue
		}
		if len(opts.Statuses) > 0 && !lo.Contains(opts.Statuses, r.Status) {
			continue
		}
		total++
	}
	return total, nil
}

type fakeUpdateStore struct {
	store.ProposedUpdateStore
	updates map[string]*types.ProposedUpdate
}

func (s *fakeUpdateStore) GetProposedUpdate(ctx context.Context, id string) (*types.ProposedUpdate, error) {
	u, ok := s.updates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUpdateStore) UpdateStatus(ctx context.Context, id string, status types.UpdateStatus, reviewedBy string, reviewedAt int64) error {
	u, ok := s.updates[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Status = status
	u.ReviewedBy = reviewedBy
	u.ReviewedAt = reviewedAt
	return nil
}

type fakeDocumentStore struct {
	store.DocumentStore
	docs map[string]*types.Document
}

func (s *fakeDocumentStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (s *fakeDocumentStore) UpdateStatus(ctx context.Context, id string, from, to types.DocumentStatus, errorMessage string) (bool, error) {
	d, ok := s.docs[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	d.ErrorMessage = errorMessage
	return true, nil
}

type fakeAuditStore struct {
	store.AuditLogStore
	entries []types.AuditLog
}

func (s *fakeAuditStore) Create(ctx context.Context, data types.AuditLog) error {
	s.entries = append(s.entries, data)
	return nil
}

func newTestCore(stores *sqlstore.Stores) *core.Core {
	if stores.AuditLogStore == nil {
		stores.AuditLogStore = &fakeAuditStore{}
	}
	return core.NewTestCore(core.CoreConfig{}, sqlstore.NewTestProvider(stores))
}

func requireCode(t *testing.T, err error, code int, message string) {
	t.Helper()
	require.Error(t, err)
	ce, ok := err.(*errors.CustomizedError)
	require.True(t, ok, "expected CustomizedError, got %T: %v", err, err)
	assert.Equal(t, code, ce.GetCode())
	assert.Equal(t, message, ce.Message())
}

func TestApproveProposedUpdateAppliesData(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:                "rec-1",
			DocumentID:        "doc-1",
			SchemaType:        "Objection",
			PrimaryKey:        "obj-1",
			Data:              types.RecordData(`{"id":"obj-1","objection_text":"too expensive"}`),
			CompletenessScore: 2.0 / 3.0,
			Status:            types.RECORD_STATUS_APPROVED,
			Version:           2,
		},
	}}
	newData := types.RecordData(`{"id":"obj-1","objection_text":"too expensive","response":"walk through total cost of ownership"}`)
	updates := &fakeUpdateStore{updates: map[string]*types.ProposedUpdate{
		"upd-1": {
			ID:            "upd-1",
			RecordID:      "rec-1",
			RecordVersion: 2,
			NewData:       newData,
			Status:        types.UPDATE_STATUS_PENDING,
		},
	}}

	logic := NewUpdateLogic(context.Background(), newTestCore(&sqlstore.Stores{
		RecordStore:         records,
		ProposedUpdateStore: updates,
	}))

	result, err := logic.Approve("upd-1")
	require.NoError(t, err)
	assert.Equal(t, types.UPDATE_STATUS_APPROVED, result.Status)
	assert.Equal(t, types.DEFAULT_ACTOR, result.ReviewedBy)

	// 记录数据逐字替换为提案数据，版本恰好 +1，完整度按新数据重算
	stored := records.records["rec-1"]
	assert.Equal(t, string(newData), string(stored.Data))
	assert.EqualValues(t, 3, stored.Version)
	assert.InDelta(t, 1.0, stored.CompletenessScore, 1e-9)
	assert.Equal(t, types.RECORD_STATUS_APPROVED, stored.Status)
	assert.Equal(t, types.UPDATE_STATUS_APPROVED, updates.updates["upd-1"].Status)
}

func TestApproveProposedUpdateStale(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:         "rec-1",
			SchemaType: "Objection",
			Data:       types.RecordData(`{"id":"obj-1"}`),
			Status:     types.RECORD_STATUS_APPROVED,
			Version:    3,
		},
	}}
	updates := &fakeUpdateStore{updates: map[string]*types.ProposedUpdate{
		"upd-1": {
			ID:            "upd-1",
			RecordID:      "rec-1",
			RecordVersion: 2,
			NewData:       types.RecordData(`{"id":"obj-1","response":"new"}`),
			Status:        types.UPDATE_STATUS_PENDING,
		},
	}}

	logic := NewUpdateLogic(context.Background(), newTestCore(&sqlstore.Stores{
		RecordStore:         records,
		ProposedUpdateStore: updates,
	}))

	_, err := logic.Approve("upd-1")
	requireCode(t, err, http.StatusConflict, i18n.ERROR_STALE_PROPOSAL)

	// 提案保持待审，记录原样
	assert.Equal(t, types.UPDATE_STATUS_PENDING, updates.updates["upd-1"].Status)
	assert.EqualValues(t, 3, records.records["rec-1"].Version)
}

func TestApproveProposedUpdateTerminal(t *testing.T) {
	updates := &fakeUpdateStore{updates: map[string]*types.ProposedUpdate{
		"upd-1": {ID: "upd-1", RecordID: "rec-1", Status: types.UPDATE_STATUS_REJECTED},
	}}

	logic := NewUpdateLogic(context.Background(), newTestCore(&sqlstore.Stores{
		ProposedUpdateStore: updates,
	}))

	_, err := logic.Approve("upd-1")
	requireCode(t, err, http.StatusConflict, i18n.ERROR_INVALID_TRANSITION)
}

func TestEditRecordLocked(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:      "rec-1",
			Data:    types.RecordData(`{"id":"obj-1"}`),
			Status:  types.RECORD_STATUS_APPROVED,
			Version: 1,
		},
	}}

	logic := NewRecordLogic(context.Background(), newTestCore(&sqlstore.Stores{RecordStore: records}))

	_, err := logic.Edit("rec-1", 1, []byte(`{"id":"obj-1","response":"x"}`))
	requireCode(t, err, http.StatusLocked, i18n.ERROR_RECORD_LOCKED)

	_, err = logic.EditField("rec-1", 1, "response", []byte(`"x"`))
	requireCode(t, err, http.StatusLocked, i18n.ERROR_RECORD_LOCKED)
}

func TestEditRecordVersionConflict(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:         "rec-1",
			SchemaType: "Objection",
			Data:       types.RecordData(`{"id":"obj-1","objection_text":"too expensive"}`),
			Status:     types.RECORD_STATUS_PENDING,
			Version:    4,
		},
	}}

	logic := NewRecordLogic(context.Background(), newTestCore(&sqlstore.Stores{RecordStore: records}))

	_, err := logic.Edit("rec-1", 3, []byte(`{"id":"obj-1","objection_text":"stale write"}`))
	requireCode(t, err, http.StatusConflict, i18n.ERROR_VERSION_CONFLICT)
	assert.EqualValues(t, 4, records.records["rec-1"].Version)
}

func TestEditRecordBumpsVersion(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:                "rec-1",
			SchemaType:        "Objection",
			Data:              types.RecordData(`{"id":"obj-1","objection_text":"too expensive"}`),
			CompletenessScore: 2.0 / 3.0,
			Status:            types.RECORD_STATUS_NEEDS_REVIEW,
			Version:           1,
		},
	}}

	logic := NewRecordLogic(context.Background(), newTestCore(&sqlstore.Stores{RecordStore: records}))

	newData := `{"id":"obj-1","objection_text":"too expensive","response":"compare yearly savings"}`
	updated, err := logic.Edit("rec-1", 1, []byte(newData))
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Version)
	assert.Equal(t, newData, string(updated.Data))
	assert.InDelta(t, 1.0, updated.CompletenessScore, 1e-9)
}

func TestEditFieldUpdatesSinglePath(t *testing.T) {
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:         "rec-1",
			SchemaType: "Objection",
			Data:       types.RecordData(`{"id":"obj-1","objection_text":"too expensive","response":"old"}`),
			Status:     types.RECORD_STATUS_PENDING,
			Version:    1,
		},
	}}

	logic := NewRecordLogic(context.Background(), newTestCore(&sqlstore.Stores{RecordStore: records}))

	updated, err := logic.EditField("rec-1", 1, "response", []byte(`"compare yearly savings"`))
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Version)
	assert.JSONEq(t, `{"id":"obj-1","objection_text":"too expensive","response":"compare yearly savings"}`, string(updated.Data))
}

func TestApproveLastRecordCompletesDocument(t *testing.T) {
	docs := &fakeDocumentStore{docs: map[string]*types.Document{
		"doc-1": {ID: "doc-1", Status: types.DOCUMENT_STATUS_PENDING_REVIEW},
	}}
	records := &fakeRecordStore{records: map[string]*types.Record{
		"rec-1": {
			ID:         "rec-1",
			DocumentID: "doc-1",
			Data:       types.RecordData(`{"id":"obj-1"}`),
			Status:     types.RECORD_STATUS_PENDING,
			Version:    1,
		},
	}}

	logic := NewRecordLogic(context.Background(), newTestCore(&sqlstore.Stores{
		RecordStore:   records,
		DocumentStore: docs,
	}))

	result, err := logic.Approve("rec-1")
	require.NoError(t, err)
	assert.Equal(t, types.RECORD_STATUS_APPROVED, result.Status)
	assert.Equal(t, types.DOCUMENT_STATUS_COMPLETED, docs.docs["doc-1"].Status)
}

func TestIngestSetStatusRace(t *testing.T) {
	docs := &fakeDocumentStore{docs: map[string]*types.Document{
		// 巡检已把文档标记为失败，迟到的工作进程不能再推进它
		"doc-1": {ID: "doc-1", Status: types.DOCUMENT_STATUS_EXTRACTION_FAILED},
	}}

	logic := NewIngestLogic(context.Background(), newTestCore(&sqlstore.Stores{DocumentStore: docs}))

	err := logic.setStatus("doc-1", types.DOCUMENT_STATUS_EXTRACTING, types.DOCUMENT_STATUS_PENDING_REVIEW, "")
	requireCode(t, err, http.StatusConflict, i18n.ERROR_INVALID_TRANSITION)
	assert.Equal(t, types.DOCUMENT_STATUS_EXTRACTION_FAILED, docs.docs["doc-1"].Status)

	err = logic.setStatus("doc-1", types.DOCUMENT_STATUS_EXTRACTION_FAILED, types.DOCUMENT_STATUS_PENDING_REVIEW, "")
	requireCode(t, err, http.StatusConflict, i18n.ERROR_INVALID_TRANSITION)
}
