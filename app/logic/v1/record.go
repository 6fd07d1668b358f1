package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type RecordLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewRecordLogic(ctx context.Context, core *core.Core) *RecordLogic {
	return &RecordLogic{
		ctx:  ctx,
		core: core,
	}
}

// RecordDetail bundles a record with its provenance for the review screen.
type RecordDetail struct {
	Record      *types.Record      `json:"record"`
	Evidence    []*types.Evidence  `json:"evidence"`
	Attachments []*types.Attachment `json:"attachments"`
	Missing     []string           `json:"missing_fields"`
}

func (l *RecordLogic) GetRecord(id string) (*types.Record, error) {
	record, err := l.core.Store().RecordStore().GetRecord(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("RecordLogic.GetRecord", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("RecordLogic.GetRecord", i18n.ERROR_INTERNAL, err)
	}
	return record, nil
}

func (l *RecordLogic) GetDetail(id string) (*RecordDetail, error) {
	record, err := l.GetRecord(id)
	if err != nil {
		return nil, err
	}

	evidence, err := l.core.Store().EvidenceStore().ListByRecord(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("RecordLogic.GetDetail.EvidenceStore", i18n.ERROR_INTERNAL, err)
	}

	attachments, err := l.core.Store().AttachmentStore().ListByRecord(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("RecordLogic.GetDetail.AttachmentStore", i18n.ERROR_INTERNAL, err)
	}

	detail := &RecordDetail{
		Record:      record,
		Evidence:    evidence,
		Attachments: attachments,
	}

	if def, ok := schema.GetByName(record.SchemaType); ok {
		if data, err := fielddata.FromJSON([]byte(record.Data)); err == nil {
			detail.Missing = def.MissingRequired(data)
		}
	}
	return detail, nil
}

func (l *RecordLogic) ListRecords(opts types.GetRecordOptions, sort types.RecordSort, page, pageSize uint64) ([]*types.Record, uint64, error) {
	list, err := l.core.Store().RecordStore().ListRecords(l.ctx, opts, sort, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("RecordLogic.ListRecords", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().RecordStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("RecordLogic.ListRecords.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// Edit replaces a record's data under optimistic concurrency. The caller
// supplies the version it read; a mismatch means someone else got there
// first.
func (l *RecordLogic) Edit(id string, expectVersion int64, raw []byte) (*types.Record, error) {
	record, err := l.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if !record.Status.Editable() {
		return nil, errors.New("RecordLogic.Edit.check", i18n.ERROR_RECORD_LOCKED,
			fmt.Errorf("record %s is %s", id, record.Status)).Code(http.StatusLocked)
	}

	data, err := fielddata.FromJSON(raw)
	if err != nil {
		return nil, errors.New("RecordLogic.Edit.FromJSON", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	if data.Kind() != fielddata.KindMapping {
		return nil, errors.New("RecordLogic.Edit.kind", i18n.ERROR_INVALIDARGUMENT,
			fmt.Errorf("record data must be an object")).Code(http.StatusBadRequest)
	}

	completeness := record.CompletenessScore
	if def, ok := schema.GetByName(record.SchemaType); ok {
		completeness = def.Completeness(data)
	}

	ok, err := l.core.Store().RecordStore().UpdateData(l.ctx, id, expectVersion, types.RecordData(raw), completeness)
	if err != nil {
		return nil, errors.New("RecordLogic.Edit.UpdateData", i18n.ERROR_INTERNAL, err)
	}
	if !ok {
		return nil, errors.New("RecordLogic.Edit.version", i18n.ERROR_VERSION_CONFLICT,
			fmt.Errorf("record %s moved past version %d", id, expectVersion)).Code(http.StatusConflict)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_RECORD_EDITED, ENTITY_TYPE_RECORD, id, ActorOrDefault(l.ctx),
		fmt.Sprintf("version %d -> %d", expectVersion, expectVersion+1))

	return l.GetRecord(id)
}

// EditField replaces a single field at a dotted path, under the same
// version guard as Edit. Intermediate path segments must already exist.
func (l *RecordLogic) EditField(id string, expectVersion int64, fieldPath string, rawValue []byte) (*types.Record, error) {
	record, err := l.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if !record.Status.Editable() {
		return nil, errors.New("RecordLogic.EditField.check", i18n.ERROR_RECORD_LOCKED,
			fmt.Errorf("record %s is %s", id, record.Status)).Code(http.StatusLocked)
	}

	data, err := fielddata.FromJSON([]byte(record.Data))
	if err != nil {
		return nil, errors.New("RecordLogic.EditField.data", i18n.ERROR_INTERNAL, err)
	}

	value, err := fielddata.FromJSON(rawValue)
	if err != nil {
		return nil, errors.New("RecordLogic.EditField.value", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}

	updated, ok := data.Set(fieldPath, value)
	if !ok {
		return nil, errors.New("RecordLogic.EditField.path", i18n.ERROR_INVALIDARGUMENT,
			fmt.Errorf("path %q does not resolve in record %s", fieldPath, id)).Code(http.StatusBadRequest)
	}

	raw, err := updated.MarshalJSON()
	if err != nil {
		return nil, errors.New("RecordLogic.EditField.marshal", i18n.ERROR_INTERNAL, err)
	}

	completeness := record.CompletenessScore
	if def, ok := schema.GetByName(record.SchemaType); ok {
		completeness = def.Completeness(updated)
	}

	ok, err = l.core.Store().RecordStore().UpdateData(l.ctx, id, expectVersion, types.RecordData(raw), completeness)
	if err != nil {
		return nil, errors.New("RecordLogic.EditField.UpdateData", i18n.ERROR_INTERNAL, err)
	}
	if !ok {
		return nil, errors.New("RecordLogic.EditField.version", i18n.ERROR_VERSION_CONFLICT,
			fmt.Errorf("record %s moved past version %d", id, expectVersion)).Code(http.StatusConflict)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_RECORD_EDITED, ENTITY_TYPE_RECORD, id, ActorOrDefault(l.ctx),
		fmt.Sprintf("field %s, version %d -> %d", fieldPath, expectVersion, expectVersion+1))

	return l.GetRecord(id)
}

func (l *RecordLogic) Approve(id string) (*types.Record, error) {
	return l.review(id, types.RECORD_STATUS_APPROVED, types.AUDIT_ACTION_RECORD_APPROVED, "")
}

func (l *RecordLogic) Reject(id, reason string) (*types.Record, error) {
	return l.review(id, types.RECORD_STATUS_REJECTED, types.AUDIT_ACTION_RECORD_REJECTED, reason)
}

func (l *RecordLogic) review(id string, to types.RecordStatus, action types.AuditAction, detail string) (*types.Record, error) {
	record, err := l.GetRecord(id)
	if err != nil {
		return nil, err
	}

	if !record.Status.CanTransition(to) {
		return nil, errors.New("RecordLogic.review.CanTransition", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("record %s cannot go %s -> %s", id, record.Status, to)).Code(http.StatusConflict)
	}

	actor := ActorOrDefault(l.ctx)
	reviewedAt := types.GetCurrentTimestamp()
	if err = l.core.Store().RecordStore().UpdateStatus(l.ctx, id, to, actor, reviewedAt); err != nil {
		return nil, errors.New("RecordLogic.review.UpdateStatus", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, action, ENTITY_TYPE_RECORD, id, actor, detail)

	l.maybeCompleteDocument(record.DocumentID)

	record.Status = to
	record.ReviewedBy = actor
	record.ReviewedAt = reviewedAt
	return record, nil
}

// maybeCompleteDocument closes out the owning document once no record is
// left in review.
func (l *RecordLogic) maybeCompleteDocument(documentID string) {
	doc, err := l.core.Store().DocumentStore().GetDocument(l.ctx, documentID)
	if err != nil || doc.Status != types.DOCUMENT_STATUS_PENDING_REVIEW {
		return
	}

	open, err := l.core.Store().RecordStore().Total(l.ctx, types.GetRecordOptions{
		DocumentID: documentID,
		Statuses:   []types.RecordStatus{types.RECORD_STATUS_PENDING, types.RECORD_STATUS_NEEDS_REVIEW},
	})
	if err != nil || open > 0 {
		return
	}

	ok, err := l.core.Store().DocumentStore().UpdateStatus(l.ctx, documentID,
		types.DOCUMENT_STATUS_PENDING_REVIEW, types.DOCUMENT_STATUS_COMPLETED, "")
	if err != nil || !ok {
		return
	}
	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_DOCUMENT_STATUS, ENTITY_TYPE_DOCUMENT, documentID,
		types.DEFAULT_ACTOR, types.DOCUMENT_STATUS_COMPLETED.String())
}
