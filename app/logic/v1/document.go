package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/parser"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type DocumentLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewDocumentLogic(ctx context.Context, core *core.Core) *DocumentLogic {
	return &DocumentLogic{
		ctx:  ctx,
		core: core,
	}
}

type UploadDocumentArgs struct {
	Department      types.Department
	DocType         types.DocType
	VersionDate     int64
	Owner           string
	Confidentiality types.Confidentiality
}

// Upload stores the raw file, creates the document in its initial state and
// queues it for ingestion. Returns the document and the queued task id.
func (l *DocumentLogic) Upload(fileName string, raw []byte, args UploadDocumentArgs) (*types.Document, string, error) {
	if !schema.ValidateDepartmentDocType(args.Department, args.DocType) {
		return nil, "", errors.New("DocumentLogic.Upload.ValidateDepartmentDocType", i18n.ERROR_DEPARTMENT_DOCTYPE,
			fmt.Errorf("doc type %q does not belong to department %q", args.DocType, args.Department)).Code(http.StatusBadRequest)
	}

	// 提前校验文件格式，避免入队后才失败
	if _, err := parser.Get(fileName); err != nil {
		return nil, "", errors.Trace("DocumentLogic.Upload.parser", err)
	}

	filePath := types.GenS3FilePath("documents", fmt.Sprintf("%s_%s", utils.GenUniqIDStr(), fileName))
	if err := l.core.FileStorage().SaveFile(filePath, raw); err != nil {
		return nil, "", errors.New("DocumentLogic.Upload.SaveFile", i18n.ERROR_INTERNAL, err)
	}

	doc := types.Document{
		ID:              utils.GenUniqIDStr(),
		Filename:        fileName,
		Department:      args.Department,
		DocType:         args.DocType,
		VersionDate:     args.VersionDate,
		Owner:           args.Owner,
		Confidentiality: args.Confidentiality,
		Status:          types.DOCUMENT_STATUS_UPLOADING,
		FilePath:        filePath,
		UploadedAt:      types.GetCurrentTimestamp(),
		UpdatedAt:       types.GetCurrentTimestamp(),
	}

	if err := l.core.Store().DocumentStore().Create(l.ctx, doc); err != nil {
		return nil, "", errors.New("DocumentLogic.Upload.DocumentStore.Create", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_DOCUMENT_UPLOADED, ENTITY_TYPE_DOCUMENT, doc.ID, ActorOrDefault(l.ctx), doc.Filename)

	jobID, err := l.core.IngestQueue().EnqueueIngestTask(l.ctx, doc.ID)
	if err != nil {
		return nil, "", errors.New("DocumentLogic.Upload.EnqueueIngestTask", i18n.ERROR_INTERNAL, err)
	}

	return &doc, jobID, nil
}

func (l *DocumentLogic) GetDocument(id string) (*types.Document, error) {
	doc, err := l.core.Store().DocumentStore().GetDocument(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("DocumentLogic.GetDocument", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("DocumentLogic.GetDocument", i18n.ERROR_INTERNAL, err)
	}
	return doc, nil
}

func (l *DocumentLogic) ListDocuments(opts types.GetDocumentOptions, page, pageSize uint64) ([]*types.Document, uint64, error) {
	list, err := l.core.Store().DocumentStore().ListDocuments(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("DocumentLogic.ListDocuments", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().DocumentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("DocumentLogic.ListDocuments.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

func (l *DocumentLogic) ListChunks(documentID string) ([]*types.Chunk, error) {
	if _, err := l.GetDocument(documentID); err != nil {
		return nil, err
	}

	chunks, err := l.core.Store().ChunkStore().ListByDocument(l.ctx, documentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListChunks", i18n.ERROR_INTERNAL, err)
	}
	return chunks, nil
}

func (l *DocumentLogic) ListRecords(documentID string) ([]*types.Record, error) {
	if _, err := l.GetDocument(documentID); err != nil {
		return nil, err
	}

	records, err := l.core.Store().RecordStore().ListRecords(l.ctx, types.GetRecordOptions{
		DocumentID: documentID,
	}, types.RECORD_SORT_CREATED, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListRecords", i18n.ERROR_INTERNAL, err)
	}
	return records, nil
}

// Retry re-queues a failed document. Only terminal failure states re-enter
// the pipeline.
func (l *DocumentLogic) Retry(id string) (*types.Document, error) {
	doc, err := l.GetDocument(id)
	if err != nil {
		return nil, err
	}

	if !doc.Status.IsFailed() {
		return nil, errors.New("DocumentLogic.Retry.check", i18n.ERROR_DOCUMENT_NOT_RETRYABLE,
			fmt.Errorf("document %s is %s", id, doc.Status)).Code(http.StatusConflict)
	}

	ok, err := l.core.Store().DocumentStore().UpdateStatus(l.ctx, id, doc.Status, types.DOCUMENT_STATUS_PARSING, "")
	if err != nil {
		return nil, errors.New("DocumentLogic.Retry.UpdateStatus", i18n.ERROR_INTERNAL, err)
	}
	if !ok {
		return nil, errors.New("DocumentLogic.Retry.moved", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("document %s is no longer %s", id, doc.Status)).Code(http.StatusConflict)
	}
	if err = l.core.Store().DocumentStore().SetRetryTimes(l.ctx, id, doc.RetryTimes+1); err != nil {
		return nil, errors.New("DocumentLogic.Retry.SetRetryTimes", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_DOCUMENT_RETRIED, ENTITY_TYPE_DOCUMENT, id, ActorOrDefault(l.ctx),
		fmt.Sprintf("retry %d from %s", doc.RetryTimes+1, doc.Status))

	if _, err = l.core.IngestQueue().EnqueueIngestTask(l.ctx, id); err != nil {
		return nil, errors.New("DocumentLogic.Retry.EnqueueIngestTask", i18n.ERROR_INTERNAL, err)
	}

	doc.Status = types.DOCUMENT_STATUS_PARSING
	doc.RetryTimes++
	doc.ErrorMessage = ""
	return doc, nil
}

// Delete removes the document and everything hanging off it. Records, their
// evidence and attachments, chunks and pending proposals go in one
// transaction; the stored file is removed best-effort afterwards.
func (l *DocumentLogic) Delete(id string) error {
	doc, err := l.GetDocument(id)
	if err != nil {
		return err
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		records, err := l.core.Store().RecordStore().ListRecords(ctx, types.GetRecordOptions{
			DocumentID: id,
		}, types.RECORD_SORT_CREATED, types.NO_PAGINATION, types.NO_PAGINATION)
		if err != nil && err != sql.ErrNoRows {
			return err
		}

		for _, record := range records {
			if err = l.core.Store().EvidenceStore().DeleteByRecord(ctx, record.ID); err != nil {
				return err
			}
			if err = l.core.Store().AttachmentStore().DeleteByRecord(ctx, record.ID); err != nil {
				return err
			}
			if err = l.core.Store().RecordStore().Delete(ctx, record.ID); err != nil {
				return err
			}
		}

		if err = l.core.Store().ProposedUpdateStore().DeleteByDocument(ctx, id); err != nil {
			return err
		}
		if err = l.core.Store().ChunkStore().DeleteByDocument(ctx, id); err != nil {
			return err
		}
		return l.core.Store().DocumentStore().Delete(ctx, id)
	})
	if err != nil {
		return errors.New("DocumentLogic.Delete.Transaction", i18n.ERROR_INTERNAL, err)
	}

	if doc.FilePath != "" {
		_ = l.core.FileStorage().DeleteFile(doc.FilePath)
	}
	return nil
}

// DocTypes lists the configured doc types for a department.
func (l *DocumentLogic) DocTypes(department types.Department) ([]types.DocType, error) {
	if _, ok := types.DepartmentFromString(department.String()); !ok {
		return nil, errors.New("DocumentLogic.DocTypes", i18n.ERROR_INVALIDARGUMENT,
			fmt.Errorf("unknown department %q", department)).Code(http.StatusBadRequest)
	}
	return schema.DocTypesForDepartment(department), nil
}
