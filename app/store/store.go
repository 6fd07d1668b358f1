package store

import (
	"context"

	"github.com/jokari-ai/knowledge-hub/pkg/sqlstore"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

// DocumentStore 定义文档存储的方法集合
type DocumentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	UpdateStatus(ctx context.Context, id string, from, to types.DocumentStatus, errorMessage string) (bool, error)
	SetRetryTimes(ctx context.Context, id string, retryTimes int) error
	Delete(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, opts types.GetDocumentOptions, page, pageSize uint64) ([]*types.Document, error)
	Total(ctx context.Context, opts types.GetDocumentOptions) (uint64, error)
	TotalByStatus(ctx context.Context) (map[types.DocumentStatus]uint64, error)
}

// ChunkStore 定义文本分块存储的方法集合
type ChunkStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []*types.Chunk) error
	GetChunk(ctx context.Context, id string) (*types.Chunk, error)
	ListByDocument(ctx context.Context, documentID string) ([]*types.Chunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// RecordStore 定义知识记录存储的方法集合
type RecordStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Record) error
	GetRecord(ctx context.Context, id string) (*types.Record, error)
	GetByPrimaryKey(ctx context.Context, schemaType, primaryKey string) (*types.Record, error)
	// UpdateData 乐观锁更新，版本不匹配时不生效
	UpdateData(ctx context.Context, id string, expectVersion int64, data types.RecordData, completeness float64) (bool, error)
	UpdateStatus(ctx context.Context, id string, status types.RecordStatus, reviewedBy string, reviewedAt int64) error
	Delete(ctx context.Context, id string) error
	ListRecords(ctx context.Context, opts types.GetRecordOptions, sort types.RecordSort, page, pageSize uint64) ([]*types.Record, error)
	Total(ctx context.Context, opts types.GetRecordOptions) (uint64, error)
	TotalByStatus(ctx context.Context) (map[types.RecordStatus]uint64, error)
	AvgCompleteness(ctx context.Context, opts types.GetRecordOptions) (float64, error)
}

// EvidenceStore 定义字段证据存储的方法集合
type EvidenceStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []*types.Evidence) error
	ListByRecord(ctx context.Context, recordID string) ([]*types.Evidence, error)
	DeleteByRecord(ctx context.Context, recordID string) error
}

// ProposedUpdateStore 定义更新提案存储的方法集合
type ProposedUpdateStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ProposedUpdate) error
	GetProposedUpdate(ctx context.Context, id string) (*types.ProposedUpdate, error)
	UpdateStatus(ctx context.Context, id string, status types.UpdateStatus, reviewedBy string, reviewedAt int64) error
	ListProposedUpdates(ctx context.Context, opts types.GetProposedUpdateOptions, page, pageSize uint64) ([]*types.ProposedUpdate, error)
	Total(ctx context.Context, opts types.GetProposedUpdateOptions) (uint64, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// AttachmentStore 定义附件存储的方法集合
type AttachmentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Attachment) error
	GetAttachment(ctx context.Context, id string) (*types.Attachment, error)
	ListByRecord(ctx context.Context, recordID string) ([]*types.Attachment, error)
	Delete(ctx context.Context, id string) error
	DeleteByRecord(ctx context.Context, recordID string) error
}

// AuditLogStore 定义审计日志存储的方法集合
type AuditLogStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AuditLog) error
	ListAuditLogs(ctx context.Context, opts types.GetAuditLogOptions, page, pageSize uint64) ([]*types.AuditLog, error)
	Total(ctx context.Context, opts types.GetAuditLogOptions) (uint64, error)
}
