package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jokari-ai/knowledge-hub/pkg/register"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AttachmentStore = NewAttachmentStore(provider)
	})
}

// AttachmentStore 处理记录附件表的操作
type AttachmentStore struct {
	CommonFields
}

func NewAttachmentStore(provider SqlProviderAchieve) *AttachmentStore {
	store := &AttachmentStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_ATTACHMENT)
	store.SetAllColumns("id", "record_id", "file_name", "file_path", "content_type", "size", "uploaded_by", "created_at")
	return store
}

func (s *AttachmentStore) Create(ctx context.Context, data types.Attachment) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.RecordID, data.FileName, data.FilePath, data.ContentType, data.Size, data.UploadedBy, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AttachmentStore) GetAttachment(ctx context.Context, id string) (*types.Attachment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Attachment
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AttachmentStore) ListByRecord(ctx context.Context, recordID string) ([]*types.Attachment, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"record_id": recordID}).
		OrderBy("created_at DESC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.Attachment
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AttachmentStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AttachmentStore) DeleteByRecord(ctx context.Context, recordID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"record_id": recordID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}
