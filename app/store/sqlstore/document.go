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
		provider.stores.DocumentStore = NewDocumentStore(provider)
	})
}

// DocumentStore 处理文档表的操作
type DocumentStore struct {
	CommonFields
}

func NewDocumentStore(provider SqlProviderAchieve) *DocumentStore {
	store := &DocumentStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_DOCUMENT)
	store.SetAllColumns("id", "filename", "department", "doc_type", "version_date", "owner", "confidentiality", "status", "file_path", "error_message", "retry_times", "uploaded_at", "updated_at")
	return store
}

// Create 创建新的文档记录
func (s *DocumentStore) Create(ctx context.Context, data types.Document) error {
	if data.UploadedAt == 0 {
		data.UploadedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Filename, data.Department, data.DocType, data.VersionDate, data.Owner, data.Confidentiality, data.Status, data.FilePath, data.ErrorMessage, data.RetryTimes, data.UploadedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return err
	}
	return nil
}

// GetDocument 根据ID获取文档
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Document
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateStatus 状态机推进，串行化条件写：只有仍处于 from 状态才会生效。
// 返回 false 表示文档已被其他写入者挪走，状态未改变。
func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, from, to types.DocumentStatus, errorMessage string) (bool, error) {
	query := sq.Update(s.GetTable()).
		Set("status", to).
		Set("error_message", errorMessage).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id, "status": from})

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *DocumentStore) SetRetryTimes(ctx context.Context, id string, retryTimes int) error {
	query := sq.Update(s.GetTable()).
		Set("retry_times", retryTimes).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
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

// ListDocuments 分页获取文档列表
func (s *DocumentStore) ListDocuments(ctx context.Context, opts types.GetDocumentOptions, page, pageSize uint64) ([]*types.Document, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("uploaded_at DESC")
	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.Document
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocumentStore) Total(ctx context.Context, opts types.GetDocumentOptions) (uint64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res uint64
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}

// TotalByStatus 按状态统计文档数量
func (s *DocumentStore) TotalByStatus(ctx context.Context) (map[types.DocumentStatus]uint64, error) {
	query := sq.Select("status", "COUNT(*) AS total").From(s.GetTable()).GroupBy("status")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	rows, err := s.GetReplica(ctx).Queryx(queryString, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[types.DocumentStatus]uint64)
	for rows.Next() {
		var (
			status types.DocumentStatus
			total  uint64
		)
		if err = rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		result[status] = total
	}
	return result, nil
}
