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
		provider.stores.RecordStore = NewRecordStore(provider)
	})
}

// RecordStore 处理知识记录表的操作
type RecordStore struct {
	CommonFields
}

func NewRecordStore(provider SqlProviderAchieve) *RecordStore {
	store := &RecordStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_RECORD)
	store.SetAllColumns("id", "document_id", "department", "schema_type", "primary_key", "data", "completeness_score", "status", "version", "reviewed_by", "reviewed_at", "created_at", "updated_at")
	return store
}

func (s *RecordStore) Create(ctx context.Context, data types.Record) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	if data.Version == 0 {
		data.Version = 1
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.DocumentID, data.Department, data.SchemaType, data.PrimaryKey, data.Data.String(), data.CompletenessScore, data.Status, data.Version, data.ReviewedBy, data.ReviewedAt, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *RecordStore) GetRecord(ctx context.Context, id string) (*types.Record, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Record
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByPrimaryKey 根据业务主键查找记录
func (s *RecordStore) GetByPrimaryKey(ctx context.Context, schemaType, primaryKey string) (*types.Record, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"schema_type": schemaType, "primary_key": primaryKey}).
		OrderBy("created_at DESC").
		Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Record
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateData 乐观锁更新记录数据，版本必须与期望一致才会生效
func (s *RecordStore) UpdateData(ctx context.Context, id string, expectVersion int64, data types.RecordData, completeness float64) (bool, error) {
	query := sq.Update(s.GetTable()).
		Set("data", data.String()).
		Set("completeness_score", completeness).
		Set("version", expectVersion+1).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id, "version": expectVersion})

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

func (s *RecordStore) UpdateStatus(ctx context.Context, id string, status types.RecordStatus, reviewedBy string, reviewedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("reviewed_by", reviewedBy).
		Set("reviewed_at", reviewedAt).
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

func (s *RecordStore) Delete(ctx context.Context, id string) error {
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

// ListRecords 分页获取记录列表
func (s *RecordStore) ListRecords(ctx context.Context, opts types.GetRecordOptions, sort types.RecordSort, page, pageSize uint64) ([]*types.Record, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy(sort.OrderBy())
	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.Record
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *RecordStore) Total(ctx context.Context, opts types.GetRecordOptions) (uint64, error) {
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

// TotalByStatus 按状态统计记录数量
func (s *RecordStore) TotalByStatus(ctx context.Context) (map[types.RecordStatus]uint64, error) {
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

	result := make(map[types.RecordStatus]uint64)
	for rows.Next() {
		var (
			status types.RecordStatus
			total  uint64
		)
		if err = rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		result[status] = total
	}
	return result, nil
}

// AvgCompleteness 计算满足条件记录的平均完整度
func (s *RecordStore) AvgCompleteness(ctx context.Context, opts types.GetRecordOptions) (float64, error) {
	query := sq.Select("COALESCE(AVG(completeness_score), 0)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res float64
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}
