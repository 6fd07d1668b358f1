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
		provider.stores.ProposedUpdateStore = NewProposedUpdateStore(provider)
	})
}

// ProposedUpdateStore 处理更新提案表的操作
type ProposedUpdateStore struct {
	CommonFields
}

func NewProposedUpdateStore(provider SqlProviderAchieve) *ProposedUpdateStore {
	store := &ProposedUpdateStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_PROPOSED_UPDATE)
	store.SetAllColumns("id", "record_id", "document_id", "record_version", "new_data", "diff", "status", "reviewed_by", "reviewed_at", "created_at", "updated_at")
	return store
}

func (s *ProposedUpdateStore) Create(ctx context.Context, data types.ProposedUpdate) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	if data.Status == "" {
		data.Status = types.UPDATE_STATUS_PENDING
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.RecordID, data.DocumentID, data.RecordVersion, data.NewData.String(), data.Diff.String(), data.Status, data.ReviewedBy, data.ReviewedAt, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *ProposedUpdateStore) GetProposedUpdate(ctx context.Context, id string) (*types.ProposedUpdate, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.ProposedUpdate
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ProposedUpdateStore) UpdateStatus(ctx context.Context, id string, status types.UpdateStatus, reviewedBy string, reviewedAt int64) error {
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

func (s *ProposedUpdateStore) ListProposedUpdates(ctx context.Context, opts types.GetProposedUpdateOptions, page, pageSize uint64) ([]*types.ProposedUpdate, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.ProposedUpdate
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ProposedUpdateStore) Total(ctx context.Context, opts types.GetProposedUpdateOptions) (uint64, error) {
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

func (s *ProposedUpdateStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}
