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
		provider.stores.AuditLogStore = NewAuditLogStore(provider)
	})
}

// AuditLogStore 处理审计日志表的操作
type AuditLogStore struct {
	CommonFields
}

func NewAuditLogStore(provider SqlProviderAchieve) *AuditLogStore {
	store := &AuditLogStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_AUDIT_LOG)
	store.SetAllColumns("id", "action", "entity_type", "entity_id", "actor", "detail", "created_at")
	return store
}

func (s *AuditLogStore) Create(ctx context.Context, data types.AuditLog) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.Actor == "" {
		data.Actor = types.DEFAULT_ACTOR
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Action, data.EntityType, data.EntityID, data.Actor, data.Detail, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AuditLogStore) ListAuditLogs(ctx context.Context, opts types.GetAuditLogOptions, page, pageSize uint64) ([]*types.AuditLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	if page != types.NO_PAGINATION || pageSize != types.NO_PAGINATION {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.AuditLog
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuditLogStore) Total(ctx context.Context, opts types.GetAuditLogOptions) (uint64, error) {
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
