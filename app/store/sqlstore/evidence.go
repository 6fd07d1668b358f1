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
		provider.stores.EvidenceStore = NewEvidenceStore(provider)
	})
}

// EvidenceStore 处理字段证据表的操作
type EvidenceStore struct {
	CommonFields
}

func NewEvidenceStore(provider SqlProviderAchieve) *EvidenceStore {
	store := &EvidenceStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_EVIDENCE)
	store.SetAllColumns("id", "record_id", "chunk_id", "field_path", "excerpt", "confidence", "start_offset", "end_offset", "created_at")
	return store
}

func (s *EvidenceStore) BatchCreate(ctx context.Context, datas []*types.Evidence) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.RecordID, data.ChunkID, data.FieldPath, data.Excerpt, data.Confidence, data.StartOffset, data.EndOffset, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *EvidenceStore) ListByRecord(ctx context.Context, recordID string) ([]*types.Evidence, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"record_id": recordID}).
		OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.Evidence
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *EvidenceStore) DeleteByRecord(ctx context.Context, recordID string) error {
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
