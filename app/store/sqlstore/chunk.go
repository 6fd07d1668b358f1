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
		provider.stores.ChunkStore = NewChunkStore(provider)
	})
}

// ChunkStore 处理文本分块表的操作
type ChunkStore struct {
	CommonFields
}

func NewChunkStore(provider SqlProviderAchieve) *ChunkStore {
	store := &ChunkStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_CHUNK)
	store.SetAllColumns("id", "document_id", "section_path", "chunk_index", "text", "confidence", "start_offset", "end_offset", "embedding", "created_at")
	return store
}

func (s *ChunkStore) BatchCreate(ctx context.Context, datas []*types.Chunk) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.DocumentID, data.SectionPath, data.ChunkIndex, data.Text, data.Confidence, data.StartOffset, data.EndOffset, data.Embedding, data.CreatedAt)
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

func (s *ChunkStore) GetChunk(ctx context.Context, id string) (*types.Chunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Chunk
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ChunkStore) ListByDocument(ctx context.Context, documentID string) ([]*types.Chunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("chunk_index ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []*types.Chunk
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
