package sqlstore

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/jokari-ai/knowledge-hub/app/store"
	"github.com/jokari-ai/knowledge-hub/pkg/register"
	"github.com/jokari-ai/knowledge-hub/pkg/sqlstore"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

var provider = &Provider{
	stores: &Stores{},
}

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores
}

type Stores struct {
	store.DocumentStore
	store.ChunkStore
	store.RecordStore
	store.EvidenceStore
	store.ProposedUpdateStore
	store.AttachmentStore
	store.AuditLogStore
}

func (s *Provider) batchExecStoreFuncs(fname string) {
	val := reflect.ValueOf(s.stores)
	num := val.NumField()
	for i := 0; i < num; i++ {
		val.Field(i).MethodByName(fname).Call([]reflect.Value{})
	}
}

type RegisterKey struct{}

// NewTestProvider 构造不连库的 Provider，store 实现由调用方注入（便于测试时mock）
func NewTestProvider(stores *Stores) *Provider {
	return &Provider{stores: stores}
}

// Transaction 已在事务内或无数据库连接时直接执行回调
func (p *Provider) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.SqlProvider == nil {
		return fn(ctx)
	}
	return p.SqlProvider.Transaction(ctx, fn)
}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {

	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)

	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(provider)
	}

	return func() *Provider {
		return provider
	}
}

// Install 初始化所有数据表
func (p *Provider) Install() error {
	// 首先启用必要的数据库扩展
	if err := p.enableExtensions(); err != nil {
		return err
	}

	// 确保迁移记录表存在
	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	// 获取所有SQL文件
	files, err := CreateTableFiles.ReadDir(".")
	if err != nil {
		return err
	}

	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			// 检查文件是否已经执行过
			if executed, err := p.isFileExecuted(file.Name()); err != nil {
				return err
			} else if executed {
				continue
			}

			sql, err := CreateTableFiles.ReadFile(file.Name())
			if err != nil {
				return err
			}

			if err = p.executeSQLFile(string(sql), file.Name()); err != nil {
				return err
			}

			if err = p.markFileExecuted(file.Name()); err != nil {
				return err
			}
		}
	}
	return nil
}

// enableExtensions 启用必要的数据库扩展
func (p *Provider) enableExtensions() error {
	extensions := []string{
		"CREATE EXTENSION IF NOT EXISTS vector;", // pgvector 扩展，用于向量操作
	}

	for _, ext := range extensions {
		if _, err := p.SqlProvider.GetMaster().Exec(ext); err != nil {
			return fmt.Errorf("failed to enable extension: %w\nSQL: %s", err, ext)
		}
	}
	return nil
}

// ensureMigrationTable 确保迁移记录表存在
func (p *Provider) ensureMigrationTable() error {
	createTableSQL := `
CREATE TABLE IF NOT EXISTS ` + types.TABLE_PREFIX + `schema_migrations (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`
	_, err := p.SqlProvider.GetMaster().Exec(createTableSQL)
	return err
}

// isFileExecuted 检查文件是否已经执行过
func (p *Provider) isFileExecuted(filename string) (bool, error) {
	var count int
	err := p.SqlProvider.GetReplica().Get(&count,
		"SELECT COUNT(*) FROM "+types.TABLE_PREFIX+"schema_migrations WHERE filename = $1", filename)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// markFileExecuted 标记文件为已执行
func (p *Provider) markFileExecuted(filename string) error {
	_, err := p.SqlProvider.GetMaster().Exec(
		"INSERT INTO "+types.TABLE_PREFIX+"schema_migrations (filename, executed_at) VALUES ($1, $2) ON CONFLICT (filename) DO NOTHING",
		filename, time.Now().Unix())
	return err
}

// executeSQLFile 执行SQL文件内容
func (p *Provider) executeSQLFile(content, filename string) error {
	if _, err := p.SqlProvider.GetMaster().Exec(content); err != nil {
		return fmt.Errorf("failed to execute %s: %w", filename, err)
	}
	return nil
}

func (p *Provider) DocumentStore() store.DocumentStore {
	return p.stores.DocumentStore
}

func (p *Provider) ChunkStore() store.ChunkStore {
	return p.stores.ChunkStore
}

func (p *Provider) RecordStore() store.RecordStore {
	return p.stores.RecordStore
}

func (p *Provider) EvidenceStore() store.EvidenceStore {
	return p.stores.EvidenceStore
}

func (p *Provider) ProposedUpdateStore() store.ProposedUpdateStore {
	return p.stores.ProposedUpdateStore
}

func (p *Provider) AttachmentStore() store.AttachmentStore {
	return p.stores.AttachmentStore
}

func (p *Provider) AuditLogStore() store.AuditLogStore {
	return p.stores.AuditLogStore
}
