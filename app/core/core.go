package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jokari-ai/knowledge-hub/app/store/sqlstore"
	"github.com/jokari-ai/knowledge-hub/pkg/chunker"
	"github.com/jokari-ai/knowledge-hub/pkg/extractor"
	"github.com/jokari-ai/knowledge-hub/pkg/object-storage/s3"
	"github.com/jokari-ai/knowledge-hub/pkg/queue"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type Core struct {
	cfg CoreConfig

	stores     func() *sqlstore.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	metrics *Metrics

	fileStorage FileStorage
	chunker     *chunker.Chunker
	extractor   extractor.Extractor
	ingestQueue *queue.IngestQueue
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	utils.SetupIDWorker(1)

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("khub", "core"),
		httpEngine: gin.New(),
	}

	// setup store
	setupSqlStore(core)
	setupFileStorage(core)

	ck, err := chunker.NewChunker()
	if err != nil {
		panic(err)
	}
	core.chunker = ck
	core.extractor = extractor.NewStubExtractor()

	return core
}

// NewTestCore 构造只带注入 store 的 Core（便于测试时mock），不建日志、队列和对象存储
func NewTestCore(cfg CoreConfig, provider *sqlstore.Provider) *Core {
	return &Core{
		cfg:    cfg,
		stores: func() *sqlstore.Provider { return provider },
	}
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	// 执行数据库表初始化
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
	fmt.Println("setupSqlStore done")
}

func setupFileStorage(core *Core) {
	switch core.cfg.ObjectStorage.Driver {
	case "s3":
		s3Cfg := core.cfg.ObjectStorage.S3
		if s3Cfg == nil {
			panic("object_storage.s3 config is required when driver is s3")
		}
		core.fileStorage = &s3Storage{
			staticDomain: core.cfg.ObjectStorage.StaticDomain,
			cli:          s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey),
		}
	default:
		core.fileStorage = NewLocalFileStorage(core.cfg.ObjectStorage.StaticDomain)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) FileStorage() FileStorage {
	return s.fileStorage
}

func (s *Core) Chunker() *chunker.Chunker {
	return s.chunker
}

func (s *Core) Extractor() extractor.Extractor {
	return s.extractor
}

func (s *Core) SetIngestQueue(q *queue.IngestQueue) {
	s.ingestQueue = q
}

func (s *Core) IngestQueue() *queue.IngestQueue {
	return s.ingestQueue
}

func (s *Core) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.stores().Transaction(ctx, fn)
}
