package process

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"github.com/jokari-ai/knowledge-hub/app/core"
	v1 "github.com/jokari-ai/knowledge-hub/app/logic/v1"
	"github.com/jokari-ai/knowledge-hub/pkg/queue"
	"github.com/jokari-ai/knowledge-hub/pkg/safe"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type Process struct {
	cron        *cron.Cron
	core        *core.Core
	asynqClient *asynq.Client
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	ingestQueue *queue.IngestQueue
}

var p *Process

func IngestQueue() *queue.IngestQueue {
	return p.ingestQueue
}

func NewProcess(core *core.Core) *Process {
	p = &Process{
		cron: cron.New(),
		core: core,
	}

	// 创建共享的 asynq Client 和 Server
	cfg := core.Cfg().Redis

	var redisOpt asynq.RedisConnOpt
	if cfg.Cluster {
		redisOpt = asynq.RedisClusterClientOpt{
			Addrs:    cfg.ClusterAddrs,
			Password: cfg.Password,
		}
	} else {
		redisOpt = asynq.RedisClientOpt{
			Network:  "tcp",
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	p.asynqClient = asynq.NewClient(redisOpt)

	p.asynqServer = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:    core.Cfg().Ingest.GetConcurrency(),
		StrictPriority: false,
		Queues: map[string]int{
			queue.IngestQueueName: 5,
		},
	})

	p.asynqMux = asynq.NewServeMux()
	p.asynqMux.HandleFunc(queue.TaskTypeDocumentIngest, p.handleDocumentIngest)

	p.ingestQueue = queue.NewIngestQueueWithClient(cfg.KeyPrefix, p.asynqClient)
	core.SetIngestQueue(p.ingestQueue)

	// 巡检卡死的文档，每 10 分钟一次
	p.cron.AddFunc("@every 10m", func() {
		safe.Run(func() {
			p.failStuckDocuments()
		})
	})

	return p
}

func (p *Process) Cron() *cron.Cron {
	return p.cron
}

func (p *Process) Core() *core.Core {
	return p.core
}

func (p *Process) AsynqClient() *asynq.Client {
	return p.asynqClient
}

func (p *Process) AsynqServerMux() *asynq.ServeMux {
	return p.asynqMux
}

func (p *Process) Start() {
	p.cron.Start()
	go p.asynqServer.Run(p.asynqMux)
}

func (p *Process) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}

	if p.asynqServer != nil {
		p.asynqServer.Shutdown()
	}

	if p.ingestQueue != nil {
		p.ingestQueue.Shutdown()
	}
}

func (p *Process) handleDocumentIngest(ctx context.Context, t *asynq.Task) error {
	var task queue.DocumentIngestTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		slog.Error("Failed to unmarshal document ingest task", slog.String("error", err.Error()))
		return nil
	}

	return v1.NewIngestLogic(ctx, p.core).ProcessDocument(task.DocumentID)
}

// failStuckDocuments 兜底处理：进程崩溃会把文档留在处理中状态，超时后按失败收尾，
// 等待操作员显式重试
func (p *Process) failStuckDocuments() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := types.GetCurrentTimestamp() - p.core.Cfg().Ingest.GetStuckAfterSeconds()
	docs, err := p.core.Store().DocumentStore().ListDocuments(ctx, types.GetDocumentOptions{
		Statuses: []types.DocumentStatus{
			types.DOCUMENT_STATUS_UPLOADING,
			types.DOCUMENT_STATUS_PARSING,
			types.DOCUMENT_STATUS_EXTRACTING,
		},
		UpdatedLt: cutoff,
	}, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("Failed to list stuck documents", slog.String("error", err.Error()))
		return
	}

	for _, doc := range docs {
		failed := types.DOCUMENT_STATUS_PARSE_FAILED
		if doc.Status == types.DOCUMENT_STATUS_EXTRACTING {
			failed = types.DOCUMENT_STATUS_EXTRACTION_FAILED
		}

		slog.Warn("Failing stuck document", slog.String("document_id", doc.ID),
			slog.String("status", doc.Status.String()))
		ok, err := p.core.Store().DocumentStore().UpdateStatus(ctx, doc.ID, doc.Status, failed, "processing timed out")
		if err != nil {
			slog.Error("Failed to mark stuck document", slog.String("document_id", doc.ID),
				slog.String("error", err.Error()))
			continue
		}
		if !ok {
			// 文档在巡检间隙被工作进程推进了，放过
			slog.Info("Stuck document moved on", slog.String("document_id", doc.ID))
		}
	}
}
