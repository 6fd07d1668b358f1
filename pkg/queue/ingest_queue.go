package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// 文档摄取任务类型
	TaskTypeDocumentIngest = "document:ingest"

	IngestQueueName = "ingest"

	IngestMaxRetries  = 3
	IngestTaskTimeout = 15 * time.Minute
)

// DocumentIngestTask 文档摄取任务
type DocumentIngestTask struct {
	DocumentID string `json:"document_id"`
}

// IngestQueue 文档摄取队列管理器
type IngestQueue struct {
	client    *asynq.Client
	keyPrefix string
}

// NewIngestQueueWithClient 使用已存在的 Client 创建队列
func NewIngestQueueWithClient(keyPrefix string, client *asynq.Client) *IngestQueue {
	if keyPrefix == "" {
		keyPrefix = "khub"
	}

	return &IngestQueue{
		keyPrefix: keyPrefix,
		client:    client,
	}
}

// EnqueueIngestTask 将文档摄取任务加入队列，返回任务 ID 供调用方轮询
func (q *IngestQueue) EnqueueIngestTask(ctx context.Context, documentID string) (string, error) {
	task := &DocumentIngestTask{
		DocumentID: documentID,
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task: %w", err)
	}

	info, err := q.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeDocumentIngest, payload,
		asynq.MaxRetry(IngestMaxRetries),
		asynq.Timeout(IngestTaskTimeout),
		asynq.Unique(5*time.Minute),
		asynq.Queue(IngestQueueName),
	))

	if err != nil {
		return "", fmt.Errorf("failed to enqueue document ingest task: %w", err)
	}

	slog.Info("Document ingest task enqueued",
		slog.String("document_id", documentID),
		slog.String("task_id", info.ID))

	return info.ID, nil
}

// Shutdown 优雅关闭队列资源
func (q *IngestQueue) Shutdown() {
	slog.Info("Shutting down ingest queue")

	if q.client != nil {
		if err := q.client.Close(); err != nil {
			slog.Error("Failed to close ingest queue client", slog.String("error", err.Error()))
		} else {
			slog.Info("Ingest queue client closed")
		}
	}
}
