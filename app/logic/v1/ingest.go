package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/extractor"
	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/parser"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type IngestLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewIngestLogic(ctx context.Context, core *core.Core) *IngestLogic {
	return &IngestLogic{
		ctx:  ctx,
		core: core,
	}
}

// ProcessDocument runs the full pipeline for one queued document:
// parsing, chunking, extraction and record merge. Pipeline failures are
// recorded on the document as terminal failure states, they are not
// returned to the queue for automatic retry.
func (l *IngestLogic) ProcessDocument(documentID string) error {
	doc, err := l.core.Store().DocumentStore().GetDocument(l.ctx, documentID)
	if err != nil {
		if err == sql.ErrNoRows {
			// 文档已被删除，任务作废
			slog.Warn("Ingest task for missing document", slog.String("document_id", documentID))
			return nil
		}
		return errors.New("IngestLogic.ProcessDocument.GetDocument", i18n.ERROR_INTERNAL, err)
	}

	if !doc.Status.CanTransition(types.DOCUMENT_STATUS_PARSING) && doc.Status != types.DOCUMENT_STATUS_PARSING {
		slog.Warn("Ingest task for document in unexpected state",
			slog.String("document_id", documentID), slog.String("status", doc.Status.String()))
		return nil
	}

	if doc.Status != types.DOCUMENT_STATUS_PARSING {
		if err = l.setStatus(doc.ID, doc.Status, types.DOCUMENT_STATUS_PARSING, ""); err != nil {
			return err
		}
	}

	parsed, err := l.parse(doc)
	if err != nil {
		l.markFailed(doc, types.DOCUMENT_STATUS_PARSE_FAILED, "parse", err)
		return nil
	}

	chunks, err := l.persistChunks(doc, parsed)
	if err != nil {
		l.markFailed(doc, types.DOCUMENT_STATUS_PARSE_FAILED, "chunk", err)
		return nil
	}

	if err = l.setStatus(doc.ID, types.DOCUMENT_STATUS_PARSING, types.DOCUMENT_STATUS_EXTRACTING, ""); err != nil {
		return err
	}

	created, proposed, err := l.extract(doc, parsed, chunks)
	if err != nil {
		l.markFailed(doc, types.DOCUMENT_STATUS_EXTRACTION_FAILED, "extract", err)
		return nil
	}

	if err = l.setStatus(doc.ID, types.DOCUMENT_STATUS_EXTRACTING, types.DOCUMENT_STATUS_PENDING_REVIEW, ""); err != nil {
		return err
	}

	// 没有任何产出时无事可审，直接完结
	if created == 0 && proposed == 0 {
		if err = l.setStatus(doc.ID, types.DOCUMENT_STATUS_PENDING_REVIEW, types.DOCUMENT_STATUS_COMPLETED, ""); err != nil {
			return err
		}
	}

	l.core.Metrics().DocumentIngestedInc(types.DOCUMENT_STATUS_PENDING_REVIEW.String())
	slog.Info("Document ingested", slog.String("document_id", doc.ID),
		slog.Int("records", created), slog.Int("proposals", proposed))
	return nil
}

func (l *IngestLogic) parse(doc *types.Document) (*parser.ParsedDocument, error) {
	timer := l.core.Metrics().IngestStageTimer("parse")
	defer timer.ObserveDuration()

	obj, err := l.core.FileStorage().DownloadFile(l.ctx, doc.FilePath)
	if err != nil {
		return nil, errors.New("IngestLogic.parse.DownloadFile", i18n.ERROR_FILE_READ_FAIL, err)
	}

	// 解析器按文件路径读取，落一个临时文件
	tmp, err := os.CreateTemp("", "khub-ingest-*"+filepath.Ext(doc.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(obj.File); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	p, err := parser.Get(doc.Filename)
	if err != nil {
		return nil, err
	}

	parsed, err := p.Parse(tmp.Name())
	if err != nil {
		return nil, err
	}
	if parsed.Confidence == 0 {
		return nil, fmt.Errorf("parser produced no usable text: %v", parsed.Warnings)
	}
	return parsed, nil
}

func (l *IngestLogic) persistChunks(doc *types.Document, parsed *parser.ParsedDocument) ([]*types.Chunk, error) {
	timer := l.core.Metrics().IngestStageTimer("chunk")
	defer timer.ObserveDuration()

	textChunks := l.core.Chunker().CreateChunks(parsed)

	datas := make([]*types.Chunk, 0, len(textChunks))
	for _, tc := range textChunks {
		// embedding 留空，由外部向量化流程按需回填
		datas = append(datas, &types.Chunk{
			ID:          utils.GenUniqIDStr(),
			DocumentID:  doc.ID,
			SectionPath: tc.SectionPath,
			ChunkIndex:  tc.ChunkIndex,
			Text:        tc.Text,
			Confidence:  parsed.Confidence,
			StartOffset: tc.StartOffset,
			EndOffset:   tc.EndOffset,
			CreatedAt:   types.GetCurrentTimestamp(),
		})
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		// 重试会重跑解析，旧分块全部作废
		if err := l.core.Store().ChunkStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		return l.core.Store().ChunkStore().BatchCreate(ctx, datas)
	})
	if err != nil {
		return nil, err
	}
	return datas, nil
}

func (l *IngestLogic) extract(doc *types.Document, parsed *parser.ParsedDocument, chunks []*types.Chunk) (int, int, error) {
	timer := l.core.Metrics().IngestStageTimer("extract")
	defer timer.ObserveDuration()

	def, ok := schema.Get(doc.DocType)
	if !ok {
		return 0, 0, fmt.Errorf("no schema for doc type %q", doc.DocType)
	}

	result, err := l.core.Extractor().Extract(l.ctx, parsed.RawText, def, extractor.Context{
		Department: doc.Department.String(),
		DocType:    doc.DocType.String(),
		DocumentID: doc.ID,
		Filename:   doc.Filename,
	})
	if err != nil {
		return 0, 0, err
	}
	if !result.Valid {
		return 0, 0, fmt.Errorf("extraction invalid: %v", result.Errors)
	}

	var created, proposed int
	for _, candidate := range result.Records {
		wasProposal, err := l.mergeCandidate(doc, def, candidate, result, chunks)
		if err != nil {
			return created, proposed, err
		}
		if wasProposal {
			proposed++
		} else {
			created++
		}
		l.core.Metrics().RecordExtractedInc(def.Name)
	}

	return created, proposed, nil
}

// mergeCandidate persists one extracted record. A candidate whose primary key
// matches an approved record becomes a proposed update; everything else
// becomes a fresh record in review.
func (l *IngestLogic) mergeCandidate(doc *types.Document, def schema.Definition, candidate extractor.ExtractedRecord, result *extractor.Result, chunks []*types.Chunk) (bool, error) {
	raw, err := candidate.Data.MarshalJSON()
	if err != nil {
		return false, err
	}
	newData := types.RecordData(raw)

	primaryKey := def.ComputePrimaryKey(candidate.Data)
	completeness := def.Completeness(candidate.Data)

	var existing *types.Record
	if primaryKey != "" {
		existing, err = l.core.Store().RecordStore().GetByPrimaryKey(l.ctx, def.Name, primaryKey)
		if err != nil && err != sql.ErrNoRows {
			return false, err
		}
	}

	if existing != nil && existing.Status == types.RECORD_STATUS_APPROVED {
		return true, l.proposeUpdate(doc, existing, candidate.Data, newData)
	}

	if existing != nil && existing.Status.Editable() {
		// 重复抽取同一实体，直接刷新在审数据
		ok, err := l.core.Store().RecordStore().UpdateData(l.ctx, existing.ID, existing.Version, newData, completeness)
		if err != nil {
			return false, err
		}
		if ok {
			writeAudit(l.ctx, l.core, types.AUDIT_ACTION_RECORD_EDITED, ENTITY_TYPE_RECORD, existing.ID,
				types.DEFAULT_ACTOR, "refreshed by re-extraction")
		}
		return false, nil
	}

	status := types.RECORD_STATUS_PENDING
	if result.NeedsReview || candidate.Confidence < l.core.Cfg().Ingest.GetReviewThreshold() {
		status = types.RECORD_STATUS_NEEDS_REVIEW
	}

	record := types.Record{
		ID:                utils.GenUniqIDStr(),
		DocumentID:        doc.ID,
		Department:        doc.Department,
		SchemaType:        def.Name,
		PrimaryKey:        primaryKey,
		Data:              newData,
		CompletenessScore: completeness,
		Status:            status,
		Version:           1,
		CreatedAt:         types.GetCurrentTimestamp(),
		UpdatedAt:         types.GetCurrentTimestamp(),
	}

	evidence := buildEvidence(record.ID, candidate.Data, candidate.Evidence, chunks)

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().RecordStore().Create(ctx, record); err != nil {
			return err
		}
		if len(evidence) == 0 {
			return nil
		}
		return l.core.Store().EvidenceStore().BatchCreate(ctx, evidence)
	})
	if err != nil {
		return false, err
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_RECORD_CREATED, ENTITY_TYPE_RECORD, record.ID,
		types.DEFAULT_ACTOR, fmt.Sprintf("%s %s", def.Name, primaryKey))
	return false, nil
}

func (l *IngestLogic) proposeUpdate(doc *types.Document, existing *types.Record, newValue fielddata.Value, newData types.RecordData) error {
	oldValue, err := fielddata.FromJSON([]byte(existing.Data))
	if err != nil {
		return err
	}

	diff := fielddata.Diff(oldValue, newValue)
	if diff.IsEmpty() {
		// 数据没有变化，不需要提案
		return nil
	}

	diffRaw, err := json.Marshal(diff)
	if err != nil {
		return err
	}

	update := types.ProposedUpdate{
		ID:            utils.GenUniqIDStr(),
		RecordID:      existing.ID,
		DocumentID:    doc.ID,
		RecordVersion: existing.Version,
		NewData:       newData,
		Diff:          types.RecordData(diffRaw),
		Status:        types.UPDATE_STATUS_PENDING,
		CreatedAt:     types.GetCurrentTimestamp(),
		UpdatedAt:     types.GetCurrentTimestamp(),
	}

	if err = l.core.Store().ProposedUpdateStore().Create(l.ctx, update); err != nil {
		return err
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_UPDATE_PROPOSED, ENTITY_TYPE_UPDATE, update.ID,
		types.DEFAULT_ACTOR, fmt.Sprintf("record %s fields %v", existing.ID, diff.ChangedFields()))
	return nil
}

// buildEvidence resolves extractor chunk indexes onto the persisted chunks.
// Pointers whose field path does not resolve in the record data are dropped,
// evidence must bind to a field that exists at creation time.
func buildEvidence(recordID string, data fielddata.Value, pointers []extractor.EvidencePointer, chunks []*types.Chunk) []*types.Evidence {
	byIndex := make(map[int]*types.Chunk, len(chunks))
	for _, c := range chunks {
		byIndex[c.ChunkIndex] = c
	}

	var out []*types.Evidence
	for _, ptr := range pointers {
		if _, ok := data.Resolve(ptr.FieldPath); !ok {
			continue
		}
		chunkID := ""
		if c, ok := byIndex[ptr.ChunkIndex]; ok {
			chunkID = c.ID
		} else if len(chunks) > 0 {
			chunkID = chunks[0].ID
		}
		out = append(out, &types.Evidence{
			ID:          utils.GenUniqIDStr(),
			RecordID:    recordID,
			ChunkID:     chunkID,
			FieldPath:   ptr.FieldPath,
			Excerpt:     types.TruncateExcerpt(ptr.Excerpt),
			Confidence:  1.0,
			StartOffset: ptr.StartOffset,
			EndOffset:   ptr.EndOffset,
			CreatedAt:   types.GetCurrentTimestamp(),
		})
	}
	return out
}

// setStatus advances the document state machine. The write is conditional on
// the document still being in the from state, a concurrent writer (the
// stuck-document sweep, another worker) losing the race leaves the state
// untouched.
func (l *IngestLogic) setStatus(documentID string, from, to types.DocumentStatus, errMsg string) error {
	if !from.CanTransition(to) {
		return errors.New("IngestLogic.setStatus.CanTransition", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("document %s cannot go %s -> %s", documentID, from, to)).Code(http.StatusConflict)
	}

	ok, err := l.core.Store().DocumentStore().UpdateStatus(l.ctx, documentID, from, to, errMsg)
	if err != nil {
		return errors.New("IngestLogic.setStatus", i18n.ERROR_INTERNAL, err)
	}
	if !ok {
		return errors.New("IngestLogic.setStatus.moved", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("document %s is no longer %s", documentID, from)).Code(http.StatusConflict)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_DOCUMENT_STATUS, ENTITY_TYPE_DOCUMENT, documentID,
		types.DEFAULT_ACTOR, to.String())
	return nil
}

func (l *IngestLogic) markFailed(doc *types.Document, status types.DocumentStatus, stage string, cause error) {
	l.core.Metrics().IngestErrorInc(stage)
	l.core.Metrics().DocumentIngestedInc(status.String())

	slog.Error("Document ingest failed", slog.String("document_id", doc.ID),
		slog.String("stage", stage), slog.String("error", cause.Error()))

	from := types.DOCUMENT_STATUS_PARSING
	if status == types.DOCUMENT_STATUS_EXTRACTION_FAILED {
		from = types.DOCUMENT_STATUS_EXTRACTING
	}
	if err := l.setStatus(doc.ID, from, status, cause.Error()); err != nil {
		slog.Error("Failed to record ingest failure", slog.String("document_id", doc.ID),
			slog.String("error", err.Error()))
	}
}
