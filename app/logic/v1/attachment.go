package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type AttachmentLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAttachmentLogic(ctx context.Context, core *core.Core) *AttachmentLogic {
	return &AttachmentLogic{
		ctx:  ctx,
		core: core,
	}
}

// Add stores the file and ties it to the record. Attachments are not
// versioned content, the record version does not move.
func (l *AttachmentLogic) Add(recordID, fileName, contentType string, raw []byte) (*types.Attachment, error) {
	if _, err := NewRecordLogic(l.ctx, l.core).GetRecord(recordID); err != nil {
		return nil, err
	}

	filePath := types.GenS3FilePath("attachments", fmt.Sprintf("%s_%s", utils.GenUniqIDStr(), fileName))
	if err := l.core.FileStorage().SaveFile(filePath, raw); err != nil {
		return nil, errors.New("AttachmentLogic.Add.SaveFile", i18n.ERROR_INTERNAL, err)
	}

	actor := ActorOrDefault(l.ctx)
	attachment := types.Attachment{
		ID:          utils.GenUniqIDStr(),
		RecordID:    recordID,
		FileName:    fileName,
		FilePath:    filePath,
		ContentType: contentType,
		Size:        int64(len(raw)),
		UploadedBy:  actor,
		CreatedAt:   types.GetCurrentTimestamp(),
	}

	if err := l.core.Store().AttachmentStore().Create(l.ctx, attachment); err != nil {
		return nil, errors.New("AttachmentLogic.Add.Create", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_ATTACHMENT_ADDED, ENTITY_TYPE_RECORD, recordID, actor, fileName)
	return &attachment, nil
}

func (l *AttachmentLogic) List(recordID string) ([]*types.Attachment, error) {
	attachments, err := l.core.Store().AttachmentStore().ListByRecord(l.ctx, recordID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AttachmentLogic.List", i18n.ERROR_INTERNAL, err)
	}
	return attachments, nil
}

// DownloadURL returns a short-lived presigned URL for the stored file.
func (l *AttachmentLogic) DownloadURL(id string) (string, error) {
	attachment, err := l.core.Store().AttachmentStore().GetAttachment(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", errors.New("AttachmentLogic.DownloadURL", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return "", errors.New("AttachmentLogic.DownloadURL", i18n.ERROR_INTERNAL, err)
	}

	url, err := l.core.FileStorage().GenGetObjectPreSignURL(attachment.FilePath)
	if err != nil {
		return "", errors.New("AttachmentLogic.DownloadURL.PreSign", i18n.ERROR_INTERNAL, err)
	}
	return url, nil
}

func (l *AttachmentLogic) Delete(recordID, id string) error {
	attachment, err := l.core.Store().AttachmentStore().GetAttachment(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.New("AttachmentLogic.Delete", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return errors.New("AttachmentLogic.Delete", i18n.ERROR_INTERNAL, err)
	}

	if attachment.RecordID != recordID {
		return errors.New("AttachmentLogic.Delete.check", i18n.ERROR_NOT_FOUND,
			fmt.Errorf("attachment %s does not belong to record %s", id, recordID)).Code(http.StatusNotFound)
	}

	if err = l.core.Store().AttachmentStore().Delete(l.ctx, id); err != nil {
		return errors.New("AttachmentLogic.Delete.store", i18n.ERROR_INTERNAL, err)
	}

	_ = l.core.FileStorage().DeleteFile(attachment.FilePath)
	return nil
}
