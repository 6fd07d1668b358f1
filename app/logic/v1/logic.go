package v1

import (
	"context"
	"log/slog"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

const (
	ENTITY_TYPE_DOCUMENT = "khub_document"
	ENTITY_TYPE_RECORD   = "khub_record"
	ENTITY_TYPE_UPDATE   = "khub_proposed_update"
)

// writeAudit appends one audit entry. The audit trail is best-effort, a
// failed write never fails the mutation it describes.
func writeAudit(ctx context.Context, core *core.Core, action types.AuditAction, entityType, entityID, actor, detail string) {
	err := core.Store().AuditLogStore().Create(ctx, types.AuditLog{
		ID:         utils.GenUniqIDStr(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
		CreatedAt:  types.GetCurrentTimestamp(),
	})
	if err != nil {
		slog.Error("Failed to write audit log", slog.String("action", string(action)),
			slog.String("entity_id", entityID), slog.String("error", err.Error()))
	}
}
