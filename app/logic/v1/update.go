package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

type UpdateLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewUpdateLogic(ctx context.Context, core *core.Core) *UpdateLogic {
	return &UpdateLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *UpdateLogic) GetUpdate(id string) (*types.ProposedUpdate, error) {
	update, err := l.core.Store().ProposedUpdateStore().GetProposedUpdate(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("UpdateLogic.GetUpdate", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("UpdateLogic.GetUpdate", i18n.ERROR_INTERNAL, err)
	}
	return update, nil
}

func (l *UpdateLogic) ListUpdates(opts types.GetProposedUpdateOptions, page, pageSize uint64) ([]*types.ProposedUpdate, uint64, error) {
	list, err := l.core.Store().ProposedUpdateStore().ListProposedUpdates(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("UpdateLogic.ListUpdates", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ProposedUpdateStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("UpdateLogic.ListUpdates.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// Approve applies the proposal to its record. The record must still be at
// the version the proposal was diffed against; the data swap, version bump
// and proposal close-out commit together.
func (l *UpdateLogic) Approve(id string) (*types.ProposedUpdate, error) {
	update, err := l.GetUpdate(id)
	if err != nil {
		return nil, err
	}

	if !update.Status.CanTransition(types.UPDATE_STATUS_APPROVED) {
		return nil, errors.New("UpdateLogic.Approve.CanTransition", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("proposal %s is %s", id, update.Status)).Code(http.StatusConflict)
	}

	record, err := l.core.Store().RecordStore().GetRecord(l.ctx, update.RecordID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("UpdateLogic.Approve.GetRecord", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("UpdateLogic.Approve.GetRecord", i18n.ERROR_INTERNAL, err)
	}

	if record.Version != update.RecordVersion {
		return nil, errors.New("UpdateLogic.Approve.version", i18n.ERROR_STALE_PROPOSAL,
			fmt.Errorf("record %s is at version %d, proposal captured %d", record.ID, record.Version, update.RecordVersion)).Code(http.StatusConflict)
	}

	completeness := record.CompletenessScore
	if def, ok := schema.GetByName(record.SchemaType); ok {
		if data, err := fielddata.FromJSON([]byte(update.NewData)); err == nil {
			completeness = def.Completeness(data)
		}
	}

	actor := ActorOrDefault(l.ctx)
	reviewedAt := types.GetCurrentTimestamp()

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		ok, err := l.core.Store().RecordStore().UpdateData(ctx, record.ID, update.RecordVersion, update.NewData, completeness)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("UpdateLogic.Approve.UpdateData", i18n.ERROR_STALE_PROPOSAL,
				fmt.Errorf("record %s moved during apply", record.ID)).Code(http.StatusConflict)
		}
		return l.core.Store().ProposedUpdateStore().UpdateStatus(ctx, id, types.UPDATE_STATUS_APPROVED, actor, reviewedAt)
	})
	if err != nil {
		if _, ok := err.(*errors.CustomizedError); ok {
			return nil, err
		}
		return nil, errors.New("UpdateLogic.Approve.Transaction", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_UPDATE_APPROVED, ENTITY_TYPE_UPDATE, id, actor,
		fmt.Sprintf("record %s version %d -> %d", record.ID, update.RecordVersion, update.RecordVersion+1))

	update.Status = types.UPDATE_STATUS_APPROVED
	update.ReviewedBy = actor
	update.ReviewedAt = reviewedAt
	return update, nil
}

// Reject discards the proposal. The record is untouched.
func (l *UpdateLogic) Reject(id, reason string) (*types.ProposedUpdate, error) {
	update, err := l.GetUpdate(id)
	if err != nil {
		return nil, err
	}

	if !update.Status.CanTransition(types.UPDATE_STATUS_REJECTED) {
		return nil, errors.New("UpdateLogic.Reject.CanTransition", i18n.ERROR_INVALID_TRANSITION,
			fmt.Errorf("proposal %s is %s", id, update.Status)).Code(http.StatusConflict)
	}

	actor := ActorOrDefault(l.ctx)
	reviewedAt := types.GetCurrentTimestamp()
	if err = l.core.Store().ProposedUpdateStore().UpdateStatus(l.ctx, id, types.UPDATE_STATUS_REJECTED, actor, reviewedAt); err != nil {
		return nil, errors.New("UpdateLogic.Reject.UpdateStatus", i18n.ERROR_INTERNAL, err)
	}

	writeAudit(l.ctx, l.core, types.AUDIT_ACTION_UPDATE_REJECTED, ENTITY_TYPE_UPDATE, id, actor, reason)

	update.Status = types.UPDATE_STATUS_REJECTED
	update.ReviewedBy = actor
	update.ReviewedAt = reviewedAt
	return update, nil
}
