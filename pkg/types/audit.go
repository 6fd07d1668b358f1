package types

import (
	sq "github.com/Masterminds/squirrel"
)

type AuditAction string

const (
	AUDIT_ACTION_DOCUMENT_UPLOADED AuditAction = "document_uploaded"
	AUDIT_ACTION_DOCUMENT_STATUS   AuditAction = "document_status_changed"
	AUDIT_ACTION_DOCUMENT_RETRIED  AuditAction = "document_retried"
	AUDIT_ACTION_RECORD_CREATED    AuditAction = "record_created"
	AUDIT_ACTION_RECORD_APPROVED   AuditAction = "record_approved"
	AUDIT_ACTION_RECORD_REJECTED   AuditAction = "record_rejected"
	AUDIT_ACTION_RECORD_EDITED     AuditAction = "record_edited"
	AUDIT_ACTION_UPDATE_PROPOSED   AuditAction = "update_proposed"
	AUDIT_ACTION_UPDATE_APPROVED   AuditAction = "update_approved"
	AUDIT_ACTION_UPDATE_REJECTED   AuditAction = "update_rejected"
	AUDIT_ACTION_ATTACHMENT_ADDED  AuditAction = "attachment_added"
)

// AuditLog is an append-only trace of lifecycle actions. EntityType is the
// table name of the affected entity.
type AuditLog struct {
	ID         string      `json:"id" db:"id"`
	Action     AuditAction `json:"action" db:"action"`
	EntityType string      `json:"entity_type" db:"entity_type"`
	EntityID   string      `json:"entity_id" db:"entity_id"`
	Actor      string      `json:"actor" db:"actor"`
	Detail     string      `json:"detail" db:"detail"`
	CreatedAt  int64       `json:"created_at" db:"created_at"`
}

type GetAuditLogOptions struct {
	Action     AuditAction
	EntityType string
	EntityID   string
	Actor      string
	CreatedGte int64
}

func (opts GetAuditLogOptions) Apply(query *sq.SelectBuilder) {
	if opts.Action != "" {
		*query = query.Where(sq.Eq{"action": opts.Action})
	}
	if opts.EntityType != "" {
		*query = query.Where(sq.Eq{"entity_type": opts.EntityType})
	}
	if opts.EntityID != "" {
		*query = query.Where(sq.Eq{"entity_id": opts.EntityID})
	}
	if opts.Actor != "" {
		*query = query.Where(sq.Eq{"actor": opts.Actor})
	}
	if opts.CreatedGte > 0 {
		*query = query.Where(sq.GtOrEq{"created_at": opts.CreatedGte})
	}
}
