package types

import (
	sq "github.com/Masterminds/squirrel"
)

type UpdateStatus string

const (
	UPDATE_STATUS_PENDING  UpdateStatus = "pending"
	UPDATE_STATUS_APPROVED UpdateStatus = "approved"
	UPDATE_STATUS_REJECTED UpdateStatus = "rejected"
)

var updateTransitions = map[UpdateStatus][]UpdateStatus{
	UPDATE_STATUS_PENDING:  {UPDATE_STATUS_APPROVED, UPDATE_STATUS_REJECTED},
	UPDATE_STATUS_APPROVED: nil,
	UPDATE_STATUS_REJECTED: nil,
}

func (s UpdateStatus) CanTransition(to UpdateStatus) bool {
	for _, t := range updateTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

func (s UpdateStatus) String() string {
	return string(s)
}

func UpdateStatusFromString(s string) (UpdateStatus, bool) {
	switch UpdateStatus(s) {
	case UPDATE_STATUS_PENDING, UPDATE_STATUS_APPROVED, UPDATE_STATUS_REJECTED:
		return UpdateStatus(s), true
	default:
		return "", false
	}
}

// ProposedUpdate is a staged replacement for an approved record's data.
// RecordVersion captures the record version the proposal was diffed against;
// approval fails when the record has moved past it.
type ProposedUpdate struct {
	ID            string       `json:"id" db:"id"`
	RecordID      string       `json:"record_id" db:"record_id"`
	DocumentID    string       `json:"document_id" db:"document_id"`
	RecordVersion int64        `json:"record_version" db:"record_version"`
	NewData       RecordData   `json:"new_data" db:"new_data"`
	Diff          RecordData   `json:"diff" db:"diff"`
	Status        UpdateStatus `json:"status" db:"status"`
	ReviewedBy    string       `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt    int64        `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt     int64        `json:"created_at" db:"created_at"`
	UpdatedAt     int64        `json:"updated_at" db:"updated_at"`
}

type GetProposedUpdateOptions struct {
	ID         string
	RecordID   string
	DocumentID string
	Status     UpdateStatus
}

func (opts GetProposedUpdateOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if opts.RecordID != "" {
		*query = query.Where(sq.Eq{"record_id": opts.RecordID})
	}
	if opts.DocumentID != "" {
		*query = query.Where(sq.Eq{"document_id": opts.DocumentID})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}
