package types

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type RecordStatus string

const (
	RECORD_STATUS_PENDING      = RecordStatus("pending")
	RECORD_STATUS_NEEDS_REVIEW = RecordStatus("needs_review")
	RECORD_STATUS_APPROVED     = RecordStatus("approved")
	RECORD_STATUS_REJECTED     = RecordStatus("rejected")
)

// recordTransitions: approved and rejected are terminal, re-review is not
// allowed from either.
var recordTransitions = map[RecordStatus][]RecordStatus{
	RECORD_STATUS_PENDING:      {RECORD_STATUS_APPROVED, RECORD_STATUS_REJECTED},
	RECORD_STATUS_NEEDS_REVIEW: {RECORD_STATUS_APPROVED, RECORD_STATUS_REJECTED},
	RECORD_STATUS_APPROVED:     nil,
	RECORD_STATUS_REJECTED:     nil,
}

func (s RecordStatus) CanTransition(to RecordStatus) bool {
	for _, v := range recordTransitions[s] {
		if v == to {
			return true
		}
	}
	return false
}

// Editable reports whether direct data mutations are permitted. Terminal
// records only change through an approved proposed update.
func (s RecordStatus) Editable() bool {
	return s == RECORD_STATUS_PENDING || s == RECORD_STATUS_NEEDS_REVIEW
}

func (s RecordStatus) String() string {
	return string(s)
}

func RecordStatusFromString(str string) (RecordStatus, bool) {
	s := RecordStatus(strings.ToLower(str))
	if _, ok := recordTransitions[s]; ok {
		return s, true
	}
	return "", false
}

// RecordData is the open nested field mapping of a record, stored as JSONB.
type RecordData json.RawMessage

func (m RecordData) String() string {
	return string(m)
}

func (m RecordData) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *RecordData) UnmarshalJSON(data []byte) error {
	*m = data
	return nil
}

// Scan implements the sql.Scanner interface.
func (m *RecordData) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*m = RecordData(src)
		return nil
	case string:
		*m = RecordData(src)
		return nil
	case nil:
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to RecordData", src)
}

type Record struct {
	ID                string       `json:"id" db:"id"`
	DocumentID        string       `json:"document_id" db:"document_id"`
	Department        Department   `json:"department" db:"department"`
	SchemaType        string       `json:"schema_type" db:"schema_type"`
	PrimaryKey        string       `json:"primary_key" db:"primary_key"`
	Data              RecordData   `json:"data" db:"data"`
	CompletenessScore float64      `json:"completeness_score" db:"completeness_score"`
	Status            RecordStatus `json:"status" db:"status"`
	Version           int64        `json:"version" db:"version"`
	ReviewedBy        string       `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt        int64        `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt         int64        `json:"created_at" db:"created_at"`
	UpdatedAt         int64        `json:"updated_at" db:"updated_at"`
}

type GetRecordOptions struct {
	ID         string
	DocumentID string
	Department Department
	SchemaType string
	PrimaryKey string
	Status     RecordStatus
	Statuses   []RecordStatus
	UpdatedLt  int64
	// Query matches the serialized data payload or the primary key,
	// case-insensitive.
	Query string
}

func (opts GetRecordOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if opts.DocumentID != "" {
		*query = query.Where(sq.Eq{"document_id": opts.DocumentID})
	}
	if opts.Department != "" {
		*query = query.Where(sq.Eq{"department": opts.Department})
	}
	if opts.SchemaType != "" {
		*query = query.Where(sq.Eq{"schema_type": opts.SchemaType})
	}
	if opts.PrimaryKey != "" {
		*query = query.Where(sq.Eq{"primary_key": opts.PrimaryKey})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
	if len(opts.Statuses) > 0 {
		*query = query.Where(sq.Eq{"status": opts.Statuses})
	}
	if opts.UpdatedLt > 0 {
		*query = query.Where(sq.Lt{"updated_at": opts.UpdatedLt})
	}
	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		*query = query.Where(sq.Or{
			sq.Expr("data::text ILIKE ?", pattern),
			sq.Expr("primary_key ILIKE ?", pattern),
		})
	}
}

type RecordSort string

const (
	RECORD_SORT_COMPLETENESS = RecordSort("completeness")
	RECORD_SORT_CREATED      = RecordSort("created")
	RECORD_SORT_UPDATED      = RecordSort("updated")
)

func (s RecordSort) OrderBy() string {
	switch s {
	case RECORD_SORT_CREATED:
		return "created_at DESC"
	case RECORD_SORT_UPDATED:
		return "updated_at DESC"
	default:
		return "completeness_score ASC"
	}
}
