package types

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type DocType string

const (
	// sales
	DOC_TYPE_TRAINING_MODULE = DocType("training_module")
	DOC_TYPE_OBJECTION       = DocType("objection")
	DOC_TYPE_PERSONA         = DocType("persona")
	DOC_TYPE_PITCH_SCRIPT    = DocType("pitch_script")
	DOC_TYPE_EMAIL_TEMPLATE  = DocType("email_template")
	// support
	DOC_TYPE_FAQ                   = DocType("faq")
	DOC_TYPE_TROUBLESHOOTING_GUIDE = DocType("troubleshooting_guide")
	DOC_TYPE_HOW_TO_STEPS          = DocType("how_to_steps")
	// product
	DOC_TYPE_PRODUCT_SPEC         = DocType("product_spec")
	DOC_TYPE_COMPATIBILITY_MATRIX = DocType("compatibility_matrix")
	DOC_TYPE_SAFETY_NOTES         = DocType("safety_notes")
	// marketing
	DOC_TYPE_MESSAGING_PILLARS   = DocType("messaging_pillars")
	DOC_TYPE_CONTENT_GUIDELINES  = DocType("content_guidelines")
	// legal
	DOC_TYPE_COMPLIANCE_NOTES = DocType("compliance_notes")
	DOC_TYPE_CLAIMS_DO_DONT   = DocType("claims_do_dont")
)

func (t DocType) String() string {
	return string(t)
}

type DocumentStatus string

const (
	DOCUMENT_STATUS_UPLOADING         = DocumentStatus("uploading")
	DOCUMENT_STATUS_PARSING           = DocumentStatus("parsing")
	DOCUMENT_STATUS_EXTRACTING        = DocumentStatus("extracting")
	DOCUMENT_STATUS_PENDING_REVIEW    = DocumentStatus("pending_review")
	DOCUMENT_STATUS_COMPLETED         = DocumentStatus("completed")
	DOCUMENT_STATUS_PARSE_FAILED      = DocumentStatus("parse_failed")
	DOCUMENT_STATUS_EXTRACTION_FAILED = DocumentStatus("extraction_failed")
)

// documentTransitions is the exhaustive transition table for the ingestion
// state machine. Failure states re-enter parsing only through the explicit
// retry operation, never automatically. An upload that never got picked up
// times out to parse_failed via the stuck-document sweep.
var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DOCUMENT_STATUS_UPLOADING:         {DOCUMENT_STATUS_PARSING, DOCUMENT_STATUS_PARSE_FAILED},
	DOCUMENT_STATUS_PARSING:           {DOCUMENT_STATUS_EXTRACTING, DOCUMENT_STATUS_PARSE_FAILED},
	DOCUMENT_STATUS_EXTRACTING:        {DOCUMENT_STATUS_PENDING_REVIEW, DOCUMENT_STATUS_EXTRACTION_FAILED},
	DOCUMENT_STATUS_PENDING_REVIEW:    {DOCUMENT_STATUS_COMPLETED},
	DOCUMENT_STATUS_PARSE_FAILED:      {DOCUMENT_STATUS_PARSING},
	DOCUMENT_STATUS_EXTRACTION_FAILED: {DOCUMENT_STATUS_PARSING},
	DOCUMENT_STATUS_COMPLETED:         nil,
}

func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	for _, v := range documentTransitions[s] {
		if v == to {
			return true
		}
	}
	return false
}

func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case DOCUMENT_STATUS_COMPLETED, DOCUMENT_STATUS_PARSE_FAILED, DOCUMENT_STATUS_EXTRACTION_FAILED:
		return true
	}
	return false
}

func (s DocumentStatus) IsFailed() bool {
	return s == DOCUMENT_STATUS_PARSE_FAILED || s == DOCUMENT_STATUS_EXTRACTION_FAILED
}

func (s DocumentStatus) String() string {
	return string(s)
}

func DocumentStatusFromString(str string) (DocumentStatus, bool) {
	s := DocumentStatus(strings.ToLower(str))
	if _, ok := documentTransitions[s]; ok {
		return s, true
	}
	return "", false
}

type Document struct {
	ID              string          `json:"id" db:"id"`
	Filename        string          `json:"filename" db:"filename"`
	Department      Department      `json:"department" db:"department"`
	DocType         DocType         `json:"doc_type" db:"doc_type"`
	VersionDate     int64           `json:"version_date" db:"version_date"`
	Owner           string          `json:"owner" db:"owner"`
	Confidentiality Confidentiality `json:"confidentiality" db:"confidentiality"`
	Status          DocumentStatus  `json:"status" db:"status"`
	FilePath        string          `json:"file_path" db:"file_path"`
	ErrorMessage    string          `json:"error_message" db:"error_message"`
	RetryTimes      int             `json:"retry_times" db:"retry_times"`
	UploadedAt      int64           `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt       int64           `json:"updated_at" db:"updated_at"`
}

type GetDocumentOptions struct {
	ID         string
	Department Department
	DocType    DocType
	Status     DocumentStatus
	Statuses   []DocumentStatus
	UpdatedLt  int64
}

func (opts GetDocumentOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if opts.Department != "" {
		*query = query.Where(sq.Eq{"department": opts.Department})
	}
	if opts.DocType != "" {
		*query = query.Where(sq.Eq{"doc_type": opts.DocType})
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
}
