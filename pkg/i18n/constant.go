package i18n

var ALLOW_LANG = map[string]bool{
	"en": true,
	"de": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL        = "error.internal"
	ERROR_NOT_FOUND       = "error.notfound"
	ERROR_INVALIDARGUMENT = "error.invalidargument"
	ERROR_FORBIDDEN       = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"
	ERROR_MORE_TAHN_MAX     = "error.moreThanMax"

	ERROR_INVALID_TRANSITION     = "error.invalid_transition"
	ERROR_RECORD_LOCKED          = "error.record_locked"
	ERROR_STALE_PROPOSAL         = "error.stale_proposal"
	ERROR_VERSION_CONFLICT       = "error.version_conflict"
	ERROR_DEPARTMENT_DOCTYPE     = "error.department_doctype_mismatch"
	ERROR_UNSUPPORTED_FILE_TYPE  = "error.unsupported_file_type"
	ERROR_DOCUMENT_NOT_RETRYABLE = "error.document_not_retryable"
	ERROR_RECORD_NOT_EDITABLE    = "error.record_not_editable"
	ERROR_FILE_READ_FAIL         = "error.file.read_file"

	MESSAGE_DOCUMENT_QUEUED   = "message.document.queued"
	MESSAGE_DOCUMENT_RETRIED  = "message.document.retried"
)
