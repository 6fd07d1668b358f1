package types

// Attachment is a binary file tied to a record, stored in object storage and
// served by presigned URL.
type Attachment struct {
	ID          string `json:"id" db:"id"`
	RecordID    string `json:"record_id" db:"record_id"`
	FileName    string `json:"file_name" db:"file_name"`
	FilePath    string `json:"file_path" db:"file_path"`
	ContentType string `json:"content_type" db:"content_type"`
	Size        int64  `json:"size" db:"size"`
	UploadedBy  string `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}
