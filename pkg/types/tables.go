package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "khub_"

const (
	TABLE_DOCUMENT        = TableName("document")
	TABLE_CHUNK           = TableName("chunk")
	TABLE_RECORD          = TableName("record")
	TABLE_EVIDENCE        = TableName("evidence")
	TABLE_PROPOSED_UPDATE = TableName("proposed_update")
	TABLE_ATTACHMENT      = TableName("record_attachment")
	TABLE_AUDIT_LOG       = TableName("audit_log")
)
