package sqlstore

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func dbTags(entity any) []string {
	var tags []string
	t := reflect.TypeOf(entity)
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// 每个 store 声明的列必须与实体 db tag 一一对应，否则 Insert 的 Values
// 顺序和 Select 的 scan 都会错位
func TestStoreColumnsMatchEntities(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
		entity  any
	}{
		{"document", NewDocumentStore(nil).GetAllColumns(), types.Document{}},
		{"chunk", NewChunkStore(nil).GetAllColumns(), types.Chunk{}},
		{"record", NewRecordStore(nil).GetAllColumns(), types.Record{}},
		{"evidence", NewEvidenceStore(nil).GetAllColumns(), types.Evidence{}},
		{"proposed_update", NewProposedUpdateStore(nil).GetAllColumns(), types.ProposedUpdate{}},
		{"attachment", NewAttachmentStore(nil).GetAllColumns(), types.Attachment{}},
		{"audit_log", NewAuditLogStore(nil).GetAllColumns(), types.AuditLog{}},
	}

	for _, c := range cases {
		assert.Equal(t, dbTags(c.entity), c.columns, c.name)
	}
}
