package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordTransitions(t *testing.T) {
	cases := []struct {
		from    RecordStatus
		to      RecordStatus
		allowed bool
	}{
		{RECORD_STATUS_PENDING, RECORD_STATUS_APPROVED, true},
		{RECORD_STATUS_PENDING, RECORD_STATUS_REJECTED, true},
		{RECORD_STATUS_NEEDS_REVIEW, RECORD_STATUS_APPROVED, true},
		{RECORD_STATUS_NEEDS_REVIEW, RECORD_STATUS_REJECTED, true},
		{RECORD_STATUS_APPROVED, RECORD_STATUS_PENDING, false},
		{RECORD_STATUS_APPROVED, RECORD_STATUS_REJECTED, false},
		{RECORD_STATUS_REJECTED, RECORD_STATUS_APPROVED, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestRecordEditable(t *testing.T) {
	assert.True(t, RECORD_STATUS_PENDING.Editable())
	assert.True(t, RECORD_STATUS_NEEDS_REVIEW.Editable())
	assert.False(t, RECORD_STATUS_APPROVED.Editable())
	assert.False(t, RECORD_STATUS_REJECTED.Editable())
}

func TestUpdateTransitions(t *testing.T) {
	assert.True(t, UPDATE_STATUS_PENDING.CanTransition(UPDATE_STATUS_APPROVED))
	assert.True(t, UPDATE_STATUS_PENDING.CanTransition(UPDATE_STATUS_REJECTED))
	assert.False(t, UPDATE_STATUS_APPROVED.CanTransition(UPDATE_STATUS_REJECTED))
	assert.False(t, UPDATE_STATUS_REJECTED.CanTransition(UPDATE_STATUS_PENDING))
}

func TestTruncateExcerpt(t *testing.T) {
	short := "quote from the source document"
	assert.Equal(t, short, TruncateExcerpt(short))

	long := make([]rune, EVIDENCE_EXCERPT_LIMIT+50)
	for i := range long {
		long[i] = 'ä'
	}
	got := TruncateExcerpt(string(long))
	assert.Len(t, []rune(got), EVIDENCE_EXCERPT_LIMIT)
}
