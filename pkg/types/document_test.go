package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTransitions(t *testing.T) {
	cases := []struct {
		from    DocumentStatus
		to      DocumentStatus
		allowed bool
	}{
		{DOCUMENT_STATUS_UPLOADING, DOCUMENT_STATUS_PARSING, true},
		{DOCUMENT_STATUS_UPLOADING, DOCUMENT_STATUS_PARSE_FAILED, true},
		{DOCUMENT_STATUS_UPLOADING, DOCUMENT_STATUS_EXTRACTING, false},
		{DOCUMENT_STATUS_EXTRACTION_FAILED, DOCUMENT_STATUS_PENDING_REVIEW, false},
		{DOCUMENT_STATUS_PARSING, DOCUMENT_STATUS_EXTRACTING, true},
		{DOCUMENT_STATUS_PARSING, DOCUMENT_STATUS_PARSE_FAILED, true},
		{DOCUMENT_STATUS_PARSING, DOCUMENT_STATUS_COMPLETED, false},
		{DOCUMENT_STATUS_EXTRACTING, DOCUMENT_STATUS_PENDING_REVIEW, true},
		{DOCUMENT_STATUS_EXTRACTING, DOCUMENT_STATUS_EXTRACTION_FAILED, true},
		{DOCUMENT_STATUS_PENDING_REVIEW, DOCUMENT_STATUS_COMPLETED, true},
		{DOCUMENT_STATUS_PENDING_REVIEW, DOCUMENT_STATUS_PARSING, false},
		{DOCUMENT_STATUS_PARSE_FAILED, DOCUMENT_STATUS_PARSING, true},
		{DOCUMENT_STATUS_EXTRACTION_FAILED, DOCUMENT_STATUS_PARSING, true},
		{DOCUMENT_STATUS_COMPLETED, DOCUMENT_STATUS_PARSING, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestDocumentStatusTerminal(t *testing.T) {
	assert.True(t, DOCUMENT_STATUS_COMPLETED.IsTerminal())
	assert.False(t, DOCUMENT_STATUS_PARSE_FAILED.IsTerminal())
	assert.True(t, DOCUMENT_STATUS_PARSE_FAILED.IsFailed())
	assert.True(t, DOCUMENT_STATUS_EXTRACTION_FAILED.IsFailed())
	assert.False(t, DOCUMENT_STATUS_PENDING_REVIEW.IsFailed())
}

func TestDocumentStatusFromString(t *testing.T) {
	s, ok := DocumentStatusFromString("pending_review")
	assert.True(t, ok)
	assert.Equal(t, DOCUMENT_STATUS_PENDING_REVIEW, s)

	_, ok = DocumentStatusFromString("archived")
	assert.False(t, ok)
}
