package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseVersionDate(t *testing.T) {
	assert.Equal(t, int64(1700000000), parseVersionDate("1700000000"))

	want, _ := time.Parse("2006-01-02", "2024-03-15")
	assert.Equal(t, want.Unix(), parseVersionDate("2024-03-15"))

	rfc, _ := time.Parse(time.RFC3339, "2024-03-15T10:30:00Z")
	assert.Equal(t, rfc.Unix(), parseVersionDate("2024-03-15T10:30:00Z"))
}

func TestParseVersionDateFallback(t *testing.T) {
	before := time.Now().Unix()
	got := parseVersionDate("")
	assert.GreaterOrEqual(t, got, before)

	got = parseVersionDate("not-a-date")
	assert.GreaterOrEqual(t, got, before)
}
