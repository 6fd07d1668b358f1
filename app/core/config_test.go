package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupConfigFromEnv(t *testing.T) {
	addr := "localhost:11111"
	os.Setenv("KHUB_API_SERVICE_ADDRESS", addr)

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, cfg.Addr, addr)
}

func TestIngestConfigDefaults(t *testing.T) {
	var cfg IngestConfig

	assert.Equal(t, 5, cfg.GetConcurrency())
	assert.Equal(t, 0.5, cfg.GetReviewThreshold())
	assert.Equal(t, int64(1800), cfg.GetStuckAfterSeconds())

	cfg = IngestConfig{Concurrency: 2, ReviewThreshold: 0.7, StuckAfterSeconds: 60}
	assert.Equal(t, 2, cfg.GetConcurrency())
	assert.Equal(t, 0.7, cfg.GetReviewThreshold())
	assert.Equal(t, int64(60), cfg.GetStuckAfterSeconds())
}
