package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLang(t *testing.T) {
	l := NewLocalizer("de", "en")

	assert.NotEqual(t, ERROR_VERSION_CONFLICT, l.Get("en", ERROR_VERSION_CONFLICT))
	assert.NotEqual(t, l.Get("en", ERROR_VERSION_CONFLICT), l.Get("de", ERROR_VERSION_CONFLICT))

	// unknown ids fall back to the id itself
	assert.Equal(t, "error.unknown", l.Get("en", "error.unknown"))
	// unknown languages fall back to the id
	assert.Equal(t, ERROR_INTERNAL, l.Get("fr", ERROR_INTERNAL))
}
