package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenUniqID(t *testing.T) {
	SetupIDWorker(1)

	a := GenUniqID()
	b := GenUniqID()
	assert.NotEqual(t, a, b)
	assert.Greater(t, b, a)
}

func TestRandomStr(t *testing.T) {
	assert.Len(t, RandomStr(32), 32)
}

func TestParseAcceptLanguage(t *testing.T) {
	langs := ParseAcceptLanguage("de-DE,de;q=0.9,en;q=0.8")
	assert.Len(t, langs, 3)
	assert.Equal(t, "de-DE", langs[0].Tag)
	assert.Equal(t, "en", langs[2].Tag)

	assert.Empty(t, ParseAcceptLanguage(""))
}
