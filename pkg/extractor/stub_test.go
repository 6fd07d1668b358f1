package extractor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokari-ai/knowledge-hub/pkg/schema"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func TestStubExtractSingleFAQ(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_FAQ)
	require.True(t, ok)

	text := "Frage: Wie lange ist die Garantie?\nAntwort: Die Garantie beträgt zwei Jahre.\nKategorie: Garantie\n"

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), text, def, Context{DocType: string(types.DOC_TYPE_FAQ)})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "FAQ", record.SchemaType)

	q, ok := record.Data.Field("question")
	require.True(t, ok)
	assert.Equal(t, "Wie lange ist die Garantie?", q.StringValue())

	a, _ := record.Data.Field("answer")
	assert.Equal(t, "Die Garantie beträgt zwei Jahre.", a.StringValue())

	cat, _ := record.Data.Field("category")
	assert.Equal(t, "Garantie", cat.StringValue())

	assert.Equal(t, 0.6, record.Confidence)
	assert.False(t, result.NeedsReview)
}

func TestStubExtractMultipleProducts(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_PRODUCT_SPEC)
	require.True(t, ok)

	pad := strings.Repeat("weitere technische details. ", 10)
	text := "Titel: Abisolierer Secura\nBeschreibung: Werkzeug zum Abisolieren von Rundkabeln. " + pad +
		"\nTitel: Kabelmesser Universal\nBeschreibung: Messer für alle gängigen Kabeltypen. " + pad + "\n"

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), text, def, Context{DocType: string(types.DOC_TYPE_PRODUCT_SPEC)})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Abisolierer Secura", result.Records[0].SourceSection)
	assert.Equal(t, "Kabelmesser Universal", result.Records[1].SourceSection)

	desc, ok := result.Records[0].Data.Field("description")
	require.True(t, ok)
	assert.Contains(t, desc.StringValue(), "Werkzeug zum Abisolieren")
	assert.Equal(t, 0.7, result.Confidence)
}

func TestStubExtractMarkdownSections(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_TRAINING_MODULE)
	require.True(t, ok)

	body := strings.Repeat("Inhalt des Trainings mit vielen Details. ", 5)
	text := "# Modul Eins\nVersion: 1.0\nInhalt: " + body + "\n# Modul Zwei\nVersion: 2.0\nInhalt: " + body + "\n"

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), text, def, Context{})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	title, _ := result.Records[0].Data.Field("title")
	assert.Equal(t, "Modul Eins", title.StringValue())
	version, _ := result.Records[1].Data.Field("version")
	assert.Equal(t, "2.0", version.StringValue())
}

func TestStubExtractListAndNumberFields(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_OBJECTION)
	require.True(t, ok)

	text := "ID: OBJ-7\nEinwand: Das ist zu teuer\nAntwort: Der Preis amortisiert sich\neffectiveness_score: 8.5\n"

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), text, def, Context{})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	score, ok := result.Records[0].Data.Field("effectiveness_score")
	require.True(t, ok)
	assert.Equal(t, 8.5, score.NumberValue())
}

func TestStubExtractNothing(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_COMPLIANCE_NOTES)
	require.True(t, ok)

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), "", def, Context{})
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.True(t, result.NeedsReview)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestStubLowConfidenceOnMissingRequired(t *testing.T) {
	def, ok := schema.Get(types.DOC_TYPE_EMAIL_TEMPLATE)
	require.True(t, ok)

	// subject is present, body label missing entirely -> body falls back to full text
	text := "Name: Willkommensmail\nBetreff: Willkommen bei uns\n"

	e := NewStubExtractor()
	result, err := e.Extract(context.Background(), text, def, Context{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 0.6, result.Records[0].Confidence)
}
