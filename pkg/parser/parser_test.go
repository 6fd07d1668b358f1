package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet(t *testing.T) {
	p, err := Get("handbuch.md")
	require.NoError(t, err)
	assert.IsType(t, &MarkdownParser{}, p)

	p, err = Get("preise.csv")
	require.NoError(t, err)
	assert.IsType(t, &CsvParser{}, p)

	_, err = Get("bild.png")
	assert.Error(t, err)
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".pdf")
	assert.Contains(t, exts, ".csv")
	assert.Contains(t, exts, ".docx")
	assert.Contains(t, exts, ".txt")
}

func TestMarkdownParse(t *testing.T) {
	content := "intro text\n\n# Kapitel 1\n\ncontent one\n\n## Abschnitt 1.1\n\ncontent two\n\n# Kapitel 2\n\ncontent three\n"
	path := writeTemp(t, "doc.md", content)

	p := &MarkdownParser{}
	doc, err := p.Parse(path)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 4)
	assert.Equal(t, "", doc.Sections[0].Title)
	assert.Equal(t, "intro text", doc.Sections[0].Content)

	assert.Equal(t, "Kapitel 1", doc.Sections[1].Title)
	assert.Equal(t, 1, doc.Sections[1].Level)
	assert.Equal(t, "content one", doc.Sections[1].Content)

	assert.Equal(t, "Abschnitt 1.1", doc.Sections[2].Title)
	assert.Equal(t, 2, doc.Sections[2].Level)
	assert.Equal(t, "Kapitel 1", doc.Sections[2].Path)

	assert.Equal(t, "Kapitel 2", doc.Sections[3].Title)
	assert.Equal(t, "", doc.Sections[3].Path)

	assert.Equal(t, 1.0, doc.Confidence)
}

func TestMarkdownNoHeadings(t *testing.T) {
	p := &MarkdownParser{}
	doc := p.ParseText("just a plain paragraph")
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "just a plain paragraph", doc.Sections[0].Content)
	assert.Equal(t, 0, doc.Sections[0].Level)
}

func TestMarkdownFrontmatter(t *testing.T) {
	p := &MarkdownParser{}
	doc := p.ParseText("---\nauthor: anna\nversion: 1.2\n---\n# Titel\n\ntext")
	assert.Equal(t, "anna", doc.Metadata["author"])
	assert.Equal(t, "1.2", doc.Metadata["version"])
}

func TestCsvParse(t *testing.T) {
	content := "artnr,name,preis\nA-100,Schraube,0.12\nA-200,Mutter,0.08\n"
	path := writeTemp(t, "produkte.csv", content)

	p := &CsvParser{}
	doc, err := p.Parse(path)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Zeile 1", doc.Sections[0].Title)
	assert.Contains(t, doc.Sections[0].Content, "artnr: A-100")
	assert.Contains(t, doc.Sections[1].Content, "name: Mutter")
	assert.Equal(t, "3", doc.Metadata["column_count"])
	assert.Equal(t, "2", doc.Metadata["row_count"])
}

func TestCsvParseBroken(t *testing.T) {
	path := writeTemp(t, "kaputt.csv", "a,\"unterminated\n")

	p := &CsvParser{}
	doc, err := p.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, doc.Confidence)
	assert.NotEmpty(t, doc.Warnings)
}

func TestPlainTextParse(t *testing.T) {
	path := writeTemp(t, "notiz.txt", "eine einfache notiz")

	p := &PlainTextParser{}
	doc, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "eine einfache notiz", doc.Sections[0].Content)
}
