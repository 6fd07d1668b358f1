// Package parser turns uploaded files into plain text split into titled
// sections. Each format has its own parser; pick one with Get.
package parser

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
)

// Section is a titled slice of the document text. Offsets index into the raw
// text of the parsed document.
type Section struct {
	Title       string
	Content     string
	Level       int
	StartOffset int
	EndOffset   int
	Path        string
}

// ParsedDocument is the parse result. Confidence is lower for formats where
// text extraction is lossy.
type ParsedDocument struct {
	RawText    string
	Sections   []Section
	Metadata   map[string]string
	Confidence float64
	FileType   string
	Warnings   []string
}

// Parser parses one family of file formats, identified by extension.
type Parser interface {
	Parse(filePath string) (*ParsedDocument, error)
	Supports(ext string) bool
}

var parsers = []Parser{
	&DocxParser{},
	&MarkdownParser{},
	&CsvParser{},
	&PdfParser{},
	&PlainTextParser{},
}

// Get returns the parser responsible for the file's extension.
func Get(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, p := range parsers {
		if p.Supports(ext) {
			return p, nil
		}
	}
	return nil, errors.New("parser.Get", i18n.ERROR_UNSUPPORTED_FILE_TYPE, fmt.Errorf("no parser for extension %q", ext)).Code(http.StatusBadRequest)
}

// SupportedExtensions lists every extension some parser accepts.
func SupportedExtensions() []string {
	exts := []string{".docx", ".md", ".markdown", ".csv", ".pdf", ".txt"}
	var supported []string
	for _, ext := range exts {
		for _, p := range parsers {
			if p.Supports(ext) {
				supported = append(supported, ext)
				break
			}
		}
	}
	return supported
}

// buildSectionPath walks previous sections upwards to form a breadcrumb like
// "Chapter 1 > Section 1.1".
func buildSectionPath(sections []Section, currentLevel int) string {
	var parts []string
	for i := len(sections) - 1; i >= 0; i-- {
		s := sections[i]
		if s.Level > 0 && s.Level < currentLevel && s.Title != "" {
			parts = append([]string{s.Title}, parts...)
			currentLevel = s.Level
		}
	}
	return strings.Join(parts, " > ")
}
