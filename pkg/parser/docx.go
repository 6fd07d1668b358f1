package parser

import (
	"strings"

	"github.com/lu4p/cat"

	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
)

// DocxParser extracts text from word processor formats. Heading structure is
// lost in the extraction, so paragraphs separated by blank lines become the
// sections.
type DocxParser struct{}

func (p *DocxParser) Supports(ext string) bool {
	return ext == ".docx" || ext == ".odt" || ext == ".rtf"
}

func (p *DocxParser) Parse(filePath string) (*ParsedDocument, error) {
	text, err := cat.File(filePath)
	if err != nil {
		return nil, errors.New("DocxParser.Parse.File", i18n.ERROR_FILE_READ_FAIL, err)
	}

	var (
		sections []Section
		offset   int
	)
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		sections = append(sections, Section{
			Content:     block,
			StartOffset: offset,
			EndOffset:   offset + len(block),
		})
		offset += len(block) + 2
	}

	return &ParsedDocument{
		RawText:    text,
		Sections:   sections,
		Metadata:   map[string]string{},
		Confidence: 1.0,
		FileType:   "docx",
	}, nil
}

// PlainTextParser handles .txt uploads as a single section.
type PlainTextParser struct{}

func (p *PlainTextParser) Supports(ext string) bool {
	return ext == ".txt"
}

func (p *PlainTextParser) Parse(filePath string) (*ParsedDocument, error) {
	text, err := cat.File(filePath)
	if err != nil {
		return nil, errors.New("PlainTextParser.Parse.File", i18n.ERROR_FILE_READ_FAIL, err)
	}

	return &ParsedDocument{
		RawText: text,
		Sections: []Section{{
			Content:   strings.TrimSpace(text),
			EndOffset: len(text),
		}},
		Metadata:   map[string]string{},
		Confidence: 1.0,
		FileType:   "txt",
	}, nil
}
