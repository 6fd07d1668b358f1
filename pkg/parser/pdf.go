package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
)

// PdfParser extracts plain text per page. PDF text extraction is lossy, so
// results carry a reduced confidence.
type PdfParser struct{}

func (p *PdfParser) Supports(ext string) bool {
	return ext == ".pdf"
}

func (p *PdfParser) Parse(filePath string) (*ParsedDocument, error) {
	f, err := pdf.Open(filePath)
	if err != nil {
		return &ParsedDocument{
			Metadata:   map[string]string{},
			Confidence: 0.0,
			FileType:   "pdf",
			Warnings:   []string{fmt.Sprintf("failed to open pdf: %v", err)},
		}, nil
	}

	var (
		sections []Section
		rawParts []string
		warnings []string
		offset   int
	)

	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPage(page)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		rawParts = append(rawParts, content)
		sections = append(sections, Section{
			Title:       fmt.Sprintf("Seite %d", i),
			Content:     content,
			Level:       1,
			StartOffset: offset,
			EndOffset:   offset + len(content),
		})
		offset += len(content) + 2
	}

	return &ParsedDocument{
		RawText:  strings.Join(rawParts, "\n\n"),
		Sections: sections,
		Metadata: map[string]string{
			"page_count": fmt.Sprintf("%d", numPages),
		},
		Confidence: 0.7,
		FileType:   "pdf",
		Warnings:   warnings,
	}, nil
}

// extractPage guards against extraction hanging on malformed pages.
func extractPage(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
