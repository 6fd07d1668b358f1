package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
)

var headingPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// MarkdownParser splits markdown by headings and keeps the heading hierarchy
// as section paths.
type MarkdownParser struct{}

func (p *MarkdownParser) Supports(ext string) bool {
	return ext == ".md" || ext == ".markdown"
}

func (p *MarkdownParser) Parse(filePath string) (*ParsedDocument, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.New("MarkdownParser.Parse.ReadFile", i18n.ERROR_FILE_READ_FAIL, err)
	}
	return p.ParseText(string(raw)), nil
}

func (p *MarkdownParser) ParseText(rawText string) *ParsedDocument {
	var sections []Section

	headings := headingPattern.FindAllStringSubmatchIndex(rawText, -1)
	if len(headings) == 0 {
		sections = append(sections, Section{
			Content:   strings.TrimSpace(rawText),
			EndOffset: len(rawText),
		})
	} else {
		if headings[0][0] > 0 {
			pre := strings.TrimSpace(rawText[:headings[0][0]])
			if pre != "" {
				sections = append(sections, Section{
					Content:   pre,
					EndOffset: headings[0][0],
				})
			}
		}

		for i, match := range headings {
			level := match[3] - match[2]
			title := strings.TrimSpace(rawText[match[4]:match[5]])

			contentStart := match[1] + 1
			contentEnd := len(rawText)
			if i+1 < len(headings) {
				contentEnd = headings[i+1][0]
			}
			content := ""
			if contentStart < contentEnd {
				content = strings.TrimSpace(rawText[contentStart:contentEnd])
			}

			sections = append(sections, Section{
				Title:       title,
				Content:     content,
				Level:       level,
				StartOffset: match[0],
				EndOffset:   contentEnd,
				Path:        buildSectionPath(sections, level),
			})
		}
	}

	return &ParsedDocument{
		RawText:    rawText,
		Sections:   sections,
		Metadata:   extractFrontmatter(rawText),
		Confidence: 1.0,
		FileType:   "markdown",
	}
}

// extractFrontmatter parses a leading YAML block as flat key: value pairs.
func extractFrontmatter(text string) map[string]string {
	metadata := map[string]string{}
	if !strings.HasPrefix(text, "---") {
		return metadata
	}
	end := strings.Index(text[3:], "\n---\n")
	if end < 0 {
		return metadata
	}
	for _, line := range strings.Split(text[3:end+3], "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			metadata[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
		}
	}
	return metadata
}
