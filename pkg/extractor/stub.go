package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/schema"
)

// StubExtractor is a rule-based extractor for development and testing. It
// looks for German and English "Label: value" lines and can pull several
// records out of one document.
type StubExtractor struct{}

func NewStubExtractor() *StubExtractor {
	return &StubExtractor{}
}

var (
	titelPattern    = regexp.MustCompile(`(?i)Titel:\s*`)
	titelValue      = regexp.MustCompile(`(?is)Titel:\s*(.+?)(?:\s*Beschreibung:|$)`)
	mdHeaderPattern = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	artnrPattern    = regexp.MustCompile(`(\d{5})[_\-]`)
	descPattern     = regexp.MustCompile(`(?is)Beschreibung:\s*(.+?)(?:Welche Kabeltypen|Weitere Informationen|Anwendung:|$)`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// fieldPatterns maps schema field names to the labels that may introduce the
// value in source documents.
var fieldPatterns = map[string][]string{
	"title":          {"titel:", "überschrift:", "name:"},
	"question":       {"frage:", "question:"},
	"answer":         {"antwort:", "answer:", "lösung:"},
	"content":        {"inhalt:", "content:", "text:"},
	"description":    {"beschreibung:", "description:"},
	"problem":        {"problem:", "fehler:", "issue:"},
	"solution":       {"lösung:", "solution:"},
	"steps":          {"schritte:", "steps:", "anleitung:"},
	"name":           {"name:", "bezeichnung:"},
	"id":             {"id:", "nummer:", "kennung:"},
	"artnr":          {"artikelnummer:", "artnr:", "art.nr:", "art-nr:"},
	"version":        {"version:", "v.:"},
	"subject":        {"betreff:", "subject:"},
	"body":           {"text:", "body:", "inhalt:"},
	"warnings":       {"warnung:", "warning:", "achtung:", "vorsicht:"},
	"requirements":   {"anforderung:", "requirement:"},
	"objection_text": {"einwand:", "objection:"},
	"response":       {"antwort:", "response:", "erwiderung:"},
	"role":           {"rolle:", "position:", "role:"},
	"category":       {"kategorie:", "category:"},
	"scenario":       {"szenario:", "scenario:"},
	"topic":          {"thema:", "topic:"},
}

func (e *StubExtractor) Extract(ctx context.Context, text string, def schema.Definition, ec Context) (*Result, error) {
	sections := splitIntoSections(text)

	var records []ExtractedRecord
	for _, section := range sections {
		record, ok := e.extractRecord(section.content, section.title, def, ec)
		if ok {
			records = append(records, record)
		}
	}

	result := &Result{
		Records:     records,
		Valid:       len(records) > 0,
		Confidence:  0.7,
		NeedsReview: len(records) == 0,
	}
	if len(records) == 0 {
		result.Confidence = 0.3
		result.Errors = append(result.Errors, "no records could be extracted")
	}
	return result, nil
}

type section struct {
	title   string
	content string
}

// splitIntoSections finds entity boundaries. Documents with repeated "Titel:"
// markers split there; otherwise markdown headers split the text; otherwise
// the whole document is one section.
func splitIntoSections(text string) []section {
	var sections []section

	positions := titelPattern.FindAllStringIndex(text, -1)
	if len(positions) >= 2 {
		for i, pos := range positions {
			end := len(text)
			if i+1 < len(positions) {
				end = positions[i+1][0]
			}
			sectionText := strings.TrimSpace(text[pos[0]:end])

			title := ""
			if m := titelValue.FindStringSubmatch(sectionText); m != nil {
				title = strings.TrimSpace(strings.SplitN(m[1], "\n", 2)[0])
				if len(title) > 100 {
					title = title[:100]
				}
			}

			// skip short intro fragments that carry no entity
			if len(sectionText) > 200 && strings.Contains(sectionText, "Beschreibung:") {
				sections = append(sections, section{title: title, content: sectionText})
			}
		}
		if len(sections) > 0 {
			return sections
		}
	}

	var (
		currentTitle   string
		currentContent []string
	)
	flush := func() {
		content := strings.Join(currentContent, "\n")
		if currentTitle != "" && len(content) > 100 {
			sections = append(sections, section{title: currentTitle, content: content})
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if m := mdHeaderPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentTitle = strings.TrimSpace(m[2])
			currentContent = nil
			continue
		}
		currentContent = append(currentContent, line)
	}
	flush()

	if len(sections) == 0 {
		firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
		if len(firstLine) > 100 {
			firstLine = firstLine[:100]
		}
		sections = append(sections, section{title: firstLine, content: text})
	}
	return sections
}

func (e *StubExtractor) extractRecord(text, sectionTitle string, def schema.Definition, ec Context) (ExtractedRecord, bool) {
	data := map[string]fielddata.Value{}
	var evidence []EvidencePointer

	hasTitleField := false
	for _, f := range def.Fields {
		if f.Name == "title" {
			hasTitleField = true
			break
		}
	}
	if hasTitleField && sectionTitle != "" {
		data["title"] = fielddata.String(sectionTitle)
		evidence = append(evidence, EvidencePointer{
			FieldPath:  "title",
			Excerpt:    sectionTitle,
			ChunkIndex: ec.ChunkIndex,
		})
	}

	for _, f := range def.Fields {
		if f.Name == "title" {
			continue
		}
		value, excerpt, ok := extractField(text, f)
		if !ok {
			continue
		}
		data[f.Name] = value
		if excerpt != "" {
			if len(excerpt) > 500 {
				excerpt = excerpt[:500]
			}
			evidence = append(evidence, EvidencePointer{
				FieldPath:  f.Name,
				Excerpt:    excerpt,
				ChunkIndex: ec.ChunkIndex,
			})
		}
	}

	extractProductFields(text, data)

	if len(data) == 0 {
		return ExtractedRecord{}, false
	}

	record := ExtractedRecord{
		Data:          fielddata.Mapping(data),
		SchemaType:    def.Name,
		Evidence:      evidence,
		SourceSection: sectionTitle,
		Confidence:    0.6,
	}
	if len(def.MissingRequired(record.Data)) > 0 {
		record.Confidence = 0.4
	}
	return record, true
}

// extractField looks for a "label: value" line for the field and converts the
// value to the field's declared type.
func extractField(text string, f schema.Field) (fielddata.Value, string, bool) {
	patterns, ok := fieldPatterns[strings.ToLower(f.Name)]
	if !ok {
		patterns = []string{strings.ToLower(f.Name) + ":"}
	}

	lower := strings.ToLower(text)
	for _, pattern := range patterns {
		regex, err := regexp.Compile(regexp.QuoteMeta(pattern) + `\s*([^\n]+)`)
		if err != nil {
			continue
		}
		m := regex.FindStringSubmatchIndex(lower)
		if m == nil {
			continue
		}
		excerpt := strings.TrimSpace(text[m[2]:m[3]])
		if excerpt == "" {
			continue
		}

		switch f.Type {
		case "list":
			var items []fielddata.Value
			for _, item := range strings.Split(excerpt, ",") {
				items = append(items, fielddata.String(strings.TrimSpace(item)))
			}
			return fielddata.Sequence(items), excerpt, true
		case "number":
			numMatch := regexp.MustCompile(`[\d.]+`).FindString(excerpt)
			if numMatch == "" {
				return fielddata.Value{}, "", false
			}
			n, err := strconv.ParseFloat(numMatch, 64)
			if err != nil {
				return fielddata.Value{}, "", false
			}
			return fielddata.Number(n), excerpt, true
		default:
			return fielddata.String(excerpt), excerpt, true
		}
	}

	// fallbacks for the fields every document has some version of
	switch strings.ToLower(f.Name) {
	case "title", "name":
		firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
		if firstLine != "" && len(firstLine) < 200 {
			return fielddata.String(firstLine), firstLine, true
		}
	case "content", "body":
		trimmed := strings.TrimSpace(text)
		if len(trimmed) > 5000 {
			trimmed = trimmed[:5000]
		}
		excerpt := trimmed
		if len(excerpt) > 200 {
			excerpt = fmt.Sprintf("%s...", excerpt[:200])
		}
		return fielddata.String(trimmed), excerpt, true
	}

	return fielddata.Value{}, "", false
}

// extractProductFields pulls article numbers and descriptions out of product
// sheet style documents.
func extractProductFields(text string, data map[string]fielddata.Value) {
	if _, ok := data["description"]; !ok {
		if m := descPattern.FindStringSubmatch(text); m != nil {
			desc := spacePattern.ReplaceAllString(strings.TrimSpace(m[1]), " ")
			if len(desc) > 2000 {
				desc = desc[:2000]
			}
			data["description"] = fielddata.String(desc)
		}
	}
	if m := artnrPattern.FindStringSubmatch(text); m != nil {
		data["artnr"] = fielddata.String(m[1])
	}
}
