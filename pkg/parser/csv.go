package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
)

// CsvParser renders each data row as its own section so row-level records can
// be extracted independently.
type CsvParser struct{}

func (p *CsvParser) Supports(ext string) bool {
	return ext == ".csv"
}

func (p *CsvParser) Parse(filePath string) (*ParsedDocument, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.New("CsvParser.Parse.Open", i18n.ERROR_FILE_READ_FAIL, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return &ParsedDocument{
			Metadata:   map[string]string{},
			Confidence: 0.0,
			FileType:   "csv",
			Warnings:   []string{fmt.Sprintf("failed to read file: %v", err)},
		}, nil
	}
	if len(rows) == 0 {
		return &ParsedDocument{
			Metadata:   map[string]string{},
			Confidence: 0.0,
			FileType:   "csv",
			Warnings:   []string{"empty file"},
		}, nil
	}

	headers := rows[0]
	var (
		rawLines []string
		sections []Section
		offset   int
	)
	rawLines = append(rawLines, strings.Join(headers, " | "))

	for idx, row := range rows[1:] {
		var parts []string
		for col, header := range headers {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", header, row[col]))
			}
		}
		rowText := strings.Join(parts, "\n")
		rawLines = append(rawLines, rowText)

		sections = append(sections, Section{
			Title:       fmt.Sprintf("Zeile %d", idx+1),
			Content:     rowText,
			Level:       1,
			StartOffset: offset,
			EndOffset:   offset + len(rowText),
		})
		offset += len(rowText) + 1
	}

	return &ParsedDocument{
		RawText:  strings.Join(rawLines, "\n\n"),
		Sections: sections,
		Metadata: map[string]string{
			"columns":      strings.Join(headers, ","),
			"row_count":    strconv.Itoa(len(rows) - 1),
			"column_count": strconv.Itoa(len(headers)),
		},
		Confidence: 1.0,
		FileType:   "csv",
	}, nil
}
