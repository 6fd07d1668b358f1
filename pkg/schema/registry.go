// Package schema holds the per-doc-type field definitions that drive
// completeness scoring, primary key derivation and extraction validation.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"

	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

const (
	PRIMARY_KEY_PART_LIMIT = 100
	PRIMARY_KEY_LIMIT      = 500
)

// Field describes one attribute of a knowledge schema.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Definition is the schema for one document type.
type Definition struct {
	Name       string           `json:"name"`
	DocType    types.DocType    `json:"doc_type"`
	Department types.Department `json:"department"`
	Fields     []Field          `json:"fields"`
	Required   []string         `json:"required_fields"`
	PrimaryKey []string         `json:"primary_key_fields"`
}

// CompletenessDetail is the breakdown behind a completeness score.
type CompletenessDetail struct {
	Score          float64  `json:"score"`
	TotalRequired  int      `json:"total_required"`
	FilledRequired int      `json:"filled_required"`
	MissingFields  []string `json:"missing_fields"`
	OptionalFilled int      `json:"optional_filled"`
	TotalOptional  int      `json:"total_optional"`
}

// Completeness computes filled-required over total-required. A schema without
// required fields always scores 1.0.
func (d Definition) Completeness(data fielddata.Value) float64 {
	if len(d.Required) == 0 {
		return 1.0
	}
	filled := 0
	for _, name := range d.Required {
		if fv, ok := data.Field(name); ok && fv.IsFilled() {
			filled++
		}
	}
	return float64(filled) / float64(len(d.Required))
}

// MissingRequired lists required fields that are absent or empty, in
// definition order.
func (d Definition) MissingRequired(data fielddata.Value) []string {
	var missing []string
	for _, name := range d.Required {
		if fv, ok := data.Field(name); !ok || !fv.IsFilled() {
			missing = append(missing, name)
		}
	}
	return missing
}

// CompletenessDetail additionally counts filled optional fields.
func (d Definition) CompletenessDetail(data fielddata.Value) CompletenessDetail {
	detail := CompletenessDetail{
		TotalRequired: len(d.Required),
		MissingFields: []string{},
	}
	for _, name := range d.Required {
		if fv, ok := data.Field(name); ok && fv.IsFilled() {
			detail.FilledRequired++
		} else {
			detail.MissingFields = append(detail.MissingFields, name)
		}
	}
	for _, f := range d.Fields {
		if f.Required {
			continue
		}
		detail.TotalOptional++
		if fv, ok := data.Field(f.Name); ok && fv.IsFilled() {
			detail.OptionalFilled++
		}
	}
	if detail.TotalRequired == 0 {
		detail.Score = 1.0
	} else {
		detail.Score = float64(detail.FilledRequired) / float64(detail.TotalRequired)
	}
	return detail
}

// ComputePrimaryKey derives a stable key from the primary key fields. String
// parts are lowercased, trimmed and clipped to 100 chars; other kinds use
// their JSON rendering. Parts join with "|" and the whole key is capped at
// 500 chars.
func (d Definition) ComputePrimaryKey(data fielddata.Value) string {
	parts := make([]string, 0, len(d.PrimaryKey))
	for _, name := range d.PrimaryKey {
		fv, ok := data.Field(name)
		if !ok {
			parts = append(parts, "")
			continue
		}
		var part string
		if fv.Kind() == fielddata.KindString {
			part = strings.TrimSpace(strings.ToLower(fv.StringValue()))
		} else {
			raw, err := json.Marshal(fv)
			if err == nil {
				part = string(raw)
			}
		}
		if len(part) > PRIMARY_KEY_PART_LIMIT {
			part = part[:PRIMARY_KEY_PART_LIMIT]
		}
		parts = append(parts, part)
	}
	key := strings.Join(parts, "|")
	if len(key) > PRIMARY_KEY_LIMIT {
		key = key[:PRIMARY_KEY_LIMIT]
	}
	return key
}

var byDocType = map[types.DocType]Definition{}

func init() {
	for _, def := range definitions {
		byDocType[def.DocType] = def
	}
}

// Get returns the definition for a document type.
func Get(docType types.DocType) (Definition, bool) {
	def, ok := byDocType[docType]
	return def, ok
}

// GetByName looks up a definition by its schema name, e.g. "Objection".
func GetByName(name string) (Definition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// All returns every definition in declaration order.
func All() []Definition {
	return definitions
}

// DocTypesForDepartment lists the document types a department may upload.
func DocTypesForDepartment(department types.Department) []types.DocType {
	return lo.FilterMap(definitions, func(def Definition, _ int) (types.DocType, bool) {
		return def.DocType, def.Department == department
	})
}

// ValidateDepartmentDocType checks the department / doc type pairing.
func ValidateDepartmentDocType(department types.Department, docType types.DocType) bool {
	def, ok := byDocType[docType]
	return ok && def.Department == department
}
