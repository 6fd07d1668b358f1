package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokari-ai/knowledge-hub/pkg/fielddata"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

func mustData(t *testing.T, raw string) fielddata.Value {
	t.Helper()
	v, err := fielddata.FromJSON([]byte(raw))
	require.NoError(t, err)
	return v
}

func TestRegistryCoversAllDocTypes(t *testing.T) {
	assert.Len(t, All(), 15)
	for _, def := range All() {
		got, ok := Get(def.DocType)
		require.True(t, ok, def.DocType)
		assert.Equal(t, def.Name, got.Name)
		assert.NotEmpty(t, def.PrimaryKey, def.Name)
	}
}

func TestDocTypesForDepartment(t *testing.T) {
	assert.Len(t, DocTypesForDepartment(types.DEPARTMENT_SALES), 5)
	assert.Len(t, DocTypesForDepartment(types.DEPARTMENT_SUPPORT), 3)
	assert.Len(t, DocTypesForDepartment(types.DEPARTMENT_PRODUCT), 3)
	assert.Len(t, DocTypesForDepartment(types.DEPARTMENT_MARKETING), 2)
	assert.Len(t, DocTypesForDepartment(types.DEPARTMENT_LEGAL), 2)

	assert.True(t, ValidateDepartmentDocType(types.DEPARTMENT_SUPPORT, types.DOC_TYPE_FAQ))
	assert.False(t, ValidateDepartmentDocType(types.DEPARTMENT_LEGAL, types.DOC_TYPE_FAQ))
}

func TestCompleteness(t *testing.T) {
	def, ok := Get(types.DOC_TYPE_OBJECTION)
	require.True(t, ok)

	full := mustData(t, `{"id":"OBJ-001","objection_text":"Zu teuer","response":"Verstehe ich, aber..."}`)
	assert.Equal(t, 1.0, def.Completeness(full))

	partial := mustData(t, `{"id":"OBJ-001","objection_text":"Zu teuer"}`)
	assert.InDelta(t, 2.0/3.0, def.Completeness(partial), 0.001)
	assert.Equal(t, []string{"response"}, def.MissingRequired(partial))

	empty := mustData(t, `{"id":"OBJ-001","objection_text":"","response":"Antwort"}`)
	assert.Less(t, def.Completeness(empty), 1.0)
}

func TestCompletenessFilledSemantics(t *testing.T) {
	def, ok := Get(types.DOC_TYPE_HOW_TO_STEPS)
	require.True(t, ok)

	// empty list does not count as filled
	noSteps := mustData(t, `{"title":"Setup","steps":[]}`)
	assert.Equal(t, 0.5, def.Completeness(noSteps))

	withSteps := mustData(t, `{"title":"Setup","steps":[{"step_number":1,"instruction":"Do it"}]}`)
	assert.Equal(t, 1.0, def.Completeness(withSteps))
}

func TestCompletenessDetail(t *testing.T) {
	def, ok := Get(types.DOC_TYPE_OBJECTION)
	require.True(t, ok)

	data := mustData(t, `{"id":"OBJ-002","objection_text":"Keine Zeit","response":"","category":"timing"}`)
	detail := def.CompletenessDetail(data)

	assert.Equal(t, 3, detail.TotalRequired)
	assert.Equal(t, 2, detail.FilledRequired)
	assert.Equal(t, []string{"response"}, detail.MissingFields)
	assert.Equal(t, 1, detail.OptionalFilled)
	assert.Equal(t, 2, detail.TotalOptional)
	assert.InDelta(t, 2.0/3.0, detail.Score, 0.001)
}

func TestComputePrimaryKey(t *testing.T) {
	def, ok := Get(types.DOC_TYPE_TRAINING_MODULE)
	require.True(t, ok)

	data := mustData(t, `{"title":"  Onboarding Basics ","version":"2.1","content":"..."}`)
	assert.Equal(t, "onboarding basics|2.1", def.ComputePrimaryKey(data))

	// missing key fields turn into empty parts
	sparse := mustData(t, `{"title":"Onboarding Basics"}`)
	assert.Equal(t, "onboarding basics|", def.ComputePrimaryKey(sparse))
}

func TestComputePrimaryKeyCaps(t *testing.T) {
	def, ok := Get(types.DOC_TYPE_FAQ)
	require.True(t, ok)

	long := strings.Repeat("x", 300)
	data := mustData(t, `{"question":"`+long+`","answer":"a"}`)
	key := def.ComputePrimaryKey(data)
	assert.Len(t, key, PRIMARY_KEY_PART_LIMIT)
}

func TestGetByName(t *testing.T) {
	def, ok := GetByName("ProductSpec")
	require.True(t, ok)
	assert.Equal(t, types.DOC_TYPE_PRODUCT_SPEC, def.DocType)

	_, ok = GetByName("Nonexistent")
	assert.False(t, ok)
}
