package fielddata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T, raw string) Value {
	t.Helper()
	v, err := FromJSON([]byte(raw))
	require.NoError(t, err)
	return v
}

func TestDiffPartitions(t *testing.T) {
	old := mustValue(t, `{"name":"Acme","city":"Berlin","plan":"basic","seats":10}`)
	new := mustValue(t, `{"name":"Acme","city":"Hamburg","seats":10,"industry":"logistics"}`)

	d := Diff(old, new)

	assert.Equal(t, []string{"city", "industry", "plan"}, d.ChangedFields())

	require.Contains(t, d.Added, "industry")
	assert.Equal(t, "logistics", d.Added["industry"].StringValue())

	require.Contains(t, d.Removed, "plan")
	assert.Equal(t, "basic", d.Removed["plan"].StringValue())

	require.Contains(t, d.Changed, "city")
	assert.Equal(t, "Berlin", d.Changed["city"].Old.StringValue())
	assert.Equal(t, "Hamburg", d.Changed["city"].New.StringValue())

	assert.Contains(t, d.Unchanged, "name")
	assert.Contains(t, d.Unchanged, "seats")
	assert.False(t, d.IsEmpty())
}

func TestDiffIdentical(t *testing.T) {
	a := mustValue(t, `{"a":1,"b":[1,2,3]}`)
	b := mustValue(t, `{"b":[1,2,3],"a":1}`)

	d := Diff(a, b)
	assert.True(t, d.IsEmpty())
	assert.Len(t, d.Unchanged, 2)
}

func TestDiffNestedChange(t *testing.T) {
	old := mustValue(t, `{"address":{"city":"Berlin","zip":"10115"}}`)
	new := mustValue(t, `{"address":{"city":"Berlin","zip":"10117"}}`)

	d := Diff(old, new)
	require.Contains(t, d.Changed, "address")
}

func TestDiffAgainstNull(t *testing.T) {
	d := Diff(Null(), mustValue(t, `{"a":1}`))
	assert.Len(t, d.Added, 1)
	assert.Empty(t, d.Removed)
}
