package fielddata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	v, err := FromJSON([]byte(`{"name":"Acme GmbH","employees":250,"active":true,"tags":["enterprise","dach"],"address":{"city":"Berlin"},"notes":null}`))
	require.NoError(t, err)
	require.Equal(t, KindMapping, v.Kind())

	name, ok := v.Field("name")
	require.True(t, ok)
	assert.Equal(t, "Acme GmbH", name.StringValue())

	employees, _ := v.Field("employees")
	assert.Equal(t, KindNumber, employees.Kind())
	assert.Equal(t, float64(250), employees.NumberValue())

	tags, _ := v.Field("tags")
	assert.Equal(t, KindSequence, tags.Kind())
	assert.Len(t, tags.SequenceValue(), 2)

	notes, _ := v.Field("notes")
	assert.Equal(t, KindNull, notes.Kind())
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"broken`))
	assert.Error(t, err)
}

func TestDeepEqual(t *testing.T) {
	a, err := FromJSON([]byte(`{"a":1,"b":[1,2],"c":{"x":"y"}}`))
	require.NoError(t, err)
	b, err := FromJSON([]byte(`{"c":{"x":"y"},"b":[1,2],"a":1}`))
	require.NoError(t, err)
	assert.True(t, DeepEqual(a, b), "mapping key order must not matter")

	c, err := FromJSON([]byte(`{"a":1,"b":[2,1],"c":{"x":"y"}}`))
	require.NoError(t, err)
	assert.False(t, DeepEqual(a, c), "sequence order must matter")

	d, err := FromJSON([]byte(`{"a":1.0}`))
	require.NoError(t, err)
	e, err := FromJSON([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.True(t, DeepEqual(d, e), "1 and 1.0 are the same number")
}

func TestIsFilled(t *testing.T) {
	assert.False(t, Null().IsFilled())
	assert.False(t, String("").IsFilled())
	assert.False(t, String("   ").IsFilled())
	assert.False(t, Sequence(nil).IsFilled())
	assert.False(t, Mapping(nil).IsFilled())
	assert.True(t, Bool(false).IsFilled())
	assert.True(t, Number(0).IsFilled())
	assert.True(t, String("x").IsFilled())
	assert.True(t, Sequence([]Value{Null()}).IsFilled())
}

func TestResolve(t *testing.T) {
	v, err := FromJSON([]byte(`{"contacts":[{"email":"anna@example.com"},{"email":"ben@example.com"}],"owner":{"name":"Clara"}}`))
	require.NoError(t, err)

	email, ok := v.Resolve("contacts[1].email")
	require.True(t, ok)
	assert.Equal(t, "ben@example.com", email.StringValue())

	name, ok := v.Resolve("owner.name")
	require.True(t, ok)
	assert.Equal(t, "Clara", name.StringValue())

	_, ok = v.Resolve("contacts[5].email")
	assert.False(t, ok)
	_, ok = v.Resolve("owner.phone")
	assert.False(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	raw := []byte(`{"a":1,"b":["x",null],"c":{"d":true}}`)
	v, err := FromJSON(raw)
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)

	again, err := FromJSON(out)
	require.NoError(t, err)
	assert.True(t, DeepEqual(v, again))
}

func TestSet(t *testing.T) {
	v, err := FromJSON([]byte(`{"title":"A","details":{"color":"red","weight":2}}`))
	require.NoError(t, err)

	updated, ok := v.Set("title", String("B"))
	require.True(t, ok)
	title, _ := updated.Field("title")
	assert.Equal(t, "B", title.StringValue())

	// 原值不受影响
	title, _ = v.Field("title")
	assert.Equal(t, "A", title.StringValue())

	updated, ok = v.Set("details.color", String("blue"))
	require.True(t, ok)
	color, found := updated.Resolve("details.color")
	require.True(t, found)
	assert.Equal(t, "blue", color.StringValue())
	weight, _ := updated.Resolve("details.weight")
	assert.Equal(t, float64(2), weight.NumberValue())
}

func TestSetNewKey(t *testing.T) {
	v, err := FromJSON([]byte(`{"title":"A"}`))
	require.NoError(t, err)

	updated, ok := v.Set("owner", String("sales"))
	require.True(t, ok)
	owner, found := updated.Field("owner")
	require.True(t, found)
	assert.Equal(t, "sales", owner.StringValue())
}

func TestSetMissingIntermediate(t *testing.T) {
	v, err := FromJSON([]byte(`{"title":"A"}`))
	require.NoError(t, err)

	_, ok := v.Set("details.color", String("blue"))
	assert.False(t, ok)

	_, ok = v.Set("title.nested", String("x"))
	assert.False(t, ok)
}
