package wire

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/vschema/internal/errs"
)

func mustObject(t *testing.T, src string) Object {
	t.Helper()
	obj, err := ParseObject([]byte(src), "test")
	require.NoError(t, err)
	return obj
}

func TestParseObject_Rejects(t *testing.T) {
	for _, src := range []string{``, `{`, `[]`, `"x"`, `null`} {
		_, err := ParseObject([]byte(src), "test")
		assert.True(t, errs.IsMalformedRequest(err), "input %q", src)
	}
}

func TestObject_Presence(t *testing.T) {
	obj := mustObject(t, `{"a": 1, "n": null}`)

	assert.True(t, obj.Has("a"))
	assert.True(t, obj.Has("n"))
	assert.False(t, obj.Has("x"))

	assert.True(t, obj.IsNull("n"))
	assert.False(t, obj.IsNull("a"))
	assert.False(t, obj.IsNull("x"))

	_, ok := obj.Raw("n")
	assert.False(t, ok)
	raw, ok := obj.Raw("a")
	assert.True(t, ok)
	assert.Equal(t, "1", string(raw))

	keys := obj.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "n"}, keys)
}

func TestObject_Required(t *testing.T) {
	obj := mustObject(t, `{"s": "v", "i": 7, "b": true, "arr": [1, 2], "o": {"k": "v"}, "f": 1.5}`)

	s, err := obj.String("s")
	require.NoError(t, err)
	assert.Equal(t, "v", s)

	i, err := obj.Int("i")
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	b, err := obj.Bool("b")
	require.NoError(t, err)
	assert.True(t, b)

	arr, err := obj.Array("arr")
	require.NoError(t, err)
	assert.Len(t, arr, 2)

	nested, err := obj.Object("o", "nested")
	require.NoError(t, err)
	assert.Equal(t, "nested", nested.Kind())

	_, err = obj.String("missing")
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.ErrKindMalformedRequest, e.Kind)
	assert.Equal(t, "test", e.Node)
	assert.Equal(t, "missing", e.Field)

	_, err = obj.Int("f")
	assert.True(t, errs.IsMalformedRequest(err))
	_, err = obj.String("i")
	assert.True(t, errs.IsMalformedRequest(err))
	_, err = obj.Object("s", "nested")
	assert.True(t, errs.IsMalformedRequest(err))
}

func TestObject_Optional(t *testing.T) {
	obj := mustObject(t, `{"s": "v", "n": null, "b": "yes", "arr": []}`)

	s, err := obj.OptString("s", "def")
	require.NoError(t, err)
	assert.Equal(t, "v", s)

	s, err = obj.OptString("n", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", s)

	i, err := obj.OptInt("x", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = obj.OptBool("b", false)
	assert.True(t, errs.IsMalformedRequest(err))

	arr, ok, err := obj.OptArray("arr")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, arr)

	_, ok, err = obj.OptArray("n")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = obj.OptArray("s")
	assert.True(t, errs.IsMalformedRequest(err))
}

func TestObject_Text(t *testing.T) {
	obj := mustObject(t, `{"s": "plain", "o": { "a" : [1, 2] }, "n": null, "num": 12.50}`)

	tests := map[string]string{
		"s":       "plain",
		"o":       `{"a":[1,2]}`,
		"n":       "null",
		"num":     "12.50",
		"missing": "",
	}
	for key, want := range tests {
		got, err := obj.Text(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
}
