package stub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("object with id and name", func(t *testing.T) {
		s, err := Decode([]byte(`{"id":"abc","name":"login","response":{"status":200}}`))
		require.NoError(t, err)
		assert.Equal(t, "abc", s.ID())
		assert.Equal(t, "login", s.Name())
	})

	t.Run("large numbers keep precision", func(t *testing.T) {
		s, err := Decode([]byte(`{"id":"n","priority":9007199254740993}`))
		require.NoError(t, err)
		assert.Contains(t, s.Pretty(), "9007199254740993")
	})

	t.Run("array is rejected", func(t *testing.T) {
		_, err := Decode([]byte(`[{"id":"a"}]`))
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Decode([]byte(`{"id":`))
		assert.Error(t, err)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := Decode([]byte(`{"id":"a"} {"id":"b"}`))
		assert.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		s, err := Decode([]byte(`{"name":"x"}`))
		require.NoError(t, err)
		assert.Empty(t, s.ID())
	})
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(Stub{"id": "a"}))
	require.NoError(t, reg.Register(Stub{"id": "b"}))
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Has("a"))
	assert.False(t, reg.Has("c"))

	got, ok := reg.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Stub{"id": "a", "name": "first"}))

	err := reg.Register(Stub{"id": "a", "name": "second"})

	var dup *DuplicateStubError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.ID)
	assert.Equal(t, 1, reg.Len())

	kept, _ := reg.Get("a")
	assert.Equal(t, "first", kept.Name())
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Stub{"id": "a", "name": "items"}))

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "items", got.Name())

	missing, ok := reg.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, missing)

	reg.Clear()
	_, ok = reg.Get("a")
	assert.False(t, ok)
}

func TestRegistry_RegisterWithoutID(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(Stub{"name": "anonymous"})
	assert.ErrorIs(t, err, ErrNoID)
	assert.Zero(t, reg.Len())
}

func TestRegistry_AllKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, reg.Register(Stub{"id": id}))
	}

	var ids []string
	for _, s := range reg.All() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
	assert.Equal(t, []string{"z", "a", "m"}, reg.IDs())
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Stub{"id": "a"}))

	reg.Clear()

	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.All())
	// the same id can be registered again in the next scenario
	assert.NoError(t, reg.Register(Stub{"id": "a"}))
}

func TestRegistry_ZeroValue(t *testing.T) {
	var reg Registry
	require.NoError(t, reg.Register(Stub{"id": "a"}))
	assert.Equal(t, 1, reg.Len())
}
