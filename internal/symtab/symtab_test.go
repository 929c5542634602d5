package symtab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

func newArray(t *testing.T, n int) *array.Array {
	t.Helper()
	a, err := array.New(array.Shape{n}, dtype.Int64)
	require.NoError(t, err)
	return a
}

func TestAddAndLookup(t *testing.T) {
	tab := New()
	a := newArray(t, 3)

	name := tab.Add(a)
	assert.True(t, strings.HasPrefix(name, "id_"))

	got, err := tab.Lookup(name)
	require.NoError(t, err)
	assert.Same(t, a, got)

	// Every Add mints a distinct name.
	other := tab.Add(newArray(t, 1))
	assert.NotEqual(t, name, other)
	assert.Equal(t, 2, tab.Len())
}

func TestLookupUndefined(t *testing.T) {
	tab := New()

	_, err := tab.Lookup("id_missing")
	assert.ErrorIs(t, err, ErrUndefinedSymbol)
}

func TestDelete(t *testing.T) {
	tab := New()
	name := tab.Add(newArray(t, 2))

	require.NoError(t, tab.Delete(name))
	_, err := tab.Lookup(name)
	assert.ErrorIs(t, err, ErrUndefinedSymbol)

	assert.ErrorIs(t, tab.Delete(name), ErrUndefinedSymbol)
}

func TestMutate(t *testing.T) {
	tab := New()
	name := tab.Add(newArray(t, 2))

	err := tab.Mutate(name, func(a *array.Array) error {
		a.AsInt64()[0] = 42
		return nil
	})
	require.NoError(t, err)

	got, err := tab.Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.AsInt64()[0])

	assert.ErrorIs(t, tab.Mutate("id_missing", func(*array.Array) error {
		return nil
	}), ErrUndefinedSymbol)
}

func TestNames(t *testing.T) {
	tab := New()
	tab.AddNamed("b", newArray(t, 1))
	tab.AddNamed("a", newArray(t, 1))

	assert.Equal(t, []string{"a", "b"}, tab.Names())
}
