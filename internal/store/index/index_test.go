package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type key string

func (k key) ID() string { return string(k) }

func seq(ids ...string) []key {
	out := make([]key, len(ids))
	for i, id := range ids {
		out[i] = key(id)
	}
	return out
}

func TestLocate_Found(t *testing.T) {
	s := seq("A1", "A1B", "A2", "B0")
	for i, id := range []string{"A1", "A1B", "A2", "B0"} {
		p := Locate(id, s)
		require.True(t, Found(p), id)
		assert.Equal(t, i+1, p, "1-based position for %s", id)
		assert.Equal(t, i, Offset(p))
	}
}

func TestLocate_InsertionPoint(t *testing.T) {
	s := seq("A1", "A2", "B0")
	cases := map[string]int{
		"":    0,
		"A0":  0,
		"A1B": 1,
		"A3":  2,
		"Z":   3,
	}
	for id, want := range cases {
		p := Locate(id, s)
		require.False(t, Found(p), id)
		assert.LessOrEqual(t, p, 0)
		assert.Equal(t, want, InsertionOffset(p), "insertion offset for %q", id)
	}
}

func TestLocate_EmptySequence(t *testing.T) {
	p := Locate("A1", []key(nil))
	assert.Equal(t, -1, p)
	assert.Equal(t, 0, InsertionOffset(p))
}

func TestLocate_ByteOrder(t *testing.T) {
	// Comparación lexical byte a byte: mayúsculas antes que minúsculas.
	s := seq("B", "a")
	assert.Equal(t, 1, Locate("B", s))
	assert.Equal(t, 2, Locate("a", s))
}

func TestInsertRemove(t *testing.T) {
	var s []key
	for _, id := range []string{"C", "A", "B", "D"} {
		p := Locate(id, s)
		require.False(t, Found(p))
		s = InsertAt(s, InsertionOffset(p), key(id))
	}
	assert.Equal(t, seq("A", "B", "C", "D"), s)

	s, removed := RemoveAt(s, Offset(Locate("B", s)))
	assert.Equal(t, key("B"), removed)
	assert.Equal(t, seq("A", "C", "D"), s)
}

func TestLocatePrefix(t *testing.T) {
	s := seq("AAA0T:1", "III1R:1", "III1R:2", "ZZZ")
	assert.Equal(t, 1, LocatePrefix("III1R:", s))
	assert.Equal(t, 1, LocatePrefix("III1R:1", s))
	assert.Equal(t, 4, LocatePrefix("ZZZZ", s))
}

func TestAliases(t *testing.T) {
	a := NewAliases()
	a.Register("AAA0T", "00000000T", "jv.admin@gmail.com", "")
	assert.Equal(t, 2, a.Len())

	id, ok := a.Resolve("jv.admin@gmail.com")
	require.True(t, ok)
	assert.Equal(t, "AAA0T", id)

	// Gana la última escritura.
	a.Register("III1R", "jv.admin@gmail.com")
	id, _ = a.Resolve("jv.admin@gmail.com")
	assert.Equal(t, "III1R", id)

	// UnregisterOwned no toca claves que ya apuntan a otro ID.
	a.UnregisterOwned("AAA0T", "00000000T", "jv.admin@gmail.com")
	_, ok = a.Resolve("00000000T")
	assert.False(t, ok)
	_, ok = a.Resolve("jv.admin@gmail.com")
	assert.True(t, ok)

	a.Unregister("jv.admin@gmail.com", "no-existe")
	assert.Equal(t, 0, a.Len())
}

func TestAliases_Replace(t *testing.T) {
	a := NewAliases()
	a.Register("AAA0T", "00000000T", "viejo@jv.es")
	a.Replace("AAA0T", []string{"00000000T", "viejo@jv.es"}, []string{"00000000T", "nuevo@jv.es"})

	_, ok := a.Resolve("viejo@jv.es")
	assert.False(t, ok)
	id, ok := a.Resolve("nuevo@jv.es")
	require.True(t, ok)
	assert.Equal(t, "AAA0T", id)
	id, ok = a.Resolve("00000000T")
	require.True(t, ok)
	assert.Equal(t, "AAA0T", id)

	a.Reset()
	assert.Equal(t, 0, a.Len())
}
