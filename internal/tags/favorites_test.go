package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/scriptmarks/internal/fountain"
)

func TestFavorites_AddRemove(t *testing.T) {
	f := NewFavorites([]string{"a", "b", "a", ""})
	assert.Equal(t, []string{"a", "b"}, f.List())

	assert.True(t, f.Add("c"))
	assert.False(t, f.Add("c"))
	assert.True(t, f.Remove("a"))
	assert.False(t, f.Remove("a"))
	assert.Equal(t, []string{"b", "c"}, f.List())
	assert.Equal(t, 2, f.Len())
}

func TestFavorites_Prune(t *testing.T) {
	ix := Scan(fountain.Parse("[[#plot]] [[#twist]]"), "#idea", nil, nil).Index
	f := NewFavorites([]string{"plot", "gone", "idea", "old"})

	removed := f.Prune(ix)

	assert.Equal(t, []string{"gone", "old"}, removed)
	assert.Equal(t, []string{"plot", "idea"}, f.List())
	for _, tag := range f.List() {
		assert.True(t, ix.Has(tag))
	}
}
