package entity

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProductKey_Normaliza(t *testing.T) {
	// "í" precompuesta frente a "i" + acento combinante.
	a := NewProductKey("  Papelería ", "Resma", "75g")
	b := NewProductKey("Papeleri\u0301a", "Resma ", " 75g")
	assert.Equal(t, a, b)
	assert.Equal(t, "Papelería|Resma|75g", a.String())
}

func TestProductKey_Valid(t *testing.T) {
	assert.True(t, NewProductKey("a", "b", "c").Valid())
	assert.False(t, NewProductKey("a", "  ", "c").Valid())
	assert.False(t, ProductKey{}.Valid())
}

func TestProductKey_LessOrdenTotal(t *testing.T) {
	keys := []ProductKey{
		NewProductKey("b", "a", "a"),
		NewProductKey("a", "b", "a"),
		NewProductKey("a", "a", "b"),
		NewProductKey("a", "a", "a"),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	assert.Equal(t, []string{"a|a|a", "a|a|b", "a|b|a", "b|a|a"}, []string{
		keys[0].String(), keys[1].String(), keys[2].String(), keys[3].String(),
	})
	assert.False(t, keys[0].Less(keys[0]))
}
