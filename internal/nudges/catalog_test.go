package nudges

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickIsDeterministicWithSeededSource(t *testing.T) {
	a := NewPicker(rand.New(rand.NewSource(7)))
	b := NewPicker(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		require.Equal(t, a.Pick(TypeDrawdown), b.Pick(TypeDrawdown))
	}
}

func TestPickCoversEveryPool(t *testing.T) {
	p := NewPicker(rand.New(rand.NewSource(1)))
	for _, name := range Pools() {
		text := p.Pick(name)
		require.NotEmpty(t, text)
		require.NotEqual(t, fallback, text, "pool %s should have its own texts", name)
	}
}

func TestPickResolvesAliases(t *testing.T) {
	p := NewPicker(rand.New(rand.NewSource(1)))
	for tag := range Aliases {
		require.NotEqual(t, fallback, p.Pick(tag), "alias %s should map to a pool", tag)
	}
}

func TestPickUnknownTagFallsBack(t *testing.T) {
	p := NewPicker(rand.New(rand.NewSource(1)))
	require.Equal(t, fallback, p.Pick("no_such_trigger"))
}
