package names_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/names"
)

func TestSameSeedSameNames(t *testing.T) {
	a := names.New(99)
	b := names.New(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Tribe(), b.Tribe())
		assert.Equal(t, a.Kingdom(epoch.Kings), b.Kingdom(epoch.Kings))
		assert.Equal(t, a.Bailiwick(), b.Bailiwick())
		assert.Equal(t, a.Beast(), b.Beast())
	}
}

func TestNamesAreWellFormed(t *testing.T) {
	g := names.New(7)
	for i := 0; i < 50; i++ {
		assert.NotEmpty(t, g.Tribe())
		assert.True(t, strings.HasPrefix(g.Bailiwick(), "Bailiwick of "))

		k := g.Kingdom(epoch.Dreams)
		assert.NotEmpty(t, k)
		// Names are title-cased.
		assert.Equal(t, strings.ToUpper(k[:1]), k[:1])

		beast := g.Beast()
		assert.Contains(t, beast, " ")
	}
}
