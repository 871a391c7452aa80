package synonyms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSector(t *testing.T) {
	t.Run("KnownSector", func(t *testing.T) {
		terms := Sector("municipal")
		assert.Contains(t, terms, "sewage")
		assert.Contains(t, terms, "utility")
	})

	t.Run("UnknownSector", func(t *testing.T) {
		assert.Nil(t, Sector("agricultural"))
	})
}

func TestSubsector(t *testing.T) {
	t.Run("KnownSubsector", func(t *testing.T) {
		terms := Subsector("food_processing")
		assert.Contains(t, terms, "food production")
	})

	t.Run("UnknownSubsector", func(t *testing.T) {
		assert.Nil(t, Subsector("brewery"))
	})
}

func TestRegisterSubsector(t *testing.T) {
	RegisterSubsector("brewery", []string{"brewing", "beer production"})
	defer delete(subsectors, "brewery")

	assert.Contains(t, Subsector("brewery"), "brewing")
}
