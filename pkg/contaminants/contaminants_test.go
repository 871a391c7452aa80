package contaminants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("organics from lab shorthand", func(t *testing.T) {
		found := ClassifyAll("BOD: 3700 mg/L")
		assert.True(t, found[Organics])
		assert.Len(t, found, 1)
	})

	t.Run("multiple categories in one description", func(t *testing.T) {
		found := ClassifyAll("High BOD and COD, TSS 400 mg/L, oil and grease present")
		assert.True(t, found[Organics])
		assert.True(t, found[SuspendedSolids])
		assert.True(t, found[Hydrocarbons])
		assert.False(t, found[Metals])
	})

	t.Run("phosphorus does not trigger ph", func(t *testing.T) {
		found := ClassifyAll("Total phosphorus 12 mg/L")
		assert.True(t, found[Nutrients])
		assert.False(t, found[PH])
	})

	t.Run("ph with colon triggers ph", func(t *testing.T) {
		found := ClassifyAll("pH: 4.5, acidic stream")
		assert.True(t, found[PH])
	})

	t.Run("case insensitive", func(t *testing.T) {
		found := ClassifyAll("CHROMIUM and Nickel plating rinse")
		assert.True(t, found[Metals])
	})

	t.Run("empty text finds nothing", func(t *testing.T) {
		found := ClassifyAll("")
		assert.Empty(t, found)
	})

	t.Run("union across calls", func(t *testing.T) {
		found := make(map[string]bool)
		Classify("BOD elevated", found)
		Classify("textile dyes in effluent", found)
		assert.True(t, found[Organics])
		assert.True(t, found[Color])
	})

	t.Run("idempotent", func(t *testing.T) {
		found := make(map[string]bool)
		Classify("TSS and nitrogen", found)
		first := len(found)
		Classify("TSS and nitrogen", found)
		assert.Len(t, found, first)
	})
}

func TestCategories(t *testing.T) {
	cats := Categories()
	assert.Contains(t, cats, Organics)
	assert.Contains(t, cats, PH)
	assert.Len(t, cats, 7)

	// sorted for deterministic output
	for i := 1; i < len(cats); i++ {
		assert.Less(t, cats[i-1], cats[i])
	}
}
