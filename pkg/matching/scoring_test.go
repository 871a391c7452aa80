package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/pkg/contaminants"
	"github.com/Ramsey-B/reed/pkg/models"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestSemanticScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	t.Run("direct subsector phrase beats everything", func(t *testing.T) {
		c := &models.ReferenceCase{
			ApplicationType: "Food Processing Plant",
			Description:     "Wastewater treatment for food processing facilities",
		}
		score, explanations := scorer.SemanticScore("", "food_processing", c)
		assert.Equal(t, subsectorExactBonus, score)
		require.Len(t, explanations, 1)
		assert.Contains(t, explanations[0], "Direct subsector match")
	})

	t.Run("synonym match when phrase absent", func(t *testing.T) {
		c := &models.ReferenceCase{
			ApplicationType: "Restaurant Wastewater",
			Description:     "Grease-laden kitchen effluent treatment",
		}
		score, explanations := scorer.SemanticScore("", "food_service", c)
		assert.Equal(t, subsectorSynonymBonus, score)
		require.Len(t, explanations, 1)
		assert.Contains(t, explanations[0], "Synonym match")
	})

	t.Run("partial word overlap for unknown subsector", func(t *testing.T) {
		c := &models.ReferenceCase{
			ApplicationType: "Dairy Plant",
			Description:     "High-strength dairy effluent",
		}
		score, explanations := scorer.SemanticScore("", "dairy_farming", c)
		assert.InDelta(t, subsectorPartialMax/2, score, 1e-9)
		require.Len(t, explanations, 1)
		assert.Contains(t, explanations[0], "Partial match")
	})

	t.Run("sector bonus is additive", func(t *testing.T) {
		c := &models.ReferenceCase{
			ApplicationType: "Food Processing",
			Description:     "Industrial treatment for a food processing factory",
		}
		score, _ := scorer.SemanticScore("industrial", "food_processing", c)
		assert.Equal(t, sectorBonus+subsectorExactBonus, score)
	})

	t.Run("no overlap scores zero", func(t *testing.T) {
		c := &models.ReferenceCase{
			ApplicationType: "Mining Runoff",
			Description:     "Heavy metal laden runoff",
		}
		score, explanations := scorer.SemanticScore("commercial", "hotel", c)
		assert.Zero(t, score)
		assert.Empty(t, explanations)
	})

	t.Run("subsector overlap outranks no overlap", func(t *testing.T) {
		with := &models.ReferenceCase{ApplicationType: "Hotel Laundry", Description: "hotel greywater reuse"}
		without := &models.ReferenceCase{ApplicationType: "Mining Runoff", Description: "acid drainage"}

		scoreWith, _ := scorer.SemanticScore("commercial", "hotel", with)
		scoreWithout, _ := scorer.SemanticScore("commercial", "hotel", without)
		assert.Greater(t, scoreWith, scoreWithout)
	})
}

func TestContaminantScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	c := &models.ReferenceCase{
		InfluentCharacteristics: "BOD: 800-4000 mg/L, FOG: high, TSS moderate",
	}

	t.Run("one bonus per matched category", func(t *testing.T) {
		user := map[string]bool{
			contaminants.Organics:        true,
			contaminants.SuspendedSolids: true,
			contaminants.Metals:          true,
		}
		score, matched := scorer.ContaminantScore(user, c)
		assert.Equal(t, 2*contaminantBonus, score)
		assert.Equal(t, []string{contaminants.Organics, contaminants.SuspendedSolids}, matched)
	})

	t.Run("multiple tokens in one category do not stack", func(t *testing.T) {
		// BOD and FOG both signal organics; only one bonus
		score, matched := scorer.ContaminantScore(map[string]bool{contaminants.Organics: true}, c)
		assert.Equal(t, contaminantBonus, score)
		assert.Equal(t, []string{contaminants.Organics}, matched)
	})

	t.Run("empty user set", func(t *testing.T) {
		score, matched := scorer.ContaminantScore(nil, c)
		assert.Zero(t, score)
		assert.Empty(t, matched)
	})
}

func TestFlowScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	c := &models.ReferenceCase{TypicalFlowRange: "100-1,000 m3/day"}

	t.Run("nil flow is neutral", func(t *testing.T) {
		score, explanation := scorer.FlowScore(nil, c)
		assert.Zero(t, score)
		assert.Equal(t, "No flow data", explanation)
	})

	t.Run("case without flow range is neutral", func(t *testing.T) {
		score, _ := scorer.FlowScore(floatPtr(500), &models.ReferenceCase{})
		assert.Zero(t, score)
	})

	t.Run("unparseable range is neutral", func(t *testing.T) {
		score, explanation := scorer.FlowScore(floatPtr(500), &models.ReferenceCase{TypicalFlowRange: "varies"})
		assert.Zero(t, score)
		assert.Contains(t, explanation, "Cannot parse flow")
	})

	t.Run("within range is perfect", func(t *testing.T) {
		for _, f := range []float64{100, 500, 1000} {
			score, explanation := scorer.FlowScore(floatPtr(f), c)
			assert.Equal(t, flowPerfectScore, score)
			assert.Contains(t, explanation, "Perfect")
		}
	})

	t.Run("within 2x is close", func(t *testing.T) {
		score, explanation := scorer.FlowScore(floatPtr(1500), c)
		assert.Equal(t, flowCloseScore, score)
		assert.Contains(t, explanation, "Close")
	})

	t.Run("within 5x is scalable", func(t *testing.T) {
		score, explanation := scorer.FlowScore(floatPtr(4000), c)
		assert.Equal(t, flowScalableScore, score)
		assert.Contains(t, explanation, "Scalable")
	})

	t.Run("beyond 5x is penalized", func(t *testing.T) {
		score, explanation := scorer.FlowScore(floatPtr(10), c)
		assert.Equal(t, flowMismatchScore, score)
		assert.Negative(t, score)
		assert.Contains(t, explanation, "Mismatch")
	})
}

func TestScoreCase(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	c := &models.ReferenceCase{
		ApplicationType:         "Food Processing",
		Description:             "Industrial food production wastewater",
		InfluentCharacteristics: "BOD: 800-4000, FOG: high",
		TypicalFlowRange:        "50-10,000",
	}
	uc := models.UserContext{
		Sector:       "industrial",
		Subsector:    "food_processing",
		Contaminants: map[string]bool{contaminants.Organics: true},
		Flow:         floatPtr(332),
	}

	score := scorer.ScoreCase(c, uc)

	assert.Equal(t, sectorBonus+subsectorExactBonus, score.SemanticScore)
	assert.Equal(t, contaminantBonus, score.ContaminantScore)
	assert.Equal(t, flowPerfectScore, score.FlowScore)

	expected := score.SemanticScore*1.5 + score.ContaminantScore*1.0 + score.FlowScore*0.5
	assert.InDelta(t, expected, score.TotalScore, 1e-9)

	assert.LessOrEqual(t, len(score.Explanation), maxExplanations)
	assert.NotEmpty(t, score.Explanation)
}
