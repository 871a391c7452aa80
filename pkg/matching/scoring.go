package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/reed/pkg/contaminants"
	"github.com/Ramsey-B/reed/pkg/flow"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/synonyms"
)

// Score constants. Subsector strategies are tiered: only the strongest
// matching strategy contributes, they never stack.
const (
	sectorBonus           = 8.0
	subsectorExactBonus   = 15.0
	subsectorSynonymBonus = 12.0
	subsectorPartialMax   = 5.0
	contaminantBonus      = 5.0

	flowPerfectScore  = 10.0
	flowCloseScore    = 5.0
	flowScalableScore = 2.0
	flowMismatchScore = -5.0

	maxExplanations = 3
)

// Weights control how much each signal contributes to the total score.
// Semantic fit is trusted most; flow the least, since undersized or oversized
// precedent is still usable engineering input.
type Weights struct {
	Semantic    float64
	Contaminant float64
	Flow        float64
}

func DefaultWeights() Weights {
	return Weights{Semantic: 1.5, Contaminant: 1.0, Flow: 0.5}
}

// Scorer evaluates a single reference case against a user context
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// SemanticScore measures sector and subsector fit against the case's
// application type and description text. Sector and subsector bonuses are
// independent and additive.
func (s *Scorer) SemanticScore(sector, subsector string, c *models.ReferenceCase) (float64, []string) {
	score := 0.0
	var explanations []string

	caseText := strings.ToLower(c.ApplicationType + " " + c.Description)

	if sector != "" {
		terms := append([]string{sector}, synonyms.Sector(sector)...)
		for _, term := range terms {
			if strings.Contains(caseText, term) {
				score += sectorBonus
				explanations = append(explanations, fmt.Sprintf("Sector match: '%s' in case", term))
				break
			}
		}
	}

	if subsector != "" {
		phrase := strings.ReplaceAll(subsector, "_", " ")
		synonym := s.matchSynonym(caseText, subsector)

		switch {
		case strings.Contains(caseText, phrase):
			score += subsectorExactBonus
			explanations = append(explanations, fmt.Sprintf("Direct subsector match: '%s'", subsector))

		case synonym != "":
			score += subsectorSynonymBonus
			explanations = append(explanations, fmt.Sprintf("Synonym match: '%s'", synonym))

		default:
			// Unknown subsectors still get credit for genuine word overlap
			words := strings.Fields(phrase)
			var matched []string
			for _, word := range words {
				if strings.Contains(caseText, word) {
					matched = append(matched, word)
				}
			}
			if len(matched) > 0 {
				score += subsectorPartialMax * float64(len(matched)) / float64(len(words))
				explanations = append(explanations, fmt.Sprintf("Partial match: %s", strings.Join(matched, ", ")))
			}
		}
	}

	return score, explanations
}

func (s *Scorer) matchSynonym(caseText, subsector string) string {
	for _, term := range synonyms.Subsector(subsector) {
		if strings.Contains(caseText, term) {
			return term
		}
	}
	return ""
}

// ContaminantScore grants a fixed bonus for every user contaminant category
// whose tokens show up in the case's influent characteristics. One token hit
// per category is enough; multiple hits do not stack.
func (s *Scorer) ContaminantScore(userContaminants map[string]bool, c *models.ReferenceCase) (float64, []string) {
	score := 0.0
	var matched []string

	characteristics := strings.ToLower(c.InfluentCharacteristics)

	categories := make([]string, 0, len(userContaminants))
	for category := range userContaminants {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, token := range contaminants.Tokens(category) {
			if strings.Contains(characteristics, token) {
				score += contaminantBonus
				matched = append(matched, category)
				break
			}
		}
	}

	return score, matched
}

// FlowScore compares the user's daily flow against the case's typical range.
// Missing or unparseable flow data is neutral; only a strong mismatch
// (beyond 5x the range) is penalized.
func (s *Scorer) FlowScore(userFlow *float64, c *models.ReferenceCase) (float64, string) {
	if userFlow == nil {
		return 0, "No flow data"
	}

	if c.TypicalFlowRange == "" {
		return 0, "Case has no flow data"
	}

	r, ok := flow.ParseRange(c.TypicalFlowRange)
	if !ok {
		return 0, fmt.Sprintf("Cannot parse flow: %s", c.TypicalFlowRange)
	}

	f := *userFlow

	switch {
	case r.Contains(f):
		return flowPerfectScore, fmt.Sprintf("Perfect: %.0f in [%.0f, %.0f]", f, r.Min, r.Max)
	case f >= r.Min/2 && f <= r.Max*2:
		return flowCloseScore, fmt.Sprintf("Close: %.0f near [%.0f, %.0f]", f, r.Min, r.Max)
	case f >= r.Min/5 && f <= r.Max*5:
		return flowScalableScore, fmt.Sprintf("Scalable: %.0f from [%.0f, %.0f]", f, r.Min, r.Max)
	default:
		return flowMismatchScore, fmt.Sprintf("Mismatch: %.0f far from [%.0f, %.0f]", f, r.Min, r.Max)
	}
}

// ScoreCase combines the three signals into a weighted total with a short
// explanation trail
func (s *Scorer) ScoreCase(c *models.ReferenceCase, uc models.UserContext) models.MatchScore {
	semanticScore, semanticExplanations := s.SemanticScore(uc.Sector, uc.Subsector, c)
	contaminantScore, matchedContaminants := s.ContaminantScore(uc.Contaminants, c)
	flowScore, flowExplanation := s.FlowScore(uc.Flow, c)

	total := semanticScore*s.weights.Semantic +
		contaminantScore*s.weights.Contaminant +
		flowScore*s.weights.Flow

	explanation := make([]string, 0, maxExplanations)
	explanation = append(explanation, semanticExplanations...)
	if len(matchedContaminants) > 0 {
		explanation = append(explanation, fmt.Sprintf("Contaminants: %s", strings.Join(matchedContaminants, ", ")))
	}
	if uc.Flow != nil {
		explanation = append(explanation, fmt.Sprintf("Flow: %s", flowExplanation))
	}
	if len(explanation) > maxExplanations {
		explanation = explanation[:maxExplanations]
	}

	return models.MatchScore{
		Case:             c,
		SemanticScore:    semanticScore,
		ContaminantScore: contaminantScore,
		FlowScore:        flowScore,
		TotalScore:       total,
		Explanation:      explanation,
	}
}
