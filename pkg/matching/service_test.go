package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/reed/pkg/events"
	"github.com/Ramsey-B/reed/pkg/extractor"
	"github.com/Ramsey-B/reed/pkg/knowledge"
	"github.com/Ramsey-B/reed/pkg/matchcontext"
	"github.com/Ramsey-B/reed/pkg/models"
)

func newTestService(t *testing.T, cases []models.ReferenceCase) *Service {
	t.Helper()
	logger := getTestLogger()
	loader := knowledge.NewLoader(&staticSource{cases: cases}, logger)
	engine := NewEngine(loader, NewScorer(DefaultWeights()), DefaultCacheConfig(), logger)
	return NewService(
		logger,
		extractor.New(logger),
		engine,
		events.NewEmitter(nil, logger),
		matchcontext.NewMemoryStore(time.Minute),
		DefaultServiceConfig(),
	)
}

func TestGetEngineeringReferences_HappyPath(t *testing.T) {
	svc := newTestService(t, testCorpus())

	req := &models.SearchRequest{
		ProjectData: map[string]any{
			"sector":            "commercial",
			"subsector":         "food_service",
			"contaminants":      []any{"BOD: 3700 mg/L", "FOG elevated"},
			"water_consumption": 332.0,
		},
	}

	result := svc.GetEngineeringReferences(context.Background(), req)

	require.NotNil(t, result)
	assert.Empty(t, result.Status)
	assert.Equal(t, "commercial", result.UserSector)
	assert.Equal(t, "food_service", result.UserSubsector)
	require.NotEmpty(t, result.SimilarCases)
	assert.Equal(t, result.TotalFound, len(result.SimilarCases))
	assert.Equal(t, "Food Processing", result.SimilarCases[0].ApplicationType)
	assert.NotEmpty(t, result.SimilarCases[0].WhyRelevant)

	require.NotNil(t, result.SearchProfile)
	assert.Equal(t, 3, result.SearchProfile.TotalCasesEvaluated)
	require.NotNil(t, result.SearchProfile.UserFlow)
	assert.InDelta(t, 332.0, *result.SearchProfile.UserFlow, 1e-9)
}

func TestGetEngineeringReferences_NeverThrows(t *testing.T) {
	svc := newTestService(t, testCorpus())

	t.Run("nil request", func(t *testing.T) {
		result := svc.GetEngineeringReferences(context.Background(), nil)
		require.NotNil(t, result)
		assert.Equal(t, StatusFallback, result.Status)
		assert.Empty(t, result.SimilarCases)
		assert.Equal(t, msgNoProjectData, result.Message)
	})

	t.Run("empty project data", func(t *testing.T) {
		result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{})
		require.NotNil(t, result)
		assert.Equal(t, StatusFallback, result.Status)
		assert.Empty(t, result.SimilarCases)
	})

	t.Run("malformed project data degrades gracefully", func(t *testing.T) {
		result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{
			ProjectData: map[string]any{
				"sector":    12345,
				"subsector": []any{"not", "a", "string"},
				"flow":      "garbage value",
			},
		})
		require.NotNil(t, result)
		assert.Empty(t, result.UserSector)
		assert.NotNil(t, result.SimilarCases)
	})
}

type failingSource struct{}

func (s *failingSource) Load(_ context.Context) ([]models.ReferenceCase, error) {
	return nil, assert.AnError
}

func TestGetEngineeringReferences_CorpusUnavailable(t *testing.T) {
	logger := getTestLogger()
	loader := knowledge.NewLoader(&failingSource{}, logger)
	engine := NewEngine(loader, NewScorer(DefaultWeights()), DefaultCacheConfig(), logger)
	svc := NewService(logger, extractor.New(logger), engine, events.NewEmitter(nil, logger), matchcontext.NewMemoryStore(time.Minute), DefaultServiceConfig())

	result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{
		ProjectData: map[string]any{"sector": "industrial"},
	})

	require.NotNil(t, result)
	assert.Equal(t, StatusFallback, result.Status)
	assert.Empty(t, result.SimilarCases)
	assert.Equal(t, msgUnavailable, result.Message)
	assert.Equal(t, "industrial", result.UserSector)
}

func TestGetEngineeringReferences_NoMatches(t *testing.T) {
	svc := newTestService(t, testCorpus())

	result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{
		ProjectData: map[string]any{"description": "nothing relevant here"},
	})

	require.NotNil(t, result)
	assert.Empty(t, result.Status)
	assert.Empty(t, result.SimilarCases)
	assert.Zero(t, result.TotalFound)
	assert.Equal(t, msgNoMatches, result.Message)
}

func TestGetEngineeringReferences_ContextStore(t *testing.T) {
	svc := newTestService(t, testCorpus())

	req := &models.SearchRequest{
		ProjectData: map[string]any{
			"sector":    "industrial",
			"subsector": "food_processing",
		},
		ContextKey: "acme:industrial",
	}

	result := svc.GetEngineeringReferences(context.Background(), req)
	require.NotNil(t, result)

	stored, err := svc.GetStoredResult(context.Background(), "acme:industrial")
	require.NoError(t, err)
	assert.Equal(t, result, stored)

	_, err = svc.GetStoredResult(context.Background(), "missing")
	assert.ErrorIs(t, err, matchcontext.ErrNotFound)
}

func TestGetEngineeringReferences_RegulatoryNotes(t *testing.T) {
	cases := []models.ReferenceCase{{
		ID:               "food-eu",
		ApplicationType:  "Food Processing",
		Description:      "food production wastewater",
		TypicalFlowRange: "50-10,000",
		LocalRegulations: "EU Water Framework Directive",
	}}
	svc := newTestService(t, cases)

	t.Run("mismatched jurisdictions flagged", func(t *testing.T) {
		result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{
			ProjectData:    map[string]any{"subsector": "food_processing"},
			ClientMetadata: map[string]any{"regulation": "EPA Clean Water Act"},
		})
		require.NotEmpty(t, result.SimilarCases)
		assert.Equal(t, "requires_adjustments: epa_from_eu", result.SimilarCases[0].RegulatoryNotes)
	})

	t.Run("unknown jurisdiction applies directly", func(t *testing.T) {
		result := svc.GetEngineeringReferences(context.Background(), &models.SearchRequest{
			ProjectData: map[string]any{"subsector": "food_processing"},
		})
		require.NotEmpty(t, result.SimilarCases)
		assert.Equal(t, "direct_application_possible", result.SimilarCases[0].RegulatoryNotes)
	})
}
