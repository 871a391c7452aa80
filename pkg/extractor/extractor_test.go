package extractor

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/reed/pkg/contaminants"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func TestExtract_SectorFallback(t *testing.T) {
	e := New(getTestLogger())

	t.Run("structured fields win", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"sector":    "Industrial",
			"subsector": "Food_Processing",
		}, map[string]any{
			"selected_sector": "commercial",
		})
		assert.Equal(t, "industrial", uc.Sector)
		assert.Equal(t, "food_processing", uc.Subsector)
	})

	t.Run("metadata fallback", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{}, map[string]any{
			"selected_sector":    "Commercial",
			"selected_subsector": "Food_Service",
		})
		assert.Equal(t, "commercial", uc.Sector)
		assert.Equal(t, "food_service", uc.Subsector)
	})

	t.Run("nothing available", func(t *testing.T) {
		uc := e.Extract(context.Background(), nil, nil)
		assert.Empty(t, uc.Sector)
		assert.Empty(t, uc.Subsector)
		assert.Empty(t, uc.Contaminants)
		assert.Nil(t, uc.Flow)
	})
}

func TestExtract_Contaminants(t *testing.T) {
	e := New(getTestLogger())

	t.Run("from structured list", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"contaminants": []any{"BOD 3700 mg/L", "TSS elevated"},
		}, nil)
		assert.True(t, uc.HasContaminant(contaminants.Organics))
		assert.True(t, uc.HasContaminant(contaminants.SuspendedSolids))
	})

	t.Run("from free text dump", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"notes": "effluent shows oil and grease plus nitrogen load",
		}, nil)
		assert.True(t, uc.HasContaminant(contaminants.Hydrocarbons))
		assert.True(t, uc.HasContaminant(contaminants.Nutrients))
	})
}

func TestExtract_Flow(t *testing.T) {
	e := New(getTestLogger())

	t.Run("numeric field", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"water_consumption": 332.0,
		}, nil)
		require.NotNil(t, uc.Flow)
		assert.InDelta(t, 332.0, *uc.Flow, 1e-9)
	})

	t.Run("string field with unit", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"wastewater_generated": "10 m3/h",
		}, nil)
		require.NotNil(t, uc.Flow)
		assert.InDelta(t, 240.0, *uc.Flow, 1e-9)
	})

	t.Run("value unit object", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"flow_rate": map[string]any{"value": 100.0, "unit": "GPM"},
		}, nil)
		require.NotNil(t, uc.Flow)
		assert.InDelta(t, 545.1, *uc.Flow, 1e-9)
	})

	t.Run("regex fallback from dump", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"description": "plant discharges roughly 450 m3/day in peak season",
		}, nil)
		require.NotNil(t, uc.Flow)
		assert.InDelta(t, 450.0, *uc.Flow, 1e-9)
	})

	t.Run("implausible values rejected", func(t *testing.T) {
		uc := e.Extract(context.Background(), map[string]any{
			"flow": 5_000_000.0,
		}, nil)
		assert.Nil(t, uc.Flow)
	})
}
