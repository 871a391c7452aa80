// Package extractor derives a normalized matching profile from loosely
// structured project data and client metadata.
package extractor

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/contaminants"
	"github.com/Ramsey-B/reed/pkg/flow"
	"github.com/Ramsey-B/reed/pkg/models"
)

// Field names probed for sector and subsector, in priority order
var (
	sectorKeys    = []string{"sector", "selected_sector"}
	subsectorKeys = []string{"subsector", "selected_subsector"}
)

// Field names that are expected to carry a flow or consumption figure
var flowKeys = []string{
	"water_consumption",
	"wastewater_generated",
	"flow_rate",
	"flow",
	"design_flow",
	"daily_flow",
}

var flowTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m[³3]\s*/\s*d(?:ay)?`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*cubic\s+met\w+\s+per\s+day`),
	regexp.MustCompile(`flow\s*[:=]?\s*(\d+(?:\.\d+)?)`),
}

// Extractor builds a UserContext from raw request payloads. Every field
// degrades to its zero value on bad input; Extract never fails.
type Extractor struct {
	logger ectologger.Logger
}

func New(logger ectologger.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract normalizes sector, subsector, contaminant categories and flow from
// the project data, falling back to client metadata for the sector fields.
func (e *Extractor) Extract(ctx context.Context, projectData, clientMetadata map[string]any) models.UserContext {
	log := e.logger.WithContext(ctx)

	uc := models.UserContext{
		Sector:       lookupString(projectData, clientMetadata, sectorKeys),
		Subsector:    lookupString(projectData, clientMetadata, subsectorKeys),
		Contaminants: make(map[string]bool),
	}

	dump := serialize(projectData)
	if dump == "" && len(projectData) > 0 {
		log.Warn("project data could not be serialized, contaminant detection degraded")
	}

	e.extractContaminants(projectData, dump, uc.Contaminants)

	if f, ok := e.extractFlow(projectData, dump); ok {
		uc.Flow = &f
	}

	log.WithFields(map[string]any{
		"sector":       uc.Sector,
		"subsector":    uc.Subsector,
		"contaminants": uc.ContaminantList(),
		"flow":         uc.Flow,
	}).Debug("extracted user context")

	return uc
}

func (e *Extractor) extractContaminants(projectData map[string]any, dump string, found map[string]bool) {
	// Structured contaminant lists take priority over the free-text dump
	for _, key := range []string{"contaminants", "key_contaminants"} {
		if list, ok := projectData[key].([]any); ok {
			for _, item := range list {
				if s, ok := item.(string); ok {
					contaminants.Classify(s, found)
				}
			}
		}
	}

	contaminants.Classify(dump, found)
}

// extractFlow probes structured fields first, then falls back to scanning the
// serialized dump. Any hit must pass the plausibility gate; out-of-bounds
// values are discarded rather than clamped.
func (e *Extractor) extractFlow(projectData map[string]any, dump string) (float64, bool) {
	for _, key := range flowKeys {
		v, ok := projectData[key]
		if !ok {
			continue
		}
		if f, ok := flowFromValue(v); ok && flow.Plausible(f) {
			return f, true
		}
	}

	lower := strings.ToLower(dump)
	for _, pattern := range flowTextPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil && flow.Plausible(f) {
			return f, true
		}
	}

	return 0, false
}

// flowFromValue interprets the shapes a flow field shows up in: a bare
// number, a "<number> <unit>" string, or a {value, unit} object.
func flowFromValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t > 0
	case int:
		return float64(t), t > 0
	case string:
		return flowFromString(t)
	case map[string]any:
		val, ok := t["value"]
		if !ok {
			return 0, false
		}
		f, ok := flowFromValue(val)
		if !ok {
			return 0, false
		}
		if unit, ok := t["unit"].(string); ok {
			f = flow.Normalize(f, unit)
		}
		return f, true
	}
	return 0, false
}

var numberWithUnit = regexp.MustCompile(`^(\d+(?:,\d+)*(?:\.\d+)?)\s*(.*)$`)

func flowFromString(s string) (float64, bool) {
	m := numberWithUnit.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return flow.Normalize(f, m[2]), true
}

func lookupString(projectData, clientMetadata map[string]any, keys []string) string {
	for _, m := range []map[string]any{projectData, clientMetadata} {
		if m == nil {
			continue
		}
		for _, key := range keys {
			if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	return ""
}

func serialize(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
