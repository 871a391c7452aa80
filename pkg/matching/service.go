package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	appctx "github.com/Ramsey-B/reed/pkg/context"
	"github.com/Ramsey-B/reed/pkg/events"
	"github.com/Ramsey-B/reed/pkg/extractor"
	"github.com/Ramsey-B/reed/pkg/matchcontext"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Fallback messages surfaced to the caller when the search degrades. The
// caller treats these as data and proceeds with general engineering
// principles instead of proven precedent.
const (
	msgNoProjectData = "Water project data unavailable. Proceeding with general engineering analysis."
	msgUnavailable   = "Case database temporarily unavailable. Proceeding with general engineering analysis."
	msgNoMatches     = "No highly relevant cases found. Proceeding with general best practices."
)

// StatusFallback marks results produced by the degraded path
const StatusFallback = "fallback"

// ServiceConfig contains configuration for the reference search service
type ServiceConfig struct {
	TopN int // Default number of cases to return (default: 3)
}

// DefaultServiceConfig returns sensible defaults. The small TopN is
// intentional: every returned case lands in a downstream prompt, so the
// count has a direct cost.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{TopN: 3}
}

// Service is the outer boundary of the matcher. GetEngineeringReferences
// never returns an error: every internal failure degrades to a valid
// fallback result, because the consuming agent loop treats a failed tool
// call as far more expensive than an empty one.
type Service struct {
	log       ectologger.Logger
	extractor *extractor.Extractor
	engine    *Engine
	emitter   *events.Emitter
	store     matchcontext.Store
	cfg       ServiceConfig
}

// NewService creates a new reference search service
func NewService(
	log ectologger.Logger,
	ext *extractor.Extractor,
	engine *Engine,
	emitter *events.Emitter,
	store matchcontext.Store,
	cfg ServiceConfig,
) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultServiceConfig().TopN
	}
	return &Service{
		log:       log,
		extractor: ext,
		engine:    engine,
		emitter:   emitter,
		store:     store,
		cfg:       cfg,
	}
}

// GetEngineeringReferences extracts a matching profile from the request,
// ranks the corpus against it, and assembles the response
func (s *Service) GetEngineeringReferences(ctx context.Context, req *models.SearchRequest) (result *models.MatchResult) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.GetEngineeringReferences")
	defer span.End()

	start := time.Now()
	requestID := appctx.GetRequestID(ctx)
	log := s.log.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Reference search panicked")
			result = fallbackResult(msgUnavailable)
		}

		metrics.SearchDuration.Observe(time.Since(start).Seconds())
		if result.Status == StatusFallback {
			metrics.SearchesTotal.WithLabelValues(StatusFallback).Inc()
		} else {
			metrics.SearchesTotal.WithLabelValues("ok").Inc()
		}
		metrics.CasesReturned.Observe(float64(result.TotalFound))
	}()

	if req == nil || len(req.ProjectData) == 0 {
		log.Warn("Search request has no project data")
		return fallbackResult(msgNoProjectData)
	}

	uc := s.extractor.Extract(ctx, req.ProjectData, req.ClientMetadata)

	topN := req.TopN
	if topN <= 0 {
		topN = s.cfg.TopN
	}

	matches, evaluated, err := s.engine.FindMatches(ctx, uc, topN)
	if err != nil {
		log.WithError(err).Error("Matching failed")
		result = fallbackResult(msgUnavailable)
		result.UserSector = uc.Sector
		result.UserSubsector = uc.Subsector
		result.SearchProfile = searchProfile(uc, 0)
		s.finish(ctx, uc, result, req.ContextKey, requestID, start)
		return result
	}

	result = &models.MatchResult{
		SimilarCases:  s.buildSimilarCases(matches, req.ClientMetadata),
		UserSector:    uc.Sector,
		UserSubsector: uc.Subsector,
		TotalFound:    len(matches),
		SearchProfile: searchProfile(uc, evaluated),
	}

	if len(matches) == 0 {
		result.Message = msgNoMatches
		log.WithFields(map[string]any{
			"sector":    uc.Sector,
			"subsector": uc.Subsector,
			"evaluated": evaluated,
		}).Info("No relevant cases found")
	} else {
		result.Message = "Found relevant engineering reference cases"
		log.WithFields(map[string]any{
			"sector":    uc.Sector,
			"subsector": uc.Subsector,
			"found":     len(matches),
			"evaluated": evaluated,
		}).Info("Reference search complete")
	}

	s.finish(ctx, uc, result, req.ContextKey, requestID, start)
	return result
}

// GetStoredResult retrieves a previously stored match result by context key
func (s *Service) GetStoredResult(ctx context.Context, key string) (*models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.GetStoredResult")
	defer span.End()

	return s.store.Get(ctx, key)
}

// finish handles the side effects of a completed search: the context store
// write and the match event. Neither can fail the search.
func (s *Service) finish(ctx context.Context, uc models.UserContext, result *models.MatchResult, contextKey, requestID string, start time.Time) {
	if contextKey != "" && s.store != nil {
		if err := s.store.Put(ctx, contextKey, result); err != nil {
			s.log.WithContext(ctx).WithError(err).WithField("context_key", contextKey).Warn("Failed to store match result")
		}
	}

	if s.emitter != nil {
		s.emitter.EmitMatchCompleted(ctx, uc, result, requestID, time.Since(start))
	}
}

func (s *Service) buildSimilarCases(matches []models.MatchScore, clientMetadata map[string]any) []models.SimilarCase {
	userRegulation := ""
	if reg, ok := clientMetadata["regulation"].(string); ok {
		userRegulation = reg
	}

	cases := make([]models.SimilarCase, 0, len(matches))
	for _, m := range matches {
		cases = append(cases, models.SimilarCase{
			ApplicationType: m.Case.ApplicationType,
			FlowRange:       m.Case.TypicalFlowRange,
			Contaminants:    m.Case.InfluentCharacteristics,
			TreatmentTrain:  m.Case.RecommendedTreatmentTrain,
			WhyRelevant:     m.Explanation,
			RegulatoryNotes: regulatoryNotes(userRegulation, m.Case.LocalRegulations),
		})
	}
	return cases
}

// regulatoryNotes flags whether a case's precedent transfers directly to the
// user's jurisdiction or needs adaptation
func regulatoryNotes(userRegulation, caseRegulation string) string {
	mismatch := detectRegulatoryMismatch(userRegulation, caseRegulation)
	if mismatch == "" {
		return "direct_application_possible"
	}
	return "requires_adjustments: " + mismatch
}

func detectRegulatoryMismatch(userRegulation, caseRegulation string) string {
	if userRegulation == "" || caseRegulation == "" {
		return ""
	}

	userReg := strings.ToLower(userRegulation)
	caseReg := strings.ToLower(caseRegulation)

	switch {
	case strings.Contains(userReg, "eu") && strings.Contains(caseReg, "epa"):
		return "eu_from_epa"
	case strings.Contains(userReg, "epa") && strings.Contains(caseReg, "eu"):
		return "epa_from_eu"
	case userReg != caseReg:
		return "regulatory_adjustment_needed"
	}

	return ""
}

func searchProfile(uc models.UserContext, evaluated int) *models.SearchProfile {
	categories := uc.ContaminantList()
	sort.Strings(categories)

	return &models.SearchProfile{
		Sector:              uc.Sector,
		Subsector:           uc.Subsector,
		Contaminants:        categories,
		UserFlow:            uc.Flow,
		TotalCasesEvaluated: evaluated,
	}
}

func fallbackResult(message string) *models.MatchResult {
	return &models.MatchResult{
		SimilarCases: []models.SimilarCase{},
		Message:      message,
		Status:       StatusFallback,
	}
}
