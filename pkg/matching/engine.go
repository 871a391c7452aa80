package matching

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/reed/pkg/knowledge"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Engine runs the scorer over the full corpus and ranks the results.
// Matching is pure and deterministic for a fixed corpus; results are
// memoized per user context.
type Engine struct {
	scorer *Scorer
	loader *knowledge.Loader
	cache  *resultCache
	logger ectologger.Logger
}

func NewEngine(loader *knowledge.Loader, scorer *Scorer, cacheConfig CacheConfig, logger ectologger.Logger) *Engine {
	return &Engine{
		scorer: scorer,
		loader: loader,
		cache:  newResultCache(cacheConfig),
		logger: logger,
	}
}

// FindMatches scores every case against the context and returns up to topN
// positive-scoring matches in descending score order, plus the number of
// cases evaluated. topN must be positive; that is a caller bug, not a data
// condition.
func (e *Engine) FindMatches(ctx context.Context, uc models.UserContext, topN int) ([]models.MatchScore, int, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.FindMatches")
	defer span.End()

	if topN <= 0 {
		return nil, 0, errors.Errorf("invalid topN %d, must be positive", topN)
	}

	corpus, err := e.loader.Corpus(ctx)
	if err != nil {
		return nil, 0, err
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"sector":    uc.Sector,
		"subsector": uc.Subsector,
		"top_n":     topN,
	})

	if len(corpus) == 0 {
		log.Warn("knowledge base is empty")
		return nil, 0, nil
	}

	key := resultCacheKey(uc, topN)
	if matches, ok := e.cache.get(key); ok {
		metrics.CacheHitsTotal.Inc()
		log.WithField("matches", len(matches)).Debug("served matches from cache")
		return matches, len(corpus), nil
	}
	metrics.CacheMissesTotal.Inc()

	scored := make([]models.MatchScore, 0, len(corpus))
	for i := range corpus {
		scored = append(scored, e.scorer.ScoreCase(&corpus[i], uc))
	}

	// Stable sort keeps corpus order for ties, which keeps output
	// deterministic across calls
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}

	matches := make([]models.MatchScore, 0, len(scored))
	for _, score := range scored {
		if score.TotalScore > 0 {
			matches = append(matches, score)
		}
	}

	e.cache.put(key, matches)

	log.WithFields(map[string]any{
		"matches":   len(matches),
		"evaluated": len(corpus),
	}).Debug("matching complete")

	return matches, len(corpus), nil
}

// InvalidateCache drops all memoized results. Called after a corpus reload.
func (e *Engine) InvalidateCache() {
	e.cache.clear()
}

// CacheStats reports memoization effectiveness
func (e *Engine) CacheStats() CacheStats {
	return e.cache.stats()
}
