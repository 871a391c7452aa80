// Package events handles event emission for completed reference searches
package events

import (
	"context"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Publisher is the transport the emitter writes through
type Publisher interface {
	PublishMatchEvent(ctx context.Context, event *models.MatchEvent) error
}

// Emitter publishes match lifecycle events. A nil publisher disables
// emission, which keeps the search path working without Kafka.
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitMatchCompleted emits an event describing a finished search. Emission
// failures are logged and counted but never fail the search.
func (e *Emitter) EmitMatchCompleted(ctx context.Context, uc models.UserContext, result *models.MatchResult, requestID string, duration time.Duration) {
	if e.publisher == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchCompleted")
	defer span.End()

	evaluated := 0
	if result.SearchProfile != nil {
		evaluated = result.SearchProfile.TotalCasesEvaluated
	}

	categories := uc.ContaminantList()
	sort.Strings(categories)

	eventType := models.EventMatchCompleted
	if result.Status == "fallback" {
		eventType = models.EventMatchFallback
	}

	event := &models.MatchEvent{
		Type:           eventType,
		RequestID:      requestID,
		Sector:         uc.Sector,
		Subsector:      uc.Subsector,
		Contaminants:   categories,
		UserFlow:       uc.Flow,
		TotalFound:     result.TotalFound,
		Status:         result.Status,
		CasesEvaluated: evaluated,
		DurationMs:     duration.Milliseconds(),
	}

	if err := e.publisher.PublishMatchEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Warn("Failed to emit match event")
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
}
