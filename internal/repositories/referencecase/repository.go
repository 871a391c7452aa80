// Package referencecase persists the reference case corpus in Postgres for
// deployments that manage cases centrally instead of shipping a JSON file.
package referencecase

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/tracing"
)

// Repository handles reference case persistence. It satisfies
// knowledge.Source, so it can back the loader directly.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new reference case repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Load returns all active reference cases in stable insertion order
func (r *Repository) Load(ctx context.Context) ([]models.ReferenceCase, error) {
	ctx, span := tracing.StartSpan(ctx, "referencecase.Repository.Load")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"id", "application_type", "description", "influent_characteristics",
		"typical_flow_range", "recommended_treatment_train",
		"local_regulations", "created_at", "updated_at", "deleted_at",
	)
	sb.From("reference_cases")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("created_at").Asc()

	query, args := sb.Build()

	var cases []models.ReferenceCase
	if err := r.db.SelectContext(ctx, &cases, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load reference cases")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load reference cases")
	}

	return cases, nil
}

// Create inserts a new reference case
func (r *Repository) Create(ctx context.Context, c models.ReferenceCase) (*models.ReferenceCase, error) {
	ctx, span := tracing.StartSpan(ctx, "referencecase.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":           "Create",
		"application_type": c.ApplicationType,
	})

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("reference_cases")
	sb.Cols(
		"id", "application_type", "description", "influent_characteristics",
		"typical_flow_range", "recommended_treatment_train",
		"local_regulations", "created_at", "updated_at",
	)
	sb.Values(
		c.ID, c.ApplicationType, c.Description, c.InfluentCharacteristics,
		c.TypicalFlowRange, c.RecommendedTreatmentTrain,
		c.LocalRegulations, c.CreatedAt, c.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create reference case")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create reference case")
	}

	log.WithField("id", c.ID).Info("Created reference case")
	return &c, nil
}

// Delete soft-deletes a reference case
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "referencecase.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("reference_cases")
	sb.Set(sb.Assign("deleted_at", time.Now().UTC()))
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete reference case")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete reference case")
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "reference case not found")
	}

	return nil
}

// Count returns the number of active reference cases
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "referencecase.Repository.Count")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("reference_cases")
	sb.Where(sb.IsNull("deleted_at"))

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count reference cases")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count reference cases")
	}

	return count, nil
}
