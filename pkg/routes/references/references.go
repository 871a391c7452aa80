package references

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/reed/pkg/knowledge"
	"github.com/Ramsey-B/reed/pkg/matchcontext"
	"github.com/Ramsey-B/reed/pkg/matching"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/utils"
)

// Register registers reference search routes
func Register(g *echo.Group) {
	g.POST("/search", Search)
	g.GET("/context/:key", GetStoredContext)
	g.POST("/reload", Reload)
}

// Search finds the reference cases most relevant to a project. The search
// itself never fails; a degraded result carries status "fallback".
func Search(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.SearchRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result := svc.GetEngineeringReferences(ctx, &req)
	return c.JSON(http.StatusOK, result)
}

// GetStoredContext returns a previously stored match result by context key
func GetStoredContext(c echo.Context) error {
	ctx := c.Request().Context()

	key := c.Param("key")
	if key == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "context key is required")
	}

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := svc.GetStoredResult(ctx, key)
	if err != nil {
		if errors.Is(err, matchcontext.ErrNotFound) {
			return httperror.NewHTTPError(http.StatusNotFound, "no stored result for key")
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Reload refreshes the knowledge base from its source and drops memoized
// match results
func Reload(c echo.Context) error {
	if err := refreshCorpus(c.Request().Context()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "reloaded"})
}

// refreshCorpus reloads the knowledge base and drops memoized match results
// so subsequent searches see the new corpus
func refreshCorpus(ctx context.Context) error {
	ctx, loader, err := ectoinject.GetContext[*knowledge.Loader](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := loader.Reload(ctx); err != nil {
		return err
	}

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	engine.InvalidateCache()

	return nil
}
