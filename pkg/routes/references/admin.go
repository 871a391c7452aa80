package references

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/reed/internal/repositories/referencecase"
	"github.com/Ramsey-B/reed/pkg/models"
	"github.com/Ramsey-B/reed/pkg/utils"
)

// RegisterAdmin registers case management routes. Only wired when the
// Postgres knowledge source is in use; file-backed corpora are edited in
// place.
func RegisterAdmin(g *echo.Group) {
	g.POST("/cases", CreateCase)
	g.DELETE("/cases/:id", DeleteCase)
}

// CreateCase inserts a new reference case and refreshes the corpus
func CreateCase(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.ReferenceCase](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*referencecase.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	created, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	if err := refreshCorpus(ctx); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// DeleteCase soft-deletes a reference case and refreshes the corpus
func DeleteCase(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "case id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*referencecase.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := refreshCorpus(ctx); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
