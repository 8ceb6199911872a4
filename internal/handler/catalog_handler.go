package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/middleware"
	"github.com/bricksvaluation/web/internal/service"
)

// CatalogHandler serves the brick set and valuation endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListBrickSets handles GET /bricksets.
func (h *CatalogHandler) ListBrickSets(c echo.Context) error {
	q, err := service.ParseBrickSetQuery(c.QueryParams())
	if err != nil {
		return h.fail(c, err)
	}

	items, total, err := h.catalog.ListBrickSets(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return Success(c, http.StatusOK, newPage(c, q.Pagination, total, items))
}

// GetBrickSet handles GET /bricksets/:id.
func (h *CatalogHandler) GetBrickSet(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return Error(c, http.StatusNotFound, "BrickSet not found.")
	}

	detail, err := h.catalog.BrickSet(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return Success(c, http.StatusOK, detail)
}

// CreateBrickSet handles POST /bricksets.
func (h *CatalogHandler) CreateBrickSet(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}

	var req dto.CreateBrickSetRequest
	if err := c.Bind(&req); err != nil {
		return ValidationFailed(c, map[string][]string{"non_field_errors": {"Invalid request payload."}})
	}

	item, err := h.catalog.CreateBrickSet(c.Request().Context(), userID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return Success(c, http.StatusCreated, item)
}

// CreateValuation handles POST /bricksets/:id/valuations.
func (h *CatalogHandler) CreateValuation(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	brickSetID, ok := pathID(c)
	if !ok {
		return Error(c, http.StatusNotFound, "BrickSet not found.")
	}

	var req dto.CreateValuationRequest
	if err := c.Bind(&req); err != nil {
		return ValidationFailed(c, map[string][]string{"non_field_errors": {"Invalid request payload."}})
	}

	valuation, err := h.catalog.CreateValuation(c.Request().Context(), userID, brickSetID, req)
	if err != nil {
		if errors.Is(err, service.ErrBrickSetNotFound) {
			return Error(c, http.StatusNotFound, fmt.Sprintf("BrickSet with id %d not found.", brickSetID))
		}
		return h.fail(c, err)
	}
	return Success(c, http.StatusCreated, valuation)
}

// LikeValuation handles POST /valuations/:id/likes.
func (h *CatalogHandler) LikeValuation(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	valuationID, ok := pathID(c)
	if !ok {
		return Error(c, http.StatusNotFound, "Valuation not found.")
	}

	like, err := h.catalog.LikeValuation(c.Request().Context(), userID, valuationID)
	switch {
	case errors.Is(err, service.ErrValuationNotFound):
		return Error(c, http.StatusNotFound, fmt.Sprintf("Valuation with id %d not found.", valuationID))
	case errors.Is(err, service.ErrLikeExists):
		return Error(c, http.StatusConflict, fmt.Sprintf("Like for valuation %d by user %d already exists.", valuationID, userID))
	case err != nil:
		return h.fail(c, err)
	}
	return Success(c, http.StatusCreated, like)
}

// MyBrickSets handles GET /users/me/bricksets.
func (h *CatalogHandler) MyBrickSets(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	page, err := service.ParsePagination(c.QueryParams())
	if err != nil {
		return h.fail(c, err)
	}

	items, total, err := h.catalog.OwnedBrickSets(c.Request().Context(), userID, c.QueryParam("ordering"), page)
	if err != nil {
		return h.fail(c, err)
	}
	return Success(c, http.StatusOK, newPage(c, page, total, items))
}

// MyValuations handles GET /users/me/valuations.
func (h *CatalogHandler) MyValuations(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	page, err := service.ParsePagination(c.QueryParams())
	if err != nil {
		return h.fail(c, err)
	}

	items, total, err := h.catalog.OwnedValuations(c.Request().Context(), userID, page)
	if err != nil {
		return h.fail(c, err)
	}
	return Success(c, http.StatusOK, newPage(c, page, total, items))
}

// fail maps service errors shared by the catalog endpoints.
func (h *CatalogHandler) fail(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrBrickSetNotFound):
		return Error(c, http.StatusNotFound, "BrickSet not found.")
	case errors.Is(err, service.ErrBrickSetExists):
		return c.JSON(http.StatusConflict, dto.DuplicateErrorBody{
			Detail:     "BrickSet with this combination already exists.",
			Constraint: dto.ConstraintBrickSetIdentity,
		})
	case errors.Is(err, service.ErrValuationExists):
		return c.JSON(http.StatusConflict, dto.DuplicateErrorBody{
			Detail:     "Valuation for this BrickSet already exists.",
			Constraint: dto.ConstraintValuationUnique,
		})
	case errors.Is(err, service.ErrOwnValuation):
		return Error(c, http.StatusForbidden, "Cannot like your own valuation.")
	}
	return Error(c, http.StatusInternalServerError, "Unable to process request.")
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// newPage wraps results with absolute links to the neighbouring pages.
func newPage[T any](c echo.Context, p service.Pagination, total int, results []T) dto.Page[T] {
	page := dto.Page[T]{Count: total, Results: results}
	if p.Page*p.PageSize < total {
		page.Next = pageLink(c, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageLink(c, p.Page-1)
	}
	return page
}

func pageLink(c echo.Context, n int) *string {
	req := c.Request()
	query := req.URL.Query()
	if n == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(n))
	}

	u := url.URL{Scheme: c.Scheme(), Host: req.Host, Path: req.URL.Path, RawQuery: query.Encode()}
	link := u.String()
	return &link
}
