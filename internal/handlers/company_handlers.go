package handlers

import (
	"net/http"

	"quotabill/internal/common"
	"quotabill/internal/models"
	"quotabill/internal/services"

	"github.com/labstack/echo/v4"
)

// CompanyHandlers handles HTTP requests for issuer profiles
type CompanyHandlers struct {
	companyService services.CompanyService
}

func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

// Create handles POST /api/companies
func (h *CompanyHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var company models.CompanyInfo
	if err := c.Bind(&company); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.companyService.Create(ctx, userID, &company); err != nil {
		return sendServiceError(c, err, "company")
	}
	return c.JSON(http.StatusCreated, company)
}

// List handles GET /api/companies
func (h *CompanyHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	companies, err := h.companyService.List(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "companies")
	}
	return c.JSON(http.StatusOK, companies)
}

// GetDefault handles GET /api/companies/default. The default profile seeds
// the issuer fields of a fresh draft.
func (h *CompanyHandlers) GetDefault(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	company, err := h.companyService.GetDefault(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "default company")
	}
	return c.JSON(http.StatusOK, company)
}

// Get handles GET /api/companies/:id
func (h *CompanyHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	company, err := h.companyService.GetByID(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "company")
	}
	return c.JSON(http.StatusOK, company)
}

// Update handles PUT /api/companies/:id
func (h *CompanyHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var company models.CompanyInfo
	if err := c.Bind(&company); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	company.ID = id

	if err := h.companyService.Update(ctx, userID, &company); err != nil {
		return sendServiceError(c, err, "company")
	}
	return c.JSON(http.StatusOK, company)
}

// SetDefault handles PUT /api/companies/:id/default
func (h *CompanyHandlers) SetDefault(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.companyService.SetDefault(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "company")
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String()})
}

// Delete handles DELETE /api/companies/:id
func (h *CompanyHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.companyService.Delete(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "company")
	}
	return c.NoContent(http.StatusNoContent)
}
