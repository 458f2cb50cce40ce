package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// QuotationHandlers handles HTTP requests for quotations and their drafts
type QuotationHandlers struct {
	quotationService services.QuotationService
}

func NewQuotationHandlers(quotationService services.QuotationService) *QuotationHandlers {
	return &QuotationHandlers{quotationService: quotationService}
}

// sendServiceError maps service-layer error kinds onto the response
// envelope.
func sendServiceError(c echo.Context, err error, resource string) error {
	switch {
	case common.IsNotFound(err):
		return common.SendNotFoundError(c, resource)
	case common.IsValidation(err):
		return common.SendClientError(c, err.Error())
	case common.IsUnauthorized(err):
		return common.SendUnauthorizedError(c)
	default:
		return common.SendServerError(c, "Failed to process "+resource+": "+err.Error())
	}
}

type draftSaveRequest struct {
	ID   string                  `json:"id"`
	Data *document.QuotationData `json:"data"`
}

type draftSaveResponse struct {
	ID      string `json:"id"`
	SavedAt string `json:"savedAt"`
}

// SaveDraft handles POST /api/quotations/draft
// A request without an id creates a new draft; subsequent saves carry the
// returned id and update the same row.
func (h *QuotationHandlers) SaveDraft(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req draftSaveRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Data == nil {
		return common.SendValidationError(c, "data", "draft payload is required")
	}

	var id *uuid.UUID
	if req.ID != "" {
		parsed, err := common.ValidateUUID(req.ID, "id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		id = &parsed
	}

	savedID, err := h.quotationService.SaveDraft(ctx, userID, id, req.Data)
	if err != nil {
		return sendServiceError(c, err, "quotation draft")
	}

	return c.JSON(http.StatusOK, draftSaveResponse{
		ID:      savedID.String(),
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListDrafts handles GET /api/quotations/draft
func (h *QuotationHandlers) ListDrafts(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summaries, err := h.quotationService.ListDrafts(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "quotation drafts")
	}
	return c.JSON(http.StatusOK, summaries)
}

// LoadDraft handles GET /api/quotations/draft/:id
func (h *QuotationHandlers) LoadDraft(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, err := h.quotationService.LoadDraft(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "quotation draft")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":   id.String(),
		"data": data,
	})
}

// DeleteDraft handles DELETE /api/quotations/draft/:id
func (h *QuotationHandlers) DeleteDraft(c echo.Context) error {
	return h.Delete(c)
}

// List handles GET /api/quotations
func (h *QuotationHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quotations, err := h.quotationService.List(ctx, userID, limit, offset)
	if err != nil {
		return sendServiceError(c, err, "quotations")
	}
	return c.JSON(http.StatusOK, quotations)
}

// Get handles GET /api/quotations/:id
func (h *QuotationHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quotation, err := h.quotationService.GetByID(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "quotation")
	}
	return c.JSON(http.StatusOK, quotation)
}

// UpdateStatus handles PUT /api/quotations/:id/status
func (h *QuotationHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Status, "status"); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	if err := h.quotationService.UpdateStatus(ctx, userID, id, document.QuotationStatus(req.Status)); err != nil {
		return sendServiceError(c, err, "quotation")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// Delete handles DELETE /api/quotations/:id and its draft alias. Deletion
// is idempotent; deleting a missing quotation still returns 204.
func (h *QuotationHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.quotationService.Delete(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "quotation")
	}
	return c.NoContent(http.StatusNoContent)
}

// NextNumber handles GET /api/quotations/next-number
func (h *QuotationHandlers) NextNumber(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	number, err := h.quotationService.NextNumber(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "quotation number")
	}
	return c.JSON(http.StatusOK, map[string]string{"quotationNumber": number})
}
