package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

type invoiceSaveRequest struct {
	ID   string                `json:"id"`
	Data *document.InvoiceData `json:"data"`
}

// Create handles POST /api/invoices
func (h *InvoiceHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req invoiceSaveRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Data == nil {
		return common.SendValidationError(c, "data", "invoice payload is required")
	}

	id, err := h.invoiceService.Save(ctx, userID, nil, req.Data)
	if err != nil {
		return sendServiceError(c, err, "invoice")
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": id.String()})
}

// Update handles PUT /api/invoices/:id
func (h *InvoiceHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req invoiceSaveRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Data == nil {
		return common.SendValidationError(c, "data", "invoice payload is required")
	}

	if _, err := h.invoiceService.Save(ctx, userID, &id, req.Data); err != nil {
		return sendServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String()})
}

// List handles GET /api/invoices
func (h *InvoiceHandlers) List(c echo.Context) error {
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

	invoices, err := h.invoiceService.List(ctx, userID, limit, offset)
	if err != nil {
		return sendServiceError(c, err, "invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// ListForQuotation handles GET /api/quotations/:id/invoices
func (h *InvoiceHandlers) ListForQuotation(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quotationID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoices, err := h.invoiceService.ListForQuotation(ctx, userID, quotationID)
	if err != nil {
		return sendServiceError(c, err, "invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get handles GET /api/invoices/:id
func (h *InvoiceHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, err := h.invoiceService.Load(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":   id.String(),
		"data": data,
	})
}

// UpdateStatus handles PUT /api/invoices/:id/status
func (h *InvoiceHandlers) UpdateStatus(c echo.Context) error {
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

	if err := h.invoiceService.UpdateStatus(ctx, userID, id, document.InvoiceStatus(req.Status)); err != nil {
		return sendServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// MarkPaid handles POST /api/invoices/:id/payment
func (h *InvoiceHandlers) MarkPaid(c echo.Context) error {
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
		PaidDate         string  `json:"paidDate"`
		PaidAmount       float64 `json:"paidAmount"`
		PaymentReference string  `json:"paymentReference"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	paidDate := time.Now()
	if req.PaidDate != "" {
		parsed, err := time.Parse(document.DateFormat, req.PaidDate)
		if err != nil {
			return common.SendValidationError(c, "paidDate", "must be in YYYY-MM-DD format")
		}
		paidDate = parsed
	}

	if err := h.invoiceService.MarkPaid(ctx, userID, id, paidDate, req.PaidAmount, req.PaymentReference); err != nil {
		return sendServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "paid"})
}

// Delete handles DELETE /api/invoices/:id
func (h *InvoiceHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.Delete(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "invoice")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateFromQuotation handles POST /api/invoices/from-quotation
func (h *InvoiceHandlers) CreateFromQuotation(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		QuotationID string            `json:"quotation_id"`
		BankInfo    document.BankInfo `json:"bankInfo"`
		BankInfoID  string            `json:"bankInfoId,omitempty"`
		PONumber    string            `json:"poNumber,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	quotationID, err := common.ValidateUUID(req.QuotationID, "quotation_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.CreateFromQuotation(ctx, userID, quotationID, services.FromQuotationInput{
		BankInfo:   req.BankInfo,
		BankInfoID: req.BankInfoID,
		PONumber:   req.PONumber,
	})
	if err != nil {
		return sendServiceError(c, err, "quotation")
	}
	return c.JSON(http.StatusCreated, invoice)
}
