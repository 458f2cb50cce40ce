package handlers

import (
	"net/http"

	"quotabill/internal/common"
	"quotabill/internal/models"
	"quotabill/internal/services"

	"github.com/labstack/echo/v4"
)

// BankAccountHandlers handles HTTP requests for payment details
type BankAccountHandlers struct {
	bankService services.BankAccountService
}

func NewBankAccountHandlers(bankService services.BankAccountService) *BankAccountHandlers {
	return &BankAccountHandlers{bankService: bankService}
}

// Create handles POST /api/bank-accounts
func (h *BankAccountHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var account models.BankAccount
	if err := c.Bind(&account); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.bankService.Create(ctx, userID, &account); err != nil {
		return sendServiceError(c, err, "bank account")
	}
	return c.JSON(http.StatusCreated, account)
}

// List handles GET /api/bank-accounts
func (h *BankAccountHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	accounts, err := h.bankService.List(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "bank accounts")
	}
	return c.JSON(http.StatusOK, accounts)
}

// Get handles GET /api/bank-accounts/:id
func (h *BankAccountHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	account, err := h.bankService.GetByID(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "bank account")
	}
	return c.JSON(http.StatusOK, account)
}

// Update handles PUT /api/bank-accounts/:id
func (h *BankAccountHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var account models.BankAccount
	if err := c.Bind(&account); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	account.ID = id

	if err := h.bankService.Update(ctx, userID, &account); err != nil {
		return sendServiceError(c, err, "bank account")
	}
	return c.JSON(http.StatusOK, account)
}

// SetDefault handles PUT /api/bank-accounts/:id/default
func (h *BankAccountHandlers) SetDefault(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.bankService.SetDefault(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "bank account")
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String()})
}

// Delete handles DELETE /api/bank-accounts/:id
func (h *BankAccountHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.bankService.Delete(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "bank account")
	}
	return c.NoContent(http.StatusNoContent)
}
