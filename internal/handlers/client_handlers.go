package handlers

import (
	"net/http"

	"quotabill/internal/common"
	"quotabill/internal/models"
	"quotabill/internal/services"

	"github.com/labstack/echo/v4"
)

// ClientHandlers handles HTTP requests for the client address book
type ClientHandlers struct {
	clientService services.ClientService
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{clientService: clientService}
}

// Create handles POST /api/clients
func (h *ClientHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var client models.Client
	if err := c.Bind(&client); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.clientService.Create(ctx, userID, &client); err != nil {
		return sendServiceError(c, err, "client")
	}
	return c.JSON(http.StatusCreated, client)
}

// List handles GET /api/clients
func (h *ClientHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clients, err := h.clientService.List(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "clients")
	}
	return c.JSON(http.StatusOK, clients)
}

// Get handles GET /api/clients/:id
func (h *ClientHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, id)
	if err != nil {
		return sendServiceError(c, err, "client")
	}
	return c.JSON(http.StatusOK, client)
}

// Update handles PUT /api/clients/:id
func (h *ClientHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var client models.Client
	if err := c.Bind(&client); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	client.ID = id

	if err := h.clientService.Update(ctx, userID, &client); err != nil {
		return sendServiceError(c, err, "client")
	}
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /api/clients/:id
func (h *ClientHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.clientService.Delete(ctx, userID, id); err != nil {
		return sendServiceError(c, err, "client")
	}
	return c.NoContent(http.StatusNoContent)
}
