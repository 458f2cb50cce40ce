package handlers

import (
	"net/http"
	"time"

	"quotabill/internal/common"
	"quotabill/internal/services"

	"github.com/labstack/echo/v4"
)

// UploadHandlers handles logo uploads to object storage
type UploadHandlers struct {
	logoService services.LogoService
}

func NewUploadHandlers(logoService services.LogoService) *UploadHandlers {
	return &UploadHandlers{logoService: logoService}
}

const logoURLExpiry = 7 * 24 * time.Hour

// UploadLogo handles POST /api/upload/logo. Expects a multipart form with
// a "logo" file field, returns the object key and a presigned URL.
func (h *UploadHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "logo", "logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	objectName, err := h.logoService.Upload(ctx, userID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		return sendServiceError(c, err, "logo")
	}

	url, err := h.logoService.PresignedURL(objectName, logoURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL: "+err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"objectName": objectName,
		"url":        url,
	})
}

// GetLogoURL handles GET /api/upload/logo-url?object=...
func (h *UploadHandlers) GetLogoURL(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	objectName := c.QueryParam("object")
	if err := common.ValidateRequiredString(objectName, "object"); err != nil {
		return common.SendValidationError(c, "object", err.Error())
	}

	url, err := h.logoService.PresignedURL(objectName, logoURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
