// Package handler contains the HTTP handlers of the local API.
package handler

import (
	"net/http"

	"bistro/internal/delivery/api/response"
	"bistro/internal/delivery/api/validator"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// validationFailed writes the 400 response for a failed c.Validate.
func validationFailed(c echo.Context, err error) error {
	var details any = err.Error()
	if fields := validator.FieldErrors(err); len(fields) > 0 {
		details = fields
	}

	return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Request validation failed", details)
}
