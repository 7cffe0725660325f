package handler

import (
	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/trips/domain"
	"arrival-alert/internal/features/trips/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TripsHandler handles HTTP requests for the trip log.
type TripsHandler struct {
	recorder *service.Recorder
}

// NewTripsHandler creates a new TripsHandler.
func NewTripsHandler(recorder *service.Recorder) *TripsHandler {
	return &TripsHandler{recorder: recorder}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// ListTrips godoc
// @Summary List completed trips
// @Description Returns the trip log, most recent first, capped at the configured maximum.
// @Tags trips
// @Produce json
// @Success 200 {array} domain.TripRecord
// @Failure 500 {object} ErrorResponse
// @Router /trips [get]
func (h *TripsHandler) ListTrips(c *fiber.Ctx) error {
	records, err := h.recorder.List(c.Context())
	if err != nil {
		logger.Get().Error("Failed to list trips", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	if records == nil {
		records = []domain.TripRecord{}
	}

	return c.JSON(records)
}
