package handler

import (
	"errors"
	"time"

	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/tracking/domain"
	"arrival-alert/internal/features/tracking/ports"
	"arrival-alert/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for the tracking engine.
type TrackingHandler struct {
	tracker *service.Tracker
	ingest  ports.SampleIngest
	status  ports.StatusReader
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(tracker *service.Tracker, ingest ports.SampleIngest, status ports.StatusReader) *TrackingHandler {
	return &TrackingHandler{
		tracker: tracker,
		ingest:  ingest,
		status:  status,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// StartRequest is the body for starting a tracking session.
type StartRequest struct {
	// Latitude of the resolved destination.
	Latitude float64 `json:"latitude"`
	// Longitude of the resolved destination.
	Longitude float64 `json:"longitude"`
	// Name is the destination display name.
	Name string `json:"name"`
}

// StartResponse carries the created session.
type StartResponse struct {
	SessionID   string `json:"session_id"`
	Destination string `json:"destination"`
}

// PositionRequest is the body for a device position report.
type PositionRequest struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_m"`
	SpeedMS        *float64  `json:"speed_ms,omitempty"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
}

// StartTracking godoc
// @Summary Start a tracking session
// @Description Begins proximity tracking toward the given destination, replacing any running session.
// @Tags tracking
// @Accept json
// @Produce json
// @Param destination body StartRequest true "Resolved destination"
// @Success 201 {object} StartResponse
// @Failure 400 {object} ErrorResponse
// @Router /tracking/start [post]
func (h *TrackingHandler) StartTracking(c *fiber.Ctx) error {
	var req StartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	destination := domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}

	session, err := h.tracker.Start(destination, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrDestinationUnresolved) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "destination is unresolved: name and valid coordinates are required",
				RayID:   c.Locals("requestid").(string),
			})
		}

		logger.Get().Error("Failed to start tracking", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(StartResponse{
		SessionID:   session.ID,
		Destination: session.DestinationName,
	})
}

// StopTracking godoc
// @Summary Stop the active tracking session
// @Description Ends tracking. Stopping when nothing is tracking is a no-op.
// @Tags tracking
// @Produce json
// @Success 200 {object} map[string]string
// @Router /tracking/stop [post]
func (h *TrackingHandler) StopTracking(c *fiber.Ctx) error {
	h.tracker.Stop()
	return c.JSON(fiber.Map{"message": "tracking stopped"})
}

// ReportPosition godoc
// @Summary Report a device position
// @Description Feeds a position sample into the tracking engine.
// @Tags tracking
// @Accept json
// @Produce json
// @Param position body PositionRequest true "Position sample"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /tracking/position [post]
func (h *TrackingHandler) ReportPosition(c *fiber.Ctx) error {
	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	coordinate := domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !coordinate.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "coordinates out of range",
			RayID:   c.Locals("requestid").(string),
		})
	}

	h.ingest.Publish(domain.PositionSample{
		Coordinate:     coordinate,
		AccuracyMeters: req.AccuracyMeters,
		SpeedMS:        req.SpeedMS,
		Timestamp:      req.Timestamp,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "position accepted"})
}

// GetStatus godoc
// @Summary Get the latest tracking status
// @Description Returns the most recent distance/speed/accuracy snapshot.
// @Tags tracking
// @Produce json
// @Success 200 {object} domain.StatusUpdate
// @Failure 404 {object} ErrorResponse
// @Router /tracking/status [get]
func (h *TrackingHandler) GetStatus(c *fiber.Ctx) error {
	update, err := h.status.Status(c.Context())
	if err != nil {
		logger.Get().Error("Failed to read tracking status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	if update == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no tracking status yet",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(update)
}
