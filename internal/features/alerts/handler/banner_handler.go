package handler

import (
	"arrival-alert/internal/core/logger"
	"arrival-alert/internal/features/alerts/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BannerHandler handles HTTP requests for the in-app banner.
type BannerHandler struct {
	banners ports.BannerStore
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(banners ports.BannerStore) *BannerHandler {
	return &BannerHandler{banners: banners}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetBanner godoc
// @Summary Get the current in-app banner
// @Description Returns the active alert banner, if any.
// @Tags alerts
// @Produce json
// @Success 200 {object} domain.Banner
// @Failure 404 {object} ErrorResponse
// @Router /banner [get]
func (h *BannerHandler) GetBanner(c *fiber.Ctx) error {
	banner, err := h.banners.Current(c.Context())
	if err != nil {
		logger.Get().Error("Failed to get banner", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	if banner == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no active banner",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(banner)
}

// DismissBanner godoc
// @Summary Dismiss the current banner
// @Description Clears the active alert banner.
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]string
// @Router /banner [delete]
func (h *BannerHandler) DismissBanner(c *fiber.Ctx) error {
	if err := h.banners.Clear(c.Context()); err != nil {
		logger.Get().Error("Failed to dismiss banner", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(fiber.Map{"message": "banner dismissed"})
}
