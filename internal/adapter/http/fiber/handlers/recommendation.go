package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/ports"
)

type RecommendationHandler struct {
	service ports.RecommendationService
	log     *zap.Logger
}

func NewRecommendationHandler(service ports.RecommendationService, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		log:     log,
	}
}

// Generate handles POST /api/v1/recommendations.
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	var req domain.RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	resp, err := h.service.Generate(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCustomerID):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "customer_id is required"})
		case errors.Is(err, domain.ErrCustomerNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		default:
			h.log.Error("Recommendation generation failed",
				zap.String("customer_id", req.CustomerID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate recommendations"})
		}
	}

	return c.JSON(resp)
}
