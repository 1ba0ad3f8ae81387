package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/ports"
)

type CustomerHandler struct {
	repo ports.CustomerRepository
	log  *zap.Logger
}

func NewCustomerHandler(repo ports.CustomerRepository, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		repo: repo,
		log:  log,
	}
}

// List handles GET /api/v1/customers.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.repo.ListCustomers(c.Context())
	if err != nil {
		h.log.Error("Failed to list customers", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load customers"})
	}
	return c.JSON(fiber.Map{"customers": customers})
}

// Get handles GET /api/v1/customers/:id.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	customer, err := h.repo.LoadCustomer(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		h.log.Error("Failed to load customer", zap.String("customer_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load customer"})
	}
	return c.JSON(customer)
}
