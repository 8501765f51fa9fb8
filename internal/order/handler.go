package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vendormitra/vendormitra-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.list)
	app.Post("/api/v1/orders", h.checkout)
	app.Get("/api/v1/orders/:id", h.getByID)
	app.Post("/api/v1/orders/:id/cancel", h.cancel)
	app.Patch("/api/v1/orders/:id/status", h.updateStatus)
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	status := c.Query("status", "all")
	if status != "all" && !Status(status).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status filter"})
	}

	var orders []Order
	if role == user.RoleSupplier {
		orders, err = h.service.ListForSupplier(c.UserContext(), userID, status)
	} else {
		orders, err = h.service.ListForVendor(c.UserContext(), userID, status)
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getByID(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := h.service.GetForUser(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(o)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.DeliveryAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "deliveryAddress is required"})
	}

	orders, err := h.service.Checkout(c.UserContext(), userID, payload.DeliveryAddress, payload.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "empty cart"})
		case IsRejection(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(orders)
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := h.service.Cancel(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case IsRejection(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(o)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil || role != user.RoleSupplier {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "supplier account required"})
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	next := Status(payload.Status)
	if !next.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
	}

	o, err := h.service.UpdateStatus(c.UserContext(), userID, c.Params("id"), next)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case IsRejection(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(o)
}
