package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vendormitra/vendormitra-backend/internal/product"
	"github.com/vendormitra/vendormitra-backend/internal/user"
)

// Handler delegates cart operations to the cart service. Rejections come
// back as 422 with the reason so the frontend can show it verbatim; store
// failures are 503 and retryable.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productId", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:productId", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	state, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return respondCartError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId is required"})
	}

	state, err := h.service.AddItem(c.UserContext(), userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return respondCartError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(updateQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	state, err := h.service.UpdateQuantity(c.UserContext(), userID, c.Params("productId"), payload.Quantity)
	if err != nil {
		return respondCartError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	state, err := h.service.RemoveItem(c.UserContext(), userID, c.Params("productId"))
	if err != nil {
		return respondCartError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if _, err := h.service.Clear(c.UserContext(), userID); err != nil {
		return respondCartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func respondCartError(c *fiber.Ctx, err error) error {
	switch {
	case IsRejection(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, product.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}
}
