package product

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/vendormitra/vendormitra-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.list)
	app.Get("/api/v1/products/:id", h.getByID)
	app.Get("/api/v1/categories", h.categories)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/supplier/products", h.listMine)
	app.Post("/api/v1/supplier/products", h.create)
	app.Put("/api/v1/supplier/products/:id", h.update)
	app.Delete("/api/v1/supplier/products/:id", h.delete)
}

type productRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Unit             string          `json:"unit"`
	Category         string          `json:"category"`
	StockQuantity    int             `json:"stockQuantity"`
	MinOrderQuantity int             `json:"minOrderQuantity"`
	ImageURL         string          `json:"imageUrl"`
	IsActive         *bool           `json:"isActive,omitempty"`
}

func (h *Handler) list(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

func (h *Handler) getByID(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	return c.JSON(p)
}

func (h *Handler) categories(c *fiber.Ctx) error {
	return c.JSON(AllowedCategories)
}

func (h *Handler) listMine(c *fiber.Ctx) error {
	supplierID, err := requireSupplier(c)
	if err != nil {
		return err
	}
	return c.JSON(h.service.ListBySupplier(supplierID))
}

func (h *Handler) create(c *fiber.Ctx) error {
	supplierID, err := requireSupplier(c)
	if err != nil {
		return err
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name == "" || payload.Unit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name and unit are required"})
	}
	if payload.MinOrderQuantity < 1 {
		payload.MinOrderQuantity = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	created, err := h.service.Create(Product{
		SupplierID:       supplierID,
		Name:             payload.Name,
		Description:      payload.Description,
		Price:            payload.Price,
		Unit:             payload.Unit,
		Category:         payload.Category,
		StockQuantity:    payload.StockQuantity,
		MinOrderQuantity: payload.MinOrderQuantity,
		ImageURL:         payload.ImageURL,
		IsActive:         active,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) update(c *fiber.Ctx) error {
	supplierID, err := requireSupplier(c)
	if err != nil {
		return err
	}

	existing, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	if existing.SupplierID != supplierID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not your product"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	existing.Name = payload.Name
	existing.Description = payload.Description
	existing.Price = payload.Price
	existing.Unit = payload.Unit
	existing.Category = payload.Category
	existing.StockQuantity = payload.StockQuantity
	if payload.MinOrderQuantity >= 1 {
		existing.MinOrderQuantity = payload.MinOrderQuantity
	}
	existing.ImageURL = payload.ImageURL
	if payload.IsActive != nil {
		existing.IsActive = *payload.IsActive
	}
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(existing.ID, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	supplierID, err := requireSupplier(c)
	if err != nil {
		return err
	}

	existing, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	if existing.SupplierID != supplierID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not your product"})
	}

	if err := h.service.Delete(existing.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// requireSupplier resolves the authenticated supplier id. The returned
// fiber errors are rendered by fiber's default error handler.
func requireSupplier(c *fiber.Ctx) (string, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", fiber.ErrUnauthorized
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return "", fiber.ErrUnauthorized
	}
	if role != user.RoleSupplier {
		return "", fiber.ErrForbidden
	}
	return userID, nil
}
