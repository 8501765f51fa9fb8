package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vendormitra/vendormitra-backend/internal/order"
	"github.com/vendormitra/vendormitra-backend/internal/user"
)

type Handler struct {
	client *Client
	orders *order.Service
	users  *user.Service
}

func NewHandler(client *Client, orders *order.Service, users *user.Service) *Handler {
	return &Handler{client: client, orders: orders, users: users}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payments/initiate", h.initiate)
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// the gateway posts here; authenticity comes from the MAC, not a JWT
	app.Post("/api/v1/payments/webhook", h.webhook)
}

type initiateRequest struct {
	OrderID     string `json:"orderId"`
	RedirectURL string `json:"redirectUrl"`
}

func (h *Handler) initiate(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(initiateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "orderId is required"})
	}

	o, err := h.orders.GetForUser(c.UserContext(), userID, payload.OrderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	if o.VendorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "only the ordering vendor can pay"})
	}
	if o.PaymentStatus == order.PaymentPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "order already paid"})
	}

	buyer, err := h.users.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	res, err := h.client.CreatePaymentRequest(c.UserContext(), Request{
		Purpose:     "VendorMitra order " + o.OrderNumber,
		Amount:      o.TotalAmount,
		BuyerName:   buyer.FullName,
		Email:       buyer.Email,
		Phone:       buyer.Phone,
		RedirectURL: payload.RedirectURL,
	})
	if err != nil {
		if errors.Is(err, ErrGatewayUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.orders.AttachPayment(c.UserContext(), o.ID, res.PaymentRequestID); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"paymentRequestId": res.PaymentRequestID,
		"paymentUrl":       res.PaymentURL,
	})
}

func (h *Handler) webhook(c *fiber.Ctx) error {
	payload := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		payload[string(key)] = string(value)
	})

	if !h.client.VerifyWebhook(payload) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid mac"})
	}

	requestID := payload["payment_request_id"]
	if requestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing payment_request_id"})
	}

	o, err := h.orders.FindByPaymentID(c.UserContext(), requestID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "unknown payment request"})
	}

	status := order.PaymentFailed
	if payload["status"] == "Credit" {
		status = order.PaymentPaid
	}

	if _, err := h.orders.MarkPayment(c.UserContext(), o.ID, status, payload["payment_id"]); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	}

	return c.SendStatus(fiber.StatusOK)
}
