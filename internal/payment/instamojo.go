package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ErrGatewayUnavailable is returned while the circuit breaker is open. The
// caller may retry later; the client never retries on its own.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Config struct {
	APIKey    string
	AuthToken string
	Salt      string
	BaseURL   string
}

// Request describes a payment to collect through the gateway.
type Request struct {
	Purpose     string          `json:"purpose"`
	Amount      decimal.Decimal `json:"amount"`
	BuyerName   string          `json:"buyerName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	RedirectURL string          `json:"redirectUrl"`
	WebhookURL  string          `json:"webhookUrl,omitempty"`
}

// Validate applies the gateway's field rules before any network call.
func (r Request) Validate() []string {
	var problems []string
	if len(r.Purpose) < 3 {
		problems = append(problems, "purpose must be at least 3 characters long")
	}
	if r.Amount.LessThan(decimal.NewFromInt(1)) {
		problems = append(problems, "amount must be at least 1")
	}
	if len(r.BuyerName) < 2 {
		problems = append(problems, "buyer name must be at least 2 characters long")
	}
	if !emailPattern.MatchString(r.Email) {
		problems = append(problems, "invalid email address")
	}
	if !phonePattern.MatchString(strings.TrimPrefix(r.Phone, "+91")) {
		problems = append(problems, "invalid phone number")
	}
	if r.RedirectURL == "" {
		problems = append(problems, "redirect url is required")
	}
	return problems
}

// Response is the subset of the gateway's create-payment-request reply the
// app needs: the id to correlate webhooks with, and the url to send the
// buyer to.
type Response struct {
	PaymentRequestID string
	PaymentURL       string
}

type createResponse struct {
	Success        bool `json:"success"`
	PaymentRequest struct {
		ID      string `json:"id"`
		Longurl string `json:"longurl"`
		Status  string `json:"status"`
	} `json:"payment_request"`
	Message string `json:"message"`
}

// Client talks to the Instamojo API. Calls go through a circuit breaker so
// a flapping gateway fails fast instead of tying up checkout requests.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	salt    string
}

func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("X-Api-Key", cfg.APIKey).
		SetHeader("X-Auth-Token", cfg.AuthToken)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "instamojo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{http: httpClient, breaker: breaker, salt: cfg.Salt}
}

// CreatePaymentRequest registers a payment with the gateway and returns the
// id and redirect url. Failures are retryable by the caller.
func (c *Client) CreatePaymentRequest(ctx context.Context, req Request) (Response, error) {
	if problems := req.Validate(); len(problems) > 0 {
		return Response{}, fmt.Errorf("invalid payment request: %s", strings.Join(problems, "; "))
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out createResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"purpose":      req.Purpose,
				"amount":       req.Amount.StringFixed(2),
				"buyer_name":   req.BuyerName,
				"email":        req.Email,
				"phone":        req.Phone,
				"redirect_url": req.RedirectURL,
				"webhook":      req.WebhookURL,
			}).
			SetResult(&out).
			Post("payment-requests/")
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			return nil, fmt.Errorf("gateway returned %s", res.Status())
		}
		if !out.Success && out.PaymentRequest.ID == "" {
			return nil, fmt.Errorf("gateway refused payment request: %s", out.Message)
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Response{}, ErrGatewayUnavailable
		}
		return Response{}, err
	}

	out := result.(createResponse)
	return Response{
		PaymentRequestID: out.PaymentRequest.ID,
		PaymentURL:       out.PaymentRequest.Longurl,
	}, nil
}

// VerifyMAC checks a webhook payload's signature: HMAC-SHA1 over the values
// of all fields except "mac", joined with '|' in key order, keyed with the
// account salt.
func VerifyMAC(payload map[string]string, salt string) bool {
	mac, ok := payload["mac"]
	if !ok || mac == "" {
		return false
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k != "mac" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, payload[k])
	}

	h := hmac.New(sha1.New, []byte(salt))
	h.Write([]byte(strings.Join(values, "|")))
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(mac)))
}

// VerifyWebhook checks a payload against the client's configured salt.
func (c *Client) VerifyWebhook(payload map[string]string) bool {
	return VerifyMAC(payload, c.salt)
}
