package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.mercadopago.com"

// Client resolves provider-side resources referenced by webhook deliveries.
type Client interface {
	GetPreapproval(ctx context.Context, id string) (*Preapproval, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
	CancelPreapproval(ctx context.Context, id string) error
}

// Preapproval is the recurring-payment resource behind a subscription.
type Preapproval struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	PayerEmail      string     `json:"payer_email"`
	PlanID          string     `json:"preapproval_plan_id"`
	Reason          string     `json:"reason"`
	NextPaymentDate *time.Time `json:"next_payment_date"`
}

// Payment is a single charge, recurring or one-off.
type Payment struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
	Payer  struct {
		Email string `json:"email"`
	} `json:"payer"`
	TransactionAmount float64 `json:"transaction_amount"`
}

// HTTPClient talks to the Mercado Pago REST API with a bearer token.
type HTTPClient struct {
	AccessToken string
	APIBaseURL  string

	Client *http.Client
}

func NewClientFromEnv() *HTTPClient {
	return &HTTPClient{
		AccessToken: strings.TrimSpace(env.GetEnv("MP_ACCESS_TOKEN", "")),
		APIBaseURL:  strings.TrimRight(env.GetEnv("MP_API_BASE_URL", defaultAPIBaseURL), "/"),
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *HTTPClient) GetPreapproval(ctx context.Context, id string) (*Preapproval, error) {
	body, err := c.get(ctx, "/preapproval/"+strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var out Preapproval
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("mercadopago preapproval response missing id")
	}
	return &out, nil
}

func (c *HTTPClient) GetPayment(ctx context.Context, id string) (*Payment, error) {
	body, err := c.get(ctx, "/v1/payments/"+strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var out Payment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelPreapproval stops the recurring payment on the provider side.
func (c *HTTPClient) CancelPreapproval(ctx context.Context, id string) error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return errors.New("MP_ACCESS_TOKEN is not configured")
	}

	payload := strings.NewReader(`{"status":"cancelled"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.APIBaseURL+"/preapproval/"+strings.TrimSpace(id), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mercadopago preapproval cancel failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, errors.New("MP_ACCESS_TOKEN is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mercadopago request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}
	return body, nil
}
