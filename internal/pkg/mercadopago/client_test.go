package mercadopago

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := &HTTPClient{
		AccessToken: "test-token",
		APIBaseURL:  srv.URL,
		Client:      srv.Client(),
	}
	return c, srv
}

func TestGetPreapproval(t *testing.T) {
	var gotAuth, gotPath string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pre_123",
			"status": "authorized",
			"payer_email": "owner@club.cl",
			"preapproval_plan_id": "plan_42",
			"next_payment_date": "2026-10-01T00:00:00.000-04:00"
		}`))
	}))
	defer srv.Close()

	pre, err := c.GetPreapproval(context.Background(), "pre_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotPath != "/preapproval/pre_123" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if pre.Status != "authorized" || pre.PayerEmail != "owner@club.cl" || pre.PlanID != "plan_42" {
		t.Fatalf("unexpected preapproval: %+v", pre)
	}
	if pre.NextPaymentDate == nil {
		t.Fatalf("expected next_payment_date to be parsed")
	}
}

func TestGetPreapproval_MissingID(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := c.GetPreapproval(context.Background(), "pre_123"); err == nil {
		t.Fatalf("expected error for response without id")
	}
}

func TestGetPayment_NumericID(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/987654" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id": 987654, "status": "approved", "payer": {"email": "owner@club.cl"}}`))
	}))
	defer srv.Close()

	pay, err := c.GetPayment(context.Background(), "987654")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pay.ID.String() != "987654" || pay.Status != "approved" || pay.Payer.Email != "owner@club.cl" {
		t.Fatalf("unexpected payment: %+v", pay)
	}
}

func TestGet_NonOKStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := c.GetPreapproval(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}

func TestCancelPreapproval(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"id": "pre_123", "status": "cancelled"}`))
	}))
	defer srv.Close()

	if err := c.CancelPreapproval(context.Background(), "pre_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMissingAccessToken(t *testing.T) {
	c := &HTTPClient{APIBaseURL: "http://localhost:0", Client: http.DefaultClient}
	if _, err := c.GetPreapproval(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without access token")
	}
}
