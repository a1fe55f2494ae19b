package controllers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/internal/pkg/mercadopago"
	"github.com/devdesignchile/midnigth/internal/pkg/subscription"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRepo struct {
	subs   map[uint]*models.Subscription
	owners map[string]uint
	flags  map[uint]bool
	events map[string]*models.SubscriptionWebhookEvent
	nextID uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		subs:   make(map[uint]*models.Subscription),
		owners: make(map[string]uint),
		flags:  make(map[uint]bool),
		events: make(map[string]*models.SubscriptionWebhookEvent),
	}
}

func (s *stubRepo) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	if sub, ok := s.subs[userID]; ok {
		return sub, nil
	}
	s.nextID++
	sub := &models.Subscription{ID: s.nextID, UserID: userID, ProviderStatus: models.SubscriptionPaused}
	s.subs[userID] = sub
	return sub, nil
}

func (s *stubRepo) GetSubscriptionByUserID(userID uint) (*models.Subscription, error) {
	if sub, ok := s.subs[userID]; ok {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) SaveSubscription(sub *models.Subscription) error {
	s.subs[sub.UserID] = sub
	return nil
}

func (s *stubRepo) ListSubscriptions() ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	return out, nil
}

func (s *stubRepo) FindOwnerUserIDByCompanyEmail(email string) (uint, error) {
	if userID, ok := s.owners[strings.ToLower(email)]; ok {
		return userID, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func (s *stubRepo) SetOwnerSubscribedFlag(userID uint, subscribed bool) error {
	s.flags[userID] = subscribed
	return nil
}

func (s *stubRepo) CreateWebhookEventIfNotExists(event *models.SubscriptionWebhookEvent) (bool, *models.SubscriptionWebhookEvent, error) {
	if stored, ok := s.events[event.ProviderEventID]; ok {
		return false, stored, nil
	}
	s.nextID++
	event.ID = s.nextID
	s.events[event.ProviderEventID] = event
	return true, event, nil
}

func (s *stubRepo) MarkWebhookProcessed(id uint, outcome subscription.Outcome, processingError string) error {
	for _, ev := range s.events {
		if ev.ID == id {
			now := time.Now()
			ev.Outcome = string(outcome)
			ev.ProcessedAt = &now
			ev.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubRepo) Transactional(fn func(subscription.Repository) error) error {
	return fn(s)
}

type stubProvider struct {
	preapprovals map[string]*mercadopago.Preapproval
	payments     map[string]*mercadopago.Payment
	err          error
}

func (s *stubProvider) GetPreapproval(_ context.Context, id string) (*mercadopago.Preapproval, error) {
	if s.err != nil {
		return nil, s.err
	}
	if pre, ok := s.preapprovals[id]; ok {
		return pre, nil
	}
	return nil, errors.New("preapproval not found")
}

func (s *stubProvider) GetPayment(_ context.Context, id string) (*mercadopago.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if pay, ok := s.payments[id]; ok {
		return pay, nil
	}
	return nil, errors.New("payment not found")
}

func (s *stubProvider) CancelPreapproval(_ context.Context, _ string) error {
	return s.err
}

func newWebhookTestApp(repo *stubRepo, provider *stubProvider) *fiber.App {
	InitializeSubscriptionService(subscription.NewService(repo, provider, "plan_42"))
	app := fiber.New()
	app.Post("/api/webhooks/mercadopago", HandleMercadoPagoWebhook)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body, requestID string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/mercadopago", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestHandleMercadoPagoWebhook_MalformedPayload(t *testing.T) {
	app := newWebhookTestApp(newStubRepo(), &stubProvider{})

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, `not json`, ""))
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, `{"type":"payment"}`, ""))
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, `{"data":{"id":"x"}}`, ""))
}

func TestHandleMercadoPagoWebhook_PaymentApplied(t *testing.T) {
	repo := newStubRepo()
	repo.owners["owner@club.cl"] = 5
	provider := &stubProvider{payments: map[string]*mercadopago.Payment{"987": {Status: "approved"}}}
	provider.payments["987"].Payer.Email = "owner@club.cl"
	app := newWebhookTestApp(repo, provider)

	status := postWebhook(t, app, `{"type":"payment","data":{"id":"987"}}`, "req-1")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.SubscriptionActive, repo.subs[5].ProviderStatus)
	assert.True(t, repo.flags[5])
}

func TestHandleMercadoPagoWebhook_DuplicateDelivery(t *testing.T) {
	repo := newStubRepo()
	repo.owners["owner@club.cl"] = 5
	provider := &stubProvider{payments: map[string]*mercadopago.Payment{"987": {Status: "approved"}}}
	provider.payments["987"].Payer.Email = "owner@club.cl"
	app := newWebhookTestApp(repo, provider)

	require.Equal(t, fiber.StatusOK, postWebhook(t, app, `{"type":"payment","data":{"id":"987"}}`, "req-1"))
	firstEnd := *repo.subs[5].ProviderPeriodEnd

	require.Equal(t, fiber.StatusOK, postWebhook(t, app, `{"type":"payment","data":{"id":"987"}}`, "req-1"))
	assert.Equal(t, firstEnd, *repo.subs[5].ProviderPeriodEnd)
}

func TestHandleMercadoPagoWebhook_OwnerNotFound(t *testing.T) {
	provider := &stubProvider{preapprovals: map[string]*mercadopago.Preapproval{
		"pre_1": {ID: "pre_1", Status: "authorized", PayerEmail: "stranger@example.com", PlanID: "plan_42"},
	}}
	app := newWebhookTestApp(newStubRepo(), provider)

	status := postWebhook(t, app, `{"type":"preapproval","data":{"id":"pre_1"}}`, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleMercadoPagoWebhook_PlanMismatchIgnored(t *testing.T) {
	repo := newStubRepo()
	repo.owners["owner@club.cl"] = 5
	provider := &stubProvider{preapprovals: map[string]*mercadopago.Preapproval{
		"pre_1": {ID: "pre_1", Status: "authorized", PayerEmail: "owner@club.cl", PlanID: "other_plan"},
	}}
	app := newWebhookTestApp(repo, provider)

	status := postWebhook(t, app, `{"type":"preapproval","data":{"id":"pre_1"}}`, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, repo.subs)
}

func TestHandleMercadoPagoWebhook_ProviderFailure(t *testing.T) {
	app := newWebhookTestApp(newStubRepo(), &stubProvider{err: errors.New("upstream 500")})

	status := postWebhook(t, app, `{"type":"preapproval","data":{"id":"pre_1"}}`, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
