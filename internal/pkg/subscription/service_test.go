package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/internal/pkg/mercadopago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	subs   map[uint]*models.Subscription
	owners map[string]uint
	flags  map[uint]bool
	events map[string]*models.SubscriptionWebhookEvent
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:   make(map[uint]*models.Subscription),
		owners: make(map[string]uint),
		flags:  make(map[uint]bool),
		events: make(map[string]*models.SubscriptionWebhookEvent),
	}
}

func (f *fakeRepo) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	if sub, ok := f.subs[userID]; ok {
		return sub, nil
	}
	f.nextID++
	sub := &models.Subscription{ID: f.nextID, UserID: userID, ProviderStatus: models.SubscriptionPaused}
	f.subs[userID] = sub
	return sub, nil
}

func (f *fakeRepo) GetSubscriptionByUserID(userID uint) (*models.Subscription, error) {
	if sub, ok := f.subs[userID]; ok {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) SaveSubscription(sub *models.Subscription) error {
	f.subs[sub.UserID] = sub
	return nil
}

func (f *fakeRepo) ListSubscriptions() ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.subs {
		out = append(out, *sub)
	}
	return out, nil
}

func (f *fakeRepo) FindOwnerUserIDByCompanyEmail(email string) (uint, error) {
	if userID, ok := f.owners[strings.ToLower(email)]; ok {
		return userID, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func (f *fakeRepo) SetOwnerSubscribedFlag(userID uint, subscribed bool) error {
	f.flags[userID] = subscribed
	return nil
}

func (f *fakeRepo) CreateWebhookEventIfNotExists(event *models.SubscriptionWebhookEvent) (bool, *models.SubscriptionWebhookEvent, error) {
	if stored, ok := f.events[event.ProviderEventID]; ok {
		return false, stored, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[event.ProviderEventID] = event
	return true, event, nil
}

func (f *fakeRepo) MarkWebhookProcessed(id uint, outcome Outcome, processingError string) error {
	for _, ev := range f.events {
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

func (f *fakeRepo) Transactional(fn func(Repository) error) error {
	return fn(f)
}

type fakeProvider struct {
	preapprovals map[string]*mercadopago.Preapproval
	payments     map[string]*mercadopago.Payment
	err          error
	cancelled    []string
}

func (f *fakeProvider) GetPreapproval(_ context.Context, id string) (*mercadopago.Preapproval, error) {
	if f.err != nil {
		return nil, f.err
	}
	if pre, ok := f.preapprovals[id]; ok {
		return pre, nil
	}
	return nil, errors.New("preapproval not found")
}

func (f *fakeProvider) GetPayment(_ context.Context, id string) (*mercadopago.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if pay, ok := f.payments[id]; ok {
		return pay, nil
	}
	return nil, errors.New("payment not found")
}

func (f *fakeProvider) CancelPreapproval(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return f.err
}

func newTestService(repo *fakeRepo, provider *fakeProvider) *Service {
	if provider == nil {
		provider = &fakeProvider{}
	}
	return NewService(repo, provider, "plan_42")
}

func strPtr(s string) *string { return &s }

func TestApplyOverrideActive_DefaultsThirtyDays(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr(models.SubscriptionActive)}, now)
	require.NoError(t, err)

	require.NotNil(t, sub.OverrideUntil)
	assert.Equal(t, now.AddDate(0, 0, 30), *sub.OverrideUntil)
	assert.Equal(t, models.SubscriptionActive, sub.ProviderStatus)
	require.NotNil(t, sub.ProviderPeriodEnd)
	assert.Equal(t, *sub.OverrideUntil, *sub.ProviderPeriodEnd)
	assert.True(t, sub.IsActive(now))
	assert.True(t, repo.flags[7])
}

func TestApplyOverrideActive_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()

	first, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr(models.SubscriptionActive)}, now)
	require.NoError(t, err)
	until := *first.OverrideUntil

	second, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr(models.SubscriptionActive)}, now)
	require.NoError(t, err)
	assert.Equal(t, until, *second.OverrideUntil)
}

func TestApplyOverrideActive_ExplicitFutureUntilKept(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()
	until := now.AddDate(0, 0, 90)

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{
		Status: strPtr(models.SubscriptionActive),
		Until:  &until,
		Reason: "sponsor deal",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, until, *sub.OverrideUntil)
	assert.Equal(t, "sponsor deal", sub.OverrideReason)
	assert.Equal(t, until, *sub.ProviderPeriodEnd)
}

func TestApplyOverrideActive_DoesNotLowerProviderPeriod(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()
	far := now.AddDate(0, 0, 120)
	repo.subs[7] = &models.Subscription{ID: 1, UserID: 7, ProviderStatus: models.SubscriptionActive, ProviderPeriodEnd: &far}

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr(models.SubscriptionActive)}, now)
	require.NoError(t, err)
	assert.Equal(t, far, *sub.ProviderPeriodEnd)
}

func TestApplyOverrideCancelled_RoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr(models.SubscriptionCancelled)}, now)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionCancelled, *sub.OverrideStatus)
	assert.Nil(t, sub.OverrideUntil)
	assert.Equal(t, "manually cancelled", sub.OverrideReason)
	assert.Equal(t, models.SubscriptionCancelled, sub.ProviderStatus)
	assert.Equal(t, now, *sub.ProviderPeriodEnd)
	assert.False(t, sub.IsActive(now))
	assert.False(t, repo.flags[7])
}

func TestClearOverride_KeepsValidProviderPeriod(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()
	end := now.AddDate(0, 0, 14)
	active := models.SubscriptionActive
	repo.subs[7] = &models.Subscription{
		ID: 1, UserID: 7,
		ProviderStatus:    models.SubscriptionActive,
		ProviderPeriodEnd: &end,
		OverrideStatus:    &active,
		OverrideReason:    "promo",
	}

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{}, now)
	require.NoError(t, err)

	assert.Nil(t, sub.OverrideStatus)
	assert.Nil(t, sub.OverrideUntil)
	assert.Empty(t, sub.OverrideReason)
	assert.Equal(t, models.SubscriptionActive, sub.ProviderStatus)
	assert.Equal(t, end, *sub.ProviderPeriodEnd)
	assert.True(t, repo.flags[7])
}

func TestClearOverride_ForcesPauseWhenExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()
	past := now.AddDate(0, 0, -1)
	active := models.SubscriptionActive
	repo.subs[7] = &models.Subscription{
		ID: 1, UserID: 7,
		ProviderStatus:    models.SubscriptionActive,
		ProviderPeriodEnd: &past,
		OverrideStatus:    &active,
	}

	sub, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{}, now)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionPaused, sub.ProviderStatus)
	assert.Equal(t, now, *sub.ProviderPeriodEnd)
	assert.False(t, repo.flags[7])
}

func TestApplyOverride_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	_, err := svc.ApplyOverride(context.Background(), 7, OverrideInput{Status: strPtr("SUSPENDED")}, time.Now())
	require.Error(t, err)
}

func TestSetOwnerSubscribed_CreatesSubscription(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()

	sub, err := svc.SetOwnerSubscribed(context.Background(), 9, true, now)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionActive, *sub.OverrideStatus)
	assert.Equal(t, now.AddDate(0, 0, 30), *sub.OverrideUntil)
	assert.True(t, sub.IsActive(now))
	assert.True(t, repo.flags[9])
}

func TestSetOwnerSubscribed_Disable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	now := time.Now()
	end := now.AddDate(0, 0, 20)
	repo.subs[9] = &models.Subscription{ID: 1, UserID: 9, ProviderStatus: models.SubscriptionActive, ProviderPeriodEnd: &end}

	sub, err := svc.SetOwnerSubscribed(context.Background(), 9, false, now)
	require.NoError(t, err)

	assert.Nil(t, sub.OverrideStatus)
	assert.Equal(t, models.SubscriptionPaused, sub.ProviderStatus)
	assert.Equal(t, now, *sub.ProviderPeriodEnd)
	assert.False(t, sub.IsActive(now))
	assert.False(t, repo.flags[9])
}

func TestApplyProviderEvent_PaymentApprovedExtends(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["owner@club.cl"] = 5
	now := time.Now()
	end := now.AddDate(0, 0, 5)
	repo.subs[5] = &models.Subscription{ID: 1, UserID: 5, ProviderStatus: models.SubscriptionPaused, ProviderPeriodEnd: &end}

	provider := &fakeProvider{payments: map[string]*mercadopago.Payment{
		"987": {Status: "approved"},
	}}
	provider.payments["987"].Payer.Email = "Owner@Club.CL"
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "payment", ResourceID: "987"}, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	sub := repo.subs[5]
	assert.Equal(t, models.SubscriptionActive, sub.ProviderStatus)
	assert.Equal(t, end.AddDate(0, 0, 31), *sub.ProviderPeriodEnd)
	assert.True(t, repo.flags[5])
}

func TestApplyProviderEvent_PaymentExtendsFromNowWhenExpired(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["owner@club.cl"] = 5
	now := time.Now()
	past := now.AddDate(0, 0, -40)
	repo.subs[5] = &models.Subscription{ID: 1, UserID: 5, ProviderStatus: models.SubscriptionCancelled, ProviderPeriodEnd: &past}

	provider := &fakeProvider{payments: map[string]*mercadopago.Payment{"987": {Status: "approved"}}}
	provider.payments["987"].Payer.Email = "owner@club.cl"
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "payment", ResourceID: "987"}, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, now.AddDate(0, 0, 31), *repo.subs[5].ProviderPeriodEnd)
}

func TestApplyProviderEvent_PaymentNotApprovedIgnored(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["owner@club.cl"] = 5
	provider := &fakeProvider{payments: map[string]*mercadopago.Payment{"987": {Status: "rejected"}}}
	provider.payments["987"].Payer.Email = "owner@club.cl"
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "payment", ResourceID: "987"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, repo.subs)
}

func TestApplyProviderEvent_PreapprovalAuthorized(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["owner@club.cl"] = 5
	now := time.Now()
	provider := &fakeProvider{preapprovals: map[string]*mercadopago.Preapproval{
		"pre_1": {ID: "pre_1", Status: "authorized", PayerEmail: "owner@club.cl", PlanID: "plan_42"},
	}}
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "subscription_preapproval", ResourceID: "pre_1"}, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	sub := repo.subs[5]
	assert.Equal(t, models.SubscriptionActive, sub.ProviderStatus)
	assert.Equal(t, "pre_1", sub.PreapprovalID)
	assert.Equal(t, now.AddDate(0, 0, 31), *sub.ProviderPeriodEnd)
	assert.True(t, repo.flags[5])
}

func TestApplyProviderEvent_PreapprovalPausedAndCancelled(t *testing.T) {
	for status, want := range map[string]string{
		"paused":    models.SubscriptionPaused,
		"cancelled": models.SubscriptionCancelled,
	} {
		repo := newFakeRepo()
		repo.owners["owner@club.cl"] = 5
		provider := &fakeProvider{preapprovals: map[string]*mercadopago.Preapproval{
			"pre_1": {ID: "pre_1", Status: status, PayerEmail: "owner@club.cl", PlanID: "plan_42"},
		}}
		svc := newTestService(repo, provider)

		outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "preapproval", ResourceID: "pre_1"}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)
		assert.Equal(t, want, repo.subs[5].ProviderStatus)
		assert.Nil(t, repo.subs[5].ProviderPeriodEnd)
	}
}

func TestApplyProviderEvent_PlanMismatchIgnored(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["owner@club.cl"] = 5
	provider := &fakeProvider{preapprovals: map[string]*mercadopago.Preapproval{
		"pre_1": {ID: "pre_1", Status: "authorized", PayerEmail: "owner@club.cl", PlanID: "other_plan"},
	}}
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "preapproval", ResourceID: "pre_1"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, repo.subs)
}

func TestApplyProviderEvent_UnknownEmailNotFound(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{preapprovals: map[string]*mercadopago.Preapproval{
		"pre_1": {ID: "pre_1", Status: "authorized", PayerEmail: "stranger@example.com", PlanID: "plan_42"},
	}}
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "preapproval", ResourceID: "pre_1"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)
	assert.Empty(t, repo.subs)
}

func TestApplyProviderEvent_ProviderFailure(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeProvider{err: errors.New("upstream 500")}
	svc := newTestService(repo, provider)

	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "preapproval", ResourceID: "pre_1"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, OutcomeError, outcome)
}

func TestApplyProviderEvent_UnknownKindIgnored(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	outcome, err := svc.ApplyProviderEvent(context.Background(), ProviderEventInput{Kind: "chargebacks", ResourceID: "1"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
}

func TestRecordWebhookEvent_Dedup(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	created, first, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		ProviderEventID: "evt_1",
		EventType:       "payment",
		ResourceID:      "987",
		PayloadJSON:     `{"type":"payment"}`,
	})
	require.NoError(t, err)
	assert.True(t, created)

	createdAgain, second, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		ProviderEventID: "evt_1",
		EventType:       "payment",
		PayloadJSON:     `{"type":"payment"}`,
	})
	require.NoError(t, err)
	assert.False(t, createdAgain)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecordWebhookEvent_HashFallbackID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	created, ev, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{PayloadJSON: `{"id":"x"}`})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(ev.ProviderEventID, "hash:"))

	createdAgain, _, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{PayloadJSON: `{"id":"x"}`})
	require.NoError(t, err)
	assert.False(t, createdAgain)
}
