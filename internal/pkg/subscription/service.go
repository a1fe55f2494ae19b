package subscription

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/internal/pkg/env"
	"github.com/devdesignchile/midnigth/internal/pkg/mercadopago"
	"gorm.io/gorm"
)

const (
	// OverrideGrantDays is the default length of a staff-granted override.
	OverrideGrantDays = 30
	// BillingIntervalDays is the paid-through extension per provider event.
	BillingIntervalDays = 31

	reasonManualCancel = "manually cancelled"
	reasonFlagEnabled  = "enabled from owner profile"
	reasonFlagDisabled = "disabled from owner profile"
)

// Service reconciles provider-reported subscription state with staff
// overrides and keeps the owner profile's subscribed flag aligned.
type Service struct {
	repo     Repository
	provider mercadopago.Client

	// planID, when set, restricts lifecycle events to one preapproval plan.
	planID string
}

// NewService creates a subscription service from injected dependencies.
func NewService(repo Repository, provider mercadopago.Client, planID string) *Service {
	return &Service{repo: repo, provider: provider, planID: strings.TrimSpace(planID)}
}

// NewServiceFromDB wires the service with the GORM repository and the
// env-configured Mercado Pago client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), mercadopago.NewClientFromEnv(), env.GetEnv("MP_PREAPPROVAL_PLAN_ID", ""))
}

// GetForUser returns the user's subscription, creating it on first touch.
func (s *Service) GetForUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}
	return s.repo.GetOrCreateSubscription(userID)
}

// List returns all subscriptions for staff display.
func (s *Service) List(ctx context.Context) ([]models.Subscription, error) {
	_ = ctx
	return s.repo.ListSubscriptions()
}

// ApplyOverride applies a staff override to the user's subscription and
// normalizes the provider fields to match the override's intent. The owner
// profile's subscribed flag is refreshed in the same transaction.
func (s *Service) ApplyOverride(ctx context.Context, userID uint, in OverrideInput, now time.Time) (*models.Subscription, error) {
	_ = ctx
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}
	if in.Status != nil {
		switch *in.Status {
		case models.SubscriptionActive, models.SubscriptionPaused, models.SubscriptionCancelled:
		default:
			return nil, errors.New("unknown override status: " + *in.Status)
		}
	}

	var out *models.Subscription
	err := s.repo.Transactional(func(repo Repository) error {
		sub, err := repo.GetOrCreateSubscription(userID)
		if err != nil {
			return err
		}
		applyOverride(sub, in, now)
		if err := repo.SaveSubscription(sub); err != nil {
			return err
		}
		out = sub
		return repo.SetOwnerSubscribedFlag(userID, sub.IsActive(now))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyOverride mutates sub in place according to the override transition
// rules. Provider fields follow the override so that listing queries built
// on either signal agree with the effective status.
func applyOverride(sub *models.Subscription, in OverrideInput, now time.Time) {
	switch {
	case in.Status != nil && *in.Status == models.SubscriptionActive:
		active := models.SubscriptionActive
		sub.OverrideStatus = &active
		if in.Until != nil && in.Until.After(now) {
			until := *in.Until
			sub.OverrideUntil = &until
		} else if sub.OverrideUntil == nil || !sub.OverrideUntil.After(now) {
			until := now.AddDate(0, 0, OverrideGrantDays)
			sub.OverrideUntil = &until
		}
		if in.Reason != "" {
			sub.OverrideReason = in.Reason
		}
		sub.ProviderStatus = models.SubscriptionActive
		if sub.ProviderPeriodEnd == nil || sub.ProviderPeriodEnd.Before(*sub.OverrideUntil) {
			end := *sub.OverrideUntil
			sub.ProviderPeriodEnd = &end
		}

	case in.Status != nil && *in.Status == models.SubscriptionCancelled:
		cancelled := models.SubscriptionCancelled
		sub.OverrideStatus = &cancelled
		sub.OverrideUntil = nil
		if in.Reason != "" {
			sub.OverrideReason = in.Reason
		} else if sub.OverrideReason == "" {
			sub.OverrideReason = reasonManualCancel
		}
		sub.ProviderStatus = models.SubscriptionCancelled
		end := now
		sub.ProviderPeriodEnd = &end

	default:
		// Clear the override, then re-evaluate before touching provider
		// fields: a subscription still inside its paid period stays active.
		sub.OverrideStatus = nil
		sub.OverrideUntil = nil
		sub.OverrideReason = ""
		if !sub.IsActive(now) {
			sub.ProviderStatus = models.SubscriptionPaused
			end := now
			sub.ProviderPeriodEnd = &end
		}
	}
}

// SetOwnerSubscribed handles a direct edit of the owner profile's subscribed
// checkbox. Enabling grants a standard override; disabling clears the
// override and cuts the provider period.
func (s *Service) SetOwnerSubscribed(ctx context.Context, userID uint, subscribed bool, now time.Time) (*models.Subscription, error) {
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}

	if subscribed {
		active := models.SubscriptionActive
		return s.ApplyOverride(ctx, userID, OverrideInput{Status: &active, Reason: reasonFlagEnabled}, now)
	}

	var out *models.Subscription
	err := s.repo.Transactional(func(repo Repository) error {
		sub, err := repo.GetOrCreateSubscription(userID)
		if err != nil {
			return err
		}
		sub.OverrideStatus = nil
		sub.OverrideUntil = nil
		sub.OverrideReason = reasonFlagDisabled
		sub.ProviderStatus = models.SubscriptionPaused
		end := now
		sub.ProviderPeriodEnd = &end
		if err := repo.SaveSubscription(sub); err != nil {
			return err
		}
		out = sub
		return repo.SetOwnerSubscribedFlag(userID, false)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel applies the manual-cancel transition, used by account deletion.
func (s *Service) Cancel(ctx context.Context, userID uint, reason string, now time.Time) (*models.Subscription, error) {
	cancelled := models.SubscriptionCancelled
	return s.ApplyOverride(ctx, userID, OverrideInput{Status: &cancelled, Reason: reason}, now)
}

// ApplyProviderEvent resolves an inbound webhook notification against the
// provider API and applies the resulting state transition.
func (s *Service) ApplyProviderEvent(ctx context.Context, in ProviderEventInput, now time.Time) (Outcome, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	id := strings.TrimSpace(in.ResourceID)
	if kind == "" || id == "" {
		return OutcomeError, errors.New("event kind and resource id are required")
	}

	switch {
	case strings.Contains(kind, "preapproval"):
		return s.applyPreapprovalEvent(ctx, id, now)
	case strings.Contains(kind, "payment"):
		return s.applyPaymentEvent(ctx, id, now)
	default:
		return OutcomeIgnored, nil
	}
}

func (s *Service) applyPreapprovalEvent(ctx context.Context, id string, now time.Time) (Outcome, error) {
	pre, err := s.provider.GetPreapproval(ctx, id)
	if err != nil {
		return OutcomeError, err
	}
	if s.planID != "" && pre.PlanID != s.planID {
		return OutcomeIgnored, nil
	}

	var status string
	switch strings.ToLower(pre.Status) {
	case "authorized":
		status = models.SubscriptionActive
	case "paused":
		status = models.SubscriptionPaused
	case "cancelled":
		status = models.SubscriptionCancelled
	default:
		return OutcomeIgnored, nil
	}

	return s.applyToOwner(ctx, pre.PayerEmail, now, func(sub *models.Subscription) {
		sub.PreapprovalID = pre.ID
		sub.ProviderStatus = status
		if status == models.SubscriptionActive {
			extendPeriod(sub, now)
		}
	})
}

func (s *Service) applyPaymentEvent(ctx context.Context, id string, now time.Time) (Outcome, error) {
	pay, err := s.provider.GetPayment(ctx, id)
	if err != nil {
		return OutcomeError, err
	}
	if !strings.EqualFold(pay.Status, "approved") {
		return OutcomeIgnored, nil
	}

	return s.applyToOwner(ctx, pay.Payer.Email, now, func(sub *models.Subscription) {
		sub.ProviderStatus = models.SubscriptionActive
		extendPeriod(sub, now)
	})
}

func (s *Service) applyToOwner(ctx context.Context, payerEmail string, now time.Time, mutate func(*models.Subscription)) (Outcome, error) {
	_ = ctx
	email := strings.TrimSpace(payerEmail)
	if email == "" {
		return OutcomeNotFound, nil
	}

	userID, err := s.repo.FindOwnerUserIDByCompanyEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeError, err
	}

	err = s.repo.Transactional(func(repo Repository) error {
		sub, err := repo.GetOrCreateSubscription(userID)
		if err != nil {
			return err
		}
		mutate(sub)
		if err := repo.SaveSubscription(sub); err != nil {
			return err
		}
		return repo.SetOwnerSubscribedFlag(userID, sub.IsActive(now))
	})
	if err != nil {
		return OutcomeError, err
	}
	return OutcomeApplied, nil
}

// extendPeriod pushes the paid-through date one billing interval past
// max(now, current period end). Redelivered events therefore drift the
// date by at most one interval instead of stacking extensions.
func extendPeriod(sub *models.Subscription, now time.Time) {
	base := now
	if sub.ProviderPeriodEnd != nil && sub.ProviderPeriodEnd.After(now) {
		base = *sub.ProviderPeriodEnd
	}
	end := base.AddDate(0, 0, BillingIntervalDays)
	sub.ProviderPeriodEnd = &end
}

// RecordWebhookEvent persists webhook payloads idempotently. Deliveries
// without a provider event id fall back to a payload hash.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.SubscriptionWebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.SubscriptionWebhookEvent{
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		ResourceID:      strings.TrimSpace(in.ResourceID),
		PayloadJSON:     in.PayloadJSON,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed records the outcome of a processed event.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, outcome Outcome, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, outcome, errMsg)
}
