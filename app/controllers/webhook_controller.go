package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/devdesignchile/midnigth/internal/pkg/database"
	"github.com/devdesignchile/midnigth/internal/pkg/subscription"
	"github.com/gofiber/fiber/v2"
)

var (
	subscriptionService *subscription.Service
	subscriptionSvcOnce sync.Once
)

// InitializeSubscriptionService injects the subscription service used by
// the webhook, subscribe and admin handlers.
func InitializeSubscriptionService(svc *subscription.Service) {
	subscriptionService = svc
}

func getSubscriptionService() *subscription.Service {
	subscriptionSvcOnce.Do(func() {
		if subscriptionService == nil {
			subscriptionService = subscription.NewServiceFromDB(database.GetDB())
		}
	})
	return subscriptionService
}

// HandleMercadoPagoWebhook ingests provider notifications. Malformed
// payloads get a 400 before anything is written; recognized events are
// recorded in the dedup ledger, applied, and answered per outcome.
func HandleMercadoPagoWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	event, err := subscription.ParseNotification(rawBody)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "unrecognized notification shape")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, subscription.WebhookEventInput{
		ProviderEventID: strings.TrimSpace(c.Get("X-Request-Id")),
		EventType:       event.Kind,
		ResourceID:      event.ResourceID,
		PayloadJSON:     string(rawBody),
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "webhook_persist_failed", "could not record notification")
	}
	if !created && stored.ProcessedAt != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}

	outcome, applyErr := svc.ApplyProviderEvent(ctx, event, time.Now())
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, outcome, applyErr)

	switch outcome {
	case subscription.OutcomeApplied:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	case subscription.OutcomeIgnored:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	case subscription.OutcomeNotFound:
		return jsonError(c, fiber.StatusNotFound, "owner_not_found", "no owner matches the payer")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "provider_lookup_failed", "could not resolve the notification")
	}
}
