package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/internal/pkg/subscription"
	"github.com/devdesignchile/midnigth/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

type subscribeConfirmRequest struct {
	PreapprovalID string `json:"preapproval_id"`
}

// HandleSubscribeConfirm is called when an owner returns from the
// provider checkout. The preapproval is fetched and applied with the
// same transition rules the webhook uses, so a lost webhook delivery
// does not strand a paying owner.
func HandleSubscribeConfirm(c *fiber.Ctx) error {
	var req subscribeConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}
	if strings.TrimSpace(req.PreapprovalID) == "" {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "preapproval_id is required")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome, err := svc.ApplyProviderEvent(ctx, subscription.ProviderEventInput{
		Kind:       "preapproval",
		ResourceID: req.PreapprovalID,
	}, time.Now())

	switch outcome {
	case subscription.OutcomeApplied:
	case subscription.OutcomeIgnored:
		return jsonError(c, fiber.StatusUnprocessableEntity, "not_applicable", "the preapproval does not belong to this service's plan")
	case subscription.OutcomeNotFound:
		return jsonError(c, fiber.StatusNotFound, "owner_not_found", "no owner matches the payer email")
	default:
		_ = err
		return jsonError(c, fiber.StatusBadGateway, "provider_lookup_failed", "could not verify the preapproval")
	}

	userCtx := usercontext.GetUserContext(c)
	sub, err := svc.GetForUser(ctx, userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load subscription")
	}
	return c.JSON(fiber.Map{"subscription": sub, "is_active": sub.IsActive(time.Now())})
}

// HandleSubscriptionStatus returns the calling owner's subscription.
func HandleSubscriptionStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := svc.GetForUser(ctx, userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load subscription")
	}
	return c.JSON(fiber.Map{"subscription": sub, "is_active": sub.IsActive(time.Now())})
}
