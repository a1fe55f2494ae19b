package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/devdesignchile/midnigth/internal/pkg/subscription"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type overrideRequest struct {
	Status *string    `json:"status"`
	Until  *time.Time `json:"until"`
	Reason string     `json:"reason"`
}

type bulkOverrideRequest struct {
	Action  string `json:"action"`
	UserIDs []uint `json:"user_ids"`
}

type subscribedRequest struct {
	Subscribed bool `json:"subscribed"`
}

type verifyRequest struct {
	Verified bool `json:"verified"`
}

type subscriptionView struct {
	models.Subscription
	IsActive bool `json:"is_active"`
}

// HandleAdminSubscriptionsList shows every subscription with its
// effective status at request time. status=active|inactive narrows the
// list by that effective status.
func HandleAdminSubscriptionsList(c *fiber.Ctx) error {
	statusFilter := c.Query("status")
	if statusFilter != "" && statusFilter != "active" && statusFilter != "inactive" {
		return jsonError(c, fiber.StatusBadRequest, "invalid_status", "status must be active or inactive")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subs, err := svc.List(ctx)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load subscriptions")
	}

	now := time.Now()
	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		active := sub.IsActive(now)
		if statusFilter == "active" && !active || statusFilter == "inactive" && active {
			continue
		}
		views = append(views, subscriptionView{Subscription: sub, IsActive: active})
	}
	return c.JSON(fiber.Map{"subscriptions": views})
}

// HandleAdminSubscriptionOverride edits the override of one user's
// subscription, creating the row when the user was never touched before.
func HandleAdminSubscriptionOverride(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "user id must be numeric")
	}
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	sub, err := svc.ApplyOverride(ctx, userID, subscription.OverrideInput{
		Status: req.Status,
		Until:  req.Until,
		Reason: req.Reason,
	}, now)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "override_failed", err.Error())
	}
	return c.JSON(fiber.Map{"subscription": subscriptionView{Subscription: *sub, IsActive: sub.IsActive(now)}})
}

// HandleAdminSubscriptionsBulk applies one of the staff bulk actions to
// a set of users: courtesy30 (30-day override), pause or clear.
func HandleAdminSubscriptionsBulk(c *fiber.Ctx) error {
	var req bulkOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}
	if len(req.UserIDs) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "user_ids must not be empty")
	}

	var in subscription.OverrideInput
	switch req.Action {
	case "courtesy30":
		active := models.SubscriptionActive
		in = subscription.OverrideInput{Status: &active, Reason: "30-day courtesy"}
	case "pause":
		paused := models.SubscriptionPaused
		in = subscription.OverrideInput{Status: &paused}
	case "clear":
		in = subscription.OverrideInput{}
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid_action", "action must be courtesy30, pause or clear")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	applied := 0
	failed := make([]uint, 0)
	for _, userID := range req.UserIDs {
		if _, err := svc.ApplyOverride(ctx, userID, in, now); err != nil {
			failed = append(failed, userID)
			continue
		}
		applied++
	}
	return c.JSON(fiber.Map{"applied": applied, "failed": failed})
}

// HandleAdminOwnersList pages through owner profiles.
func HandleAdminOwnersList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 50, 200)
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	owners, err := userRepo.ListOwnerProfiles(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load owners")
	}
	total, err := userRepo.CountOwnerProfiles()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not count owners")
	}
	return c.JSON(fiber.Map{"owners": owners, "total": total})
}

// HandleAdminOwnerSubscribed toggles the denormalized subscribed flag.
// The write goes through the subscription service so the checkbox and
// the override state can never disagree.
func HandleAdminOwnerSubscribed(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "owner id must be numeric")
	}
	var req subscribedRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	owner, err := repository.GetGlobalFactory().GetUserRepository().GetOwnerProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "owner not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load owner")
	}
	if owner.Profile == nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "owner has no linked profile")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	sub, err := svc.SetOwnerSubscribed(ctx, owner.Profile.UserID, req.Subscribed, now)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not update subscription")
	}
	return c.JSON(fiber.Map{
		"subscription":  subscriptionView{Subscription: *sub, IsActive: sub.IsActive(now)},
		"is_subscribed": sub.IsActive(now),
	})
}

// HandleAdminOwnerVerify flips the staff verification badge.
func HandleAdminOwnerVerify(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "owner id must be numeric")
	}
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := userRepo.GetOwnerProfileByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "owner not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load owner")
	}
	if err := userRepo.SetOwnerVerified(id, req.Verified); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not update owner")
	}
	return c.JSON(fiber.Map{"ok": true, "verified": req.Verified})
}
