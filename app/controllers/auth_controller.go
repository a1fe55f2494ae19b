package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/devdesignchile/midnigth/internal/pkg/mercadopago"
	"github.com/devdesignchile/midnigth/internal/pkg/rut"
	"github.com/devdesignchile/midnigth/internal/pkg/session"
	"github.com/devdesignchile/midnigth/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type signupOwnerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	VenueName     string `json:"venue_name"`
	AdminName     string `json:"admin_name"`
	RUT           string `json:"rut"`
	CompanyEmail  string `json:"company_email"`
	CompanyDomain string `json:"company_domain"`
}

type signupGuestRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate *string `json:"birth_date"`
	City      string  `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignupOwner registers a venue-operator account: user, profile
// and the business data in one go. The RUT must carry a valid check
// digit; the company email is what provider webhooks are matched on.
func HandleSignupOwner(c *fiber.Ctx) error {
	var req signupOwnerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	if !rut.Valid(req.RUT) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_rut", "RUT check digit does not match")
	}
	normalizedRUT, _ := rut.Normalize(req.RUT)

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := userRepo.GetByEmail(user.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "an account with this email already exists")
	}
	if err := userRepo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create account")
	}

	profile := &models.Profile{UserID: user.ID, Role: models.RoleOwner}
	if err := userRepo.CreateProfile(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create profile")
	}

	owner := &models.OwnerProfile{
		ProfileID:     profile.ID,
		VenueName:     strings.TrimSpace(req.VenueName),
		AdminName:     strings.TrimSpace(req.AdminName),
		RUT:           normalizedRUT,
		CompanyEmail:  strings.ToLower(strings.TrimSpace(req.CompanyEmail)),
		CompanyDomain: strings.ToLower(strings.TrimSpace(req.CompanyDomain)),
	}
	if err := owner.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := userRepo.CreateOwnerProfile(owner); err != nil {
		return jsonError(c, fiber.StatusConflict, "company_taken", "company email or domain already registered")
	}

	if err := startSession(c, user, profile.Role); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not start session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_id": user.ID, "role": profile.Role})
}

// HandleSignupGuest registers a browsing account.
func HandleSignupGuest(c *fiber.Ctx) error {
	var req signupGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := userRepo.GetByEmail(user.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "an account with this email already exists")
	}
	if err := userRepo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create account")
	}

	profile := &models.Profile{UserID: user.ID, Role: models.RoleGuest}
	if err := userRepo.CreateProfile(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create profile")
	}

	guest := &models.GuestProfile{
		ProfileID: profile.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		City:      strings.TrimSpace(req.City),
	}
	if req.BirthDate != nil {
		if t, err := time.Parse("2006-01-02", *req.BirthDate); err == nil {
			guest.BirthDate = &t
		}
	}
	if err := userRepo.CreateGuestProfile(guest); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create guest profile")
	}

	if err := startSession(c, user, profile.Role); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not start session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_id": user.ID, "role": profile.Role})
}

// HandleLogin authenticates by email and password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "email or password is wrong")
	}
	if !user.IsActive() || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "email or password is wrong")
	}

	role := ""
	if profile, err := userRepo.GetProfileByUserID(user.ID); err == nil {
		role = profile.Role
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = userRepo.Update(user)

	if err := startSession(c, user, role); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not start session")
	}
	return c.JSON(fiber.Map{"user_id": user.ID, "role": role, "is_admin": user.Role == models.ROLE_ADMIN})
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleAccountDelete removes the calling account. For owners the
// provider-side recurring payment is cancelled best-effort first, then
// the local subscription is cancelled so the owner flag and listings
// react even if the row deletion cascades a moment later.
func HandleAccountDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	svc := getSubscriptionService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now()
	if sub, err := svc.GetForUser(ctx, userCtx.UserID); err == nil && sub.PreapprovalID != "" {
		mp := mercadopago.NewClientFromEnv()
		_ = mp.CancelPreapproval(ctx, sub.PreapprovalID)
	}
	if _, err := svc.Cancel(ctx, userCtx.UserID, "account deleted", now); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not cancel subscription")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if err := userRepo.Delete(userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "account not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not delete account")
	}

	if sess, err := session.GetSessionStore().Get(c); err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"ok": true})
}

func startSession(c *fiber.Ctx, user *models.User, role string) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyRole, role)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	return sess.Save()
}
