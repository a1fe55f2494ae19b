package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/devdesignchile/midnigth/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type venueRequest struct {
	CommuneID uint   `json:"commune_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`

	CoverImageURL string   `json:"cover_image_url"`
	LogoURL       string   `json:"logo_url"`
	VibeTags      []string `json:"vibe_tags"`

	Description     string `json:"description"`
	MinAge          *uint8 `json:"min_age"`
	DressCode       string `json:"dress_code"`
	PaymentMethods  string `json:"payment_methods"`
	ExperienceVenue string `json:"experience_venue"`

	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Website        string `json:"website"`
	Instagram      string `json:"instagram"`
	ReservationURL string `json:"reservation_url"`

	HoursShort       string `json:"hours_short"`
	Highlights1      string `json:"highlights_1"`
	Highlights2      string `json:"highlights_2"`
	Highlights3      string `json:"highlights_3"`
	RecommendedTitle string `json:"recommended_title"`
	RecommendedBody  string `json:"recommended_body"`
	MenuPDFURL       string `json:"menu_pdf_url"`
	MenuQRURL        string `json:"menu_qr_url"`
	Promo1           string `json:"promo_1"`
	Promo2           string `json:"promo_2"`
	Promo3           string `json:"promo_3"`

	IsPublished *bool `json:"is_published"`
}

type photoRequest struct {
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	SortOrder uint8  `json:"sort_order"`
}

// uniqueSlug derives a URL slug from name, suffixing on collision.
func uniqueSlug(name string, exists func(string) (bool, error)) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "sin-nombre"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (req *venueRequest) apply(venue *models.Venue) {
	venue.CommuneID = req.CommuneID
	venue.Name = strings.TrimSpace(req.Name)
	venue.Category = req.Category
	venue.CoverImageURL = req.CoverImageURL
	venue.LogoURL = req.LogoURL
	venue.Description = req.Description
	venue.MinAge = req.MinAge
	venue.DressCode = req.DressCode
	venue.PaymentMethods = req.PaymentMethods
	venue.ExperienceVenue = req.ExperienceVenue
	venue.Address = req.Address
	venue.Phone = req.Phone
	venue.Website = req.Website
	venue.Instagram = req.Instagram
	venue.ReservationURL = req.ReservationURL
	venue.HoursShort = req.HoursShort
	venue.Highlights1 = req.Highlights1
	venue.Highlights2 = req.Highlights2
	venue.Highlights3 = req.Highlights3
	if req.RecommendedTitle != "" {
		venue.RecommendedTitle = req.RecommendedTitle
	}
	venue.RecommendedBody = req.RecommendedBody
	venue.MenuPDFURL = req.MenuPDFURL
	venue.MenuQRURL = req.MenuQRURL
	venue.Promo1 = req.Promo1
	venue.Promo2 = req.Promo2
	venue.Promo3 = req.Promo3
	if req.IsPublished != nil {
		venue.IsPublished = *req.IsPublished
	}
}

// ownedVenue loads a venue and checks it belongs to the calling owner.
// Admins may edit any venue.
func ownedVenue(c *fiber.Ctx, id uint) (*models.Venue, error) {
	venue, err := repository.GetGlobalFactory().GetVenueRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	userCtx := usercontext.GetUserContext(c)
	if userCtx.IsAdmin {
		return venue, nil
	}
	if venue.OwnerUserID == nil || *venue.OwnerUserID != userCtx.UserID {
		return nil, errNotOwned
	}
	return venue, nil
}

var errNotOwned = errors.New("venue does not belong to this account")

// HandleOwnerVenuesList returns the calling owner's venues.
func HandleOwnerVenuesList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	venues, err := repository.GetGlobalFactory().GetVenueRepository().GetByOwner(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load venues")
	}
	return c.JSON(fiber.Map{"venues": venues})
}

// HandleOwnerVenueCreate creates a venue for the calling owner.
func HandleOwnerVenueCreate(c *fiber.Ctx) error {
	var req venueRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	userCtx := usercontext.GetUserContext(c)
	venueRepo := repository.GetGlobalFactory().GetVenueRepository()

	venue := &models.Venue{OwnerUserID: &userCtx.UserID, IsPublished: true}
	req.apply(venue)

	slugValue, err := uniqueSlug(venue.Name, venueRepo.SlugExists)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not derive slug")
	}
	venue.Slug = slugValue

	if err := validate.Struct(venue); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := venueRepo.Create(venue); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create venue")
	}
	if len(req.VibeTags) > 0 {
		_ = venueRepo.ReplaceTags(venue, req.VibeTags)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"venue": venue})
}

// HandleOwnerVenueUpdate edits one of the calling owner's venues.
func HandleOwnerVenueUpdate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}
	var req venueRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}

	req.apply(venue)
	if err := validate.Struct(venue); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	venueRepo := repository.GetGlobalFactory().GetVenueRepository()
	if err := venueRepo.Update(venue); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not update venue")
	}
	if req.VibeTags != nil {
		_ = venueRepo.ReplaceTags(venue, req.VibeTags)
	}
	return c.JSON(fiber.Map{"venue": venue})
}

// HandleOwnerVenueDelete removes one of the calling owner's venues.
func HandleOwnerVenueDelete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}
	if err := repository.GetGlobalFactory().GetVenueRepository().Delete(venue.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not delete venue")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleOwnerVenuePhotoAdd attaches a gallery photo URL to a venue.
func HandleOwnerVenuePhotoAdd(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}
	var req photoRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "image_url is required")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}

	photo := &models.Photo{
		VenueID:   venue.ID,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
	}
	if err := repository.GetGlobalFactory().GetVenueRepository().AddPhoto(photo); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not add photo")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photo": photo})
}

// HandleOwnerVenuePhotoDelete removes a gallery photo by its UUID.
func HandleOwnerVenuePhotoDelete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}
	if err := repository.GetGlobalFactory().GetVenueRepository().DeletePhoto(venue.ID, c.Params("uuid")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "photo not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not delete photo")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func venueAccessError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
	}
	if errors.Is(err, errNotOwned) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "venue does not belong to this account")
	}
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load venue")
}
