package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type eventRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`

	StartAt time.Time  `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`

	FlyerImageURL     string `json:"flyer_image_url"`
	EyebrowText       string `json:"eyebrow_text"`
	BadgeText         string `json:"badge_text"`
	ExternalTicketURL string `json:"external_ticket_url"`

	IsPublished *bool `json:"is_published"`
}

func (req *eventRequest) apply(event *models.Event) {
	event.Title = strings.TrimSpace(req.Title)
	event.Category = req.Category
	event.StartAt = req.StartAt
	event.EndAt = req.EndAt
	event.FlyerImageURL = req.FlyerImageURL
	event.EyebrowText = req.EyebrowText
	event.BadgeText = req.BadgeText
	event.ExternalTicketURL = req.ExternalTicketURL
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}
}

// HandleOwnerVenueEventsList lists events of one owned venue.
func HandleOwnerVenueEventsList(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}
	events, err := repository.GetGlobalFactory().GetEventRepository().GetByVenue(venue.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load events")
	}
	return c.JSON(fiber.Map{"events": events})
}

// HandleOwnerVenueEventCreate adds an event to one owned venue. The
// event inherits the venue's commune.
func HandleOwnerVenueEventCreate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "venue id must be numeric")
	}
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	venue, err := ownedVenue(c, id)
	if err != nil {
		return venueAccessError(c, err)
	}

	eventRepo := repository.GetGlobalFactory().GetEventRepository()
	event := &models.Event{
		CommuneID:   venue.CommuneID,
		VenueID:     &venue.ID,
		IsPublished: true,
	}
	req.apply(event)

	slugValue, err := uniqueSlug(event.Title, eventRepo.SlugExists)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not derive slug")
	}
	event.Slug = slugValue

	if err := validate.Struct(event); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := eventRepo.Create(event); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not create event")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

// HandleOwnerEventUpdate edits an event on one of the caller's venues.
func HandleOwnerEventUpdate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "event id must be numeric")
	}
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	event, err := ownedEvent(c, id)
	if err != nil {
		return eventAccessError(c, err)
	}

	req.apply(event)
	if err := validate.Struct(event); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetEventRepository().Update(event); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not update event")
	}
	return c.JSON(fiber.Map{"event": event})
}

// HandleOwnerEventDelete removes an event from one of the caller's venues.
func HandleOwnerEventDelete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "event id must be numeric")
	}

	event, err := ownedEvent(c, id)
	if err != nil {
		return eventAccessError(c, err)
	}
	if err := repository.GetGlobalFactory().GetEventRepository().Delete(event.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not delete event")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ownedEvent loads an event and checks its venue belongs to the caller.
func ownedEvent(c *fiber.Ctx, id uint) (*models.Event, error) {
	event, err := repository.GetGlobalFactory().GetEventRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if event.VenueID == nil {
		return nil, errNotOwned
	}
	if _, err := ownedVenue(c, *event.VenueID); err != nil {
		return nil, err
	}
	return event, nil
}

func eventAccessError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "event not found")
	}
	if errors.Is(err, errNotOwned) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "event does not belong to this account")
	}
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load event")
}
