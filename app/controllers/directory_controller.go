package controllers

import (
	"errors"
	"time"

	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandlePing is a liveness probe.
func HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ping": "pong", "time": time.Now().Format(time.RFC3339)})
}

// HandleCommunesList returns all communes for city pickers.
func HandleCommunesList(c *fiber.Ctx) error {
	communes, err := repository.GetGlobalFactory().GetCommuneRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load communes")
	}
	return c.JSON(fiber.Map{"communes": communes})
}

// HandleCommunesFeatured returns communes ranked by visible content.
func HandleCommunesFeatured(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 8)
	if limit <= 0 || limit > 24 {
		limit = 8
	}
	communes, err := repository.GetGlobalFactory().GetCommuneRepository().GetFeatured(time.Now(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load communes")
	}
	return c.JSON(fiber.Map{"communes": communes})
}

// whenWindow maps the "when" query values to the end of the matching
// date window. Unknown values mean no window.
func whenWindow(when string, now time.Time) *time.Time {
	switch when {
	case "hoy":
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		return &end
	case "esta_semana":
		end := now.AddDate(0, 0, 7)
		return &end
	default:
		return nil
	}
}

// HandleVenuesList lists published venues for a city, hiding venues of
// owners without an effective subscription.
func HandleVenuesList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 24, 100)
	now := time.Now()
	filter := repository.VenueFilter{
		CommuneSlug:  c.Query("city"),
		Category:     c.Query("cat"),
		Query:        c.Query("q"),
		EventsBefore: whenWindow(c.Query("when"), now),
		Now:          now,
		Offset:       offset,
		Limit:        limit,
	}

	venues, err := repository.GetGlobalFactory().GetVenueRepository().ListPublished(filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load venues")
	}
	return c.JSON(fiber.Map{"venues": venues})
}

// HandleVenueBySlug returns one venue detail page worth of data.
func HandleVenueBySlug(c *fiber.Ctx) error {
	venue, err := repository.GetGlobalFactory().GetVenueRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load venue")
	}
	if !venue.IsPublished {
		return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
	}

	events, err := repository.GetGlobalFactory().GetEventRepository().ListPublished(repository.EventFilter{
		VenueID: venue.ID,
		Now:     time.Now(),
		Limit:   12,
	})
	if err != nil {
		events = nil
	}
	return c.JSON(fiber.Map{"venue": venue, "upcoming_events": events})
}

// HandleEventsList lists published upcoming events, optionally filtered
// by city, category, date window or featured-carousel membership.
func HandleEventsList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 24, 100)
	now := time.Now()
	filter := repository.EventFilter{
		CommuneSlug:  c.Query("city"),
		Category:     c.Query("cat"),
		FeaturedOnly: c.QueryBool("featured", false),
		To:           whenWindow(c.Query("when"), now),
		Now:          now,
		Offset:       offset,
		Limit:        limit,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &t
		}
	}

	events, err := repository.GetGlobalFactory().GetEventRepository().ListPublished(filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not load events")
	}
	return c.JSON(fiber.Map{"events": events})
}

// HandleSearch runs a combined venue and event name search.
func HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < 2 {
		return jsonError(c, fiber.StatusBadRequest, "query_too_short", "q must have at least 2 characters")
	}

	now := time.Now()
	repos := repository.GetGlobalFactory()
	venues, err := repos.GetVenueRepository().Search(query, now, 10)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "search failed")
	}
	events, err := repos.GetEventRepository().Search(query, now, 10)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "search failed")
	}
	return c.JSON(fiber.Map{"venues": venues, "events": events})
}
