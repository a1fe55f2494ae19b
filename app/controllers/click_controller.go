package controllers

import (
	"errors"

	"github.com/devdesignchile/midnigth/internal/pkg/clicks"
	"github.com/devdesignchile/midnigth/internal/pkg/database"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type clickRequest struct {
	Target   string `json:"target"`
	TargetID uint   `json:"target_id"`
}

// HandleClick counts an outbound interest click on a venue or event.
// Repeat clicks from the same visitor inside the dedupe window are
// acknowledged but not counted.
func HandleClick(c *fiber.Ctx) error {
	var req clickRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "could not parse request body")
	}

	tracker := clicks.NewTracker(database.GetDB())
	counted, err := tracker.Track(req.Target, req.TargetID, visitorKey(c))
	if err != nil {
		if errors.Is(err, clicks.ErrUnknownTarget) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_target", "target must be venue or event")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "target not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "could not record click")
	}
	return c.JSON(fiber.Map{"ok": true, "counted": counted})
}
