package controllers

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func parsePagination(c *fiber.Ctx, defaultLimit, maxLimit int) (offset, limit int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit, limit
}

// visitorKey builds an opaque per-visitor identity for click dedupe.
func visitorKey(c *fiber.Ctx) string {
	return strings.Join([]string{c.IP(), c.Get(fiber.HeaderUserAgent)}, "|")
}
