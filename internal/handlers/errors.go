package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// serviceError maps service-layer error sentinels onto HTTP statuses. Policy
// violations (conflict) are client errors, not server faults.
func serviceError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not_found"):
		return fiber.NewError(fiber.StatusNotFound, msg)
	case strings.Contains(msg, "badrequest"):
		return fiber.NewError(fiber.StatusBadRequest, msg)
	case strings.Contains(msg, "conflict"):
		return fiber.NewError(fiber.StatusBadRequest, msg)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}

func parseInt64Param(c fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, c.Params(name)))
	}
	return v, nil
}

func requireInt64Query(c fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s query parameter is required", name))
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, raw))
	}
	return v, nil
}

// optionalInt64Query returns nil when the parameter is absent.
func optionalInt64Query(c fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, raw))
	}
	return &v, nil
}

func intQueryOrDefault(c fiber.Ctx, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, raw))
	}
	return v, nil
}
