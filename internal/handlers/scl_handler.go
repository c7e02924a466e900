package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type SCLHandler struct {
	sclService *services.SCLService
}

func NewSCLHandler(sclService *services.SCLService) *SCLHandler {
	return &SCLHandler{sclService: sclService}
}

func (h *SCLHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/scl", h.Query)
}

// Query returns scene classification vectors matching the filters. The
// classification parameter is a comma-separated list of taxonomy codes.
func (h *SCLHandler) Query(c fiber.Ctx) error {
	classifications, err := parseClassifications(c.Query("classification"))
	if err != nil {
		return err
	}

	imageID, err := optionalInt64Query(c, "imageId")
	if err != nil {
		return err
	}
	aoiID, err := optionalInt64Query(c, "aoiId")
	if err != nil {
		return err
	}
	day, err := optionalInt64Query(c, "day")
	if err != nil {
		return err
	}

	collection, err := h.sclService.Query(c.Context(), services.SCLQuery{
		Classifications: classifications,
		ImageID:         imageID,
		AOIID:           aoiID,
		Day:             day,
		Geometry:        c.Query("geometry"),
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(collection)
}

func parseClassifications(param string) ([]int, error) {
	if param == "" {
		return nil, nil
	}

	parts := strings.Split(param, ",")
	codes := make([]int, 0, len(parts))
	for _, part := range parts {
		code, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid classification value: %s", part))
		}
		codes = append(codes, code)
	}
	return codes, nil
}
