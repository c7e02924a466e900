package handlers

import (
	"prediction-api/internal/models"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type AOIHandler struct {
	aoiService *services.AOIService
}

func NewAOIHandler(aoiService *services.AOIService) *AOIHandler {
	return &AOIHandler{aoiService: aoiService}
}

func (h *AOIHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/aoi-centers", h.ListCenters)
	app.Get("/aoi", h.List)
	app.Get("/aoi/:aoi_id", h.GetAOI)
	app.Post("/aoi", h.CreateAOI)
}

// ListCenters returns one centroid feature per AOI in the bbox.
func (h *AOIHandler) ListCenters(c fiber.Ctx) error {
	collection, err := h.aoiService.ListCenters(c.Context(), c.Query("bbox"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(collection)
}

// List returns full AOI polygons with detection counts at the given
// confidence threshold.
func (h *AOIHandler) List(c fiber.Ctx) error {
	threshold, err := intQueryOrDefault(c, "threshold", -1)
	if err != nil {
		return err
	}

	collection, err := h.aoiService.List(c.Context(), c.Query("bbox"), threshold)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(collection)
}

func (h *AOIHandler) GetAOI(c fiber.Ctx) error {
	id, err := parseInt64Param(c, "aoi_id")
	if err != nil {
		return err
	}

	aoi, err := h.aoiService.GetAOI(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(aoi)
}

func (h *AOIHandler) CreateAOI(c fiber.Ctx) error {
	var req models.CreateAOIRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	aoi, err := h.aoiService.CreateAOI(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(aoi)
}
