package handlers

import (
	"prediction-api/internal/catalog"
	"prediction-api/internal/geo"
	"prediction-api/internal/models"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type PredictionHandler struct {
	predictionService *services.PredictionService
	catalogClient     *catalog.Client
}

func NewPredictionHandler(predictionService *services.PredictionService, catalogClient *catalog.Client) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		catalogClient:     catalogClient,
	}
}

func (h *PredictionHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/predictions", h.List)
	app.Get("/predictions-by-day-and-aoi", h.ByDayAndAOI)
	app.Get("/images-by-day", h.ImagesByDay)
	app.Post("/predictions", h.Dispatch)
	app.Post("/prediction-request", h.SearchScenes)
}

func (h *PredictionHandler) List(c fiber.Ctx) error {
	limit, err := intQueryOrDefault(c, "limit", 0)
	if err != nil {
		return err
	}

	collection, err := h.predictionService.List(c.Context(), limit)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(collection)
}

// ByDayAndAOI returns predictions for one AOI on one UTC day, optionally
// filtered by model and minimum confidence.
func (h *PredictionHandler) ByDayAndAOI(c fiber.Ctx) error {
	day, err := requireInt64Query(c, "day")
	if err != nil {
		return err
	}
	aoiID, err := requireInt64Query(c, "aoiId")
	if err != nil {
		return err
	}
	limit, err := intQueryOrDefault(c, "limit", 0)
	if err != nil {
		return err
	}

	query := services.DayQuery{
		Day:     day,
		AOIID:   aoiID,
		ModelID: c.Query("modelId"),
		Limit:   limit,
	}
	if c.Query("accuracyLimit") != "" {
		accuracyLimit, err := intQueryOrDefault(c, "accuracyLimit", 0)
		if err != nil {
			return err
		}
		query.AccuracyLimit = &accuracyLimit
	}

	collection, err := h.predictionService.ByDayAndAOI(c.Context(), query)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(collection)
}

func (h *PredictionHandler) ImagesByDay(c fiber.Ctx) error {
	aoiID, err := requireInt64Query(c, "aoiId")
	if err != nil {
		return err
	}

	byDay, err := h.predictionService.ImagesByDay(c.Context(), aoiID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(byDay)
}

// Dispatch triggers the external prediction pipeline for the given jobs.
func (h *PredictionHandler) Dispatch(c fiber.Ctx) error {
	var req models.DispatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	results, err := h.predictionService.Dispatch(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(results)
}

// SearchScenes queries the imagery catalog for scenes covering the submitted
// polygon within the requested time range.
func (h *PredictionHandler) SearchScenes(c fiber.Ctx) error {
	var req models.PredictionRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if len(req.Geometry) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "geometry is required")
	}
	if _, err := geo.PolygonFromGeoJSON(req.Geometry); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.EndDate.Before(req.StartDate) {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must not be after end_date")
	}

	scenes, err := h.catalogClient.Search(c.Context(), req.Geometry, req.StartDate, req.EndDate)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(scenes)
}
