package handlers

import (
	"prediction-api/internal/models"
	"prediction-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/jobs", h.ListCompletedByAOI)
	app.Get("/jobs/:job_id", h.GetJob)
	app.Post("/jobs", h.CreateJobs)
}

// ListCompletedByAOI returns the AOI's completed jobs with their images and
// prediction features nested underneath.
func (h *JobHandler) ListCompletedByAOI(c fiber.Ctx) error {
	aoiID, err := requireInt64Query(c, "aoiId")
	if err != nil {
		return err
	}

	jobs, err := h.jobService.ListCompletedByAOI(c.Context(), aoiID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(services.JobsResponse{Jobs: jobs})
}

func (h *JobHandler) GetJob(c fiber.Ctx) error {
	id, err := parseInt64Param(c, "job_id")
	if err != nil {
		return err
	}

	job, err := h.jobService.GetJob(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(job)
}

func (h *JobHandler) CreateJobs(c fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	jobs, err := h.jobService.CreateJobs(c.Context(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(jobs)
}
