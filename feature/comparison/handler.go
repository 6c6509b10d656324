package comparison

import (
	"errors"
	"fmt"

	"tablediff/core/compare"
	"tablediff/core/diff"
	"tablediff/core/errs"
	"tablediff/core/export"
	"tablediff/core/logger"
	"tablediff/core/results"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparison runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/comparisons")
	group.Post("/", h.HandleStart)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleCancel)
	group.Get("/:id/results", h.HandleResults)
	group.Get("/:id/export", h.HandleExport)
	group.Post("/:id/export/publish", h.HandlePublish)
	group.Get("/:id/export/published", h.HandlePublished)
	group.Post("/:id/dispatch", h.HandleDispatch)
}

// ResultsResponse is a run with its ordered records.
type ResultsResponse struct {
	Comparison *results.Run  `json:"comparison"`
	Results    []diff.Record `json:"results"`
}

// HandleStart starts a comparison.
// @Summary Start Comparison
// @Description Compares a source and a target table by key. Runs in the background unless wait=true.
// @Tags comparisons
// @Accept json
// @Produce json
// @Param request body compare.Request true "Comparison request"
// @Param wait query boolean false "Wait for the run to finish"
// @Success 200 {object} results.Run "Finished run (wait=true)"
// @Success 202 {object} map[string]string "Run accepted"
// @Failure 400 {object} map[string]string "Invalid request or empty key mapping"
// @Failure 404 {object} map[string]string "Unknown connection"
// @Router /comparisons [post]
func (h *Handler) HandleStart(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req compare.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if c.QueryBool("wait") {
		run, err := h.service.Run(c.UserContext(), req)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(run)
	}

	run, err := h.service.Start(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	l.Info("Comparison accepted", zap.String("run_id", run.ID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"run_id": run.ID, "status": run.Status})
}

// HandleList lists runs.
// @Summary List Comparisons
// @Tags comparisons
// @Produce json
// @Param project_id query string false "Project filter"
// @Success 200 {array} results.Run
// @Router /comparisons [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	runs, err := h.service.List(c.UserContext(), results.Selector{ProjectID: c.Query("project_id")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(runs)
}

// HandleGet returns run metadata.
// @Summary Get Comparison
// @Tags comparisons
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} results.Run
// @Failure 404 {object} map[string]string "Not Found"
// @Router /comparisons/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	run, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(run)
}

// HandleCancel cancels an executing run.
// @Summary Cancel Comparison
// @Tags comparisons
// @Param id path string true "Run ID"
// @Success 202 {object} map[string]string "Cancellation requested"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Run is not executing"
// @Router /comparisons/{id} [delete]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Cancel(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Cancellation requested", zap.String("run_id", id))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"run_id": id, "status": "cancelling"})
}

// HandleResults returns a run with its ordered records.
// @Summary Get Comparison Results
// @Description Failed and unfinished runs have no records.
// @Tags comparisons
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} ResultsResponse
// @Failure 404 {object} map[string]string "Not Found"
// @Router /comparisons/{id}/results [get]
func (h *Handler) HandleResults(c *fiber.Ctx) error {
	run, records, err := h.service.Results(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if records == nil {
		records = []diff.Record{}
	}
	return c.JSON(ResultsResponse{Comparison: run, Results: records})
}

// HandleExport renders a completed run.
// @Summary Export Comparison
// @Tags comparisons
// @Produce text/csv,application/json,text/plain
// @Param id path string true "Run ID"
// @Param format query string false "csv, json or txt" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 409 {object} map[string]string "Run not completed"
// @Router /comparisons/{id}/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	a, err := h.service.Export(c.UserContext(), c.Params("id"), export.Format(c.Query("format", "csv")))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, a.MIMEType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
	return c.Send(a.Content)
}

// HandlePublish uploads an export of a completed run to object storage.
// @Summary Publish Export
// @Tags comparisons
// @Produce json
// @Param id path string true "Run ID"
// @Param format query string false "csv, json or txt" default(csv)
// @Success 201 {object} export.Published
// @Failure 409 {object} map[string]string "Run not completed"
// @Failure 503 {object} map[string]string "Publishing disabled"
// @Router /comparisons/{id}/export/publish [post]
func (h *Handler) HandlePublish(c *fiber.Ctx) error {
	p, err := h.service.Publish(c.UserContext(), c.Params("id"), export.Format(c.Query("format", "csv")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandlePublished lists uploaded exports of a run.
// @Summary List Published Exports
// @Tags comparisons
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} export.Published
// @Failure 503 {object} map[string]string "Publishing disabled"
// @Router /comparisons/{id}/export/published [get]
func (h *Handler) HandlePublished(c *fiber.Ctx) error {
	items, err := h.service.Published(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if items == nil {
		items = []export.Published{}
	}
	return c.JSON(items)
}

// HandleDispatch forwards the records of a completed run to the configured sink.
// @Summary Dispatch Changes
// @Description Sends every record individually. Failures do not stop the batch and are not retried.
// @Tags comparisons
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} dispatch.Result
// @Failure 409 {object} map[string]string "Run not completed"
// @Router /comparisons/{id}/dispatch [post]
func (h *Handler) HandleDispatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	res, err := h.service.Dispatch(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	l.Info("Changes dispatched",
		zap.String("run_id", id),
		zap.Int("success", len(res.Success)),
		zap.Int("failed", len(res.Failed)))
	return c.JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	kind := errs.KindOf(err)
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrEmptyMapping), errors.Is(err, compare.ErrInvalidRequest),
		errors.Is(err, export.ErrUnsupportedFormat):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrNotCompleted), errors.Is(err, compare.ErrNotRunning):
		status = fiber.StatusConflict
	case errors.Is(err, ErrPublishingDisabled):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Comparison request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}
