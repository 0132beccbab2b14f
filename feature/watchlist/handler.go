package watchlist

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"watchsync/core/logger"
	"watchsync/core/reconcile"
	syncsvc "watchsync/feature/watchlist/sync"
)

// Handler handles HTTP requests for the watchlist feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the watchlist routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/watchlist")
	group.Get("/report", h.HandleGetReport)
	group.Post("/sync", h.HandlePostSync)
	group.Get("/providers", h.HandleGetProviders)
	group.Get("/reports", h.HandleListReports)
	group.Get("/reports/:name", h.HandleGetArchivedReport)
}

// HandleGetReport returns the current delete/keep/add plan without touching
// the workspace.
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Report(c.Context())
	if err != nil {
		l.Error("Report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(plan)
}

// HandlePostSync executes a sync run. The HTTP call itself is the
// confirmation; pass ?dry_run=true to preview instead.
func (h *Handler) HandlePostSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := reconcile.Options{
		DryRun:    c.QueryBool("dry_run"),
		Confirmed: true,
	}

	report, err := h.service.Sync(c.Context(), opts)
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleGetProviders returns the active provider allow-list.
func (h *Handler) HandleGetProviders(c *fiber.Ctx) error {
	return c.JSON(h.service.Providers())
}

// HandleListReports returns the names of archived sync reports.
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.Reports(c.Context())
	if err != nil {
		if errors.Is(err, syncsvc.ErrArchivingDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Report listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

// HandleGetArchivedReport returns one archived sync report by name.
func (h *Handler) HandleGetArchivedReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.ArchivedReport(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, syncsvc.ErrArchivingDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Report fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
