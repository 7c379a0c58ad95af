package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dfelipe-rojas/guias-tracker/internal/export"
	"github.com/dfelipe-rojas/guias-tracker/internal/ingest"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Ingest  *ingest.Service
	Export  *export.Service
	Logger  *slog.Logger
	Version string
}

// Handlers holds all handler instances.
type Handlers struct {
	Health    *HealthHandler
	Ingest    *IngestHandler
	Shipments *ShipmentsHandler
	Export    *ExportHandler
}

func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version),
		Ingest:    NewIngestHandler(deps.Ingest, deps.Logger),
		Shipments: NewShipmentsHandler(deps.Ingest),
		Export:    NewExportHandler(deps.Export),
	}
}

// New builds a fully wired echo instance.
func New(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.Recover())

	RegisterRoutes(e, NewHandlers(deps))
	return e
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/health", h.Health.HandleHealth)

	api := e.Group("/api")
	api.POST("/ingest/detailed", h.Ingest.HandleIngestDetailed)
	api.POST("/ingest/summary", h.Ingest.HandleIngestSummary)
	api.POST("/ingest/phones", h.Ingest.HandleMergePhones)
	api.GET("/shipments", h.Shipments.HandleList)
	api.GET("/shipments/:id", h.Shipments.HandleGet)
	api.GET("/export.xlsx", h.Export.HandleExportXLSX)
}
