package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/export"
	"github.com/dfelipe-rojas/guias-tracker/internal/ingest"
)

// IngestHandler exposes the three paste-ingestion operations.
type IngestHandler struct {
	svc    *ingest.Service
	logger *slog.Logger
}

func NewIngestHandler(svc *ingest.Service, logger *slog.Logger) *IngestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestHandler{svc: svc, logger: logger}
}

type ingestRequest struct {
	Text          string `json:"text"`
	ForcedCarrier string `json:"forcedCarrier,omitempty"`
}

type batchResponse struct {
	BatchID   string `json:"batchId"`
	Count     int    `json:"count"`
	Shipments any    `json:"shipments"`
}

func (h *IngestHandler) HandleIngestDetailed(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Text == "" {
		return NewBadRequestError("text is required", nil)
	}

	opts := ingest.DetailedOptions{}
	if req.ForcedCarrier != "" {
		opts.ForcedCarrier = constants.Carrier(req.ForcedCarrier)
	}

	batch, err := h.svc.IngestDetailed(c.Request().Context(), req.Text, opts)
	if err != nil {
		return err
	}
	h.logger.Info("detailed paste ingested", "batch_id", batch.ID, "shipments", len(batch.Shipments))
	return c.JSON(http.StatusOK, batchResponse{
		BatchID:   batch.ID.String(),
		Count:     len(batch.Shipments),
		Shipments: batch.Shipments,
	})
}

func (h *IngestHandler) HandleIngestSummary(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Text == "" {
		return NewBadRequestError("text is required", nil)
	}

	batch, err := h.svc.IngestSummary(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	h.logger.Info("summary paste ingested", "batch_id", batch.ID, "shipments", len(batch.Shipments))
	return c.JSON(http.StatusOK, batchResponse{
		BatchID:   batch.ID.String(),
		Count:     len(batch.Shipments),
		Shipments: batch.Shipments,
	})
}

func (h *IngestHandler) HandleMergePhones(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Text == "" {
		return NewBadRequestError("text is required", nil)
	}

	matched, total, err := h.svc.MergePhones(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"matched": matched, "total": total})
}

// ShipmentsHandler serves the working set.
type ShipmentsHandler struct {
	svc *ingest.Service
}

func NewShipmentsHandler(svc *ingest.Service) *ShipmentsHandler {
	return &ShipmentsHandler{svc: svc}
}

func (h *ShipmentsHandler) HandleList(c echo.Context) error {
	shipments, err := h.svc.Shipments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"shipments": shipments,
		"count":     len(shipments),
	})
}

func (h *ShipmentsHandler) HandleGet(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewBadRequestError("id is required", nil)
	}
	s, err := h.svc.Shipment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// ExportHandler streams the working set as an XLSX workbook.
type ExportHandler struct {
	svc *export.Service
}

func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *ExportHandler) HandleExportXLSX(c echo.Context) error {
	data, err := h.svc.ShipmentsXLSX(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to build export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="guias.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// HealthHandler reports liveness.
type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
