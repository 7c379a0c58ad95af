package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/ingest"
)

// Service is a tiny façade over the ingest service that produces XLSX bytes
// for the working shipment set.
type Service struct {
	ingest *ingest.Service
	logger *slog.Logger
}

func NewService(ing *ingest.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ingest: ing, logger: logger}
}

const sheet = "Guías"

var headers = []string{
	"Guía",
	"Transportadora",
	"Estado",
	"Teléfono",
	"Origen",
	"Destino",
	"Días en tránsito",
	"Valor declarado",
	"Riesgo",
	"Motivo",
	"Acción",
	"Fecha de lote",
}

// ShipmentsXLSX returns an XLSX workbook of the working set. Risk is
// recomputed by the load path before any row is written.
func (s *Service) ShipmentsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	shipments, err := s.ingest.Shipments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, sh := range shipments {
		writeRow(f, row+2, sh)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export built", "shipments", len(shipments), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, sh *entity.Shipment) {
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, sh.ID)
	write(2, sh.Carrier.DisplayName())
	write(3, string(sh.Status))
	write(4, sh.Phone)

	if d := sh.DetailedInfo; d != nil {
		write(5, d.Origin)
		write(6, d.Destination)
		write(7, d.DaysInTransit)
		if d.DeclaredValue != nil {
			write(8, *d.DeclaredValue)
		}
	}
	if ra := sh.RiskAnalysis; ra != nil {
		write(9, string(ra.Level))
		write(10, ra.Reason)
		write(11, ra.Action)
	}
	if !sh.BatchDate.IsZero() {
		write(12, sh.BatchDate.Format("2006-01-02 15:04"))
	}
}
