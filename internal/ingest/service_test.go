package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/risk"
	"github.com/dfelipe-rojas/guias-tracker/internal/testutil"
)

var ingestNow = time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *testutil.MemShipmentRepository) {
	t.Helper()
	repo := testutil.NewMemShipmentRepository()
	svc := NewService(repo, risk.New(risk.DefaultConfig()), nil)
	svc.now = func() time.Time { return ingestNow }
	return svc, repo
}

const detailedPaste = "Número: AB123\n" +
	"País: BOGOTA -> BOGOTA\n" +
	"2025-01-01 08:00 BOGOTA CUND COL En reparto\n"

func TestIngestDetailed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	batch, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)
	require.Len(t, batch.Shipments, 1)

	s := batch.Shipments[0]
	assert.Equal(t, "AB123", s.ID)
	assert.Equal(t, constants.StatusInTransit, s.Status)
	assert.Equal(t, batch.ID, s.BatchID)
	require.NotNil(t, s.RiskAnalysis)
	// 4 days since the only event: beyond both stall thresholds
	assert.Equal(t, constants.RiskUrgent, s.RiskAnalysis.Level)
}

func TestIngestDetailedEmptyText(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.IngestDetailed(context.Background(), "  \n ", DetailedOptions{})
	assert.Error(t, err)
}

// A newer batch's record replaces the older one for the same guide.
func TestIngestDetailedReplacesByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)

	updated := "Número: AB123\n2025-01-04 16:00 BOGOTA CUND COL Entrega exitosa\n"
	second, err := svc.IngestDetailed(ctx, updated, DetailedOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	stored, err := svc.Shipments(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, constants.StatusDelivered, stored[0].Status)
	assert.Equal(t, second.ID, stored[0].BatchID)
}

// Summary rows for guides already held as DETAILED records are dropped.
func TestIngestSummarySkipsDetailedGuides(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)

	summary := "AB123\tBOGOTA\tEntregado\tEntregado\n" +
		"XY987\tCALI\tEn tránsito\tEn tránsito\n"
	batch, err := svc.IngestSummary(ctx, summary)
	require.NoError(t, err)
	require.Len(t, batch.Shipments, 1)
	assert.Equal(t, "XY987", batch.Shipments[0].ID)

	stored, err := svc.Shipments(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, s := range stored {
		if s.ID == "AB123" {
			assert.Equal(t, constants.SourceDetailed, s.Source)
			assert.Equal(t, constants.StatusInTransit, s.Status)
		}
	}
}

func TestMergePhones(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)

	matched, total, err := svc.MergePhones(ctx, "AB123\t3001234567\nZZ999\t3009998877\n")
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
	assert.Equal(t, 2, total)

	got, err := repo.Get(ctx, "AB123")
	require.NoError(t, err)
	assert.Equal(t, "3001234567", got.Phone)
	// only the phone changed
	assert.Equal(t, constants.StatusInTransit, got.Status)
}

// Phones merged earlier survive a re-parse of the same guide: the stored
// registry outranks anything inline in the new paste.
func TestStoredPhonesSurviveReparse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)
	_, _, err = svc.MergePhones(ctx, "AB123\t3001234567\n")
	require.NoError(t, err)

	reparse := "Número: AB123\nContacto 3110000000\n2025-01-04 16:00 BOGOTA CUND COL En reparto\n"
	batch, err := svc.IngestDetailed(ctx, reparse, DetailedOptions{})
	require.NoError(t, err)
	require.Len(t, batch.Shipments, 1)
	assert.Equal(t, "3001234567", batch.Shipments[0].Phone)
}

func TestShipmentsRecomputesRisk(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestDetailed(ctx, detailedPaste, DetailedOptions{})
	require.NoError(t, err)

	// Poison the stored annotation; the load path must overwrite it.
	stored, err := repo.Get(ctx, "AB123")
	require.NoError(t, err)
	stored.RiskAnalysis.Level = constants.RiskNormal
	stored.RiskAnalysis.Reason = "stale"
	require.NoError(t, repo.SaveBatch(ctx, []*entity.Shipment{stored}))

	out, err := svc.Shipments(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, constants.RiskUrgent, out[0].RiskAnalysis.Level)
	assert.NotEqual(t, "stale", out[0].RiskAnalysis.Reason)
}

func TestForcedCarrierOption(t *testing.T) {
	svc, _ := newTestService(t)
	batch, err := svc.IngestDetailed(context.Background(), detailedPaste,
		DetailedOptions{ForcedCarrier: constants.CarrierVeloces})
	require.NoError(t, err)
	require.Len(t, batch.Shipments, 1)
	assert.Equal(t, constants.CarrierVeloces, batch.Shipments[0].Carrier)
}
