package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

const summaryPaste = "Número\tCiudad\tEstado completo\tEstado\n" +
	"123456789012\tBOGOTA\t2025-01-02 14:00 En tránsito hacia destino\tEn tránsito (3 Días)\n" +
	"700987654\tCALI\tEntrega exitosa al destinatario\tEntregado\n" +
	"AB123\tBOGOTA\tNovedad en la entrega\tNovedad\n"

func TestSummaryParse(t *testing.T) {
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	got := NewSummaryParser().Parse(summaryPaste, nil, now)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, "123456789012", first.ID)
	assert.Equal(t, constants.CarrierEnvia, first.Carrier)
	assert.Equal(t, constants.StatusInTransit, first.Status)
	assert.Equal(t, constants.SourceSummary, first.Source)
	require.NotNil(t, first.DetailedInfo)
	assert.Equal(t, 3, first.DetailedInfo.DaysInTransit)
	// embedded timestamp wins over the ingestion clock
	require.Len(t, first.DetailedInfo.Events, 1)
	assert.Equal(t, time.Date(2025, 1, 2, 14, 0, 0, 0, time.UTC), first.DetailedInfo.Events[0].Timestamp)

	assert.Equal(t, constants.StatusDelivered, got[1].Status)
	assert.Equal(t, constants.CarrierInterRapidisimo, got[1].Carrier)
	// no embedded timestamp: dated from the ingestion clock
	assert.Equal(t, now, got[1].DetailedInfo.Events[0].Timestamp)

	assert.Equal(t, constants.StatusIssue, got[2].Status)
}

func TestSummaryParseSkipsBadLines(t *testing.T) {
	text := "Número\tCiudad\tEstado completo\tEstado\n" +
		"solo dos\tcampos\n" +
		"\n" +
		"AB123\tBOGOTA\tEn tránsito\tEn tránsito\n"
	got := NewSummaryParser().Parse(text, nil, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "AB123", got[0].ID)
}

// Source precedence: guides already produced by the detailed parser are a
// richer record and must not be shadowed by summary rows.
func TestSummaryParseExcludesDetailedIDs(t *testing.T) {
	exclude := map[string]struct{}{"AB123": {}}
	got := NewSummaryParser().Parse(summaryPaste, exclude, time.Now())
	require.Len(t, got, 2)
	for _, s := range got {
		assert.NotEqual(t, "AB123", s.ID)
	}
}

func TestSummaryParseDeduplicates(t *testing.T) {
	text := "AB123\tBOGOTA\tEn tránsito\tEn tránsito\n" +
		"AB123\tBOGOTA\tEntregado\tEntregado\n"
	got := NewSummaryParser().Parse(text, nil, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, constants.StatusInTransit, got[0].Status)
}

func TestSummaryParseRegistryPhone(t *testing.T) {
	p := NewSummaryParser()
	p.Registry = map[string]string{"AB123": "3001112233"}
	got := p.Parse("AB123\tBOGOTA\tEn tránsito\tEn tránsito\n", nil, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "3001112233", got[0].Phone)
}

func TestShortStatusToState(t *testing.T) {
	tests := []struct {
		short string
		want  constants.Status
	}{
		{"Entregado", constants.StatusDelivered},
		{"Recogido", constants.StatusDelivered},
		{"Novedad", constants.StatusIssue},
		{"Devolución", constants.StatusIssue},
		{"En oficina", constants.StatusInOffice},
		{"Disponible", constants.StatusInOffice},
		{"En tránsito", constants.StatusInTransit},
		{"cualquier otra cosa", constants.StatusInTransit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortStatusToState(tt.short), "short=%q", tt.short)
	}
}
