package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

var parseNow = time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

const sampleBlock = `Número: AB123
País: BOGOTA -> BOGOTA
2025-01-01 08:00 BOGOTA CUND COL En reparto`

func TestDetailedParseSingleBlock(t *testing.T) {
	got := NewDetailedParser().Parse(sampleBlock, parseNow)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "AB123", s.ID)
	assert.Equal(t, constants.StatusInTransit, s.Status)
	assert.Equal(t, constants.SourceDetailed, s.Source)
	require.NotNil(t, s.DetailedInfo)
	assert.Equal(t, "BOGOTA", s.DetailedInfo.Destination)
	assert.Equal(t, "BOGOTA", s.DetailedInfo.Origin)
	assert.Equal(t, "En reparto", s.DetailedInfo.RawStatus)
	assert.Equal(t, 4, s.DetailedInfo.DaysInTransit)
	require.Len(t, s.DetailedInfo.Events, 1)
	assert.True(t, s.DetailedInfo.Events[0].IsRecent)
	assert.False(t, s.DetailedInfo.HasErrors)
}

func TestDetailedParseFullBlock(t *testing.T) {
	text := "Número: 700123456\n" +
		"Transportadora: Inter Rapidisimo\n" +
		"Destinatario: 3001234567\n" +
		"Valor declarado: $ 1.250.000\n" +
		"País: MEDELLIN -> SOACHA\n" +
		"2025-01-04 16:30 SOACHA CUND COL Llegó a oficina destino\n" +
		"2025-01-02 09:15 MEDELLIN ANT COL Despachado\n"

	got := NewDetailedParser().Parse(text, parseNow)
	require.Len(t, got, 1)
	s := got[0]

	assert.Equal(t, "700123456", s.ID)
	assert.Equal(t, constants.CarrierInterRapidisimo, s.Carrier)
	assert.Equal(t, "3001234567", s.Phone)
	assert.Equal(t, constants.StatusInOffice, s.Status)

	d := s.DetailedInfo
	require.NotNil(t, d)
	require.NotNil(t, d.DeclaredValue)
	assert.Equal(t, 1250000.0, *d.DeclaredValue)
	// newest-first: destination from the first event, origin from the last
	assert.Equal(t, "SOACHA", d.Destination)
	assert.Equal(t, "MEDELLIN", d.Origin)
	require.Len(t, d.Events, 2)
	assert.True(t, d.Events[0].IsRecent)
	assert.False(t, d.Events[1].IsRecent)
	assert.Equal(t, 2, d.DaysInTransit)
}

func TestDetailedParseDeduplicatesFirstWins(t *testing.T) {
	text := "Número: AB123\n2025-01-01 08:00 BOGOTA CUND COL En reparto\n" +
		"Número: AB123\n2025-01-02 10:00 CALI VALL COL Entregado\n"

	got := NewDetailedParser().Parse(text, parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, constants.StatusInTransit, got[0].Status)
}

func TestDetailedParseSkipsBlockWithoutID(t *testing.T) {
	text := "Número:\n\nNúmero: XY987\n2025-01-03 11:00 BOGOTA CUND COL En tránsito\n"
	got := NewDetailedParser().Parse(text, parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, "XY987", got[0].ID)
}

func TestDetailedParseStripsHeaderMarkers(t *testing.T) {
	text := "Número: ⚠️ AB999 ⚠️\n2025-01-03 11:00 BOGOTA CUND COL En tránsito\n"
	got := NewDetailedParser().Parse(text, parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, "AB999", got[0].ID)
}

func TestDetailedParseNoEventsEmitsFlaggedShipment(t *testing.T) {
	got := NewDetailedParser().Parse("Número: AB555\nsin historial\n", parseNow)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, constants.StatusPending, s.Status)
	require.NotNil(t, s.DetailedInfo)
	assert.True(t, s.DetailedInfo.HasErrors)
	assert.NotEmpty(t, s.DetailedInfo.ErrorDetails)
}

func TestDetailedParseRegistryWinsOverInlinePhone(t *testing.T) {
	p := NewDetailedParser()
	p.Registry = map[string]string{"AB123": "3119998877"}
	text := "Número: AB123\nContacto 3001234567\n2025-01-01 08:00 BOGOTA CUND COL En reparto\n"
	got := p.Parse(text, parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, "3119998877", got[0].Phone)
}

func TestDetailedParseForcedCarrier(t *testing.T) {
	p := NewDetailedParser()
	p.ForcedCarrier = constants.CarrierTCC
	got := p.Parse("Número: 700123456\nInter Rapidisimo\n2025-01-01 08:00 BOGOTA CUND COL En reparto\n", parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, constants.CarrierTCC, got[0].Carrier)
}

func TestDetailedParseExplicitCarrierNameBeatsID(t *testing.T) {
	got := NewDetailedParser().Parse("Número: 123456789012\nGestionado por Coordinadora\n2025-01-01 08:00 BOGOTA CUND COL En reparto\n", parseNow)
	require.Len(t, got, 1)
	assert.Equal(t, constants.CarrierCoordinadora, got[0].Carrier)
}

func TestDetailedParseOldestFirstOrdering(t *testing.T) {
	p := NewDetailedParser()
	p.EventsNewestFirst = false
	text := "Número: AB321\n" +
		"2025-01-01 08:00 MEDELLIN ANT COL Despachado\n" +
		"2025-01-03 10:00 BOGOTA CUND COL Entregado\n"
	got := p.Parse(text, parseNow)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, constants.StatusDelivered, s.Status)
	assert.Equal(t, "BOGOTA", s.DetailedInfo.Destination)
	assert.Equal(t, "MEDELLIN", s.DetailedInfo.Origin)
}

func TestDetailedParseEmptyInput(t *testing.T) {
	assert.Empty(t, NewDetailedParser().Parse("", parseNow))
	assert.Empty(t, NewDetailedParser().Parse("texto sin bloques reconocibles", parseNow))
}

func TestSplitLocation(t *testing.T) {
	loc, desc := splitLocation("BOGOTA CUND COL En reparto")
	assert.Equal(t, "BOGOTA", loc)
	assert.Equal(t, "En reparto", desc)

	loc, desc = splitLocation("SAN GIL SANT Recibido en terminal")
	assert.Equal(t, "SAN GIL", loc)
	assert.Equal(t, "Recibido en terminal", desc)

	loc, desc = splitLocation("En reparto")
	assert.Equal(t, "", loc)
	assert.Equal(t, "En reparto", desc)
}
