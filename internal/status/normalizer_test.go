package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want constants.Status
	}{
		{"delivered plain", "Entregado", constants.StatusDelivered},
		{"delivered accented upper", "ENTREGA EXITOSA CONFIRMADA", constants.StatusDelivered},
		{"delivered english", "Delivered to recipient", constants.StatusDelivered},
		{"picked up", "Recogido por el destinatario", constants.StatusDelivered},
		{"exact ok", "OK", constants.StatusDelivered},
		{"ok inside word is not delivered", "broken", constants.StatusPending},
		{"issue return", "Devolución al remitente", constants.StatusIssue},
		{"issue rescheduled", "Reprogramado por el cliente", constants.StatusIssue},
		{"issue no answer", "Destinatario no contesta", constants.StatusIssue},
		{"issue absent accented", "Destinatario AUSENTE en la dirección", constants.StatusIssue},
		{"issue no money", "Cliente sin dinero para el recaudo", constants.StatusIssue},
		{"office", "Disponible para reclamar en oficina", constants.StatusInOffice},
		{"office warehouse", "En bodega destino", constants.StatusInOffice},
		{"transit", "En tránsito hacia la ciudad destino", constants.StatusInTransit},
		{"transit delivery round", "En reparto", constants.StatusInTransit},
		{"transit dispatched", "Despachado desde origen", constants.StatusInTransit},
		{"unknown", "xyzzy", constants.StatusPending},
		{"empty", "", constants.StatusPending},
		{"whitespace", "   \t ", constants.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

// Precedence is load-bearing: a phrase carrying keywords from two groups
// must resolve to the earlier group.
func TestNormalizePrecedence(t *testing.T) {
	// DELIVERED beats ISSUE.
	assert.Equal(t, constants.StatusDelivered, Normalize("Entrega efectiva tras novedad"))
	// ISSUE beats IN_TRANSIT even when a transit keyword appears first.
	assert.Equal(t, constants.StatusIssue, Normalize("En ruta, reprogramado para mañana"))
	// ISSUE beats IN_OFFICE.
	assert.Equal(t, constants.StatusIssue, Normalize("En oficina, cliente no contesta"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "direccion errada", Fold("  Dirección Errada "))
	assert.Equal(t, "camion", Fold("CAMIÓN"))
	assert.Equal(t, "", Fold(""))
}
