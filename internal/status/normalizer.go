// Package status maps the open-ended vocabulary of raw carrier phrases to
// the closed set of lifecycle states.
package status

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

// keywordGroup pairs a target status with the substrings that imply it.
// Groups are evaluated in order and the first match wins: DELIVERED is
// checked before everything, and ISSUE before the more generic office and
// transit groups so that e.g. "reprogramado" is not swallowed by a transit
// keyword elsewhere in the same phrase.
type keywordGroup struct {
	status constants.Status
	exact  []string // whole-phrase matches, tested before substrings
	subs   []string
}

var groups = []keywordGroup{
	{
		status: constants.StatusDelivered,
		exact:  []string{"ok"},
		subs:   []string{"entreg", "delivered", "recogido", "cumplido", "exitoso", "efectiv"},
	},
	{
		status: constants.StatusIssue,
		subs: []string{
			"devol", "devuel", "rehusado", "rechaz",
			"no entregado", "entrega fallida", "fallid", "no efectiva",
			"direccion errada", "direccion incorrecta", "error en la direccion", "nomenclatura", "no existe",
			"telefono errado", "no contesta", "no responde",
			"ausente", "cerrado", "sin dinero",
			"zona de riesgo", "zona restringida",
			"reprogram", "novedad", "reclamo", "siniestr", "averia",
		},
	},
	{
		status: constants.StatusInOffice,
		subs: []string{
			"oficina", "bodega", "sucursal", "agencia",
			"punto de recogida", "punto de entrega", "centro logistico",
			"disponible para", "reclame", "listo para entrega",
		},
	},
	{
		status: constants.StatusInTransit,
		subs: []string{
			"transito", "transporte", "reparto", "ruta", "camino",
			"despach", "viaj", "traslad", "distribucion", "recoleccion",
			"admiti", "procesamiento", "terminal", "llego a", "salio de",
		},
	},
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases, trims and strips diacritics so keyword matching is
// accent- and case-insensitive.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize maps a raw carrier phrase to a canonical lifecycle state.
// Total: unmatched or empty input degrades to PENDING, never an error.
func Normalize(raw string) constants.Status {
	text := Fold(raw)
	if text == "" {
		return constants.StatusPending
	}
	for _, g := range groups {
		for _, e := range g.exact {
			if text == e {
				return g.status
			}
		}
		for _, k := range g.subs {
			if strings.Contains(text, k) {
				return g.status
			}
		}
	}
	return constants.StatusPending
}
