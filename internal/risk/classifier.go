// Package risk annotates shipments with an operational urgency level.
//
// The classifier is an ordered cascade of (predicate, level, reason, action)
// rules: the first matching rule wins and more severe levels sit earlier in
// the slice. Classification is a pure function of the shipment and the
// supplied wall-clock instant.
package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/status"
)

// Input is the flattened view of a shipment a rule may look at. Text fields
// are pre-folded so predicates stay accent- and case-insensitive.
type Input struct {
	Status      constants.Status
	RawStatus   string
	Destination string
	Days        int
	LastEvent   time.Time // zero when no event is known
	Now         time.Time
}

// HoursSinceLastEvent returns elapsed hours since the most recent event, or
// zero when no event is known.
func (in Input) HoursSinceLastEvent() float64 {
	if in.LastEvent.IsZero() {
		return 0
	}
	return in.Now.Sub(in.LastEvent).Hours()
}

// Rule is one entry of the cascade.
type Rule struct {
	Name      string
	Level     constants.RiskLevel
	Reason    string
	Action    string
	Match     func(in Input) bool
	TimeLabel func(in Input) string // optional
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func foldAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = status.Fold(s)
	}
	return out
}

func daysLabel(in Input) string {
	return fmt.Sprintf("%d días", in.Days)
}

func stalledLabel(in Input) string {
	return fmt.Sprintf("%.0f horas sin movimiento", in.HoursSinceLastEvent())
}

// BuildRules materializes the ordered cascade from a threshold table.
func BuildRules(cfg Config) []Rule {
	coastal := foldAll(cfg.CoastalCities)
	peripheral := foldAll(cfg.PeripheralZones)

	return []Rule{
		{
			Name:   "no_answer",
			Level:  constants.RiskUrgent,
			Reason: "Destinatario no contesta",
			Action: "Llamar al cliente y confirmar teléfono",
			Match: func(in Input) bool {
				return containsAny(in.RawStatus, []string{"no contesta", "no responde"})
			},
		},
		{
			Name:   "address_error",
			Level:  constants.RiskUrgent,
			Reason: "Problema con la dirección",
			Action: "Verificar dirección con el cliente",
			Match: func(in Input) bool {
				return containsAny(in.RawStatus, []string{"direccion", "nomenclatura", "no existe"})
			},
		},
		{
			Name:   "bogota_overdue",
			Level:  constants.RiskUrgent,
			Reason: fmt.Sprintf("Más de %d días para Bogotá", cfg.BogotaMaxDays),
			Action: "Escalar con la transportadora",
			Match: func(in Input) bool {
				return strings.Contains(in.Destination, "bogota") &&
					in.Days > cfg.BogotaMaxDays &&
					in.Status != constants.StatusDelivered
			},
			TimeLabel: daysLabel,
		},
		{
			Name:   "coastal_overdue",
			Level:  constants.RiskUrgent,
			Reason: fmt.Sprintf("Más de %d días para ciudad principal", cfg.CoastalMaxDays),
			Action: "Escalar con la transportadora",
			Match: func(in Input) bool {
				return containsAny(in.Destination, coastal) &&
					in.Days > cfg.CoastalMaxDays &&
					in.Status != constants.StatusDelivered
			},
			TimeLabel: daysLabel,
		},
		{
			Name:   "stalled_urgent",
			Level:  constants.RiskUrgent,
			Reason: fmt.Sprintf("Sin movimiento hace más de %.0f horas", cfg.StalledUrgentHours),
			Action: "Solicitar estado a la transportadora",
			Match: func(in Input) bool {
				return in.Status == constants.StatusInTransit &&
					in.HoursSinceLastEvent() > cfg.StalledUrgentHours
			},
			TimeLabel: stalledLabel,
		},
		{
			Name:   "return_attempt",
			Level:  constants.RiskAttention,
			Reason: "Posible devolución",
			Action: "Contactar al cliente antes del retorno",
			Match: func(in Input) bool {
				return containsAny(in.RawStatus, []string{"rechaz", "rehusado", "devol", "devuel", "intento de entrega"})
			},
		},
		{
			Name:   "stalled_watch",
			Level:  constants.RiskAttention,
			Reason: fmt.Sprintf("Sin movimiento hace más de %.0f horas", cfg.StalledWatchHours),
			Action: "Vigilar el próximo movimiento",
			Match: func(in Input) bool {
				return in.Status == constants.StatusInTransit &&
					in.HoursSinceLastEvent() > cfg.StalledWatchHours
			},
			TimeLabel: stalledLabel,
		},
		{
			Name:   "in_office",
			Level:  constants.RiskAttention,
			Reason: "En oficina para reclamar",
			Action: "Recordar al cliente recoger el envío",
			Match: func(in Input) bool {
				return in.Status == constants.StatusInOffice
			},
		},
		{
			Name:   "peripheral_zone",
			Level:  constants.RiskWatch,
			Reason: "Destino en zona periférica",
			Action: "Confirmar dirección y disponibilidad",
			Match: func(in Input) bool {
				return containsAny(in.Destination, peripheral)
			},
		},
		{
			Name:   "delivered",
			Level:  constants.RiskNormal,
			Reason: "Entregado OK",
			Action: "Ninguna",
			Match: func(in Input) bool {
				return in.Status == constants.StatusDelivered
			},
		},
	}
}

// Classifier applies the cascade. Safe for concurrent use: rules are built
// once and never mutated.
type Classifier struct {
	rules []Rule
}

func New(cfg Config) *Classifier {
	return &Classifier{rules: BuildRules(cfg)}
}

// Classify returns exactly one risk tuple for any shipment; when no rule
// matches it falls through to NORMAL / "Tránsito Normal".
func (c *Classifier) Classify(s *entity.Shipment, now time.Time) entity.RiskAnalysis {
	in := Input{
		Status: s.Status,
		Now:    now,
	}
	if d := s.DetailedInfo; d != nil {
		in.RawStatus = status.Fold(d.RawStatus)
		in.Destination = status.Fold(d.Destination)
		in.Days = d.DaysInTransit
		in.LastEvent = d.LastEventTime()
	}

	for _, r := range c.rules {
		if r.Match(in) {
			out := entity.RiskAnalysis{Level: r.Level, Reason: r.Reason, Action: r.Action}
			if r.TimeLabel != nil {
				out.TimeLabel = r.TimeLabel(in)
			}
			return out
		}
	}
	return entity.RiskAnalysis{
		Level:  constants.RiskNormal,
		Reason: "Tránsito Normal",
		Action: "Ninguna",
	}
}

// Annotate recomputes the risk of every shipment in place. Risk is derived
// and time-dependent: it is recomputed after every parse and every load,
// never read back from storage.
func (c *Classifier) Annotate(shipments []*entity.Shipment, now time.Time) {
	for _, s := range shipments {
		ra := c.Classify(s, now)
		s.RiskAnalysis = &ra
	}
}
