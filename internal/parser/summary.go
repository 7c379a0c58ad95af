package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/carrier"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/status"
)

// SummaryParser handles the aggregator "summary" export: tab-separated,
// one shipment per line. Columns: guide, ..., full status text, short
// status (optionally suffixed "(N Días)").
type SummaryParser struct {
	// Registry maps guide -> phone from the caller-owned phone registry.
	Registry map[string]string
}

func NewSummaryParser() *SummaryParser {
	return &SummaryParser{}
}

// Parse emits one SUMMARY shipment per usable line. Caller contract: exclude
// holds the guides already produced by the detailed parser in this ingestion
// pass; summary data is a lower-fidelity fallback and must never shadow a
// detailed record, so those guides are skipped. Rows without an embedded
// timestamp date from now.
func (p *SummaryParser) Parse(text string, exclude map[string]struct{}, now time.Time) []*entity.Shipment {
	text = NormalizePaste(text)

	var shipments []*entity.Shipment
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		id := strings.TrimSpace(fields[0])
		if id == "" || id == "Número" {
			continue
		}
		if len(fields) < 4 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, shadowed := exclude[id]; shadowed {
			continue
		}
		seen[id] = struct{}{}

		fullStatus := strings.TrimSpace(fields[len(fields)-2])
		shortStatus := strings.TrimSpace(fields[len(fields)-1])

		days := 0
		if m := reDays.FindStringSubmatch(line); m != nil {
			days, _ = strconv.Atoi(m[1])
		}

		eventTime := now
		if m := reEventAnywhere.FindString(fullStatus); m != "" {
			if ts, err := time.Parse(eventTimeLayout, m); err == nil {
				eventTime = ts
			}
		}

		info := &entity.DetailedInfo{
			DaysInTransit: days,
			RawStatus:     strings.TrimSpace(fullStatus + " " + shortStatus),
			Events: []entity.TrackingEvent{
				{Timestamp: eventTime, Description: fullStatus, IsRecent: true},
			},
		}

		shipments = append(shipments, &entity.Shipment{
			ID:           id,
			Carrier:      carrier.FromID(id),
			Status:       shortStatusToState(shortStatus),
			Phone:        p.Registry[id],
			Source:       constants.SourceSummary,
			DetailedInfo: info,
		})
	}
	return shipments
}

// shortStatusToState maps the summary export's compact status column. The
// vocabulary here is small and literal; anything unrecognized counts as
// still moving.
func shortStatusToState(short string) constants.Status {
	s := status.Fold(short)
	switch {
	case containsAny(s, "entregad", "recogido", "delivered", "picked"):
		return constants.StatusDelivered
	case containsAny(s, "novedad", "devol", "fallid", "issue", "return", "rechaz"):
		return constants.StatusIssue
	case containsAny(s, "oficina", "disponible", "office"):
		return constants.StatusInOffice
	default:
		return constants.StatusInTransit
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
