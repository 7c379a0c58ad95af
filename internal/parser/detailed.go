// Package parser converts copy-pasted carrier/aggregator text into
// normalized shipment records. Each paste layout has its own parser struct
// with compiled patterns; malformed domain data degrades per line or per
// block instead of failing the whole parse.
package parser

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/carrier"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
	"github.com/dfelipe-rojas/guias-tracker/internal/status"
)

// BlockHeader introduces each shipment block in the detailed paste format.
const BlockHeader = "Número:"

const eventTimeLayout = "2006-01-02 15:04"

// DetailedParser extracts shipments from the per-guide multi-line paste
// format. Zero value is not usable; NewDetailedParser sets the event
// ordering assumption.
type DetailedParser struct {
	// Registry maps guide -> phone from the caller-owned phone registry;
	// it wins over phone numbers found inline in a block.
	Registry map[string]string
	// ForcedCarrier overrides both name and structural detection when set
	// to anything but UNKNOWN (a UI control in the original workflow).
	ForcedCarrier constants.Carrier
	// EventsNewestFirst states the paste lists the most recent event first.
	// Aggregator pages do; set false for oldest-first dumps.
	EventsNewestFirst bool
}

func NewDetailedParser() *DetailedParser {
	return &DetailedParser{EventsNewestFirst: true}
}

// Parse splits the paste into blocks and emits one shipment per block.
// Within one call the first block wins for a repeated guide. Blocks with a
// malformed or missing guide are skipped entirely; blocks without parseable
// events are still emitted, flagged with hasErrors and PENDING status.
func (p *DetailedParser) Parse(text string, now time.Time) []*entity.Shipment {
	text = NormalizePaste(text)

	chunks := strings.Split(text, BlockHeader)
	shipments := make([]*entity.Shipment, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))

	// chunks[0] is whatever precedes the first header, never a block.
	for _, chunk := range chunks[1:] {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		s := p.parseBlock(chunk, now)
		if s == nil {
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		shipments = append(shipments, s)
	}
	return shipments
}

func (p *DetailedParser) parseBlock(chunk string, now time.Time) *entity.Shipment {
	lines := strings.Split(chunk, "\n")

	id := blockID(lines)
	if id == "" {
		return nil
	}

	info := &entity.DetailedInfo{}

	routeOrigin, routeDest := "", ""
	inlinePhone := ""
	for _, line := range lines {
		if inlinePhone == "" {
			inlinePhone = rePhone.FindString(line)
		}
		if info.DeclaredValue == nil {
			if m := reMoney.FindStringSubmatch(line); m != nil {
				if v, ok := parseMoney(m[1]); ok {
					info.DeclaredValue = &v
				}
			}
		}
		if routeOrigin == "" && routeDest == "" {
			if m := reRoute.FindStringSubmatch(line); m != nil {
				routeOrigin = strings.TrimSpace(m[1])
				routeDest = strings.TrimSpace(m[2])
			}
		}
		if m := reEvent.FindStringSubmatch(line); m != nil {
			ts, err := time.Parse(eventTimeLayout, m[1])
			if err != nil {
				continue
			}
			loc, desc := splitLocation(m[2])
			info.Events = append(info.Events, entity.TrackingEvent{
				Timestamp:   ts,
				Location:    loc,
				Description: desc,
			})
		}
	}

	if !p.EventsNewestFirst {
		reverseEvents(info.Events)
	}

	st := constants.StatusPending
	info.Origin, info.Destination = routeOrigin, routeDest
	if len(info.Events) > 0 {
		recent := &info.Events[0]
		recent.IsRecent = true
		info.RawStatus = recent.Description
		st = status.Normalize(info.RawStatus)
		if recent.Location != "" {
			info.Destination = recent.Location
		}
		oldest := info.Events[len(info.Events)-1]
		if oldest.Location != "" {
			info.Origin = oldest.Location
		}
		if days := now.Sub(oldest.Timestamp).Hours() / 24; days > 0 {
			info.DaysInTransit = int(days)
		}
	} else {
		info.HasErrors = true
		info.ErrorDetails = append(info.ErrorDetails, "no se encontraron eventos de seguimiento")
	}

	car := p.ForcedCarrier
	if car == "" || car == constants.CarrierUnknown {
		car = carrier.FromText(chunk, id)
	}

	phone := p.Registry[id]
	if phone == "" {
		phone = inlinePhone
	}

	return &entity.Shipment{
		ID:           id,
		Carrier:      car,
		Status:       st,
		Phone:        phone,
		Source:       constants.SourceDetailed,
		DetailedInfo: info,
	}
}

// blockID returns the guide from the first non-empty line, stripped of the
// warning markers aggregator pages prepend, or "" when the block carries no
// usable guide.
func blockID(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id := strings.TrimFunc(line, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(id) < 4 || strings.ContainsAny(id, " \t") {
			return ""
		}
		return id
	}
	return ""
}

// parseMoney converts a Colombian currency literal ("1.250.000" or
// "1.250.000,50") into a float value.
func parseMoney(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func reverseEvents(events []entity.TrackingEvent) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}
