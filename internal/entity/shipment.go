package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

// TrackingEvent is one entry in a shipment's movement history.
type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	IsRecent    bool      `json:"is_recent,omitempty"`
}

// DetailedInfo carries the fields only the detailed paste format provides.
type DetailedInfo struct {
	Origin        string          `json:"origin,omitempty"`
	Destination   string          `json:"destination,omitempty"`
	DaysInTransit int             `json:"days_in_transit"`
	RawStatus     string          `json:"raw_status,omitempty"`
	Events        []TrackingEvent `json:"events,omitempty"`
	DeclaredValue *float64        `json:"declared_value,omitempty"`
	HasErrors     bool            `json:"has_errors,omitempty"`
	ErrorDetails  []string        `json:"error_details,omitempty"`
}

// LastEventTime returns the timestamp of the most recent event, or the zero
// time when no events were parsed.
func (d *DetailedInfo) LastEventTime() time.Time {
	if d == nil || len(d.Events) == 0 {
		return time.Time{}
	}
	return d.Events[0].Timestamp
}

// RiskAnalysis is derived data: recomputed on every parse and every load,
// never hand-set and never trusted from storage.
type RiskAnalysis struct {
	Level     constants.RiskLevel `json:"level"`
	Reason    string              `json:"reason"`
	Action    string              `json:"action"`
	TimeLabel string              `json:"time_label,omitempty"`
}

// Shipment is the central record for data transfer between layers.
// ID is the carrier tracking guide, kept exactly as pasted: it is shown to
// users and fed to carrier detection, so it is never normalized.
type Shipment struct {
	ID           string            `json:"id"`
	Carrier      constants.Carrier `json:"carrier"`
	Status       constants.Status  `json:"status"`
	Phone        string            `json:"phone,omitempty"`
	Source       constants.Source  `json:"source"`
	DetailedInfo *DetailedInfo     `json:"detailed_info,omitempty"`
	RiskAnalysis *RiskAnalysis     `json:"risk_analysis,omitempty"`
	BatchID      uuid.UUID         `json:"batch_id"`
	BatchDate    time.Time         `json:"batch_date"`
}

// Batch groups the shipments produced by one ingestion call.
type Batch struct {
	ID        uuid.UUID   `json:"id"`
	Date      time.Time   `json:"date"`
	Shipments []*Shipment `json:"shipments"`
}
