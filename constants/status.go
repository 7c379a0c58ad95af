package constants

// Status is the canonical lifecycle state of a shipment.
type Status string

// Stable values (store these exact strings in DB).
const (
	StatusPending   Status = "PENDING"    // default/unknown state
	StatusInTransit Status = "IN_TRANSIT" // moving between facilities
	StatusInOffice  Status = "IN_OFFICE"  // waiting at an office/pickup point
	StatusIssue     Status = "ISSUE"      // delivery problem, return, novelty
	StatusDelivered Status = "DELIVERED"  // terminal
)

var allStatuses = []Status{
	StatusPending,
	StatusInTransit,
	StatusInOffice,
	StatusIssue,
	StatusDelivered,
}

// AllStatuses returns every lifecycle state.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsTerminal reports whether the state admits no further risk escalation.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered
}
