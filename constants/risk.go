package constants

// RiskLevel is the operational urgency of a shipment, distinct from its
// lifecycle status.
type RiskLevel string

const (
	RiskNormal    RiskLevel = "NORMAL"
	RiskWatch     RiskLevel = "WATCH"
	RiskAttention RiskLevel = "ATTENTION"
	RiskUrgent    RiskLevel = "URGENT"
)

// Severity returns a comparable rank; higher means more urgent.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskUrgent:
		return 3
	case RiskAttention:
		return 2
	case RiskWatch:
		return 1
	default:
		return 0
	}
}
