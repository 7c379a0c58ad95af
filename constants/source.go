package constants

// Source records which parser produced a shipment record. DETAILED records
// are richer and must never be shadowed by SUMMARY ones for the same guide.
type Source string

const (
	SourceDetailed Source = "DETAILED"
	SourceSummary  Source = "SUMMARY"
)
