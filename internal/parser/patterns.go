package parser

import "regexp"

var (
	// Colombian mobile numbers: 10 digits starting with 3.
	rePhone = regexp.MustCompile(`\b3\d{9}\b`)
	// Currency-formatted amounts: "$ 1.250.000" or "$50.000,75".
	reMoney = regexp.MustCompile(`\$\s*(\d[\d.,]*)`)
	// Route line: "País: BOGOTA -> MEDELLIN".
	reRoute = regexp.MustCompile(`Pa[ií]s:\s*(.*?)\s*->\s*(.*)$`)
	// Event line prefix: "2025-01-01 08:00 ...".
	reEvent = regexp.MustCompile(`^\s*(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\s+(.+)$`)
	// Embedded event timestamp anywhere in a field.
	reEventAnywhere = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}`)
	// Days-in-transit suffix: "(3 Días)".
	reDays = regexp.MustCompile(`\((\d+)\s*D[ií]as\)`)
)
