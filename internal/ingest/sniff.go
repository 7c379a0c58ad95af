package ingest

import (
	"strings"

	"github.com/dfelipe-rojas/guias-tracker/internal/parser"
)

// Format is the paste layout the sniffer recognized.
type Format string

const (
	FormatDetailed Format = "detailed"
	FormatSummary  Format = "summary"
	FormatPhones   Format = "phones"
	FormatUnknown  Format = "unknown"
)

// SniffFormat routes a raw paste to the parser that owns its layout.
// Detailed blocks carry the "Número:" header; summary pastes are
// tab-separated with at least four columns; phone registries are two-column
// lines where exactly one column holds a phone. Anything else is unknown
// and the caller surfaces "nothing detected".
func SniffFormat(text string) Format {
	if strings.Contains(text, parser.BlockHeader) {
		return FormatDetailed
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "\t") >= 3 {
			return FormatSummary
		}
	}
	if len(parser.ParsePhoneRegistry(text)) > 0 {
		return FormatPhones
	}
	return FormatUnknown
}
