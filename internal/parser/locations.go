package parser

import "strings"

// departmentCodes is the fixed set of Colombian department abbreviations
// carriers append to event locations ("BOGOTA CUND COL En reparto").
var departmentCodes = map[string]struct{}{
	"AMA": {}, "ANT": {}, "ARA": {}, "ATL": {}, "BOL": {}, "BOY": {},
	"CAL": {}, "CAQ": {}, "CAS": {}, "CAU": {}, "CES": {}, "CHO": {},
	"COR": {}, "CUND": {}, "GUA": {}, "GUV": {}, "HUI": {}, "MAG": {},
	"MET": {}, "NAR": {}, "NSAN": {}, "PUT": {}, "QUI": {}, "RIS": {},
	"SANT": {}, "SUC": {}, "TOL": {}, "VALL": {}, "VAU": {}, "VIC": {},
}

// splitLocation divides the text after an event timestamp into a location
// and a free-text description. The location ends at the first token that is
// a known department code; the code itself and a trailing "COL" country
// token are dropped. When no code is present the whole remainder is
// description.
func splitLocation(rest string) (location, description string) {
	tokens := strings.Fields(rest)
	for i, tok := range tokens {
		if _, ok := departmentCodes[strings.ToUpper(tok)]; !ok {
			continue
		}
		location = strings.Join(tokens[:i], " ")
		j := i + 1
		if j < len(tokens) && strings.EqualFold(tokens[j], "COL") {
			j++
		}
		description = strings.Join(tokens[j:], " ")
		return location, description
	}
	return "", strings.TrimSpace(rest)
}
