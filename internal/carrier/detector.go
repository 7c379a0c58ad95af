// Package carrier classifies tracking guides into carriers using the
// structure of the guide itself, or explicit carrier names found in pasted
// text.
package carrier

import (
	"regexp"
	"strings"

	"github.com/dfelipe-rojas/guias-tracker/constants"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// idRule is one structural heuristic. The rules are not checksum-based, so
// ambiguous lengths can misclassify; slice order is the documented
// precedence and must not be reordered.
type idRule struct {
	name  string
	match func(id string) bool
	out   constants.Carrier
}

var idRules = []idRule{
	{
		name: "inter_prefix7_len9_11",
		match: func(id string) bool {
			return strings.HasPrefix(id, "7") && len(id) >= 9 && len(id) <= 11
		},
		out: constants.CarrierInterRapidisimo,
	},
	{
		name: "envia_12_digits",
		match: func(id string) bool {
			return len(id) == 12 && digitsOnly.MatchString(id)
		},
		out: constants.CarrierEnvia,
	},
	{
		name: "coordinadora_11_digits",
		match: func(id string) bool {
			return len(id) == 11 && digitsOnly.MatchString(id)
		},
		out: constants.CarrierCoordinadora,
	},
	{
		name: "tcc_long_or_prefix",
		match: func(id string) bool {
			return len(id) > 18 || strings.HasPrefix(id, "tcc")
		},
		out: constants.CarrierTCC,
	},
	{
		name: "veloces_prefix",
		match: func(id string) bool {
			return strings.HasPrefix(id, "vel")
		},
		out: constants.CarrierVeloces,
	},
}

// FromID classifies a tracking guide by structure alone. Total: unmatched
// input yields UNKNOWN, never an error.
func FromID(id string) constants.Carrier {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return constants.CarrierUnknown
	}
	for _, r := range idRules {
		if r.match(id) {
			return r.out
		}
	}
	return constants.CarrierUnknown
}

// FromText matches known carrier display names against a pasted block.
// Name matching is case-sensitive (the catalog lists common casings) and
// takes precedence over guide structure; when no name matches it falls back
// to FromID.
func FromText(text, id string) constants.Carrier {
	for _, c := range constants.NamedCarriers {
		for _, name := range constants.CarrierNames[c] {
			if strings.Contains(text, name) {
				return c
			}
		}
	}
	return FromID(id)
}
