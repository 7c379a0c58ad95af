package parser

import (
	"regexp"
	"strings"

	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
)

var (
	reColumnSep  = regexp.MustCompile(`\t|,|;| {2,}`)
	rePhoneShape = regexp.MustCompile(`^3\d{9}$`)
	reNonAlnum   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ParsePhoneRegistry extracts guide -> phone pairs from two-column pasted
// text. Columns may come in either order and be separated by tabs, commas,
// semicolons or runs of spaces. A line qualifies only when exactly one of
// its two tokens has a phone shape; ambiguous lines are silently dropped.
// First occurrence of a guide wins.
func ParsePhoneRegistry(text string) map[string]string {
	text = NormalizePaste(text)
	registry := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var tokens []string
		for _, tok := range reColumnSep.Split(line, -1) {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) != 2 {
			continue
		}

		first, second := rePhoneShape.MatchString(tokens[0]), rePhoneShape.MatchString(tokens[1])
		if first == second {
			continue
		}
		phone, id := tokens[0], tokens[1]
		if second {
			phone, id = tokens[1], tokens[0]
		}
		id = reNonAlnum.ReplaceAllString(id, "")
		if id == "" {
			continue
		}
		if _, dup := registry[id]; dup {
			continue
		}
		registry[id] = phone
	}
	return registry
}

// minFuzzyIDLen guards the containment match against absurd hits on short
// fragments.
const minFuzzyIDLen = 5

// MergePhones applies a parsed registry to an existing shipment collection:
// exact guide match first, then a fuzzy pass where one guide string contains
// the other (paste sources format guides slightly differently). Only the
// phone field is touched. Returns the number of registry entries that found
// a shipment.
func MergePhones(registry map[string]string, shipments []*entity.Shipment) int {
	byID := make(map[string]*entity.Shipment, len(shipments))
	for _, s := range shipments {
		byID[s.ID] = s
	}

	matched := 0
	for id, phone := range registry {
		if s, ok := byID[id]; ok {
			s.Phone = phone
			matched++
			continue
		}
		if len(id) < minFuzzyIDLen {
			continue
		}
		for _, s := range shipments {
			if len(s.ID) < minFuzzyIDLen {
				continue
			}
			if strings.Contains(s.ID, id) || strings.Contains(id, s.ID) {
				s.Phone = phone
				matched++
				break
			}
		}
	}
	return matched
}
