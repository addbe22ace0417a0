package services

import (
	"regexp"
	"strings"
)

// Messy upload data rarely geocodes on the first try: suite numbers,
// abbreviations, and ZIP typos all confuse the lookup service. The
// resolver therefore tries an ordered ladder of rewrites of each address,
// most specific first.

var suitePattern = regexp.MustCompile(`(?i),?\s*(Suite|Ste|Unit|Apt|#)\s*[\w-]+`)

var zipPattern = regexp.MustCompile(`\b\d{5}(-\d{4})?\b`)

// Street-type and directional abbreviations, applied in order.
var abbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`(?i)\bSt\b\.?`), "Street"},
	{regexp.MustCompile(`(?i)\bAve\b\.?`), "Avenue"},
	{regexp.MustCompile(`(?i)\bBlvd\b\.?`), "Boulevard"},
	{regexp.MustCompile(`(?i)\bDr\b\.?`), "Drive"},
	{regexp.MustCompile(`(?i)\bLn\b\.?`), "Lane"},
	{regexp.MustCompile(`(?i)\bRd\b\.?`), "Road"},
	{regexp.MustCompile(`(?i)\bCt\b\.?`), "Court"},
	{regexp.MustCompile(`(?i)\bPl\b\.?`), "Place"},
	{regexp.MustCompile(`(?i)\bPkwy\b\.?`), "Parkway"},
	{regexp.MustCompile(`(?i)\bHwy\b\.?`), "Highway"},
	{regexp.MustCompile(`(?i)\bCir\b\.?`), "Circle"},
	{regexp.MustCompile(`(?i)\bTrl\b\.?`), "Trail"},
	{regexp.MustCompile(`(?i)\bTer\b\.?`), "Terrace"},
	{regexp.MustCompile(`(?i)\bN\b\.?`), "North"},
	{regexp.MustCompile(`(?i)\bS\b\.?`), "South"},
	{regexp.MustCompile(`(?i)\bE\b\.?`), "East"},
	{regexp.MustCompile(`(?i)\bW\b\.?`), "West"},
	{regexp.MustCompile(`(?i)\bNE\b\.?`), "Northeast"},
	{regexp.MustCompile(`(?i)\bNW\b\.?`), "Northwest"},
	{regexp.MustCompile(`(?i)\bSE\b\.?`), "Southeast"},
	{regexp.MustCompile(`(?i)\bSW\b\.?`), "Southwest"},
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeAddress expands street-type and directional abbreviations and
// collapses whitespace.
func normalizeAddress(address string) string {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return addr
	}

	for _, a := range abbreviations {
		addr = a.pattern.ReplaceAllString(addr, a.full)
	}

	return collapseWhitespace(addr)
}

// AddressVariations returns an ordered, deduplicated list of candidate
// strings to try against the geocoding service, most specific first:
// the trimmed original, suite/unit tokens removed, abbreviations expanded,
// both combined, country-suffixed forms, and the suite-stripped form with
// any ZIP code removed. The result is never empty; an empty input yields a
// single empty-string variation.
func AddressVariations(address string) []string {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return []string{""}
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	noSuite := collapseWhitespace(suitePattern.ReplaceAllString(trimmed, ""))

	add(trimmed)
	add(noSuite)
	add(normalizeAddress(trimmed))
	add(normalizeAddress(noSuite))
	add(trimmed + ", USA")
	add(noSuite + ", USA")

	noZip := zipPattern.ReplaceAllString(noSuite, "")
	noZip = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(noZip), ","))
	add(noZip)

	return out
}
