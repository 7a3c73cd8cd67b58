// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"strings"
)

const (
	maxKeyPhrases   = 5
	minPhraseLength = 4
	maxPhraseLength = 50
)

// phraseRule is one extraction heuristic: the pattern finds candidate
// spans and extract turns a match into a phrase (empty string to skip).
type phraseRule struct {
	pattern *regexp.Regexp
	extract func(match []string) string
}

func firstGroup(match []string) string { return strings.TrimSpace(match[1]) }

// phraseRules run in order; earlier rules contribute phrases first, so
// quoted text and explicit focus clauses outrank years and geography.
var phraseRules = []phraseRule{
	{regexp.MustCompile(`"([^"]+)"`), firstGroup},
	{regexp.MustCompile(`(?i)\bfocus(?:ing)?\s+on\s+([^,.;]+)`), firstGroup},
	{regexp.MustCompile(`(?i)\binclude\s+([^,.;]+)`), firstGroup},
	{regexp.MustCompile(`(?i)\bemphasi[sz]e\s+([^,.;]+)`), firstGroup},
	{regexp.MustCompile(`(?i)\bconcentrate\s+on\s+([^,.;]+)`), firstGroup},
	{regexp.MustCompile(`\b((?:19|20)\d{2}\s*[-–]\s*(?:19|20)\d{2})\b`), firstGroup},
	{regexp.MustCompile(`\b((?:19|20)\d{2})\b`), firstGroup},
	{geographyPattern, firstGroup},
}

// geographyPattern matches a fixed vocabulary of regions worth carrying
// into search queries.
var geographyPattern = regexp.MustCompile(`(?i)\b(United States|North America|South America|Latin America|Europe|European Union|Asia|Southeast Asia|Africa|Middle East|Australia|China|India|Japan|Germany|United Kingdom|Brazil|global|worldwide)\b`)

// ExtractKeyPhrases mines refinement instructions for search-worthy
// phrases: quoted substrings, focus/include/emphasize/concentrate-on
// clauses, years and year ranges, and known geographies. The result is
// deduplicated, length-filtered, and capped at five phrases.
func ExtractKeyPhrases(instructions string) []string {
	var phrases []string
	seen := make(map[string]struct{})

	for _, rule := range phraseRules {
		for _, match := range rule.pattern.FindAllStringSubmatch(instructions, -1) {
			phrase := rule.extract(match)
			if len(phrase) < minPhraseLength || len(phrase) > maxPhraseLength {
				continue
			}
			key := strings.ToLower(phrase)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			phrases = append(phrases, phrase)
			if len(phrases) >= maxKeyPhrases {
				return phrases
			}
		}
	}
	return phrases
}
