// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

// docTypePrefixes maps each document type to its query framings. The
// first prefix forms the primary query; the rest seed variations.
var docTypePrefixes = map[types.DocumentType][]string{
	types.DocResearchPaper: {"academic research", "peer-reviewed study", "scholarly analysis"},
	types.DocReport:        {"comprehensive report", "industry analysis"},
	types.DocArticle:       {"in-depth article", "expert overview"},
	types.DocBlogPost:      {"practical guide", "explained"},
	types.DocDocumentation: {"technical documentation", "reference guide"},
	types.DocGeneral:       {"overview"},
}

// perspectiveSuffixes are angles appended to the topic to diversify the
// query set.
var perspectiveSuffixes = []string{
	"history and background",
	"current applications",
	"challenges and limitations",
	"future trends",
	"case studies",
	"best practices",
	"comparison of approaches",
	"statistics and data",
}

// Expander builds a diversified query set for a topic. The zero value is
// not usable; construct with NewExpander.
type Expander struct {
	rng *rand.Rand
}

// NewExpander returns an Expander using the given random source for
// perspective sampling. A nil rng gets a time-seeded source; tests pass a
// fixed seed for reproducible output.
func NewExpander(rng *rand.Rand) *Expander {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Expander{rng: rng}
}

// Expand returns the primary query plus up to variationCount variations,
// never more than variationCount+1 queries and never duplicates. When
// instructions are given, their top key phrases are appended to the first
// one or two queries.
func (e *Expander) Expand(topic string, docType types.DocumentType, instructions string, variationCount int) []string {
	if variationCount < 0 {
		variationCount = 0
	}

	prefixes, ok := docTypePrefixes[docType]
	if !ok {
		prefixes = docTypePrefixes[types.DocGeneral]
	}

	queries := []string{prefixes[0] + " " + topic}

	// Alternate framings first, then sampled perspectives.
	for _, p := range prefixes[1:] {
		if len(queries) >= variationCount+1 {
			break
		}
		queries = appendUnique(queries, p+" "+topic)
	}

	suffixes := make([]string, len(perspectiveSuffixes))
	copy(suffixes, perspectiveSuffixes)
	e.rng.Shuffle(len(suffixes), func(i, j int) {
		suffixes[i], suffixes[j] = suffixes[j], suffixes[i]
	})
	for _, s := range suffixes {
		if len(queries) >= variationCount+1 {
			break
		}
		queries = appendUnique(queries, topic+" "+s)
	}

	if instructions != "" {
		phrases := ExtractKeyPhrases(instructions)
		for i, phrase := range phrases {
			if i >= 2 || i >= len(queries) {
				break
			}
			queries[i] = queries[i] + " " + phrase
		}
	}

	return queries
}

func appendUnique(queries []string, q string) []string {
	for _, existing := range queries {
		if strings.EqualFold(existing, q) {
			return queries
		}
	}
	return append(queries, q)
}
