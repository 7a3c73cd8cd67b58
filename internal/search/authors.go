// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	byNamePattern      = regexp.MustCompile(`(?i)\bby\s+([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){0,3})`)
	handleSegment      = regexp.MustCompile(`^@([a-zA-Z0-9_.-]+)$`)
	authorPathPattern  = regexp.MustCompile(`(?i)/(?:author|authors|by|u|users|people|profile)/([a-zA-Z0-9_.-]+)`)
	mediumSubdomain    = regexp.MustCompile(`^([a-z0-9-]+)\.medium\.com$`)
	substackSubdomain  = regexp.MustCompile(`^([a-z0-9-]+)\.substack\.com$`)
	separatorCollapser = regexp.MustCompile(`[-_.]+`)
)

// inferAuthor resolves a best-effort author attribution for a scored
// result. Fallback order: explicit provider field, URL platform patterns,
// a "by Name" phrase in the title, then the cleaned hostname.
func inferAuthor(explicit, rawURL, title string) string {
	if a := strings.TrimSpace(explicit); a != "" {
		return a
	}

	if a := authorFromURL(rawURL); a != "" {
		return a
	}

	if m := byNamePattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}

	return cleanedHostname(rawURL)
}

// authorFromURL checks platform-specific URL shapes: @handle path
// segments (Medium, YouTube, TikTok), author subdomains (Medium,
// Substack), and profile-style paths.
func authorFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if m := handleSegment.FindStringSubmatch(seg); m != nil {
			return humanizeSlug(m[1])
		}
	}

	host := strings.ToLower(u.Hostname())
	for _, re := range []*regexp.Regexp{mediumSubdomain, substackSubdomain} {
		if m := re.FindStringSubmatch(host); m != nil {
			return humanizeSlug(m[1])
		}
	}

	if m := authorPathPattern.FindStringSubmatch(u.Path); m != nil {
		return humanizeSlug(m[1])
	}

	return ""
}

// humanizeSlug turns "jane-doe" into "Jane Doe".
func humanizeSlug(slug string) string {
	words := strings.Fields(separatorCollapser.ReplaceAllString(slug, " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// cleanedHostname strips the scheme and "www." and returns the bare host,
// used as the attribution of last resort.
func cleanedHostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
