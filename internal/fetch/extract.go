// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves source pages and extracts readable text under a
// bounded-concurrency, rate-limited queue.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a page is read before parsing.
const maxBodyBytes = 2 << 20

// excerptWords is the word budget for the short excerpt accompanying
// extracted content.
const excerptWords = 200

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
)

// Extraction is the readable text pulled from one page.
type Extraction struct {
	Content   string
	Excerpt   string
	WordCount int
}

// HTMLExtractor fetches a URL and extracts its main content as
// plain/markdown text.
type HTMLExtractor struct {
	Client    *http.Client
	UserAgent string

	// Timeout is the hard per-attempt limit for fetch plus extraction.
	Timeout time.Duration

	// MaxWords is the word budget for extracted content.
	MaxWords int
}

// Extract fetches url, locates the main content, converts it to text,
// and truncates it to the word budget.
func (e *HTMLExtractor) Extract(ctx context.Context, url string) (Extraction, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	maxWords := e.MaxWords
	if maxWords <= 0 {
		maxWords = 500
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Extraction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := e.Client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Extraction{}, fmt.Errorf("reading %s: %w", url, err)
	}

	var text string
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") || strings.Contains(contentType, "text/markdown") {
		text = string(body)
	} else {
		text, err = extractReadable(string(body))
		if err != nil {
			return Extraction{}, fmt.Errorf("parsing %s: %w", url, err)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Extraction{}, fmt.Errorf("no readable content at %s", url)
	}

	content := TruncateWords(text, maxWords)
	return Extraction{
		Content:   content,
		Excerpt:   TruncateWords(content, excerptWords),
		WordCount: len(strings.Fields(content)),
	}, nil
}

// extractReadable parses HTML, picks the main content container, and
// converts it to markdown-flavored text.
func extractReadable(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	root := findMainContent(doc)
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	renderText(root, &sb, 0)
	return cleanText(sb.String()), nil
}

// contentAttrHint matches id/class values that usually wrap the article body.
var contentAttrHint = regexp.MustCompile(`(?i)\b(content|article|post|entry|story|main)\b`)

// findMainContent selects the most article-like container: <article>,
// <main>, role=main, then any element whose id/class hints at content.
func findMainContent(doc *html.Node) *html.Node {
	if n := findElement(doc, func(n *html.Node) bool { return n.Data == "article" }); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool { return n.Data == "main" }); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool { return attrValue(n, "role") == "main" }); n != nil {
		return n
	}
	if n := findElement(doc, func(n *html.Node) bool {
		return contentAttrHint.MatchString(attrValue(n, "id")) ||
			contentAttrHint.MatchString(attrValue(n, "class"))
	}); n != nil {
		return n
	}
	return findElement(doc, func(n *html.Node) bool { return n.Data == "body" })
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// renderText walks the node tree and writes markdown-flavored text,
// skipping boilerplate elements.
func renderText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 100 {
		return
	}

	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "form",
			"nav", "footer", "header", "aside":
			return
		case "h1":
			sb.WriteString("\n\n# ")
		case "h2":
			sb.WriteString("\n\n## ")
		case "h3":
			sb.WriteString("\n\n### ")
		case "h4", "h5", "h6":
			sb.WriteString("\n\n#### ")
		case "p", "div", "section", "blockquote":
			sb.WriteString("\n\n")
		case "br":
			sb.WriteString("\n")
		case "li":
			sb.WriteString("\n- ")
		case "pre":
			sb.WriteString("\n\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, sb, depth+1)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "pre":
			sb.WriteString("\n\n")
		}
	}
}

// cleanText collapses runs of whitespace left behind by the tree walk.
func cleanText(s string) string {
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	s = multiSpacePattern.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// TruncateWords cuts text to at most maxWords words. When the last
// sentence boundary inside the cut falls within its final 20%, the cut
// snaps to that boundary; otherwise the text is hard-cut with an
// ellipsis.
func TruncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}

	cut := strings.Join(words[:maxWords], " ")
	if idx := lastSentenceEnd(cut); idx >= 0 && idx >= len(cut)*4/5 {
		return cut[:idx+1]
	}
	return cut + "..."
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, punct := range []string{".", "!", "?"} {
		if idx := strings.LastIndex(s, punct); idx > best {
			best = idx
		}
	}
	return best
}
