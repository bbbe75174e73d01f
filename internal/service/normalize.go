package service

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// noiseSelectors are elements removed before extraction. They carry layout
// and chrome, not recipe content.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
	".comments", ".related-posts", ".newsletter",
}

// ContentNormalizer reduces a raw HTML document to a bounded text extract
// suitable for the interpreter.
type ContentNormalizer struct {
	maxChars int
}

// NewContentNormalizer creates a normalizer bounded to the direct-text
// input ceiling, keeping inference cost predictable for huge pages.
func NewContentNormalizer() *ContentNormalizer {
	return &ContentNormalizer{maxChars: types.MaxTextLength}
}

// Normalize strips boilerplate from rawHTML, converts the main content to
// markdown and truncates it to the configured bound. Empty extracts are
// reported as ErrNoContent.
func (n *ContentNormalizer) Normalize(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// Prefer the most semantically specific container.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return "", ErrNoContent
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	text := strings.TrimSpace(markdown)
	if text == "" {
		return "", ErrNoContent
	}

	if runes := []rune(text); len(runes) > n.maxChars {
		text = string(runes[:n.maxChars])
	}

	return text, nil
}
