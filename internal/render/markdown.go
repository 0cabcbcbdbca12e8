// Package render converts raw markdown bodies (comments, issues, pull
// requests, release notes) into display-ready content.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts raw text bodies to a display format.
// Mode is "html" (full document) or "inline" (single paragraph
// unwrapped); codelines caps the visible lines of each code block.
type Renderer interface {
	Render(content, mode string, codelines int) (string, error)
}

// MarkdownRenderer renders GitHub-flavored markdown.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a renderer with GFM extensions enabled.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Render converts markdown to HTML, truncating code blocks to codelines
// lines first.
func (r *MarkdownRenderer) Render(content, mode string, codelines int) (string, error) {
	if content == "" {
		return "", nil
	}

	if codelines > 0 {
		content = truncateCodeBlocks(content, codelines)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	rendered := buf.String()
	if mode == "inline" {
		rendered = unwrapParagraph(rendered)
	}

	return rendered, nil
}

// truncateCodeBlocks caps the body of each fenced code block at limit
// lines, replacing the remainder with an ellipsis line.
func truncateCodeBlocks(content string, limit int) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	kept := 0
	truncated := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence && truncated {
				out = append(out, "…")
			}
			inFence = !inFence
			kept = 0
			truncated = false
			out = append(out, line)
			continue
		}

		if inFence {
			if kept >= limit {
				truncated = true
				continue
			}
			kept++
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// unwrapParagraph strips the outer <p> wrapper from single-paragraph
// output so the content can be embedded inline.
func unwrapParagraph(rendered string) string {
	trimmed := strings.TrimSuffix(rendered, "\n")
	if !strings.HasPrefix(trimmed, "<p>") || !strings.HasSuffix(trimmed, "</p>") {
		return rendered
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "<p>"), "</p>")
	// Multi-paragraph content keeps its structure.
	if strings.Contains(inner, "<p>") {
		return rendered
	}
	return inner
}
