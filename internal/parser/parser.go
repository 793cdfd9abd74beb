// Package parser extracts headings, links, and frontmatter from Markdown content.
//
// The parser is line oriented: headings and links are recognized outside
// fenced code blocks only, and every extracted element carries the line
// number it appeared on in the raw file (frontmatter lines included), so
// reported positions match what editors show.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/models"
)

var (
	atxHeadingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.*)$`)
	inlineLinkRe = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)]*)\)`)
	fenceOpenRe  = regexp.MustCompile("^(`{3,}|~{3,})(.*)$")
	slugStripRe  = regexp.MustCompile(`[^a-z0-9 _-]+`)
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]any
	Title       string
	Body        string // content without the frontmatter block
	Headings    []models.Heading
	Links       []models.Link
	Warnings    []models.ParseIssue
}

// Parse extracts frontmatter, headings, and links from raw Markdown bytes.
// Parse never fails: malformed input degrades to best-effort extraction
// plus recorded warnings.
func Parse(data []byte) *Result {
	res := &Result{}
	lines := strings.Split(string(data), "\n")

	bodyStart := splitFrontmatter(lines, res)
	res.Body = strings.Join(lines[bodyStart:], "\n")

	scan(lines, bodyStart, res)

	res.Title = deriveTitle(res)
	return res
}

// splitFrontmatter decodes a leading YAML frontmatter block (between ---
// delimiters starting at line 1) and returns the index of the first body
// line. Invalid YAML degrades to body-only plus a warning.
func splitFrontmatter(lines []string, res *Result) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return 0
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		// No closing delimiter; the opening --- is just a thematic break.
		return 0
	}

	block := strings.Join(lines[1:end], "\n")
	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		res.Warnings = append(res.Warnings, models.ParseIssue{
			Line:    1,
			Message: "invalid YAML frontmatter",
		})
		return 0
	}
	res.Frontmatter = fm
	return end + 1
}

// scan walks lines from start, toggling code-fence state and collecting
// headings and links from the lines outside fences.
func scan(lines []string, start int, res *Result) {
	slugCounts := make(map[string]int)

	inFence := false
	var fenceChar byte
	var fenceLen, fenceLine int

	for i := start; i < len(lines); i++ {
		lineNo := i + 1
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if inFence {
			if isFenceClose(trimmed, fenceChar, fenceLen) {
				inFence = false
			}
			continue
		}
		if m := fenceOpenRe.FindStringSubmatch(trimmed); m != nil {
			inFence = true
			fenceChar = m[1][0]
			fenceLen = len(m[1])
			fenceLine = lineNo
			continue
		}

		if m := atxHeadingRe.FindStringSubmatch(line); m != nil {
			text := trimClosingSequence(strings.TrimSpace(m[2]))
			res.Headings = append(res.Headings, models.Heading{
				Level: len(m[1]),
				Text:  text,
				Slug:  uniqueSlug(Slugify(text), slugCounts),
				Line:  lineNo,
			})
			continue
		}

		matches := inlineLinkRe.FindAllStringSubmatch(line, -1)
		for _, lm := range matches {
			if link, ok := makeLink(lm[1], lm[2], lineNo); ok {
				res.Links = append(res.Links, link)
			}
		}
		// A "](" that the link pattern did not consume is a link missing
		// its closing paren or opening bracket.
		if strings.Count(line, "](") > len(matches) {
			res.Warnings = append(res.Warnings, models.ParseIssue{
				Line:    lineNo,
				Message: "malformed link syntax",
			})
		}
	}

	if inFence {
		res.Warnings = append(res.Warnings, models.ParseIssue{
			Line:    fenceLine,
			Message: "unterminated code fence",
		})
	}
}

// trimClosingSequence strips an ATX closing sequence: a trailing run of
// # preceded by whitespace (or making up the whole text). A # that is
// part of the heading text, as in "Working with C#", stays.
func trimClosingSequence(text string) string {
	stripped := strings.TrimRight(text, "#")
	if stripped == text {
		return text
	}
	if stripped == "" || strings.HasSuffix(stripped, " ") || strings.HasSuffix(stripped, "\t") {
		return strings.TrimRight(stripped, " \t")
	}
	return text
}

// isFenceClose reports whether trimmed closes a fence opened with
// fenceLen characters of fenceChar: a bare line of at least as many of
// the same character.
func isFenceClose(trimmed string, fenceChar byte, fenceLen int) bool {
	if len(trimmed) < fenceLen {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != fenceChar {
			return false
		}
	}
	return true
}

// makeLink normalizes and classifies one inline link target.
func makeLink(text, rawTarget string, line int) (models.Link, bool) {
	target := strings.TrimSpace(rawTarget)
	// Strip an optional link title: [text](target "title").
	if i := strings.IndexAny(target, " \t"); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimPrefix(target, "<")
	target = strings.TrimSuffix(target, ">")
	if target == "" {
		return models.Link{}, false
	}

	link := models.Link{Text: text, Target: target, Line: line}
	switch {
	case strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:"):
		link.Kind = models.LinkExternal
	case strings.HasPrefix(target, "#"):
		link.Kind = models.LinkAnchor
		link.Fragment = target[1:]
	default:
		link.Kind = models.LinkRelative
		link.FilePart = target
		if i := strings.Index(target, "#"); i >= 0 {
			link.FilePart = target[:i]
			link.Fragment = target[i+1:]
		}
	}
	return link, true
}

// Slugify normalizes heading text into an anchor identifier: lowercased,
// punctuation stripped, spaces to hyphens.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStripRe.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, " ", "-")
}

// uniqueSlug disambiguates repeated slugs within one document.
// counts maps every assigned slug to the last suffix tried for it, so a
// suffixed candidate is itself checked against assigned slugs: after
// "Overview", "Overview", a literal "Overview 1" heading gets
// "overview-1-1", never a second "overview-1".
func uniqueSlug(base string, counts map[string]int) string {
	n, taken := counts[base]
	if !taken {
		counts[base] = 0
		return base
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := counts[candidate]; !exists {
			counts[base] = n
			counts[candidate] = 0
			return candidate
		}
	}
}

// deriveTitle returns the frontmatter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(res *Result) string {
	if res.Frontmatter != nil {
		if t, ok := res.Frontmatter["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, h := range res.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}
