package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// DefaultHub is the document exempt from the orphan check unless
// overridden: the corpus entry point readers start from.
const DefaultHub = "README.md"

// Options controls a validation pass.
type Options struct {
	// Hub is the corpus-relative path of the hub document. Empty means
	// DefaultHub.
	Hub string
	// Exists, when set, is used to check relative targets that are not
	// Markdown documents (images, license files, ...). When nil such
	// targets are not validated.
	Exists func(rel string) bool
}

// Validate checks every internal edge of the graph and returns all
// findings in one pass, sorted by (document path, line). Two runs over
// an unchanged corpus produce identical sequences.
func Validate(g *Graph, opts Options) []models.Finding {
	hub := opts.Hub
	if hub == "" {
		hub = DefaultHub
	}

	var findings []models.Finding

	for _, d := range g.Docs {
		for _, w := range d.Warnings {
			findings = append(findings, models.Finding{
				Path:   d.Path,
				Line:   w.Line,
				Kind:   models.FindingParseWarning,
				Detail: w.Message,
			})
		}
		findings = append(findings, duplicateSlugs(d)...)

		// In-page anchors resolve against the document's own slugs.
		for _, l := range d.Links {
			if l.Kind != models.LinkAnchor {
				continue
			}
			if !d.HasSlug(l.Fragment) {
				findings = append(findings, models.Finding{
					Path:   d.Path,
					Line:   l.Line,
					Kind:   models.FindingBrokenAnchorLink,
					Target: l.Target,
					Detail: fmt.Sprintf("no heading with slug %q", l.Fragment),
				})
			}
		}
	}

	for _, e := range g.Edges {
		src := g.Docs[e.From]
		if e.To < 0 {
			if broken, detail := missingTarget(e, opts); broken {
				findings = append(findings, models.Finding{
					Path:   src.Path,
					Line:   e.Link.Line,
					Kind:   models.FindingBrokenFileLink,
					Target: e.Link.Target,
					Detail: detail,
				})
			}
			continue
		}
		if e.Link.Fragment != "" && !g.Docs[e.To].HasSlug(e.Link.Fragment) {
			findings = append(findings, models.Finding{
				Path:   src.Path,
				Line:   e.Link.Line,
				Kind:   models.FindingBrokenAnchorLink,
				Target: e.Link.Target,
				Detail: fmt.Sprintf("%s has no heading with slug %q", e.Target, e.Link.Fragment),
			})
		}
	}

	for i, d := range g.Docs {
		if d.Path == hub || g.InboundCount(i) > 0 {
			continue
		}
		findings = append(findings, models.Finding{
			Path:   d.Path,
			Kind:   models.FindingOrphanDocument,
			Detail: "no document links here",
		})
	}

	// Generation above is grouped by check, so re-establish the
	// contract order: source path first, then line.
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Line < findings[j].Line
	})
	return findings
}

// duplicateSlugs reports every heading the parser had to disambiguate:
// any heading whose assigned slug differs from the slug its text alone
// produces collided with an earlier heading. This catches literal
// collisions too, e.g. "Overview 1" following two "Overview" headings.
// Anchors stay resolvable either way; the collision itself is surfaced.
func duplicateSlugs(d models.Document) []models.Finding {
	var out []models.Finding
	for _, h := range d.Headings {
		if h.Slug == parser.Slugify(h.Text) {
			continue
		}
		out = append(out, models.Finding{
			Path:   d.Path,
			Line:   h.Line,
			Kind:   models.FindingDuplicateSlug,
			Target: "#" + h.Slug,
			Detail: fmt.Sprintf("heading %q collides with an earlier heading", h.Text),
		})
	}
	return out
}

// missingTarget decides whether an unresolved edge is a finding.
// Markdown targets must be corpus documents; other targets are checked
// against the file system when a checker is available.
func missingTarget(e Edge, opts Options) (bool, string) {
	if strings.HasPrefix(e.Target, "..") {
		return true, "target escapes the corpus root"
	}
	if IsMarkdown(e.Target) {
		return true, fmt.Sprintf("resolved to %s", e.Target)
	}
	if opts.Exists != nil && !opts.Exists(e.Target) {
		return true, fmt.Sprintf("resolved to %s", e.Target)
	}
	return false, ""
}
