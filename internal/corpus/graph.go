package corpus

import (
	"path"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Edge is one relative-file link, resolved against the corpus.
// From and To are indices into Graph.Docs; To is -1 when the resolved
// target is not a known document.
type Edge struct {
	From   int
	To     int
	Target string // resolved corpus-relative path
	Link   models.Link
}

// Graph is the in-memory corpus graph: the parsed documents plus the
// resolved relative-file edges between them. Documents live in a sorted
// slice and edges refer to them by integer index, so the structure has
// no ownership cycles. A Graph is built once per run and read-only
// afterward.
type Graph struct {
	Docs  []models.Document
	Edges []Edge

	byPath  map[string]int
	inbound []int // inbound edges per document, self-links excluded

	Links         int // total extracted links of every kind
	ExternalLinks int
}

// Build constructs the corpus graph from parsed documents. The input is
// expected in path order (Load guarantees this); Build preserves it.
func Build(docs []models.Document) *Graph {
	g := &Graph{
		Docs:    docs,
		byPath:  make(map[string]int, len(docs)),
		inbound: make([]int, len(docs)),
	}
	for i, d := range docs {
		g.byPath[d.Path] = i
	}

	for i, d := range docs {
		for _, l := range d.Links {
			g.Links++
			switch l.Kind {
			case models.LinkExternal:
				g.ExternalLinks++
			case models.LinkRelative:
				target := ResolveTarget(d.Path, l.FilePart)
				to := -1
				if j, ok := g.byPath[target]; ok {
					to = j
					if j != i {
						g.inbound[j]++
					}
				}
				g.Edges = append(g.Edges, Edge{From: i, To: to, Target: target, Link: l})
			}
		}
	}
	return g
}

// DocIndex returns the index of the document at the given corpus-relative path.
func (g *Graph) DocIndex(p string) (int, bool) {
	i, ok := g.byPath[p]
	return i, ok
}

// InboundCount returns how many other documents link to Docs[i].
func (g *Graph) InboundCount(i int) int {
	return g.inbound[i]
}

// ResolveTarget resolves a relative link target against the directory of
// the source document. Both src and the result are slash-separated
// corpus-relative paths; `../` segments are honored. A result outside
// the corpus root keeps its leading `../` and will never match a known
// document.
func ResolveTarget(src, target string) string {
	resolved := path.Join(path.Dir(src), target)
	return path.Clean(resolved)
}

// IsMarkdown reports whether a resolved target names a Markdown file.
func IsMarkdown(target string) bool {
	return strings.HasSuffix(target, ".md")
}
