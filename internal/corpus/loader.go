// Package corpus builds and validates the link graph of a Markdown corpus.
//
// The pipeline is Load → Build → Validate → Report, run once per
// invocation. The graph is built in memory, read-only after
// construction, and discarded when the run ends.
package corpus

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// parseConcurrency bounds the number of documents parsed at once.
// Parsing is a pure function of file contents, so parallelism is safe;
// the result is re-sorted so it is never observable in output order.
const parseConcurrency = 8

// Load reads every Markdown file under the provider root and parses it
// into a Document. The returned slice is sorted by path, independent of
// file-system enumeration order and parse scheduling.
func Load(ctx context.Context, store storage.Provider) ([]models.Document, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("corpus: list: %w", err)
	}

	docs := make([]models.Document, len(metas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)

	for i, m := range metas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				// An unreadable file is fatal: skipping it could mask
				// real link breakage.
				return fmt.Errorf("corpus: read %s: %w", m.Path, err)
			}
			res := parser.Parse(data)
			docs[i] = models.Document{
				Path:        m.Path,
				Title:       res.Title,
				Frontmatter: res.Frontmatter,
				Headings:    res.Headings,
				Links:       res.Links,
				Warnings:    res.Warnings,
				Checksum:    m.Checksum,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}
