package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/corpus"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the corpus and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexDocument(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexDocument parses data and upserts it into the DB.
func indexDocument(db *DB, path string, data []byte) error {
	res := parser.Parse(data)

	row := DocumentRow{
		Path:      path,
		Title:     res.Title,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}
	return db.UpsertDocument(row, res.Body, linkRows(path, res.Links))
}

// linkRows converts extracted links to storable edges. Relative targets
// are resolved against the source document so backlink queries match
// corpus paths; in-page anchors carry no edge.
func linkRows(src string, links []models.Link) []LinkRow {
	var out []LinkRow
	for _, l := range links {
		switch l.Kind {
		case models.LinkRelative:
			out = append(out, LinkRow{
				Source: src,
				Target: corpus.ResolveTarget(src, l.FilePart),
				Kind:   string(models.LinkRelative),
			})
		case models.LinkExternal:
			out = append(out, LinkRow{
				Source: src,
				Target: l.Target,
				Kind:   string(models.LinkExternal),
			})
		}
	}
	return out
}
