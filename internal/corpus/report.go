package corpus

import (
	"context"
	"fmt"
	"io"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Report is the product of one validation pass.
type Report struct {
	Findings      []models.Finding `json:"findings"`
	Documents     int              `json:"documents"`
	Links         int              `json:"links"`
	ExternalLinks int              `json:"external_links"`
}

// Run executes the full pipeline against the store: Load → Build →
// Validate. When opts.Exists is unset the store's own file check is
// used for non-Markdown targets.
func Run(ctx context.Context, store storage.Provider, opts Options) (*Report, error) {
	docs, err := Load(ctx, store)
	if err != nil {
		return nil, err
	}
	g := Build(docs)
	if opts.Exists == nil {
		opts.Exists = store.Exists
	}
	return &Report{
		Findings:      Validate(g, opts),
		Documents:     len(g.Docs),
		Links:         g.Links,
		ExternalLinks: g.ExternalLinks,
	}, nil
}

// Counts returns the number of findings per kind.
func (r *Report) Counts() map[models.FindingKind]int {
	out := make(map[models.FindingKind]int)
	for _, f := range r.Findings {
		out[f.Kind]++
	}
	return out
}

// Clean reports whether the run produced no findings at all.
func (r *Report) Clean() bool { return len(r.Findings) == 0 }

// Failed reports whether the run should exit non-zero. With
// allowWarnings set, warning-class findings (orphans, parse warnings)
// are reported but do not fail the run.
func (r *Report) Failed(allowWarnings bool) bool {
	for _, f := range r.Findings {
		if !allowWarnings || !f.Kind.Warning() {
			return true
		}
	}
	return false
}

// WriteText renders the report: one line per finding in the stable
// order produced by Validate, then a summary. Output is byte-identical
// across runs over an unchanged corpus.
func (r *Report) WriteText(w io.Writer) error {
	for _, f := range r.Findings {
		if err := writeFinding(w, f); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%d documents, %d links (%d external)\n",
		r.Documents, r.Links, r.ExternalLinks); err != nil {
		return err
	}
	counts := r.Counts()
	for _, k := range models.FindingKinds {
		if n := counts[k]; n > 0 {
			if _, err := fmt.Fprintf(w, "%s: %d\n", k, n); err != nil {
				return err
			}
		}
	}
	if r.Clean() {
		_, err := fmt.Fprintln(w, "no findings")
		return err
	}
	_, err := fmt.Fprintf(w, "%d findings\n", len(r.Findings))
	return err
}

func writeFinding(w io.Writer, f models.Finding) error {
	var err error
	if f.Line > 0 {
		_, err = fmt.Fprintf(w, "%s:%d: %s", f.Path, f.Line, f.Kind)
	} else {
		_, err = fmt.Fprintf(w, "%s: %s", f.Path, f.Kind)
	}
	if err != nil {
		return err
	}
	if f.Target != "" {
		if _, err = fmt.Fprintf(w, " %s", f.Target); err != nil {
			return err
		}
	}
	if f.Detail != "" {
		if _, err = fmt.Fprintf(w, " (%s)", f.Detail); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
