package models

// FindingKind enumerates the integrity problems the checker reports.
type FindingKind string

// Finding kinds, in report order.
const (
	FindingBrokenFileLink   FindingKind = "broken-file-link"
	FindingBrokenAnchorLink FindingKind = "broken-anchor-link"
	FindingDuplicateSlug    FindingKind = "duplicate-slug"
	FindingOrphanDocument   FindingKind = "orphan-document"
	FindingParseWarning     FindingKind = "parse-warning"
)

// FindingKinds lists every kind in the fixed order used for summaries.
var FindingKinds = []FindingKind{
	FindingBrokenFileLink,
	FindingBrokenAnchorLink,
	FindingDuplicateSlug,
	FindingOrphanDocument,
	FindingParseWarning,
}

// Warning reports whether the kind may be downgraded to non-fatal.
func (k FindingKind) Warning() bool {
	return k == FindingOrphanDocument || k == FindingParseWarning
}

// Finding is one reported integrity problem. Findings are data, not
// errors: a validation run always completes and returns all of them.
type Finding struct {
	Path   string      `json:"path"`
	Line   int         `json:"line,omitempty"`
	Kind   FindingKind `json:"kind"`
	Target string      `json:"target,omitempty"`
	Detail string      `json:"detail,omitempty"`
}
