// Package models defines the domain types for Ansuz.
package models

import "time"

// LinkKind classifies where a link target points.
type LinkKind string

// Link target classes.
const (
	LinkExternal LinkKind = "external" // http/https (or other schemed) URL
	LinkRelative LinkKind = "relative" // relative file path, optionally with #fragment
	LinkAnchor   LinkKind = "anchor"   // in-page #anchor
)

// Heading is one ATX heading extracted from a document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
	Line  int    `json:"line"`
}

// Link is one outbound link extracted from a document.
type Link struct {
	Text   string   `json:"text"`
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
	// FilePart is the path portion of a relative target (empty for anchors
	// and external URLs). Fragment is the anchor portion without the '#'.
	FilePart string `json:"file_part,omitempty"`
	Fragment string `json:"fragment,omitempty"`
	Line     int    `json:"line"`
}

// ParseIssue is a recoverable problem found while extracting a document.
type ParseIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Document is a parsed Markdown file in the corpus.
//
// Path is slash-separated and relative to the corpus root. Headings and
// Links preserve source order.
type Document struct {
	Path        string         `json:"path"`
	Title       string         `json:"title,omitempty"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Headings    []Heading      `json:"headings,omitempty"`
	Links       []Link         `json:"links,omitempty"`
	Warnings    []ParseIssue   `json:"warnings,omitempty"`
	Checksum    string         `json:"checksum"`
}

// HasSlug reports whether slug matches one of the document's heading slugs.
func (d Document) HasSlug(slug string) bool {
	for _, h := range d.Headings {
		if h.Slug == slug {
			return true
		}
	}
	return false
}

// DocumentMeta is a lightweight representation returned by list operations.
type DocumentMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
