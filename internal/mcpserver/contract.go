package mcpserver

// AuthoringGuide describes the linking and heading conventions that keep
// a corpus clean under validation. Exposed to LLM consumers as a
// resource so generated documents pass the checker.
const AuthoringGuide = `# Ansuz Authoring Guide

Documents that follow these conventions produce zero findings.

## Links

` + "```" + `markdown
[display text](./sibling.md)          relative link to another document
[section](./sibling.md#section-slug)  link to a heading in another document
[here](#local-slug)                   link to a heading in this document
[site](https://example.com)           external link (never validated)
` + "```" + `

1. **Relative targets** are resolved against the linking document's
   directory. ` + "`" + `../` + "`" + ` may climb directories but must stay inside the
   corpus root; targets escaping the root are always broken.
2. **Anchors** reference heading slugs: lowercase the heading text,
   strip punctuation, replace spaces with hyphens. ` + "`" + `## What's New?` + "`" + `
   becomes ` + "`" + `#whats-new` + "`" + `.
3. **Duplicate headings** on one page get ` + "`" + `-1` + "`" + `, ` + "`" + `-2` + "`" + ` suffixes in slug
   order, and are flagged — prefer unique heading text.
4. Links inside fenced code blocks are treated as sample text and never
   validated.

## Reachability

Every document should be reachable from the hub document (` + "`" + `README.md` + "`" + `
by default) through relative links. A document nothing links to is
flagged as an orphan.

## Format

- ATX headings only (` + "`" + `#` + "`" + ` through ` + "`" + `######` + "`" + `).
- Optional YAML frontmatter between ` + "`" + `---` + "`" + ` fences at the top of the
  file; a ` + "`" + `title` + "`" + ` field overrides the first H1 as the display title.
- File paths end with ` + "`" + `.md` + "`" + ` and use forward slashes.
- Close every code fence; an unterminated fence is flagged.
`
