// Package markdown handles the file-level mechanics of the lint pipeline:
// discovering node files, splitting frontmatter from body text, and
// extracting link references from Markdown bodies.
package markdown
