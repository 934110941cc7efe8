package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// LinkKind distinguishes how a reference addresses its target node.
type LinkKind string

const (
	// LinkKindPath targets a node by relative Markdown file path.
	LinkKindPath LinkKind = "path"
	// LinkKindID targets a node directly by id via the "id:" scheme.
	LinkKindID LinkKind = "id"
)

// LinkRef is one outgoing node reference found in a body. External URLs and
// in-page anchors are not node references and never appear here.
type LinkRef struct {
	Kind   LinkKind
	Target string
	Text   string
}

const idScheme = "id:"

var linkEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ExtractLinks walks the Markdown AST of body and returns node references in
// document order. The goldmark engine is stateless, so a shared instance is
// reused across calls.
func ExtractLinks(body []byte) []LinkRef {
	doc := linkEngine.Parser().Parse(text.NewReader(body))

	var refs []LinkRef
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if ref, ok := classifyDestination(string(link.Destination)); ok {
			ref.Text = linkText(link, body)
			refs = append(refs, ref)
		}
		return ast.WalkContinue, nil
	})
	return refs
}

func classifyDestination(dest string) (LinkRef, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") {
		return LinkRef{}, false
	}

	if strings.HasPrefix(dest, idScheme) {
		target := strings.TrimSpace(strings.TrimPrefix(dest, idScheme))
		if target == "" {
			return LinkRef{}, false
		}
		return LinkRef{Kind: LinkKindID, Target: target}, true
	}

	// Anything with a URL scheme is an external resource, not a node.
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return LinkRef{}, false
	}

	if fragment := strings.Index(dest, "#"); fragment >= 0 {
		dest = dest[:fragment]
	}
	if !strings.HasSuffix(strings.ToLower(dest), ".md") {
		return LinkRef{}, false
	}
	return LinkRef{Kind: LinkKindPath, Target: dest}, true
}

func linkText(link *ast.Link, body []byte) string {
	var builder strings.Builder
	for child := link.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			builder.Write(textNode.Segment.Value(body))
		}
	}
	return builder.String()
}
