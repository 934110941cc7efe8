package nodes

import "errors"

var (
	ErrUnknownNodeType      = errors.New("nodes: unknown node type")
	ErrRequiredFieldMissing = errors.New("nodes: required frontmatter field missing")
	ErrRegistrySchemaBroken = errors.New("nodes: type registry schema does not compile")
)

// FailureReason identifies why a node file was rejected at parse time.
type FailureReason string

const (
	FailureReadError          FailureReason = "read_error"
	FailureFrontMatterMissing FailureReason = "frontmatter_missing"
	FailureMetadataMalformed  FailureReason = "metadata_malformed"
	FailureUnknownType        FailureReason = "unknown_node_type"
	FailureRequiredField      FailureReason = "required_field_missing"
)

// ParseFailure records a fatal-to-file problem. The run continues so one
// invocation reports every independent defect in the corpus.
type ParseFailure struct {
	Path string
	// ID is the best-effort node id, populated when the frontmatter parsed
	// far enough to yield one.
	ID      string
	Reason  FailureReason
	Message string
}
