package workflow

import "errors"

// Sentinel errors for workflow documents.
var (
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrEmptyNodeID is returned for a node without an ID.
	ErrEmptyNodeID = errors.New("node id must not be empty")

	// ErrUnknownNodeType is returned for a nodeType outside the known set.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownStatus is returned for a status outside the known set.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrInvalidOptions is returned by [Options.Validate].
	ErrInvalidOptions = errors.New("invalid options")
)
