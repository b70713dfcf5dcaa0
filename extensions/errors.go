package extensions

import "errors"

var (
	// ErrMissingAttribute indicates a dataset attribute a stage requires is absent.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrInvalidAttribute indicates a dataset attribute has an unusable value.
	ErrInvalidAttribute = errors.New("invalid attribute")

	// ErrMissingAccessURL indicates the record lacks a THREDDS service URL the stage needs.
	ErrMissingAccessURL = errors.New("missing access URL")

	// ErrInvalidTemporalExtent indicates the resolved time range is unusable.
	ErrInvalidTemporalExtent = errors.New("invalid temporal extent")

	// ErrNoDimensions indicates a record has neither dimensions nor variables.
	ErrNoDimensions = errors.New("record has no dimensions")

	// ErrHostNodeRequired indicates a Marble stage was created without a host node.
	ErrHostNodeRequired = errors.New("marble host node required")
)
