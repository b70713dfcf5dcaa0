package stacpopulator

import "errors"

var (
	ErrSTACHostRequired     = errors.New("STAC_HOST is required")
	ErrHREFRequired         = errors.New("HREF is required")
	ErrInvalidMode          = errors.New("invalid mode")
	ErrInvalidWorkers       = errors.New("workers must be at least 1")
	ErrUnexpectedArgument   = errors.New("unexpected argument")
	ErrDefinitionRequired   = errors.New("populator definition is required")
	ErrIncompleteDefinition = errors.New("populator definition is incomplete")
	ErrConfigRequired       = errors.New("populator config is required")
	ErrPopulatorClosed      = errors.New("populator is closed")
)
