package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogRequired is returned when a catalog client is not provided.
	ErrCatalogRequired = errors.New("catalog client required")

	// ErrPipelineRequired is returned when a pipeline is not provided.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrIdentifierRequired is returned when a pipeline has no item identifier function.
	ErrIdentifierRequired = errors.New("item identifier required")

	// ErrValidatorRequired is returned when a pipeline has no validator.
	ErrValidatorRequired = errors.New("validator required")

	// ErrSourceRequired is returned when Ingest is called without a data source.
	ErrSourceRequired = errors.New("data source required")

	// ErrNilStage is returned when a pipeline is given a nil stage.
	ErrNilStage = errors.New("stage is nil")

	// ErrAborted is returned by a strict run that stopped at its first failure.
	ErrAborted = errors.New("ingestion aborted")
)

// Stage names used for failures that do not come from a pipeline stage.
const (
	StageIdentity   = "identity"
	StageLookup     = "lookup"
	StageValidation = "validation"
	StagePublish    = "publish"
)

// StageFailure reports the stage that failed while processing a record, and why.
type StageFailure struct {
	Stage string
	Cause error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Cause)
}

func (e *StageFailure) Unwrap() error {
	return e.Cause
}
