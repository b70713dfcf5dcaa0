package ingestion

import (
	"context"

	"github.com/poiesic/stacpopulator/core"
)

// Stage contributes one fragment of an item to a draft.
// Stages must only read raw; they receive their own copy of the record.
type Stage interface {
	// Name identifies the stage in failures and logs.
	Name() string

	// Apply adds the stage's fragment to the draft.
	Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error
}

// StageFunc adapts a function to the Stage interface.
type StageFunc func(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error

type namedStage struct {
	name string
	fn   StageFunc
}

// NewStage returns a Stage named name that runs fn.
func NewStage(name string, fn StageFunc) Stage {
	return &namedStage{name: name, fn: fn}
}

func (s *namedStage) Name() string {
	return s.name
}

func (s *namedStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	return s.fn(ctx, raw, draft)
}

// Identifier derives the catalog item id of a record.
type Identifier func(raw *core.RawRecord) (string, error)
