// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"slices"

	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
)

// Pipeline builds validated drafts for one collection.
// A Pipeline holds no per-record state and is safe for concurrent use
// if its stages are.
type Pipeline struct {
	collection string
	identify   Identifier
	validator  catalog.Validator
	stages     []Stage
}

// NewPipeline creates a pipeline that runs stages in order and then validates the result.
func NewPipeline(collection string, identify Identifier, validator catalog.Validator, stages ...Stage) (*Pipeline, error) {
	if identify == nil {
		return nil, ErrIdentifierRequired
	}
	if validator == nil {
		return nil, ErrValidatorRequired
	}
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("%w: position %d", ErrNilStage, i)
		}
	}
	return &Pipeline{
		collection: collection,
		identify:   identify,
		validator:  validator,
		stages:     slices.Clone(stages),
	}, nil
}

// Collection returns the id of the collection items are built for.
func (p *Pipeline) Collection() string {
	return p.collection
}

// StageNames returns the stage names in execution order, validation gate included.
func (p *Pipeline) StageNames() []string {
	names := make([]string, 0, len(p.stages)+1)
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return append(names, StageValidation)
}

// Identify returns the item id of raw. Failures are reported as the identity stage.
func (p *Pipeline) Identify(raw *core.RawRecord) (string, error) {
	id, err := p.identify(raw.Clone())
	if err != nil {
		return "", &StageFailure{Stage: StageIdentity, Cause: err}
	}
	if id == "" {
		return "", &StageFailure{Stage: StageIdentity, Cause: core.ErrEmptyItemID}
	}
	return id, nil
}

// Build runs every stage over raw and validates the result.
// On success the returned draft is sealed. On failure the error is a *StageFailure
// (or the context error) and no draft is returned.
func (p *Pipeline) Build(ctx context.Context, raw *core.RawRecord) (*core.Draft, error) {
	id, err := p.Identify(raw)
	if err != nil {
		return nil, err
	}

	draft := core.NewDraft(p.collection)
	if err := draft.SetID(id); err != nil {
		return nil, &StageFailure{Stage: StageIdentity, Cause: err}
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage.Apply(ctx, raw.Clone(), draft); err != nil {
			return nil, &StageFailure{Stage: stage.Name(), Cause: err}
		}
	}

	if err := p.validator.Validate(draft.Item()); err != nil {
		return nil, &StageFailure{Stage: StageValidation, Cause: err}
	}
	draft.Seal()
	return draft, nil
}
