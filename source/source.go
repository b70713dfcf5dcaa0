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

package source

import (
	"context"
	"fmt"

	"github.com/poiesic/stacpopulator/core"
)

// Source produces raw dataset records.
type Source interface {
	// ForEach calls fn for every record, in order.
	// Iteration stops on the first error from fn, which is returned.
	// Context cancellation is checked between records.
	ForEach(ctx context.Context, fn func(*core.RawRecord) error) error
}

// Static yields a fixed list of records.
type Static struct {
	records []*core.RawRecord
}

var _ Source = (*Static)(nil)

// NewStatic creates a source over the given records.
func NewStatic(records ...*core.RawRecord) *Static {
	return &Static{records: records}
}

// ForEach implements Source.
func (s *Static) ForEach(ctx context.Context, fn func(*core.RawRecord) error) error {
	for _, record := range s.records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// Failing is a source for modes that are not available yet.
// It fails on the first call instead of yielding nothing.
type Failing struct {
	Mode string
}

var _ Source = Failing{}

// ForEach implements Source.
func (f Failing) ForEach(ctx context.Context, fn func(*core.RawRecord) error) error {
	if f.Mode == "" {
		return ErrNotImplemented
	}
	return fmt.Errorf("%w: %s", ErrNotImplemented, f.Mode)
}
