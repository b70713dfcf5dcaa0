package ingestion

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/poiesic/stacpopulator/core"
)

// Failure describes one record that could not be published.
type Failure struct {
	Record string // raw record name
	ItemID string // empty when the id could not be derived
	Stage  string
	Err    error // always a *StageFailure
}

// Cause returns the error reported by the failing stage.
func (f Failure) Cause() error {
	var sf *StageFailure
	if errors.As(f.Err, &sf) {
		return sf.Cause
	}
	return f.Err
}

// Summary counts the outcome of an ingestion run.
type Summary struct {
	Created  int
	Updated  int
	Skipped  int
	Failed   int
	Failures []Failure

	mu sync.Mutex
}

// Processed returns the number of records that reached a final state.
func (s *Summary) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Created + s.Updated + s.Skipped + s.Failed
}

func (s *Summary) recordPublished(decision core.PublishDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if decision == core.DecisionUpdate {
		s.Updated++
		return
	}
	s.Created++
}

func (s *Summary) recordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Skipped++
}

func (s *Summary) recordFailure(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
	s.Failures = append(s.Failures, f)
}

// Write renders the counts and, if any, a table of failures.
func (s *Summary) Write(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := table.NewWriter()
	counts.SetOutputMirror(w)
	counts.SetTitle("Ingestion summary")
	counts.AppendHeader(table.Row{"Created", "Updated", "Skipped", "Failed"})
	counts.AppendRow(table.Row{s.Created, s.Updated, s.Skipped, s.Failed})
	counts.Render()

	if len(s.Failures) == 0 {
		return
	}

	failures := table.NewWriter()
	failures.SetOutputMirror(w)
	failures.SetTitle(fmt.Sprintf("Failures (%d)", len(s.Failures)))
	failures.AppendHeader(table.Row{"Record", "Item", "Stage", "Cause"})
	for _, f := range s.Failures {
		failures.AppendRow(table.Row{f.Record, f.ItemID, f.Stage, f.Cause().Error()})
	}
	failures.Render()
}
