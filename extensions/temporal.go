package extensions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

const defaultCalendar = "standard"

// TemporalExtent is the time range covered by a dataset.
type TemporalExtent struct {
	Start    time.Time
	End      time.Time
	Calendar string
}

// TemporalResolver finds the time range of a dataset. The range may come from the record
// itself or from a remote read of the dataset's time coordinate.
type TemporalResolver interface {
	ResolveTemporal(ctx context.Context, raw *core.RawRecord) (TemporalExtent, error)
}

// TemporalResolverFunc adapts a function to TemporalResolver.
type TemporalResolverFunc func(ctx context.Context, raw *core.RawRecord) (TemporalExtent, error)

func (f TemporalResolverFunc) ResolveTemporal(ctx context.Context, raw *core.RawRecord) (TemporalExtent, error) {
	return f(ctx, raw)
}

// AttributeResolver reads time_coverage_start and time_coverage_end from the global
// attributes, and the calendar from the time variable.
type AttributeResolver struct{}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102T150405Z",
	"20060102",
}

func (AttributeResolver) ResolveTemporal(ctx context.Context, raw *core.RawRecord) (TemporalExtent, error) {
	start, err := timeAttr(raw.Attributes, "time_coverage_start")
	if err != nil {
		return TemporalExtent{}, err
	}
	end, err := timeAttr(raw.Attributes, "time_coverage_end")
	if err != nil {
		return TemporalExtent{}, err
	}
	return TemporalExtent{Start: start, End: end, Calendar: TimeCalendar(raw)}, nil
}

func timeAttr(attrs map[string]any, key string) (time.Time, error) {
	s := stringAttr(attrs, key)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingAttribute, key)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: unrecognized time %q", ErrInvalidAttribute, key, s)
}

// TimeCalendar returns the calendar of the record's time variable, "standard" when unset.
func TimeCalendar(raw *core.RawRecord) string {
	if v, ok := raw.Variables["time"]; ok {
		if c := strings.TrimSpace(stringAttr(v.Attributes, "calendar")); c != "" {
			return c
		}
	}
	return defaultCalendar
}

// TemporalStage sets start_datetime and end_datetime, with a null datetime.
type TemporalStage struct {
	resolver TemporalResolver
}

var _ ingestion.Stage = (*TemporalStage)(nil)

// NewTemporalStage creates a temporal stage. A nil resolver reads the record attributes.
func NewTemporalStage(resolver TemporalResolver) *TemporalStage {
	if resolver == nil {
		resolver = AttributeResolver{}
	}
	return &TemporalStage{resolver: resolver}
}

func (s *TemporalStage) Name() string {
	return "temporal"
}

func (s *TemporalStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	extent, err := s.resolver.ResolveTemporal(ctx, raw)
	if err != nil {
		return err
	}
	if extent.Start.IsZero() || extent.End.IsZero() {
		return fmt.Errorf("%w: open time range", ErrInvalidTemporalExtent)
	}
	if extent.End.Before(extent.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidTemporalExtent,
			extent.End.Format(time.RFC3339), extent.Start.Format(time.RFC3339))
	}

	return draft.SetProperties(map[string]any{
		"datetime":       nil,
		"start_datetime": extent.Start.UTC().Format(time.RFC3339),
		"end_datetime":   extent.End.UTC().Format(time.RFC3339),
	})
}
