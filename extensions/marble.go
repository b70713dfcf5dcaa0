package extensions

import (
	"context"

	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/ingestion"
)

// MarbleStage records which Marble node hosts the data.
type MarbleStage struct {
	hostNode string
}

var _ ingestion.Stage = (*MarbleStage)(nil)

// NewMarbleStage creates a stage for data hosted on hostNode.
func NewMarbleStage(hostNode string) (*MarbleStage, error) {
	if hostNode == "" {
		return nil, ErrHostNodeRequired
	}
	return &MarbleStage{hostNode: hostNode}, nil
}

func (s *MarbleStage) Name() string {
	return "marble"
}

// HostNode returns the node name written on items.
func (s *MarbleStage) HostNode() string {
	return s.hostNode
}

func (s *MarbleStage) Apply(ctx context.Context, raw *core.RawRecord, draft *core.Draft) error {
	return draft.ApplyExtension("marble", MarbleSchemaURI, map[string]any{
		"marble:host_node": s.hostNode,
		"marble:is_local":  true,
	})
}
