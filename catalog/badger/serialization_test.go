package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredDocument_RoundTrip(t *testing.T) {
	doc := StoredDocument{
		ID:        "CMIP6_ScenarioMIP_CCCma",
		Digest:    "abc123",
		UpdatedAt: time.Date(2024, 5, 1, 12, 30, 0, 123000, time.UTC),
		Document:  []byte(`{"id":"CMIP6_ScenarioMIP_CCCma"}`),
	}

	got, err := unmarshalDocument(marshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Digest, got.Digest)
	assert.True(t, doc.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, doc.Document, got.Document)
}

func TestStoredDocument_Truncated(t *testing.T) {
	data := marshalDocument(StoredDocument{ID: "a", Digest: "b", UpdatedAt: time.Now(), Document: []byte("{}")})

	_, err := unmarshalDocument(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrCorruptRecord)

	_, err = unmarshalDocument(nil)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
