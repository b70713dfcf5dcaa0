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

package badger

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// StoredDocument is the envelope written for every collection and item.
type StoredDocument struct {
	ID        string
	Digest    string // hex BLAKE2b-256 of Document
	UpdatedAt time.Time
	Document  []byte // JSON document
}

// storedDocumentMUS encodes StoredDocument as
// id (string), digest (string), updated_at (varint unix micros), document (string).
type storedDocumentMUS struct{}

func (storedDocumentMUS) Size(d StoredDocument) (size int) {
	size = ord.String.Size(d.ID)
	size += ord.String.Size(d.Digest)
	size += varint.Int64.Size(d.UpdatedAt.UnixMicro())
	return size + ord.String.Size(string(d.Document))
}

func (storedDocumentMUS) Marshal(d StoredDocument, bs []byte) (n int) {
	n = ord.String.Marshal(d.ID, bs)
	n += ord.String.Marshal(d.Digest, bs[n:])
	n += varint.Int64.Marshal(d.UpdatedAt.UnixMicro(), bs[n:])
	return n + ord.String.Marshal(string(d.Document), bs[n:])
}

func (storedDocumentMUS) Unmarshal(bs []byte) (d StoredDocument, n int, err error) {
	d.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	d.Digest, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.UpdatedAt = time.UnixMicro(micros).UTC()
	var doc string
	doc, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Document = []byte(doc)
	return
}

var documentMUS = storedDocumentMUS{}

// marshalDocument serializes a StoredDocument to bytes.
func marshalDocument(d StoredDocument) []byte {
	buf := make([]byte, documentMUS.Size(d))
	documentMUS.Marshal(d, buf)
	return buf
}

// unmarshalDocument deserializes a StoredDocument from bytes.
func unmarshalDocument(data []byte) (*StoredDocument, error) {
	d, _, err := documentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return &d, nil
}
