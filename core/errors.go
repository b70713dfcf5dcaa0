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

package core

import "errors"

// Draft errors
var (
	// ErrDraftSealed indicates a mutation of a draft that already passed validation.
	ErrDraftSealed = errors.New("draft is sealed")

	// ErrFieldConflict indicates a stage tried to overwrite a value set by an earlier stage.
	ErrFieldConflict = errors.New("conflicting draft field")
)

// Item validation errors
var (
	// ErrInvalidItem indicates an Item failed validation.
	ErrInvalidItem = errors.New("invalid STAC item")

	// ErrEmptyItemID indicates the item identifier is empty.
	ErrEmptyItemID = errors.New("item id cannot be empty")

	// ErrInvalidGeometry indicates a missing or malformed geometry.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidBBox indicates a malformed bounding box.
	ErrInvalidBBox = errors.New("invalid bbox")

	// ErrInvalidDatetime indicates missing or malformed temporal properties.
	ErrInvalidDatetime = errors.New("invalid datetime properties")

	// ErrMissingProperty indicates a required property is absent.
	ErrMissingProperty = errors.New("missing required property")

	// ErrUnknownExtension indicates an extension URI without a registered schema.
	ErrUnknownExtension = errors.New("unknown extension schema")

	// ErrInvalidExtension indicates an item does not conform to a declared extension schema.
	ErrInvalidExtension = errors.New("extension validation failed")

	// ErrSchemaViolation indicates an item document does not match the STAC item schema.
	ErrSchemaViolation = errors.New("item does not match schema")

	// ErrInvalidSchema indicates a JSON Schema document that cannot be compiled.
	ErrInvalidSchema = errors.New("invalid JSON schema")
)
