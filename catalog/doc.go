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

// Package catalog defines the contract between the ingestion pipeline and the STAC catalog
// that receives published items.
//
// Two implementations are provided:
//
//   - catalog/stacapi: a STAC API exposing the Transactions extension (create/replace over HTTP)
//   - catalog/badger: a local catalog stored in a BadgerDB directory
//
// Callers depend on the Client interface only; the populator picks an implementation from
// the STAC host argument.
//
// # Collections
//
// Items are always published into a collection. Collections are described by a YAML
// collection configuration (see LoadCollectionConfig) and created or updated with
// Client.EnsureCollection before any item is published.
package catalog
