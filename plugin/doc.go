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

// Package plugin discovers populator modules and describes how to invoke them.
//
// Populator packages register a loader for each module in a Namespace from their init
// functions:
//
//	func init() {
//	    implementations.Namespace.Add("CMIP6_UofT/add_CMIP6", func() (any, error) {
//	        return NewModule(), nil
//	    })
//	}
//
// Registry.Discover loads every candidate and registers the ones that implement both
// ParserFactory and EntryPoint. Modules that also implement Runner are invoked with an
// already-parsed command context; the others receive their raw arguments.
//
// The plugin name is the module path without its last segment, with "/" replaced by ".":
// "CMIP6_UofT/add_CMIP6" is registered as "CMIP6_UofT".
package plugin
