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

// Package stacpopulator catalogs remote climate datasets into a STAC catalog.
//
// A populator is described by a Definition: the collection it fills, how item ids are
// derived and which stages build an item. New assembles the run from a Config:
//
//	pop, err := stacpopulator.New(ctx, def, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pop.Close()
//	summary, err := pop.Ingest(ctx)
//
// Module exposes a Definition as a plugin, so it can be run through the router
// ("stac-populator run CMIP6_UofT ...") or from its own binary.
package stacpopulator
