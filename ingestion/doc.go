// Package ingestion turns raw dataset records into published STAC items.
//
// A Pipeline runs an ordered list of Stages over one record. Each stage contributes a fragment
// of the item (properties, geometry, an extension block) to a shared core.Draft. A failing stage
// stops the pipeline and is reported as a *StageFailure naming the stage; later stages never run.
// The last stage is always the validation gate, which checks the rendered item against the
// catalog's schemas before the draft is sealed.
//
// An Orchestrator drives one ingestion run:
//   - Iterates a source.Source
//   - Decides create, update or skip per record from catalog state
//   - Builds accepted records through the Pipeline and publishes them
//
// Failures are recorded in the run Summary and processing continues, unless the orchestrator
// runs in strict mode. Records are processed one at a time by default; WithConcurrency spreads
// them over a bounded worker pool.
package ingestion
