// Package refinementservice contains the Refinery implementation of the
// dataset refinement pipeline: ingestion, quality scoring, deduplication,
// classification, and the dataset lifecycle state machine.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package refinementservice
