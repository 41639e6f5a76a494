// Package marketplaceservice contains the Refinery implementation of the
// data marketplace: listings over curated packages, ranked search, atomic
// no-oversell purchases, review aggregation, and the sale-event outbox.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package marketplaceservice
