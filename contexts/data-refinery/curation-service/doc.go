// Package curationservice contains the Refinery implementation of package
// curation: cutting immutable packages from refined datasets, with ordered
// manifests, provenance chains, and digest-sealed exports.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package curationservice
