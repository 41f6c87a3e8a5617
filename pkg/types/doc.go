// Package types defines the entity types, closed vocabularies, input and
// patch structs, store interfaces, and standard errors for the casefile case
// store.
//
// Callers obtain a Store from a backend factory (see pkg/sqlite), Attach it
// with a Config, and work through the typed tables it exposes. Input structs
// carry a Validate method; the store itself trusts its callers and does not
// re-check enumerations.
package types
