// domain package contains the Domain Models and Interfaces for the skein application.
//
// `domain/skein` package exposes the root object for the skein application.
// Entrypoints of applications should instantiate the Skein object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/resource.go` contains the `Revision` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the domain entities in the RDB.
// For example, `domain/history/db` contains the database interface for the revision history
// described in `domain/resource.go`, and `domain/history/db/postgres` its implementation.
//
// # Entities
//
// Core entities in the domain are:
//
// - `history`: Append-only store of resource revisions.
// Each write appends a new immutable Revision; nothing is updated in place.
// Appending is guarded with optimistic concurrency: the writer declares the version
// it based its changes on, and the append is rejected when that is no longer the head.
//
// - `kind`: Registry of resource kinds and their schema versions.
// A kind serves several schema versions at once, each with its own codec,
// so payloads written under older versions remain readable.
//
// - `resolve`: Client-side resolution of a resource against a preferred schema version.
// When the stored version differs from the preferred one, resolution falls back
// to the stored version's codec, at most one hop. Resolved results are cached
// in two tiers (short-lived raw responses, explicitly invalidated scenes).
//
// - `schema`: Database schema versioning for the tables above.
package domain
