// Package executor implements a breadth-first, batch-friendly GraphQL executor
// with explicit runtime hooks for synchronous resolution, depth-wise batching of
// asynchronous work, and leaf serialization.
//
// # Execution model
//
// Fields are either synchronous or asynchronous, as recorded in
// schema.Field.Async. Synchronous fields project values that are already in
// memory and are resolved immediately through Runtime.ResolveSync; their
// subfields are expanded without adding depth. Asynchronous fields load data:
// all of those discovered at one depth are handed to Runtime.BatchResolveAsync
// in a single call, and their subfields are expanded once the batch returns.
// For an operation whose asynchronous nesting depth is d, BatchResolveAsync is
// called exactly d times.
//
// Every asynchronous task carries the look-ahead of its field as a
// *selection.Node: the subfields the operation selects beneath it, merged
// across fragments and aliases, after @skip/@include and variable
// substitution. A runtime backed by a query language uses it to fetch the
// whole subtree in one round trip; Lookahead computes the same trees without
// executing anything.
//
// # Values and errors
//
// Values are completed per the GraphQL specification. Lists are completed
// element by element with index-aware paths, leaves go through
// Runtime.SerializeLeafValue and objects have their subfields executed.
// Interfaces and unions are not supported.
//
// Errors become located GraphQL errors and never abort the whole operation.
// A null or failed Non-Null field nullifies the nearest nullable ancestor;
// asynchronous tasks queued beneath a nullified path are dropped before the
// next batch. Errors implementing Extensions() map[string]any keep their
// extensions.
//
// The executor does not validate documents against the schema. A selection of
// a field the schema lacks is reported at that field, and the field still
// appears in the look-ahead of its asynchronous ancestor.
package executor
