// Package reconciler implements the generic resource reconciliation engine.
//
// # Overview
//
// The reconciler converges the state of one remote resource instance
// against a caller-supplied desired state, computing the minimal set of
// create / update / delete operations and reporting whether anything
// changed. It is parameterized by a Schema (kind, endpoint, unique key,
// reference fields, auxiliary relations) instead of carrying per-kind
// code paths; the schemas themselves live in the resource package.
//
// # Target States
//
//   - present: create when missing, patch drifted fields, else no-op
//   - enforced: present, plus auxiliary one-to-one references and
//     many-to-many association sets
//   - absent: delete when present, else no-op
//   - exists: read-only assertion; fails with a NotFoundError when the
//     resource is missing and never mutates
//
// # Edge Policy
//
// Field comparison normalizes numeric types only for fields declared as
// id references. An auxiliary reference that cannot be resolved records
// a warning and skips just that relation. Association adds and removes
// are idempotent: re-adding a present member or removing an absent one
// converges instead of failing, so an interrupted run is safely
// retryable. Any unexpected HTTP status on a mutation aborts that
// resource's reconciliation with method, path and status attached.
//
// # Concurrency
//
// Each reconciliation is one sequential chain of blocking calls. The
// engine holds no shared mutable state and implements no locking; the
// design assumes at most one concurrent reconciler per remote resource.
package reconciler
