// Package source provides implementations of the read-only rule-store
// collaborator: the single external dependency of the decision path.
//
// Three sources are provided:
//
//   - HTTPSource fetches groups from an external rule-store service with a
//     bounded per-request timeout. This is the production deployment shape.
//   - FileSource loads groups from YAML files and can hot-reload them on
//     filesystem changes.
//   - StaticSource serves a fixed set of groups from memory, for tests and
//     embedding.
//
// All sources distinguish "group does not exist" (ErrGroupNotFound) from
// "the store could not be reached" (UnreachableError); the engine maps both
// to a fail-closed ESCALATE, with different diagnostic markers.
package source
