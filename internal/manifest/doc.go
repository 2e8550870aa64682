// Package manifest loads and validates the desired-state documents that
// drive reconciliation.
//
// A manifest is a YAML file with an optional gateway connection block
// and a list of resource entries, each naming a kind, a target state,
// desired fields and optional auxiliary relations. Manifests are
// rendered through text/template with the sprig function map before
// parsing, so entries can interpolate user-supplied values.
//
// The package also provides a debounced fsnotify watcher used by
// `aapctl apply --watch` to re-apply a manifest whenever the file
// changes on disk.
package manifest
