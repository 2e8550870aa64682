// Package resource defines the catalog of managed resource kinds as
// reconciler schemas, and the translation from manifest entries to
// reconciler descriptors.
//
// The reconciliation engine itself is kind-agnostic; all knowledge
// about users, organizations, CA certificates, authenticator maps,
// role definitions and role assignments lives here as schema data:
// endpoints, unique keys, reference fields, secret fields, rename
// aliases and auxiliary relations.
//
// Organization auxiliary relations (default execution environment and
// galaxy credentials) are served by the controller API rather than the
// gateway; its base path is discovered per run by probing candidate
// bases and then wired into a schema copy.
package resource
