// Package resolver maps human-supplied resource references to canonical
// integer ids.
//
// A reference may be an integer, a numeric string, a URL-ish path whose
// last segment is numeric, or a name to look up on a collection endpoint.
// Resolution is an ordered list of parsing strategies, short-circuiting
// on the first that applies; only the final name-lookup strategy touches
// the network, issuing exactly one read.
//
// A reference that cannot be resolved (not found or ambiguous) is not
// an error: Resolve reports ok=false and leaves the policy (warn, skip,
// or fail) to the caller.
package resolver
