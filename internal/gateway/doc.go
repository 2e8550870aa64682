// Package gateway implements the REST client for the automation platform
// gateway API.
//
// The client speaks JSON over HTTPS using the standard verbs
// (GET/POST/PATCH/DELETE) against resource-collection endpoints such as
// /api/gateway/v1/users/ and nested sub-collections like
// /api/gateway/v1/organizations/<id>/galaxy_credentials/.
//
// # Authentication
//
// Exactly one of HTTP basic authentication (username/password) or bearer
// token authentication is configured per client. Tokens are carried via an
// oauth2.TokenSource so static and refreshable sources are interchangeable.
//
// # Error Model
//
// The client signals four failure kinds distinctly:
//
//   - TransportError (Timeout=false): connection failure
//   - TransportError (Timeout=true): request deadline exceeded
//   - StatusError: response status outside the caller's expected set
//   - DecodeError: response body that is not valid JSON
//
// Every mutation method takes the set of expected status codes, so callers
// decide what a successful create, update or delete looks like per endpoint.
// There is no retry logic; retries are an operator concern.
package gateway
