// Package server implements the HTTP server and HTTP handlers for
// zip-drop. It wires together the routes, the bearer-token authenticator,
// the upload directory and the metrics registry, and provides lifecycle
// helpers used by tests and the production binary.
package server
