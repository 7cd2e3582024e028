// Package client talks to the slidesmith backend over HTTP.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     auth (Register, Login, CurrentUser), the dashboard listing, artifact
//     fetch/create/update, section save/refine/feedback, and downloads.
//  2. A concrete implementation (see HTTPClient) that joins paths onto the
//     configured base URL, attaches "Authorization: Bearer <token>" and a
//     fresh X-Request-ID to every call, and maps failures to errors.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the status and the backend
// detail text. APIError matches ErrUnauthorized (401) and ErrNotFound (404)
// under errors.Is. Transport failures wrap ErrUnavailable.
//
// All operations accept context.Context and honor cancellation/timeouts.
// HTTPClient is safe for concurrent use.
package client
