// Package client implements the journal operations on top of the request
// pipeline.
//
// # Overview
//
// A JournalClient combines:
//  1. a session.Session holding the bearer token,
//  2. a request.Builder resolving endpoints and encoding bodies,
//  3. a transport.Invoker performing the round trip,
//  4. the response package classifying statuses and decoding bodies.
//
// Every operation except Register and LogIn takes a snapshot of the session
// token first. Without one it fails with common.ErrInvalidValue before any
// network I/O. With EnforceExpiry set, an expired token fails with
// common.ErrSessionExpired instead.
//
// # Error Handling
//
// Errors wrap the sentinels declared in internal/common and are matched
// with errors.Is. GetTrips may hide transport and server errors behind an
// empty result depending on Options.TripsFallback.
//
// # Media
//
// CreateMedia either uploads the bytes through a media.Uploader and then
// posts {event_id, url}, or posts {event_id, base64_data} in one call,
// depending on Options.MediaMode.
package client
