// Package tokenstore persists the session token.
//
// Two implementations of session.Store are provided:
//
//   - MemoryStore keeps the token in process memory (tests, ephemeral shells).
//   - VaultStore keeps it in a local SQLite vault, sealed with AES-GCM under a
//     key derived from a passphrase with Argon2id. The salt lives next to the
//     token in the same table and is created on first open.
//
// The vault schema is managed by goose migrations embedded in
// internal/client/migrations.
package tokenstore
