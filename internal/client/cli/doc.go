// Package cli provides an interactive trip journal shell.
//
// It wires configuration, the token vault, the request pipeline and a REPL.
// The session is restored from the vault at startup, so a user who logged
// in before does not have to do it again until the token is discarded.
//
// Commands (once logged in):
//   - trips / trip <id>            list trips, show one with its events
//   - addtrip / edittrip <id>      create or update a trip
//   - deltrip <id>                 delete a trip
//   - addevent <trip> / delevent   manage events
//   - addmedia <event> <file>      attach an image to an event
//   - delmedia <id>                remove an image
//   - logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
