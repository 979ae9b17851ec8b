// Package cli provides the interactive journal command-line client.
//
// It wires configuration, the local mirror, the HTTP gateway, the save
// engine and the journal session into an interactive REPL that keeps working
// when the server is unreachable. Typical flow: prompt for credentials, load
// entries (falling back to the mirrored snapshot offline), start a background
// connectivity watcher, and execute user commands against the selected day.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Pending edits are flushed on the way out.
package cli
