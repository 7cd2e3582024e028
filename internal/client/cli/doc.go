// Package cli provides the slidesmith command-line client.
//
// It wires configuration, the session store, the API services and the
// editors into a cobra command tree. Every command can run one-shot
// ("slidesmith ls -o json") or from the interactive REPL started when no
// command is given.
//
// Commands:
//   - login / register / logout / whoami
//   - ls, show, export: browse, preview and download projects
//   - new-deck, new-doc, theme: generate and style artifacts
//   - edit-deck, edit-doc, refine: edit slides and document sections
//
// See App.Execute and runREPL for the entry points.
package cli
