// Package app wires the config compiler together: logger construction,
// settings-file handling, the startup sequence (compile everything, reload
// everything, then gate on the aggregate up-to-date check), and the
// optional background watch loop.
package app
