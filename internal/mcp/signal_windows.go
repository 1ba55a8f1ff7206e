//go:build windows

package mcp

import (
	"os"
	"os/signal"
)

// notifySignals registers the shutdown signals for Run.
// Windows only delivers os.Interrupt (Ctrl+C); there is no SIGTERM.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
