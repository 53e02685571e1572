//go:build !windows

// Package shutdown wires the platform's termination signals to a channel so
// the app can stop an in-flight recording before exiting.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
