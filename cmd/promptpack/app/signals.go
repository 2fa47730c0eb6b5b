package app

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/promptpack/pkg/logger"
)

// exitInterrupted is the conventional status for a process killed by SIGINT.
const exitInterrupted = 130

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling cancels the run on the first SIGINT or SIGTERM and
// exits immediately on the second.
func (a *App) setupSignalHandling() {
	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	var once sync.Once
	a.stopSignals = func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
		})
	}

	go a.handleSignals(sigChan, done, &signalState{}, os.Exit)
}

// handleSignals processes incoming signals until done is closed.
func (a *App) handleSignals(sigChan <-chan os.Signal, done <-chan struct{}, state *signalState, exit func(int)) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.log.Warn("Received second interrupt, exiting")
				exit(exitInterrupted)
				return
			}

			a.log.Warn("Interrupted, stopping collection")
			a.cancel()
		}
	}
}
