// Package main is the entry point for the supercopy application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/tomn/supercopy/internal/config"
	"github.com/tomn/supercopy/internal/copyengine"
	"github.com/tomn/supercopy/internal/tui"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1 // planning error, total failure, or aborted run
	exitPartial = 2 // some tasks failed, some succeeded
)

const plainProgressInterval = 500 * time.Millisecond

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	engine := copyengine.New(cfg.Source, cfg.Dest, copyengine.Options{
		Workers:    cfg.Workers,
		BufferSize: cfg.Buffer,
		Verify:     cfg.Verify,
		Pattern:    cfg.Pattern,
	})

	if cfg.LogPath != "" {
		err = engine.EnableFileLogging(cfg.LogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitFailure
		}

		defer engine.CloseLog()
	}

	// Planning errors are fatal and happen before any filesystem mutation.
	err = engine.Plan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	var summary *copyengine.Summary

	if cfg.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		summary, err = runPlain(engine)
	} else {
		summary, err = tui.Run(engine, tea.WithAltScreen())
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	if summary == nil {
		fmt.Fprintln(os.Stderr, "Aborted before the run completed.")
		return exitFailure
	}

	printReport(os.Stdout, summary)

	switch summary.Outcome() {
	case copyengine.OutcomeSuccess:
		return exitSuccess
	case copyengine.OutcomePartialFailure:
		return exitPartial
	default:
		return exitFailure
	}
}

// runPlain runs the engine without the TUI, printing a single updating
// progress line to stderr. Used for non-TTY output and --plain.
func runPlain(engine *copyengine.Engine) (*copyengine.Summary, error) {
	stop := cancelOnInterrupt(engine)
	defer stop()

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(plainProgressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				printProgressLine(engine.Progress.Snapshot())
			}
		}
	}()

	summary, err := engine.Run()

	close(done)
	printProgressLine(engine.Progress.Snapshot())
	fmt.Fprintln(os.Stderr)

	return summary, err
}

// cancelOnInterrupt cancels the engine on the first interrupt, then releases
// the handler so a second interrupt terminates the process instead of being
// swallowed. The returned function removes the handler.
func cancelOnInterrupt(engine *copyengine.Engine) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		_, ok := <-sigs
		if !ok {
			return
		}

		fmt.Fprintln(os.Stderr, "\nCancelling, waiting for in-flight copies...")
		engine.Cancel()

		// Hand the next interrupt back to the default handler.
		signal.Stop(sigs)
	}()

	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}

func printProgressLine(snap copyengine.Snapshot) {
	fmt.Fprintf(os.Stderr, "\rCopying: %d / %d files, %s / %s (%s)    ",
		snap.FilesDone, snap.FilesTotal,
		tui.FormatBytes(snap.BytesDone), tui.FormatBytes(snap.BytesTotal),
		tui.FormatRate(snap.Rate()))
}
