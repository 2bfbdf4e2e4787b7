package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomn/supercopy/internal/copyengine"
	"github.com/tomn/supercopy/internal/tui"
	"github.com/tomn/supercopy/pkg/errors"
)

// printReport renders the final run summary: overall counts, throughput, and
// one block per failed path with its error kind and actionable suggestions.
func printReport(w io.Writer, summary *copyengine.Summary) {
	fmt.Fprintln(w, "----- Copy summary -----")

	fmt.Fprintf(w, "Files:      %d / %d copied\n", summary.Succeeded, summary.TotalFiles)
	fmt.Fprintf(w, "Bytes:      %s\n", tui.FormatBytes(summary.BytesCopied))
	fmt.Fprintf(w, "Elapsed:    %s\n", tui.FormatDuration(summary.Elapsed))
	fmt.Fprintf(w, "Throughput: %s\n", tui.FormatRate(summary.Throughput()))

	if bottleneck := summary.Bottleneck(); bottleneck != "balanced" {
		fmt.Fprintf(w, "I/O bound:  %s side\n", bottleneck)
	}

	if summary.Cancelled > 0 {
		fmt.Fprintf(w, "Cancelled:  %d file(s) not copied\n", summary.Cancelled)
	}

	if len(summary.Failed) == 0 {
		if summary.Cancelled == 0 {
			fmt.Fprintln(w, "All files copied successfully.")
		}

		return
	}

	fmt.Fprintf(w, "\n%d file(s) failed:\n", len(summary.Failed))

	enricher := errors.NewEnricher()

	for _, result := range summary.Failed {
		fmt.Fprintf(w, "  %s [%s]\n", result.Task.RelativePath, failureLabel(result.Status))

		if result.Err == nil {
			continue
		}

		enriched := enricher.Enrich(result.Err, result.Task.DestPath)
		fmt.Fprintf(w, "    %v\n", enriched)

		if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
			fmt.Fprintln(w, indent(suggestions, "  "))
		}
	}
}

func failureLabel(status copyengine.TaskStatus) string {
	switch status {
	case copyengine.StatusIOError:
		return "I/O error"
	case copyengine.StatusSizeMismatch:
		return "size mismatch"
	case copyengine.StatusVerifyMismatch:
		return "verify mismatch"
	default:
		return string(status)
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
