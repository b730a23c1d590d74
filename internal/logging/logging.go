// Package logging builds the structured logger shared by every command.
package logging

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Flag names registered as persistent flags on the root command.
const (
	VerboseFlag = "verbose"
	QuietFlag   = "quiet"
)

// Level returns the minimum level for the verbose and quiet switches. Quiet
// wins when both are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w.
func New(w io.Writer, verbose, quiet bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(verbose, quiet)}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FromCommand returns a logger writing to the command's error stream at the
// level chosen by the inherited verbose and quiet flags. A command run
// without those flags logs at info level.
func FromCommand(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool(VerboseFlag)
	quiet, _ := cmd.Flags().GetBool(QuietFlag)
	return New(cmd.ErrOrStderr(), verbose, quiet)
}
