package watch

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/proximity/internal/cliflags"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	inputs *cliflags.Inputs
	port   int
	scaled bool
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		inputs: cliflags.NewInputs(),
	}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute distances whenever an input file changes",
		Long: `Compute the distance report once, then watch the graph, target, names,
call graph distance and callsite files and rewrite the report whenever one of
them changes.

With --port the latest report is also served at http://localhost:<port>/ and
streamed to subscribers of /events as server-sent "report" events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	opts.inputs.BindGraph(cmd)
	opts.inputs.BindTables(cmd)
	opts.inputs.BindNames(cmd)
	opts.inputs.BindOutput(cmd)
	cmd.Flags().IntVarP(&opts.port, "port", "P", 0, "HTTP server port (0 disables the server)")
	cmd.Flags().BoolVar(&opts.scaled, "scaled", false, "Write int(100*distance) as embedded by the instrumentation pass")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	cfg, err := opts.inputs.Resolve()
	if err != nil {
		return err
	}
	cfg.Scaled = opts.scaled

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := newBroker()
	r := newRecomputer(cfg, logging.FromCommand(cmd), cmd.OutOrStdout(), b)

	if opts.port != 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
		if err != nil {
			return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
		}
		srv := newServer(b, opts.port)
		go srv.Serve(ln)
		defer srv.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	}

	if err := r.run(ctx); err != nil {
		return fmt.Errorf("initial computation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d input files\n", len(inputPaths(cfg)))
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return watchAndRecompute(ctx, cfg, r)
}
