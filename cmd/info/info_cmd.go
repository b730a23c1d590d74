package info

import (
	"fmt"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/spf13/cobra"
)

// Cmd represents the info command.
var Cmd = NewCommand()

// NewCommand returns a new info command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <graph.dot>",
		Short: "Print a graph summary and the distance mode it selects",
		Long: `Print the name, node and edge counts and average degrees of a DOT graph,
followed by the mode distance computation would run in.

Examples:
  proximity info callgraph.dot
  proximity info dot-files/cfg.main.dot`,
		Args: cobra.ExactArgs(1),
		RunE: runInfo,
	}

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	g, err := dotgraph.ImportFile(args[0])
	if err != nil {
		return err
	}

	summary := g.Summary()
	mode := distance.SelectMode(summary)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\nMode: %s\n", summary, mode); err != nil {
		return err
	}
	if mode == distance.ModeCFG {
		if function := distance.FunctionFromPath(args[0]); function != "" {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Function: %s\n", function)
		}
	}
	return err
}
