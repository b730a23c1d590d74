package cmd

import (
	"os"

	"github.com/LegacyCodeHQ/proximity/cmd/batch"
	"github.com/LegacyCodeHQ/proximity/cmd/compute"
	"github.com/LegacyCodeHQ/proximity/cmd/explain"
	"github.com/LegacyCodeHQ/proximity/cmd/info"
	"github.com/LegacyCodeHQ/proximity/cmd/watch"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "proximity",
		Short: "Compute distances from functions and basic blocks to target locations",
		Long: `Proximity computes how close every function of a call graph, or every basic
block of a control-flow graph, is to a set of target locations. The resulting
distance file guides a directed fuzzer towards the targets.

Use 'proximity --help' to see all available commands, or 'proximity <command> --help'
for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(compute.NewCommand())
	root.AddCommand(batch.NewCommand())
	root.AddCommand(explain.NewCommand())
	root.AddCommand(info.NewCommand())
	root.AddCommand(watch.NewCommand())

	// Initialize annotations for version template
	root.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	root.PersistentFlags().BoolP(logging.VerboseFlag, "v", false, "Log per-identifier diagnostics")
	root.PersistentFlags().BoolP(logging.QuietFlag, "q", false, "Only log errors")

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
