// Package cliflags binds the input flags shared by the distance commands.
package cliflags

import (
	"fmt"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/spf13/cobra"
)

// Inputs collects flag values into a distance.Config.
type Inputs struct {
	Config distance.Config
	match  string
}

// NewInputs returns Inputs with the default match strategy and one job.
func NewInputs() *Inputs {
	return &Inputs{
		Config: distance.Config{Jobs: 1},
		match:  string(distance.MatchIndexed),
	}
}

// BindGraph registers the required -d/--dot flag.
func (in *Inputs) BindGraph(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.Config.DotPath, "dot", "d", "", "Path to dot-file representing the graph")
	_ = cmd.MarkFlagRequired("dot")
}

// BindOutput registers the required -o/--out flag.
func (in *Inputs) BindOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.Config.OutPath, "out", "o", "", "Path to output file containing distance for each node")
	_ = cmd.MarkFlagRequired("out")
}

// BindNames registers the required -n/--names flag.
func (in *Inputs) BindNames(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.Config.NamesPath, "names", "n", "", "Path to file containing name for each node")
	_ = cmd.MarkFlagRequired("names")
}

// BindTables registers the target, CG-distance, callsite, match and jobs
// flags. Only the target file is required.
func (in *Inputs) BindTables(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&in.Config.TargetsPath, "targets", "t", "", "Path to file specifying Target nodes")
	flags.StringVarP(&in.Config.CGDistancePath, "cg-distance", "c", "", "Path to file containing call graph distance")
	flags.StringVarP(&in.Config.CallsitesPath, "cg-callsites", "s", "", "Path to file containing mapping between basic blocks and called functions")
	flags.StringVar(&in.match, "match", in.match,
		fmt.Sprintf("Identifier matching strategy (%s, %s)", distance.MatchIndexed, distance.MatchSubstring))
	flags.IntVarP(&in.Config.Jobs, "jobs", "j", in.Config.Jobs, "Number of identifiers computed concurrently")
	_ = cmd.MarkFlagRequired("targets")
}

// Resolve validates the flag values and returns the finished Config.
func (in *Inputs) Resolve() (distance.Config, error) {
	strategy, err := distance.ParseMatchStrategy(in.match)
	if err != nil {
		return distance.Config{}, err
	}
	if in.Config.Jobs < 1 {
		return distance.Config{}, fmt.Errorf("invalid jobs: %d (must be at least 1)", in.Config.Jobs)
	}

	cfg := in.Config
	cfg.Match = strategy
	return cfg, nil
}
