package cliflags

import (
	"testing"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(in *Inputs) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	in.BindGraph(cmd)
	in.BindTables(cmd)
	in.BindNames(cmd)
	in.BindOutput(cmd)
	return cmd
}

func TestInputs_Resolve(t *testing.T) {
	in := NewInputs()
	cmd := newTestCommand(in)
	cmd.SetArgs([]string{
		"-d", "cfg.main.dot", "-t", "BBtargets.txt", "-n", "BBnames.txt", "-o", "distance.cfg.txt",
		"-c", "distance.callgraph.txt", "-s", "BBcalls.txt", "--match", "substring", "-j", "4",
	})
	require.NoError(t, cmd.Execute())

	cfg, err := in.Resolve()

	require.NoError(t, err)
	assert.Equal(t, distance.Config{
		DotPath:        "cfg.main.dot",
		TargetsPath:    "BBtargets.txt",
		NamesPath:      "BBnames.txt",
		OutPath:        "distance.cfg.txt",
		CGDistancePath: "distance.callgraph.txt",
		CallsitesPath:  "BBcalls.txt",
		Match:          distance.MatchSubstring,
		Jobs:           4,
	}, cfg)
}

func TestInputs_Defaults(t *testing.T) {
	in := NewInputs()
	cmd := newTestCommand(in)
	cmd.SetArgs([]string{"-d", "callgraph.dot", "-t", "Ftargets.txt", "-n", "Fnames.txt", "-o", "out.txt"})
	require.NoError(t, cmd.Execute())

	cfg, err := in.Resolve()

	require.NoError(t, err)
	assert.Equal(t, distance.MatchIndexed, cfg.Match)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Empty(t, cfg.CGDistancePath)
	assert.Empty(t, cfg.CallsitesPath)
}

func TestInputs_RequiredFlags(t *testing.T) {
	cmd := newTestCommand(NewInputs())
	cmd.SetArgs([]string{"-d", "callgraph.dot"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
	assert.Contains(t, err.Error(), `"targets"`)
}

func TestInputs_RejectsUnknownStrategy(t *testing.T) {
	in := NewInputs()
	cmd := newTestCommand(in)
	cmd.SetArgs([]string{"-d", "g.dot", "-t", "t.txt", "-n", "n.txt", "-o", "o.txt", "--match", "fuzzy"})
	require.NoError(t, cmd.Execute())

	_, err := in.Resolve()

	assert.ErrorContains(t, err, "unknown match strategy: fuzzy")
}

func TestInputs_RejectsZeroJobs(t *testing.T) {
	in := NewInputs()
	cmd := newTestCommand(in)
	cmd.SetArgs([]string{"-d", "g.dot", "-t", "t.txt", "-n", "n.txt", "-o", "o.txt", "-j", "0"})
	require.NoError(t, cmd.Execute())

	_, err := in.Resolve()

	assert.ErrorContains(t, err, "invalid jobs: 0")
}
