package info

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../distance/testdata"

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand()
	cmd.SetArgs(args)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestInfoCommand_CallGraph(t *testing.T) {
	stdout, err := runCommand(t, filepath.Join(fixtureDir, "cg.dot"))

	require.NoError(t, err)
	assert.Equal(t, "Name: Call graph\n"+
		"Type: DiGraph\n"+
		"Number of nodes: 8\n"+
		"Number of edges: 8\n"+
		"Average in degree:   1.0000\n"+
		"Average out degree:   1.0000\n"+
		"Mode: CG\n", stdout)
}

func TestInfoCommand_ControlFlowGraph(t *testing.T) {
	stdout, err := runCommand(t, filepath.Join(fixtureDir, "cfg.main.dot"))

	require.NoError(t, err)
	assert.Contains(t, stdout, "Name: CFG for 'main' function\n")
	assert.Contains(t, stdout, "Number of nodes: 6\n")
	assert.Contains(t, stdout, "Mode: CFG\nFunction: main\n")
}

func TestInfoCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, filepath.Join(t.TempDir(), "missing.dot"))

	assert.ErrorContains(t, err, "failed to read graph")
}
