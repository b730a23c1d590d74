package distance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines_TrimsAndSkipsBlank(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("main\n  parse \n\n\t\nlog\r\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"main", "parse", "log"}, lines)
}

func TestReadCGDistances(t *testing.T) {
	cg, err := ReadCGDistances(strings.NewReader("main,2.5\nparse, 1\n\nmain,0.75\nlog,3,extra\n"))

	require.NoError(t, err)
	assert.Equal(t, CGDistances{"main": 0.75, "parse": 1, "log": 3}, cg)
}

func TestReadCGDistances_Malformed(t *testing.T) {
	tests := map[string]string{
		"missing distance": "main,2.5\nparse\n",
		"not a number":     "main,far\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCGDistances(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrMalformedLine)
		})
	}
}

func TestReadCGDistances_ReportsLineNumber(t *testing.T) {
	_, err := ReadCGDistances(strings.NewReader("main,1\n\nbroken\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadCallsites(t *testing.T) {
	callsites, err := ReadCallsites(strings.NewReader("main.c:4,parse\nmain.c:4,log\n\nutil.c:2,parse\n"))

	require.NoError(t, err)
	assert.Equal(t, []Callsite{
		{Block: "main.c:4", Callee: "parse"},
		{Block: "main.c:4", Callee: "log"},
		{Block: "util.c:2", Callee: "parse"},
	}, callsites)
}

func TestReadCallsites_Malformed(t *testing.T) {
	_, err := ReadCallsites(strings.NewReader("main.c:4\n"))

	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestReadLinesFile_MissingFile(t *testing.T) {
	_, err := ReadLinesFile(filepath.Join(t.TempDir(), "missing.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadCallsitesFile(t *testing.T) {
	callsites, err := ReadCallsitesFile(filepath.Join("testdata", "callsites.txt"))

	require.NoError(t, err)
	assert.Len(t, callsites, 5)
	assert.Equal(t, Callsite{Block: "main.c:3", Callee: "parse"}, callsites[0])
}

func TestFunctionFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "cfg.main.dot", want: "main"},
		{path: "/tmp/dot-files/cfg.parse_header.dot", want: "parse_header"},
		{path: "/tmp/dot-files/cfg.foo.cold.dot", want: "foo.cold"},
		{path: "/tmp/build.v2/callgraph.dot", want: "callgraph"},
		{path: "graph", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, FunctionFromPath(tc.path))
		})
	}
}
