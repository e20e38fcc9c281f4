package command

import (
	"bytes"
	"github.com/google/pprof/profile"
	"github.com/jom-io/gorig-prof/src/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

const dump = `{"method":"GET","name":"/quiz","elapsed":0.2}
{"method":"GET","name":"/quiz","elapsed":0.4}
{"method":"POST","name":"/submit","elapsed":3.5}
`

func dumpFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := MakeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	path := dumpFile(t)

	out, err := run(t, "analyze", "--source", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total requests: 3")
	assert.Contains(t, out, "/submit")
	assert.Contains(t, out, "high_peak_latency")

	out, err = run(t, "analyze", "-s", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"bottlenecks"`)
	assert.Contains(t, out, `"table": "measurements"`)

	out, err = run(t, "analyze", "-s", path, "-f", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>Profiler Report</h2>")

	_, err = run(t, "analyze", "-s", path, "-f", "xml")
	assert.Error(t, err)
}

func TestRunsWithoutConfigFile(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.True(t, defaults.Missing(cwd, defaults.Mode()), "package dir must not carry a gorig config file")

	path := dumpFile(t)
	t.Chdir(filepath.Dir(path))
	out, err := run(t, "analyze", "-s", filepath.Base(path), "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalRows": 3`)
}

func TestAnalyzeMissingSource(t *testing.T) {
	_, err := run(t, "analyze", "-s", filepath.Join(t.TempDir(), "none.sqlite"))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := dumpFile(t)
	target := filepath.Join(t.TempDir(), "out.pb.gz")

	out, err := run(t, "export", "-s", path, "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	p, err := profile.Parse(f)
	require.NoError(t, err)
	assert.Len(t, p.Sample, 2)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("FLASK_PROFILER_DB", "/from/env.sqlite")
	t.Setenv("PROFILER_TOP_N", "7")

	cmd := MakeCommand()
	analyze, _, err := cmd.Find([]string{"analyze"})
	require.NoError(t, err)
	require.NoError(t, analyze.ParseFlags([]string{"--source", "/from/flag.sqlite", "--min-calls", "2"}))

	c, err := loadConfig(analyze)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.sqlite", c.Source)
	assert.EqualValues(t, 2, c.Policy.MinCalls)
	assert.Equal(t, 7, c.Policy.TopN)
}
