package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const facilityDoc = `name: facility
annotations:
  - scope: variables
    elements:
      - {name: open_1, index: 0, value: 1}
      - {index: 3, value: 2}
      - {name: scratch, index: -1, value: 4}
  - scope: piecewise
    elements:
      - {index: 0, value: 1}
  - scope: linear
    elements:
      - {name: demand_0, index: 0, value: 2}
`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facility.yaml")
	require.NoError(t, os.WriteFile(path, []byte(facilityDoc), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExportToStdout(t *testing.T) {
	out, _, err := execute(t, "", "export", writeModel(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml version='1.0' encoding='utf-8'?>\n"))
	assert.Contains(t, out, "<!-- This file has been generated by cpxanno version dev  -->")
	assert.Contains(t, out, "  <object type='1'>\n   <anno name='open_1' index='0' value='1'/>\n   <anno name='x3' index='3' value='2'/>\n  </object>\n")
	assert.Contains(t, out, "<anno name='demand_0' index='0' value='2'/>")
	assert.NotContains(t, out, "scratch")
	assert.NotContains(t, out, "pwl0")
	assert.True(t, strings.HasSuffix(out, " </CPLEXAnnotations>\n\n"))
}

func TestExportFromStdin(t *testing.T) {
	out, _, err := execute(t, facilityDoc, "export", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "<anno name='open_1' index='0' value='1'/>")
}

func TestExportToFileAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	model := writeModel(t)

	_, _, err := execute(t, "", "export", model, "--target", filepath.Join(dir, "foo"))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "foo.ann"))

	_, _, err = execute(t, "", "export", model, "-t", filepath.Join(dir, "bar.ann"))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "bar.ann"))
	assert.NoFileExists(t, filepath.Join(dir, "bar.ann.ann"))

	_, _, err = execute(t, "", "export", model, "-t", filepath.Join(dir, "baz"), "--ext", ".xml")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "baz.xml"))
}

func TestExportGeneratorFromConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cpxanno.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("generator: DOcplex\n"), 0o644))

	out, _, err := execute(t, "", "--config", cfgPath, "export", writeModel(t))
	require.NoError(t, err)
	assert.Contains(t, out, "<!-- This file has been generated by DOcplex version dev  -->")
}

func TestExportWritesMetricsFile(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "cpxanno.prom")

	_, _, err := execute(t, "", "export", writeModel(t), "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cpxanno_exports_total{target="stdout"} 1`)
	assert.Contains(t, string(data), "cpxanno_annotations_written_total 3")
	assert.Contains(t, string(data), "cpxanno_annotations_detached_total 1")
	assert.Contains(t, string(data), "cpxanno_scopes_ignored_total 1")
}

func TestExportErrors(t *testing.T) {
	_, _, err := execute(t, "", "export", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load model")

	_, _, err = execute(t, "", "export", writeModel(t), "-t", filepath.Join(t.TempDir(), "no", "dir", "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export annotations")

	_, _, err = execute(t, "", "export")
	require.Error(t, err)
}

func TestExportLogsSummary(t *testing.T) {
	_, logs, err := execute(t, "", "--log-level", "info", "export", writeModel(t))
	require.NoError(t, err)
	assert.Contains(t, logs, "annotation export finished")
	assert.Contains(t, logs, "model=facility")
}

func TestInspectTable(t *testing.T) {
	out, _, err := execute(t, "", "inspect", writeModel(t))
	require.NoError(t, err)

	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "SCOPE")
	assert.Contains(t, upper, "DETACHED")
	assert.Contains(t, out, "variables")
	assert.Contains(t, out, "piecewise")
	assert.Contains(t, out, "linear")
}

func TestInspectJSON(t *testing.T) {
	out, _, err := execute(t, "", "--output", "json", "inspect", writeModel(t))
	require.NoError(t, err)

	var resp inspectResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "facility", resp.Model)
	require.Len(t, resp.Scopes, 3)

	assert.Equal(t, scopeSummary{Scope: "variables", ObjectType: 1, Prefix: "x", Entries: 3, Exported: 2, Detached: 1}, resp.Scopes[0])
	assert.Equal(t, scopeSummary{Scope: "piecewise", Prefix: "pwl", Entries: 1, Ignored: true}, resp.Scopes[1])
	assert.Equal(t, scopeSummary{Scope: "linear", ObjectType: 2, Prefix: "c", Entries: 1, Exported: 1}, resp.Scopes[2])
}

func TestInspectEmptyModel(t *testing.T) {
	out, _, err := execute(t, "name: empty\n", "inspect", "-")
	require.NoError(t, err)
	assert.Equal(t, "No annotations\n", out)
}

func TestConfigShow(t *testing.T) {
	out, _, err := execute(t, "", "config", "show", "--log-format", "json")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "cpxanno", got["generator"])
	assert.Equal(t, ".ann", got["extension"])
	assert.Equal(t, "json", got["log_format"])
}

func TestConfigShowRejectsInvalidConfig(t *testing.T) {
	_, _, err := execute(t, "", "config", "show", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "cpxanno version dev\n", out)
}
