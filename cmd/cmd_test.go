package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/kesh/core/config"
	"github.com/stretchr/testify/assert"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		cfgPath = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPositionalArgs(t *testing.T) {
	assert.Equal(t, []string{"."}, positionalArgs(nil, []string{"."}))
	assert.Equal(t, []string{"dir"}, positionalArgs([]string{"dir"}, []string{"."}))
	assert.Equal(t, []string{"a", "y"}, positionalArgs([]string{"a"}, []string{"x", "y"}))
}

func TestBuiltinsCmd(t *testing.T) {
	out, err := execute(t, "builtins")

	assert.Nil(t, err)
	assert.Equal(t, "cd\nexit\n", out)
}

func TestInitCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kesh")

	_, err := execute(t, "init", dir)
	assert.Nil(t, err)
	_, err = os.Stat(filepath.Join(dir, config.ConfigurationName))
	assert.Nil(t, err)

	_, err = execute(t, "init", dir)
	assert.NotNil(t, err)
}

func TestEventsReportCmd(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events.log")
	events := `{"timestamp_micros":1,"session_id":"a","run_builtin":{"command":["cd","/"],"status":0}}
{"timestamp_micros":2,"session_id":"a","unknown_command":{"command":["sl"],"error_message":"executable file not found in $PATH"}}
`
	assert.Nil(t, os.WriteFile(logPath, []byte(events), 0600))

	out, err := execute(t, "events", "report", logPath)

	assert.Nil(t, err)
	assert.Contains(t, out, "log_entries: 2")
	assert.Contains(t, out, "sl: 1")
}

func TestEventsReportCmd_noConfig(t *testing.T) {
	_, err := execute(t, "events", "report")

	assert.ErrorIs(t, err, config.ErrNoConfigDir)
}

func TestOpenEventLog(t *testing.T) {
	recorder, closer, err := openEventLog(config.Default())

	assert.Nil(t, err)
	assert.Nil(t, recorder)
	assert.Nil(t, closer.Close())
}

func TestNewDebugLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	newDebugLogger(buf, false).Print("hidden")
	assert.Empty(t, buf.String())

	newDebugLogger(buf, true).Print("shown")
	assert.True(t, strings.HasSuffix(buf.String(), "shown\n"))
	assert.Contains(t, buf.String(), "[kesh] ")
}
