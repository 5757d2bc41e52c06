package core

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllBuiltins(t *testing.T) {
	assert.Equal(t, []string{"cd", "exit"}, BuiltinNames(AllBuiltins))
}

func TestCd(t *testing.T) {
	restoreWd(t)
	dir := t.TempDir()

	cases := map[string]struct {
		args         []string
		expected     int
		stderr       string
		expectedDir  string
		wantContinue bool
	}{
		"directory":          {[]string{"cd", dir}, 0, "", dir, true},
		"extra args ignored": {[]string{"cd", dir, "ignored"}, 0, "", dir, true},
		"missing argument":   {[]string{"cd"}, -1, "cd: invalid argument\n", "", true},
		"not a directory":    {[]string{"cd", "/nonexistent"}, -1, "cd: chdir /nonexistent: no such file or directory\n", "", true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			stderr := &bytes.Buffer{}
			st := NewState()

			actual := Cd(st, stderr, tc.args)

			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, tc.stderr, stderr.String())
			assert.Equal(t, tc.wantContinue, st.Continue)

			if tc.expectedDir != "" {
				wd, err := os.Getwd()
				assert.Nil(t, err)
				expected, _ := filepath.EvalSymlinks(tc.expectedDir)
				actual, _ := filepath.EvalSymlinks(wd)
				assert.Equal(t, expected, actual)
			}
		})
	}
}

func TestExit(t *testing.T) {
	st := NewState()

	assert.Equal(t, 0, Exit(st, &bytes.Buffer{}, []string{"exit", "3"}))
	assert.False(t, st.Continue)
}

func TestRunBuiltin(t *testing.T) {
	st := &State{LastStatus: 99, Continue: false}
	var seen State

	runBuiltin(st, &bytes.Buffer{}, ShellBuiltinFunc(func(st *State, stderr io.Writer, args []string) int {
		seen = *st
		return 5
	}), []string{"probe"})

	// The state is reset before the builtin runs.
	assert.Equal(t, State{LastStatus: 0, Continue: true}, seen)
	assert.Equal(t, 5, st.LastStatus)
	assert.True(t, st.Continue)
}
