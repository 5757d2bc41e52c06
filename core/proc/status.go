// Package proc holds the process level helpers of the shell: program lookup,
// spawn error classification and wait status aggregation.
package proc

import (
	"fmt"
	"os/exec"
	"syscall"
)

// SpawnFailed is the aggregated status of a pipeline where a process could not
// be created.
const SpawnFailed = -1

// StatusMode selects how the wait statuses of a pipeline are combined.
type StatusMode string

const (
	// StatusModeRaw ORs the raw wait status words of every stage.
	StatusModeRaw StatusMode = "raw"
	// StatusModeExitCode reports the rightmost non-zero decoded exit status.
	StatusModeExitCode StatusMode = "exit_code"
)

// ParseStatusMode converts a configuration string to a StatusMode.
func ParseStatusMode(s string) (StatusMode, error) {
	switch StatusMode(s) {
	case StatusModeRaw, "":
		return StatusModeRaw, nil
	case StatusModeExitCode:
		return StatusModeExitCode, nil
	default:
		return "", fmt.Errorf("unknown status mode: %q", s)
	}
}

// ExitedStatus returns the raw wait status of a process that called
// exit(code).
func ExitedStatus(code int) syscall.WaitStatus {
	return syscall.WaitStatus((code & 0xff) << 8)
}

// Decode converts a raw wait status into a shell style exit status: the exit
// code for processes that exited, 128+signal for signaled ones.
func Decode(ws syscall.WaitStatus) int {
	switch {
	case ws.Exited():
		return ws.ExitStatus()
	case ws.Signaled():
		return 128 + int(ws.Signal())
	default:
		return int(ws)
	}
}

// Wait waits for a started command and returns its raw wait status. I/O
// copying errors are ignored, the status of the process is what counts.
func Wait(cmd *exec.Cmd) syscall.WaitStatus {
	_ = cmd.Wait()

	if cmd.ProcessState == nil {
		return ExitedStatus(1)
	}
	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		return ws
	}
	return ExitedStatus(cmd.ProcessState.ExitCode())
}

// Aggregate combines the statuses of every stage of one pipeline. The zero
// value is not usable, create one with NewAggregate.
type Aggregate struct {
	mode   StatusMode
	status int
	failed bool
}

// NewAggregate starts an empty aggregate with a success status.
func NewAggregate(mode StatusMode) *Aggregate {
	if mode == "" {
		mode = StatusModeRaw
	}
	return &Aggregate{mode: mode}
}

// Add folds a stage's wait status into the aggregate. Stages must be added
// left to right.
func (a *Aggregate) Add(ws syscall.WaitStatus) {
	switch a.mode {
	case StatusModeExitCode:
		if code := Decode(ws); code != 0 {
			a.status = code
		}
	default:
		a.status |= int(ws)
	}
}

// Fail marks the pipeline as having failed to create a process.
func (a *Aggregate) Fail() {
	a.failed = true
}

// Status returns the aggregated status.
func (a *Aggregate) Status() int {
	if a.failed {
		return SpawnFailed
	}
	return a.status
}
