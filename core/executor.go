package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/josephlewis42/kesh/core/logger"
	"github.com/josephlewis42/kesh/core/proc"
	"github.com/josephlewis42/kesh/core/shell"
)

// EventRecorder receives an event for every command line that's run.
// *logger.SessionLogger satisfies it.
type EventRecorder interface {
	Record(event logger.LogType) error
}

type nopRecorder struct{}

func (nopRecorder) Record(logger.LogType) error { return nil }

// Executor runs pipelines as connected child processes.
//
// The shell's own descriptors are never rewired: each child is handed its
// streams when it's created. Stdin goes to the first stage and Stdout to the
// last, stages in between are connected with pipes.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Builtins are consulted for single stage pipelines, AllBuiltins if nil.
	Builtins map[string]ShellBuiltin
	// StatusMode controls how stage statuses are combined.
	StatusMode proc.StatusMode
	// Path is searched for programs, the PATH environment variable if empty.
	Path string

	// Log receives debug messages, discarded if nil.
	Log *log.Logger
	// Events receives an event per command line, discarded if nil.
	Events EventRecorder
}

func (e *Executor) debugLog() *log.Logger {
	if e.Log == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return e.Log
}

func (e *Executor) builtins() map[string]ShellBuiltin {
	if e.Builtins == nil {
		return AllBuiltins
	}
	return e.Builtins
}

func (e *Executor) events() EventRecorder {
	if e.Events == nil {
		return nopRecorder{}
	}
	return e.Events
}

func (e *Executor) stderr() io.Writer {
	if e.Stderr == nil {
		return ioutil.Discard
	}
	return e.Stderr
}

func (e *Executor) path() string {
	if e.Path == "" {
		return os.Getenv("PATH")
	}
	return e.Path
}

func (e *Executor) record(event logger.LogType) {
	if err := e.events().Record(event); err != nil {
		e.debugLog().Printf("couldn't record event: %v", err)
	}
}

// Execute runs the pipeline and stores the result in st.
//
// Failures are only reported through st.LastStatus and a message on Stderr:
// a program that can't be run counts as a stage that exited with status 1,
// while a failure to create a process or pipe sets the status to
// proc.SpawnFailed.
func (e *Executor) Execute(ctx context.Context, p *shell.Pipeline, st *State) {
	e.debugLog().Printf("executing %s", p)

	switch {
	case p.Len() == 0 || p.IsEmpty():
		st.LastStatus = 0

	case p.Len() == 1:
		stage := p.Stages[0]
		if builtin, ok := e.builtins()[stage.Program]; ok {
			runBuiltin(st, e.stderr(), builtin, stage.Arguments)
			e.record(&logger.RunBuiltin{
				Command: stage.Arguments,
				Status:  st.LastStatus,
			})
			return
		}
		fallthrough

	default:
		// Builtins aren't available mid-pipeline, every stage is a program.
		st.LastStatus = e.runPipeline(ctx, p.Stages)
	}
}

// stageResult is the outcome of spawning one stage.
type stageResult struct {
	cmd *exec.Cmd
	// status is used when cmd is nil: the stage couldn't be executed.
	status syscall.WaitStatus
}

func (e *Executor) runPipeline(ctx context.Context, stages []shell.Stage) int {
	start := time.Now()
	agg := proc.NewAggregate(e.StatusMode)
	childStderr := e.childStderr()
	diag := childStderr
	if diag == nil {
		diag = ioutil.Discard
	}

	var results []stageResult
	var prevRead *os.File

	for i, stage := range stages {
		var stdin io.Reader = e.Stdin
		if prevRead != nil {
			stdin = prevRead
		}

		var stdout io.Writer = e.Stdout
		var nextRead, pipeWrite *os.File
		if i < len(stages)-1 {
			r, w, err := os.Pipe()
			if err != nil {
				e.spawnFailure(diag, stage, err)
				agg.Fail()
				break
			}
			nextRead, pipeWrite, stdout = r, w, w
		}

		cmd, err := e.start(ctx, stage, stdin, stdout, childStderr)

		// The children hold their own copies, closing ours lets EOF reach the
		// next stage and keeps descriptors from piling up.
		if pipeWrite != nil {
			pipeWrite.Close()
		}
		if prevRead != nil {
			prevRead.Close()
		}
		prevRead = nextRead

		if err != nil && !proc.IsExecFailure(err) {
			e.spawnFailure(diag, stage, err)
			agg.Fail()
			break
		}

		if err != nil {
			e.debugLog().Printf("stage %d: %v", i, err)
			if errors.Is(err, proc.ErrNotFound) {
				fmt.Fprintf(diag, "kesh: %s: command not found\n", stage.Program)
			} else {
				fmt.Fprintf(diag, "kesh: %s: %v\n", stage.Program, unwrapExecError(err))
			}
			e.record(&logger.UnknownCommand{
				Command:      stage.Arguments,
				ErrorMessage: err.Error(),
			})
			results = append(results, stageResult{status: proc.ExitedStatus(1)})
			continue
		}

		results = append(results, stageResult{cmd: cmd})
	}

	if prevRead != nil {
		prevRead.Close()
	}

	for _, result := range results {
		if result.cmd != nil {
			result.status = proc.Wait(result.cmd)
		}
		agg.Add(result.status)
	}

	status := agg.Status()
	e.debugLog().Printf("pipeline finished with status %d", status)

	var argvs [][]string
	for _, stage := range stages {
		argvs = append(argvs, stage.Arguments)
	}
	dir, _ := os.Getwd()
	e.record(&logger.RunPipeline{
		Stages:         argvs,
		Status:         status,
		DurationMillis: float64(time.Since(start)) / float64(time.Millisecond),
		Dir:            dir,
	})

	return status
}

func (e *Executor) start(ctx context.Context, stage shell.Stage, stdin io.Reader, stdout, stderr io.Writer) (*exec.Cmd, error) {
	path, err := proc.LookPath(e.path(), stage.Program)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Args = stage.Arguments
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// unwrapExecError drops the operation and path exec adds to errors, the
// program name is already part of the message.
func unwrapExecError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

func (e *Executor) spawnFailure(w io.Writer, stage shell.Stage, err error) {
	fmt.Fprintf(w, "kesh: %s: %v\n", stage.Program, err)
	e.record(&logger.SpawnFailure{
		Command:      stage.Arguments,
		ErrorMessage: err.Error(),
	})
}

// childStderr returns the writer shared by every stage for diagnostics.
// Writers other than files are copied to by one goroutine per child so they
// need to be serialized.
func (e *Executor) childStderr() io.Writer {
	switch w := e.Stderr.(type) {
	case nil:
		return nil
	case *os.File:
		return w
	default:
		return &syncWriter{w: w}
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}
