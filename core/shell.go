package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/kesh/core/config"
	"github.com/josephlewis42/kesh/core/logger"
	"github.com/josephlewis42/kesh/core/shell"
)

// EOFLine is run when the input ends.
const EOFLine = "exit"

// LineReader reads command lines after showing a prompt.
type LineReader interface {
	// ReadLine returns the next line, io.EOF at the end of input, or
	// readline.ErrInterrupt if the line was abandoned.
	ReadLine(prompt string) (string, error)
	Close() error
}

// bufferedLineReader reads lines from a non-terminal, showing the prompt
// itself.
type bufferedLineReader struct {
	r *bufio.Reader
	w io.Writer
}

var _ LineReader = (*bufferedLineReader)(nil)

// NewBufferedLineReader creates a LineReader that writes prompts to w and
// reads lines from r.
func NewBufferedLineReader(r io.Reader, w io.Writer) LineReader {
	return &bufferedLineReader{r: bufio.NewReader(r), w: w}
}

func (b *bufferedLineReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.w, prompt)

	line, err := b.r.ReadString('\n')
	if err == io.EOF && line != "" {
		// Final line without a trailing newline.
		return line, nil
	}
	return line, err
}

func (b *bufferedLineReader) Close() error {
	return nil
}

// readlineLineReader reads lines from a terminal with line editing and
// history.
type readlineLineReader struct {
	rl   *readline.Instance
	gate *stdinGate
}

var _ LineReader = (*readlineLineReader)(nil)

// NewReadlineLineReader creates an interactive LineReader on the terminal
// stdin. History is persisted to historyFile if it's not empty.
func NewReadlineLineReader(stdin *os.File, stdout, stderr io.Writer, historyFile string) (LineReader, error) {
	gate := newStdinGate(stdin)

	cfg := &readline.Config{
		Stdin:       readline.NewCancelableStdin(gate),
		Stdout:      stdout,
		Stderr:      stderr,
		HistoryFile: historyFile,
		FuncIsTerminal: func() bool {
			return true
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &readlineLineReader{rl: rl, gate: gate}, nil
}

func (r *readlineLineReader) ReadLine(prompt string) (string, error) {
	r.gate.SetOpen(true)
	defer r.gate.SetOpen(false)

	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineLineReader) Close() error {
	r.gate.Close()
	return r.rl.Close()
}

// Shell is the read-eval loop: it shows a prompt, reads a line and runs it
// until the state says to stop.
type Shell struct {
	State    *State
	Executor *Executor
	Prompter *Prompter
	Reader   LineReader

	// Stdout receives the final newline when the loop ends.
	Stdout io.Writer
	// Interactive is recorded in the session events.
	Interactive bool
	Log         *log.Logger
	Events      EventRecorder
}

// ShellOptions holds the dependencies of NewShell.
type ShellOptions struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	Config *config.Configuration
	// Log receives debug messages, discarded if nil.
	Log *log.Logger
	// Events receives session events, discarded if nil.
	Events EventRecorder
}

// NewShell wires a shell to the standard streams of the process. Stdin gets
// line editing if it's a terminal.
func NewShell(opts ShellOptions) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	debugLog := opts.Log
	if debugLog == nil {
		debugLog = log.New(ioutil.Discard, "", 0)
	}

	events := opts.Events
	if events == nil {
		events = nopRecorder{}
	}

	interactive := IsTerminal(opts.Stdin)

	var reader LineReader
	if interactive {
		var err error
		reader, err = NewReadlineLineReader(opts.Stdin, opts.Stdout, opts.Stderr, cfg.HistoryPath())
		if err != nil {
			return nil, fmt.Errorf("couldn't set up line editing: %w", err)
		}
	} else {
		reader = NewBufferedLineReader(opts.Stdin, opts.Stdout)
	}

	return &Shell{
		State: NewState(),
		Executor: &Executor{
			Stdin:      opts.Stdin,
			Stdout:     opts.Stdout,
			Stderr:     opts.Stderr,
			StatusMode: cfg.GetStatusMode(),
			Log:        debugLog,
			Events:     events,
		},
		Prompter: &Prompter{
			ColorMode: cfg.PromptColor,
			Terminal:  IsTerminal(opts.Stdout),
		},
		Reader:      reader,
		Stdout:      opts.Stdout,
		Interactive: interactive,
		Log:         debugLog,
		Events:      events,
	}, nil
}

func (s *Shell) debugLog() *log.Logger {
	if s.Log == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return s.Log
}

func (s *Shell) record(event logger.LogType) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(event); err != nil {
		s.debugLog().Printf("couldn't record event: %v", err)
	}
}

// RunLine parses and executes a single line.
func (s *Shell) RunLine(ctx context.Context, line string) {
	s.Executor.Execute(ctx, shell.Parse(line), s.State)
}

// Run reads and executes lines until exit is run or the input ends. It
// returns the exit code of the shell itself, which is always 0.
func (s *Shell) Run(ctx context.Context) int {
	stop := catchInterrupts()
	defer stop()

	id := CurrentIdentity()
	s.record(&logger.SessionStart{
		User:        id.User,
		Host:        id.Host,
		Dir:         id.Dir,
		Interactive: s.Interactive,
	})

	for s.State.Continue {
		line, err := s.Reader.ReadLine(s.Prompter.Render(s.State))
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			// Ctrl-C abandons the line.
			continue
		case err == io.EOF:
			line = EOFLine
		case err != nil:
			s.debugLog().Printf("couldn't read line: %v", err)
			line = EOFLine
		}

		s.RunLine(ctx, line)
	}

	fmt.Fprintln(s.Stdout)
	s.record(&logger.SessionEnd{LastStatus: s.State.LastStatus})
	return 0
}

// Close releases the line reader.
func (s *Shell) Close() error {
	return s.Reader.Close()
}
