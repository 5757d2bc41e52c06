package logger

// LogEntry is a single event in the log. Exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	SessionEnd     *SessionEnd     `json:"session_end,omitempty"`
	RunPipeline    *RunPipeline    `json:"run_pipeline,omitempty"`
	RunBuiltin     *RunBuiltin     `json:"run_builtin,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	SpawnFailure   *SpawnFailure   `json:"spawn_failure,omitempty"`
}

// LogType is implemented by every event that can be attached to a LogEntry.
type LogType interface {
	attach(le *LogEntry)
}

// GetLogType returns the event held by the entry, or nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.SessionEnd != nil:
		return le.SessionEnd
	case le.RunPipeline != nil:
		return le.RunPipeline
	case le.RunBuiltin != nil:
		return le.RunBuiltin
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.SpawnFailure != nil:
		return le.SpawnFailure
	default:
		return nil
	}
}

// SessionStart is recorded when the read-eval loop starts.
type SessionStart struct {
	User        string `json:"user"`
	Host        string `json:"host"`
	Dir         string `json:"dir"`
	Interactive bool   `json:"interactive"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// SessionEnd is recorded when the read-eval loop stops.
type SessionEnd struct {
	LastStatus int `json:"last_status"`
}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }

// RunPipeline is recorded after every external pipeline finishes.
type RunPipeline struct {
	// Stages holds the argument vector of each stage.
	Stages         [][]string `json:"stages"`
	Status         int        `json:"status"`
	DurationMillis float64    `json:"duration_millis"`
	Dir            string     `json:"dir"`
}

func (e *RunPipeline) attach(le *LogEntry) { le.RunPipeline = e }

// RunBuiltin is recorded after a shell builtin runs.
type RunBuiltin struct {
	Command []string `json:"command"`
	Status  int      `json:"status"`
}

func (e *RunBuiltin) attach(le *LogEntry) { le.RunBuiltin = e }

// UnknownCommand is recorded when a stage names a program that can't be run.
type UnknownCommand struct {
	Command      []string `json:"command"`
	ErrorMessage string   `json:"error_message"`
}

func (e *UnknownCommand) attach(le *LogEntry) { le.UnknownCommand = e }

// SpawnFailure is recorded when a process or pipe couldn't be created.
type SpawnFailure struct {
	Command      []string `json:"command"`
	ErrorMessage string   `json:"error_message"`
}

func (e *SpawnFailure) attach(le *LogEntry) { le.SpawnFailure = e }
