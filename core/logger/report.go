package logger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Session        SessionReport        `json:"session_report"`
	RunPipeline    RunPipelineReport    `json:"run_pipeline_report"`
	RunBuiltin     RunBuiltinReport     `json:"run_builtin_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	SpawnFailure   SpawnFailureReport   `json:"spawn_failure_report"`
}

// Update folds a single entry into the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Session.updateStart(event)
	case *SessionEnd:
		r.Session.updateEnd(event)
	case *RunPipeline:
		r.RunPipeline.update(event)
	case *RunBuiltin:
		r.RunBuiltin.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *SpawnFailure:
		r.SpawnFailure.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type SessionReport struct {
	Started     int        `json:"started"`
	Ended       int        `json:"ended"`
	Interactive int        `json:"interactive"`
	Users       StrCounter `json:"users"`
}

func (r *SessionReport) updateStart(s *SessionStart) {
	r.Started++
	if s.Interactive {
		r.Interactive++
	}
	r.Users.Increment(s.User)
}

func (r *SessionReport) updateEnd(*SessionEnd) {
	r.Ended++
}

type RunPipelineReport struct {
	Count int `json:"count"`
	// Failed counts pipelines with a non-zero aggregated status.
	Failed int `json:"failed"`
	// Number of stages per pipeline.
	StageCounts StrCounter `json:"stage_counts"`
	// Name of the programs across all stages.
	CommandNames StrCounter `json:"command_names"`
	// Full pipelines with a non-zero status.
	FailedPipelines StrCounter `json:"failed_pipelines"`
}

func (r *RunPipelineReport) update(rp *RunPipeline) {
	r.Count++
	r.StageCounts.Increment(fmt.Sprintf("%d", len(rp.Stages)))

	var stages []string
	for _, stage := range rp.Stages {
		if len(stage) > 0 {
			r.CommandNames.Increment(stage[0])
		}
		stages = append(stages, strings.Join(stage, " "))
	}

	if rp.Status != 0 {
		r.Failed++
		r.FailedPipelines.Increment(strings.Join(stages, " | "))
	}
}

type RunBuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
	Failed       int        `json:"failed"`
}

func (r *RunBuiltinReport) update(rb *RunBuiltin) {
	if len(rb.Command) > 0 {
		r.CommandNames.Increment(rb.Command[0])
	}
	if rb.Status != 0 {
		r.Failed++
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(uc *UnknownCommand) {
	if len(uc.Command) > 0 {
		r.CommandNames.Increment(uc.Command[0])
	}
}

type SpawnFailureReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *SpawnFailureReport) update(sf *SpawnFailure) {
	r.Errors.Increment(sf.ErrorMessage)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}
