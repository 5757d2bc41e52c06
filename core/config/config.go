package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/kesh/core/proc"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	PromptColorAlways = "always"
	PromptColorAuto   = "auto"
	PromptColorNever  = "never"
)

// ErrNoConfigDir is returned when a file relative to the configuration
// directory is requested from a configuration that wasn't loaded from disk.
var ErrNoConfigDir = errors.New("configuration has no directory")

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	PromptColor string `json:"prompt_color" validate:"oneof=always auto never"`
	StatusMode  string `json:"status_mode" validate:"oneof=raw exit_code"`
	HistoryFile string `json:"history_file"`
	EventLog    string `json:"event_log"`
	Debug       bool   `json:"debug"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir returns the directory the configuration was loaded from, empty for the
// built-in defaults.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// GetStatusMode returns the parsed status_mode.
func (c *Configuration) GetStatusMode() proc.StatusMode {
	mode, err := proc.ParseStatusMode(c.StatusMode)
	if err != nil {
		// Unreachable for validated configurations.
		return proc.StatusModeRaw
	}
	return mode
}

// HistoryPath returns the absolute path of the history file or an empty
// string if history shouldn't be persisted.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" || c.configurationDir == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	return filepath.Join(c.configurationDir, c.HistoryFile)
}

// EventLogEnabled returns true if session events should be recorded.
func (c *Configuration) EventLogEnabled() bool {
	return c.EventLog != "" && c.fs() != nil
}

// eventLogFs returns the filesystem and name to open the event log with.
// Absolute paths are used as is, others are relative to the configuration
// directory.
func (c *Configuration) eventLogFs() (afero.Fs, string, error) {
	if c.fs() == nil {
		return nil, "", ErrNoConfigDir
	}
	if filepath.IsAbs(c.EventLog) {
		return afero.NewOsFs(), c.EventLog, nil
	}
	return c.fs(), c.EventLog, nil
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	logFs, name, err := c.eventLogFs()
	if err != nil {
		return nil, err
	}
	return logFs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	logFs, name, err := c.eventLogFs()
	if err != nil {
		return nil, err
	}
	return logFs.OpenFile(name, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
