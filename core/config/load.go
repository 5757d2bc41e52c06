package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Default returns the built-in configuration. It isn't backed by a directory
// so history and event logging are disabled.
func Default() *Configuration {
	return defaultConfig()
}

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return loadFs(afero.NewBasePathFs(afero.NewOsFs(), absPath), absPath)
}

func loadFs(configFs afero.Fs, dir string) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	// Fields missing from the file keep their default values.
	out := *defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}

	out.configFs = configFs
	out.configurationDir = dir
	return &out, nil
}
