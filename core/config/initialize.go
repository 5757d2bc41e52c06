package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir, creating it if
// needed, and returns the loaded result. An existing configuration is never
// overwritten.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	osFs := afero.NewOsFs()
	logger.Printf("Initializing configuration in %s\n", absDir)
	if err := osFs.MkdirAll(absDir, 0700); err != nil {
		return nil, err
	}

	configFs := afero.NewBasePathFs(osFs, absDir)
	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s already exists in %s: %w", ConfigurationName, absDir, os.ErrExist)
	}

	logger.Printf("- Writing %s\n", ConfigurationName)
	if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
		return nil, err
	}

	return loadFs(configFs, absDir)
}
