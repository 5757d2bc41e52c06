package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/josephlewis42/kesh/core/proc"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()

	assert.Nil(t, cfg.Validate())
	assert.Equal(t, PromptColorAuto, cfg.PromptColor)
	assert.Equal(t, proc.StatusModeRaw, cfg.GetStatusMode())

	// Without a directory nothing is persisted.
	assert.Empty(t, cfg.HistoryPath())
	assert.False(t, cfg.EventLogEnabled())
	_, err := cfg.OpenEventLog()
	assert.ErrorIs(t, err, ErrNoConfigDir)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(c *Configuration)
		wantErr string
	}{
		"default": {func(c *Configuration) {}, ""},
		"bad prompt color": {
			func(c *Configuration) { c.PromptColor = "sometimes" },
			"prompt_color",
		},
		"bad status mode": {
			func(c *Configuration) { c.StatusMode = "decimal" },
			"status_mode",
		},
		"exit code mode": {
			func(c *Configuration) { c.StatusMode = string(proc.StatusModeExitCode) },
			"",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoadFs(t *testing.T) {
	cases := map[string]struct {
		contents string
		wantErr  bool
	}{
		"valid":         {"prompt_color: never\nstatus_mode: exit_code\n", false},
		"unknown field": {"prompt_colour: never\n", true},
		"invalid value": {"prompt_color: rainbow\nstatus_mode: raw\n", true},
		"not yaml":      {"prompt_color: [\n", true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			memFs := afero.NewMemMapFs()
			assert.Nil(t, afero.WriteFile(memFs, ConfigurationName, []byte(tc.contents), 0600))

			cfg, err := loadFs(memFs, "/etc/kesh")
			if tc.wantErr {
				assert.NotNil(t, err)
				return
			}

			assert.Nil(t, err)
			assert.Equal(t, PromptColorNever, cfg.PromptColor)
			assert.Equal(t, proc.StatusModeExitCode, cfg.GetStatusMode())
			assert.Equal(t, "/etc/kesh", cfg.Dir())
		})
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := &Configuration{configurationDir: "/etc/kesh"}
	assert.Empty(t, cfg.HistoryPath())

	cfg.HistoryFile = "history"
	assert.Equal(t, "/etc/kesh/history", cfg.HistoryPath())

	cfg.HistoryFile = "/var/lib/kesh/history"
	assert.Equal(t, "/var/lib/kesh/history", cfg.HistoryPath())
}

func TestLoadFs_partial(t *testing.T) {
	memFs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(memFs, ConfigurationName, []byte("debug: true\n"), 0600))

	cfg, err := loadFs(memFs, "/etc/kesh")

	assert.Nil(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, Default().PromptColor, cfg.PromptColor)
	assert.Equal(t, Default().StatusMode, cfg.StatusMode)
}
