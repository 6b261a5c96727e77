// Package config reads the project governance configuration and the
// persistent governance state.
//
// config.yaml carries two scalars the governance prompts depend on:
// project_type selects the guide documents, tdd_mode toggles the
// test-first workflow. state.json carries the pending_review flag that
// gates mutating operations — an explicit state record rather than a
// presence-only marker file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MeridianDir is the subdirectory at the project root where all
	// Meridian state lives.
	MeridianDir = "meridian"
	// ConfigFile is the filename of the project configuration.
	ConfigFile = "config.yaml"
	// StateFile is the filename of the governance state record.
	StateFile = "state.json"
)

// ErrValidation marks a config value outside the accepted token sets.
var ErrValidation = errors.New("config: invalid value")

// ProjectType selects which governance guide documents apply.
type ProjectType string

const (
	TypeStandard   ProjectType = "standard"
	TypeHackathon  ProjectType = "hackathon"
	TypeProduction ProjectType = "production"
)

// validTypes is the set of allowed project types.
var validTypes = map[ProjectType]bool{
	TypeStandard:   true,
	TypeHackathon:  true,
	TypeProduction: true,
}

// ValidateType returns an error if the project type is not recognized.
func ValidateType(t ProjectType) error {
	if !validTypes[t] {
		return fmt.Errorf("%w: project_type %q must be one of: standard, hackathon, production", ErrValidation, t)
	}
	return nil
}

// Toggle is a boolean config field accepting the tokens
// true/false/yes/no/on/off/1/0.
type Toggle bool

// UnmarshalYAML decodes the raw scalar token, so YAML 1.2's narrow bool
// set doesn't reject yes/no/on/off.
func (t *Toggle) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseToggle(node.Value)
	if err != nil {
		return err
	}
	*t = Toggle(v)
	return nil
}

// ParseToggle maps a boolean-like token to its value. The empty token is
// false (the field's default).
func ParseToggle(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "off", "0":
		return false, nil
	case "true", "yes", "on", "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean token (true/false/yes/no/on/off/1/0)", ErrValidation, s)
}

// ProjectConfig is the parsed project configuration.
type ProjectConfig struct {
	ProjectType ProjectType `yaml:"project_type"`
	TDDMode     Toggle      `yaml:"tdd_mode"`
}

// Default returns the configuration used when no config file exists:
// a standard project with TDD off.
func Default() *ProjectConfig {
	return &ProjectConfig{ProjectType: TypeStandard, TDDMode: false}
}

// Path returns the absolute path to the meridian/ directory.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, MeridianDir)
}

// ConfigPath returns the absolute path to config.yaml.
func ConfigPath(projectRoot string) string {
	return filepath.Join(Path(projectRoot), ConfigFile)
}

// StatePath returns the absolute path to state.json.
func StatePath(projectRoot string) string {
	return filepath.Join(Path(projectRoot), StateFile)
}

// Exists reports whether the project has been initialized.
func Exists(projectRoot string) bool {
	_, err := os.Stat(ConfigPath(projectRoot))
	return err == nil
}

// Load reads and validates config.yaml. A missing file yields the
// defaults — the governance layer works in an uninitialized project, it
// just applies standard-type rules.
func Load(projectRoot string) (*ProjectConfig, error) {
	data, err := os.ReadFile(ConfigPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config.yaml: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config.yaml: %w", err)
	}
	if cfg.ProjectType == "" {
		cfg.ProjectType = TypeStandard
	}
	if err := ValidateType(cfg.ProjectType); err != nil {
		return nil, err
	}

	return cfg, nil
}
