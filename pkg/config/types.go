package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting wirecheck reads.
type Config struct {
	// Mock server
	BaseURL string   `yaml:"baseUrl" json:"baseUrl"`
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// Readiness
	ReadyTimeout Duration `yaml:"readyTimeout" json:"readyTimeout"`
	PollInterval Duration `yaml:"pollInterval" json:"pollInterval"`

	// Stub files
	StubsDir string `yaml:"stubsDir" json:"stubsDir"`

	// Recording normalization. A nil slice means "not set"; an explicit
	// empty list disables the feature.
	ExcludeParams []string `yaml:"excludeParams" json:"excludeParams"`
	StripPaths    []string `yaml:"stripPaths" json:"stripPaths"`

	// Logging
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`
}

// Config sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Duration is a time.Duration that reads "30s"-style strings or a plain
// number of seconds from YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	v, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// ParseDuration accepts Go duration syntax or an integer number of seconds.
func ParseDuration(s string) (Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return Duration(time.Duration(n) * time.Second), nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return Duration(v), nil
}
