package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are searched, in order, in the working directory.
var LocalConfigFileNames = []string{".wirecheck.yaml", ".wirecheck.yml"}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return e.Path + ": " + e.Message
}

// FindLocalConfig returns the first local config file in dir, or "" if
// there is none.
func FindLocalConfig(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

var yamlLine = regexp.MustCompile(`line (\d+):\s*`)

// LoadConfigFile loads a Config from a YAML file. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError(path, err)
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

func newConfigError(path string, err error) *ConfigError {
	msg := err.Error()
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	ce := &ConfigError{Path: path, Message: msg}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
		ce.Message = yamlLine.ReplaceAllString(msg, "")
	}
	return ce
}

// Load resolves defaults, the config file and the environment. explicit
// is the --config value: when set the file must exist; otherwise workDir
// is searched. Flags are merged by the caller with
// MergeConfig(cfg, flags, SourceFlag).
func Load(explicit, workDir string) (*Config, error) {
	cfg := NewDefault()

	path := explicit
	if path == "" {
		path = FindLocalConfig(workDir)
	}
	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
	}

	if err := LoadEnvConfig(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}
