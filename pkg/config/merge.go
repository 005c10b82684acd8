package config

// MergeConfig merges source into target, updating Sources.
// Only non-zero values from source are applied; for list fields a non-nil
// slice counts as set, so an explicit empty list overrides.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.BaseURL != "" {
		target.BaseURL = source.BaseURL
		target.Sources["baseUrl"] = sourceType
	}
	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		target.Sources["timeout"] = sourceType
	}
	if source.ReadyTimeout != 0 {
		target.ReadyTimeout = source.ReadyTimeout
		target.Sources["readyTimeout"] = sourceType
	}
	if source.PollInterval != 0 {
		target.PollInterval = source.PollInterval
		target.Sources["pollInterval"] = sourceType
	}
	if source.StubsDir != "" {
		target.StubsDir = source.StubsDir
		target.Sources["stubsDir"] = sourceType
	}
	if source.ExcludeParams != nil {
		target.ExcludeParams = append([]string{}, source.ExcludeParams...)
		target.Sources["excludeParams"] = sourceType
	}
	if source.StripPaths != nil {
		target.StripPaths = append([]string{}, source.StripPaths...)
		target.Sources["stripPaths"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
}
