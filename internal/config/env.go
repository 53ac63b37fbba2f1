package config

// Environment variables that override the config file.
const (
	EnvLogLevel   = "LIVEEDIT_LOG_LEVEL"
	EnvSearchMode = "LIVEEDIT_SEARCH_MODE"
)

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings from the environment. Empty values are
// ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvSearchMode); ok && v != "" {
		c.Search.Mode = v
	}
}
