package resolver

import "fmt"

// ConfigError reports a resolver misconfiguration: at dispatch time an
// unknown transport type or no servers configured, and in New a
// hostname server that could not be resolved. It never escapes
// GetResponse — per SPEC_FULL.md §7 it is synthesized into a Response
// with a non-empty Error field instead; New returns it as its error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dns: resolver config error: %s: %s", e.Field, e.Message)
}
