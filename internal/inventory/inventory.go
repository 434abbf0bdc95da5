// Package inventory loads the list of fabrics to poll.
package inventory

import "fmt"

// Target is a single fabric controller to poll.
type Target struct {
	Host  string `json:"host" yaml:"host" toml:"host"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label"`
}

// Name is what the report shows for this fabric: the label when one was
// given, the host otherwise.
func (t Target) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Host
}

// ConfigError means the fabric file is missing or unusable. It is fatal:
// the run stops before any fabric is contacted.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fabric file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
