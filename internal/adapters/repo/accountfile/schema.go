package accountfile

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `json:"version" toml:"version"`
	Accounts []accountSchema `json:"accounts" toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	Name         string  `json:"name" toml:"name"`
	SessionToken *string `json:"session_token" toml:"session_token"`
	Cookies      string  `json:"cookies,omitempty" toml:"cookies,omitempty"`
	Description  string  `json:"description,omitempty" toml:"description,omitempty"`
	// Enabled is a pointer so a missing key can default to true.
	Enabled *bool `json:"enabled,omitempty" toml:"enabled,omitempty"`
}

// enabled defaults to true when the field is absent.
func (a accountSchema) enabled() bool {
	return a.Enabled == nil || *a.Enabled
}
