package toml

import "fmt"

const currentSchemaVersion = 1

type tipsFileSchema struct {
	Version int         `toml:"version"`
	Tips    []tipSchema `toml:"tips"`
}

type tipSchema struct {
	Text    string `toml:"text"`
	AddedAt string `toml:"added_at,omitempty"`
}

func (s *tipsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s tipsFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported tips schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
