package config

import "fmt"

// Validate checks the config for errors and sets storage defaults.
// Tag errors are rejected here, eagerly, rather than surfacing mid-stream.
func Validate(cfg *Config) error {
	if err := cfg.Tags.Validate(); err != nil {
		return err
	}

	switch cfg.Storage.Backend {
	case "", "fs":
		cfg.Storage.Backend = "fs"
		if cfg.Storage.Root == "" {
			cfg.Storage.Root = ".ablofiles"
		}
	case "sqlite":
		if cfg.Storage.DBPath == "" {
			cfg.Storage.DBPath = ".ablofiles/ablofiles.db"
		}
	default:
		return fmt.Errorf("config: storage: unknown backend %q (must be fs or sqlite)", cfg.Storage.Backend)
	}

	return nil
}

// Validate checks that all five tag strings are usable as literal delimiters.
func (t Tags) Validate() error {
	named := []struct {
		key, val string
	}{
		{"start-tag", t.StartTag},
		{"end-tag", t.EndTag},
		{"thinking-tag", t.ThinkingTag},
		{"write-tag", t.WriteTag},
		{"modify-tag", t.ModifyTag},
	}
	for _, n := range named {
		if n.val == "" {
			return fmt.Errorf("config: tags: %q is required", n.key)
		}
	}
	if t.StartTag == t.EndTag {
		return fmt.Errorf("config: tags: 'start-tag' and 'end-tag' must differ")
	}
	return nil
}
