package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tags holds the delimiter and element names matched literally by the parser.
// All five are required and immutable once a parser is built from them.
type Tags struct {
	StartTag    string `yaml:"start-tag"`
	EndTag      string `yaml:"end-tag"`
	ThinkingTag string `yaml:"thinking-tag"`
	WriteTag    string `yaml:"write-tag"`
	ModifyTag   string `yaml:"modify-tag"`
}

// Storage selects the persistence backend for committed files and sessions.
type Storage struct {
	Backend string `yaml:"backend"` // fs or sqlite
	Root    string `yaml:"root"`    // fs: directory holding files/ and sessions/
	DBPath  string `yaml:"db-path"` // sqlite: database file path
}

type Config struct {
	Tags    Tags    `yaml:"tags"`
	Storage Storage `yaml:"storage"`
}

// DefaultTags returns the stock ablo directive markup.
func DefaultTags() Tags {
	return Tags{
		StartTag:    "<ablo-code>",
		EndTag:      "</ablo-code>",
		ThinkingTag: "ablo-thinking",
		WriteTag:    "ablo-write",
		ModifyTag:   "ablo-modify",
	}
}

// Default returns a config with stock tags and fs storage under .ablofiles.
func Default() *Config {
	return &Config{
		Tags: DefaultTags(),
		Storage: Storage{
			Backend: "fs",
			Root:    ".ablofiles",
		},
	}
}

// Load reads a YAML config file and returns a validated Config.
// A missing file yields the defaults; explicit keys override them.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
