package folio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/folio/metadata"
	"github.com/tsawler/folio/thumbnail"
	"github.com/tsawler/folio/watermark"
)

// Config aggregates every package's knobs. Zero or empty fields fall
// back to the package defaults, so a config file only needs to name
// what it changes.
type Config struct {
	Metadata  metadata.Config   `yaml:"metadata"`
	Watermark watermark.Config  `yaml:"watermark"`
	Thumbnail thumbnail.Options `yaml:"thumbnail"`
}

// DefaultConfig returns the configuration a plain Open uses.
func DefaultConfig() Config {
	return Config{
		Metadata:  metadata.DefaultConfig(),
		Watermark: watermark.DefaultConfig(),
		Thumbnail: thumbnail.DefaultOptions(),
	}
}

// LoadConfig reads a YAML config file and returns DefaultConfig
// merged with its contents.
//
// Example file:
//
//	watermark:
//	  patterns:
//	    - 'review\s*copy'
//	  min_page_chars: 80
//	thumbnail:
//	  max_width: 240
//	  max_height: 360
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
