package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config is the optional YAML configuration file. Every field maps to a
// flag; explicit flags win over the file.
type Config struct {
	Math         string     `yaml:"math"`
	FrontMatter  string     `yaml:"frontMatter"`
	Style        string     `yaml:"style"`
	KrokiServer  string     `yaml:"krokiServer"`
	LineNumbers  bool       `yaml:"lineNumbers"`
	InlineImages bool       `yaml:"inlineImages"`
	Emoji        *bool      `yaml:"emoji"`
	Expressions  *bool      `yaml:"expressions"`
	Highlight    *bool      `yaml:"highlight"`
	MaxDepth     int        `yaml:"maxImportDepth"`
	Wiki         WikiConfig `yaml:"wiki"`
}

// WikiConfig mirrors the library's wiki-link options in YAML form.
type WikiConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Extension string `yaml:"extension"`
	SwapPair  bool   `yaml:"swapPair"`
	Case      string `yaml:"case"`
}

// loadConfig reads and strictly decodes path. Unknown keys are errors so
// typos do not silently change nothing.
func loadConfig(path string) (*Config, error) {
	data, err := fileutil.ReadBounded(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &cfg, nil
}

// merge overlays explicit flags onto the file config, flags winning.
func (c *Config) merge(f *cliFlags) {
	if f.math != "" {
		c.Math = f.math
	}
	if f.matter != "" {
		c.FrontMatter = f.matter
	}
	if f.style != "" {
		c.Style = f.style
	}
	if f.kroki != "" {
		c.KrokiServer = f.kroki
	}
	if f.lineNumbers {
		c.LineNumbers = true
	}
	if f.inlineImages {
		c.InlineImages = true
	}
	if f.noEmoji {
		c.Emoji = boolPtr(false)
	}
	if f.noExpr {
		c.Expressions = boolPtr(false)
	}
	if f.noHighlight {
		c.Highlight = boolPtr(false)
	}
	if f.maxDepth > 0 {
		c.MaxDepth = f.maxDepth
	}
	if f.wikiExt != "" {
		c.Wiki.Extension = f.wikiExt
	}
}

func boolPtr(b bool) *bool { return &b }
