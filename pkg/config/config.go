/*
Package config manages TOML config for ngramserve.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bastiangx/ngramserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the user config dir.
const FileName = "ngramserve.toml"

var (
	ErrInvalidOrder     = errors.New("max_order must be between 1 and 8")
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
)

// maxOrder mirrors trie.MaxOrder; config does not import the trie package.
const maxOrder = 8

// Config holds the entire config structure
type Config struct {
	Trie   TrieConfig   `toml:"trie"`
	Sketch SketchConfig `toml:"sketch"`
	Query  QueryConfig  `toml:"query"`
	CLI    CliConfig    `toml:"cli"`
}

// TrieConfig has index related options.
type TrieConfig struct {
	MaxOrder     int    `toml:"max_order"`
	Delimiter    string `toml:"delimiter"`
	Cache        bool   `toml:"cache"`
	Backend      string `toml:"backend"`
	CapacityHint int    `toml:"capacity_hint"`
}

// SketchConfig sizes the approximate "sketch" backend.
type SketchConfig struct {
	Epsilon       float64 `toml:"epsilon"`
	Delta         float64 `toml:"delta"`
	BloomCapacity int     `toml:"bloom_capacity"`
	BloomFPRate   float64 `toml:"bloom_fp_rate"`
}

// QueryConfig holds batch query options.
type QueryConfig struct {
	ReportTime bool `toml:"report_time"`
}

// CliConfig holds interactive shell options.
type CliConfig struct {
	Prompt  string `toml:"prompt"`
	History bool   `toml:"history"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Trie: TrieConfig{
			MaxOrder:     5,
			Delimiter:    " ",
			Cache:        true,
			Backend:      "hashmap",
			CapacityHint: 0,
		},
		Sketch: SketchConfig{
			Epsilon:       0.0001,
			Delta:         0.01,
			BloomCapacity: 1000000,
			BloomFPRate:   0.01,
		},
		Query: QueryConfig{
			ReportTime: true,
		},
		CLI: CliConfig{
			Prompt:  "> ",
			History: true,
		},
	}
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Trie.MaxOrder < 1 || c.Trie.MaxOrder > maxOrder {
		return fmt.Errorf("%w: got %d", ErrInvalidOrder, c.Trie.MaxOrder)
	}
	if _, err := ParseDelimiter(c.Trie.Delimiter); err != nil {
		return err
	}
	return nil
}

// DelimiterRune returns the configured delimiter, falling back to a space
// when it is invalid.
func (c *Config) DelimiterRune() rune {
	r, err := ParseDelimiter(c.Trie.Delimiter)
	if err != nil {
		return ' '
	}
	return r
}

// ParseDelimiter accepts exactly one character. "\t" and "tab" name a tab.
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case `\t`, "tab":
		return '\t', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError || r == '\n' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, value)
	}
	return r, nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/ngramserve/ngramserve.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath, defaultPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	if defaultPath == "" {
		log.Warn("No default config path. Using built-in defaults...")
		return DefaultConfig(), ""
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Invalid values are replaced by their
// defaults with a warning.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		log.Warnf("%v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	sanitize(config)
	return config, nil
}

// tryPartialParse attempts to parse a TOML file section by section
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.Extract[map[string]any](tempConfig, "trie"); ok {
		extractTrieConfig(section, &config.Trie)
	}
	if section, ok := utils.Extract[map[string]any](tempConfig, "sketch"); ok {
		extractSketchConfig(section, &config.Sketch)
	}
	if section, ok := utils.Extract[map[string]any](tempConfig, "query"); ok {
		if val, ok := utils.Extract[bool](section, "report_time"); ok {
			config.Query.ReportTime = val
		}
	}
	if section, ok := utils.Extract[map[string]any](tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	sanitize(config)
	return config, nil
}

// sanitize resets fields that fail validation to their defaults
func sanitize(config *Config) {
	defaults := DefaultConfig()
	if config.Trie.MaxOrder < 1 || config.Trie.MaxOrder > maxOrder {
		log.Warnf("Invalid max_order %d, using %d", config.Trie.MaxOrder, defaults.Trie.MaxOrder)
		config.Trie.MaxOrder = defaults.Trie.MaxOrder
	}
	if _, err := ParseDelimiter(config.Trie.Delimiter); err != nil {
		log.Warnf("%v, using %q", err, defaults.Trie.Delimiter)
		config.Trie.Delimiter = defaults.Trie.Delimiter
	}
	if config.Trie.CapacityHint < 0 {
		config.Trie.CapacityHint = 0
	}
	if config.Sketch.Epsilon <= 0 || config.Sketch.Epsilon >= 1 {
		config.Sketch.Epsilon = defaults.Sketch.Epsilon
	}
	if config.Sketch.Delta <= 0 || config.Sketch.Delta >= 1 {
		config.Sketch.Delta = defaults.Sketch.Delta
	}
	if config.Sketch.BloomCapacity <= 0 {
		config.Sketch.BloomCapacity = defaults.Sketch.BloomCapacity
	}
	if config.Sketch.BloomFPRate <= 0 || config.Sketch.BloomFPRate >= 1 {
		config.Sketch.BloomFPRate = defaults.Sketch.BloomFPRate
	}
}

func extractTrieConfig(data map[string]any, trie *TrieConfig) {
	if val, ok := utils.ExtractInt(data, "max_order"); ok {
		trie.MaxOrder = val
	}
	if val, ok := utils.Extract[string](data, "delimiter"); ok {
		trie.Delimiter = val
	}
	if val, ok := utils.Extract[bool](data, "cache"); ok {
		trie.Cache = val
	}
	if val, ok := utils.Extract[string](data, "backend"); ok {
		trie.Backend = val
	}
	if val, ok := utils.ExtractInt(data, "capacity_hint"); ok {
		trie.CapacityHint = val
	}
}

func extractSketchConfig(data map[string]any, sketch *SketchConfig) {
	if val, ok := utils.ExtractFloat(data, "epsilon"); ok {
		sketch.Epsilon = val
	}
	if val, ok := utils.ExtractFloat(data, "delta"); ok {
		sketch.Delta = val
	}
	if val, ok := utils.ExtractInt(data, "bloom_capacity"); ok {
		sketch.BloomCapacity = val
	}
	if val, ok := utils.ExtractFloat(data, "bloom_fp_rate"); ok {
		sketch.BloomFPRate = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.Extract[string](data, "prompt"); ok {
		cli.Prompt = val
	}
	if val, ok := utils.Extract[bool](data, "history"); ok {
		cli.History = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
