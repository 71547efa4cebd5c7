/*
Package config manages TOML config for wordpredict runs and the prediction server.
*/
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordpredict/internal/utils"
	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/bastiangx/wordpredict/pkg/predict"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Model  ModelConfig  `toml:"model"`
	Corpus CorpusConfig `toml:"corpus"`
	Eval   EvalConfig   `toml:"eval"`
	Server ServerConfig `toml:"server"`
}

// ModelConfig has n-gram model options.
type ModelConfig struct {
	N         int    `toml:"n"`
	Smoothing string `toml:"smoothing"`
	TopN      int    `toml:"top_n"`
}

// CorpusConfig holds the review source and the record ranges used for
// training and testing. Ranges are half-open.
type CorpusConfig struct {
	Path       string `toml:"path"`
	TrainStart int    `toml:"train_start"`
	TrainEnd   int    `toml:"train_end"`
	TestStart  int    `toml:"test_start"`
	TestEnd    int    `toml:"test_end"`
	SkipTokens int    `toml:"skip_tokens"`
}

// EvalConfig holds metric options.
type EvalConfig struct {
	AccuracyK int  `toml:"accuracy_k"`
	TopRank   int  `toml:"top_rank"`
	Workers   int  `toml:"workers"`
	Progress  bool `toml:"progress"`
}

// MaxServerLimit is the largest server.max_limit; suggestion ranks are uint16.
const MaxServerLimit = math.MaxUint16

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordpredict")
	if utils.WritableDir(primaryPath) {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordpredict")
	if utils.WritableDir(macOSPath) {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordpredict/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			N:         3,
			Smoothing: string(predict.AddOne),
			TopN:      10,
		},
		Corpus: CorpusConfig{
			Path:       "data/reviews.jsonl",
			TrainStart: 0,
			TrainEnd:   10000,
			TestStart:  10000,
			TestEnd:    11000,
			SkipTokens: 5,
		},
		Eval: EvalConfig{
			AccuracyK: 10,
			TopRank:   1,
			Workers:   0,
			Progress:  true,
		},
		Server: ServerConfig{
			MaxLimit: 64,
		},
	}
}

// Validate reports the first option outside its allowed range.
func (c *Config) Validate() error {
	if c.Model.N < 1 {
		return fmt.Errorf("model.n must be >= 1, got %d: %w", c.Model.N, ngram.ErrInvalidConfig)
	}
	if _, err := predict.ParseSmoothing(c.Model.Smoothing); err != nil {
		return fmt.Errorf("model.smoothing: %w", err)
	}
	if c.Model.TopN < 0 {
		return fmt.Errorf("model.top_n must be >= 0, got %d: %w", c.Model.TopN, ngram.ErrInvalidConfig)
	}
	if c.Corpus.TrainStart < 0 || c.Corpus.TrainEnd < c.Corpus.TrainStart {
		return fmt.Errorf("corpus train range [%d, %d): %w", c.Corpus.TrainStart, c.Corpus.TrainEnd, ngram.ErrInvalidConfig)
	}
	if c.Corpus.TestStart < 0 || c.Corpus.TestEnd < c.Corpus.TestStart {
		return fmt.Errorf("corpus test range [%d, %d): %w", c.Corpus.TestStart, c.Corpus.TestEnd, ngram.ErrInvalidConfig)
	}
	if c.Corpus.SkipTokens < 0 {
		return fmt.Errorf("corpus.skip_tokens must be >= 0, got %d: %w", c.Corpus.SkipTokens, ngram.ErrInvalidConfig)
	}
	if c.Eval.AccuracyK < 0 {
		return fmt.Errorf("eval.accuracy_k must be >= 0, got %d: %w", c.Eval.AccuracyK, ngram.ErrInvalidConfig)
	}
	if c.Eval.TopRank < 1 {
		return fmt.Errorf("eval.top_rank must be >= 1, got %d: %w", c.Eval.TopRank, ngram.ErrInvalidConfig)
	}
	if c.Server.MaxLimit < 1 || c.Server.MaxLimit > MaxServerLimit {
		return fmt.Errorf("server.max_limit must be in [1, %d], got %d: %w", MaxServerLimit, c.Server.MaxLimit, ngram.ErrInvalidConfig)
	}
	return nil
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

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		log.Warnf("%v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever sections and keys still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.DecodeTOMLTable(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.Table(tempConfig, "model"); ok {
		extractModelConfig(section, &config.Model)
	}
	if section, ok := utils.Table(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.Table(tempConfig, "eval"); ok {
		extractEvalConfig(section, &config.Eval)
	}
	if section, ok := utils.Table(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractModelConfig(data map[string]any, model *ModelConfig) {
	if val, ok := utils.Int(data, "n"); ok {
		model.N = val
	}
	if val, ok := utils.String(data, "smoothing"); ok {
		model.Smoothing = val
	}
	if val, ok := utils.Int(data, "top_n"); ok {
		model.TopN = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.String(data, "path"); ok {
		corpus.Path = val
	}
	if val, ok := utils.Int(data, "train_start"); ok {
		corpus.TrainStart = val
	}
	if val, ok := utils.Int(data, "train_end"); ok {
		corpus.TrainEnd = val
	}
	if val, ok := utils.Int(data, "test_start"); ok {
		corpus.TestStart = val
	}
	if val, ok := utils.Int(data, "test_end"); ok {
		corpus.TestEnd = val
	}
	if val, ok := utils.Int(data, "skip_tokens"); ok {
		corpus.SkipTokens = val
	}
}

func extractEvalConfig(data map[string]any, eval *EvalConfig) {
	if val, ok := utils.Int(data, "accuracy_k"); ok {
		eval.AccuracyK = val
	}
	if val, ok := utils.Int(data, "top_rank"); ok {
		eval.TopRank = val
	}
	if val, ok := utils.Int(data, "workers"); ok {
		eval.Workers = val
	}
	if val, ok := utils.Bool(data, "progress"); ok {
		eval.Progress = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.Int(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLFile(configPath, config)
}
