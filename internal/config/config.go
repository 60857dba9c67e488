package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the full recognized configuration surface of the engine.
// All fields are read at construction; Engine.Reconfigure swaps in a new
// snapshot atomically.
type EngineConfig struct {
	// Pool shape
	PoolSize     int `yaml:"poolSize" json:"poolSize"`
	PatternBound int `yaml:"patternBound" json:"patternBound"`

	// Classification thresholds
	NewUserPuzzleThreshold int `yaml:"newUserPuzzleThreshold" json:"newUserPuzzleThreshold"`

	// Difficulty ceilings per state
	NewUserMaxDifficulty    float64 `yaml:"newUserMaxDifficulty" json:"newUserMaxDifficulty"`
	SevereMaxDifficulty     float64 `yaml:"severeMaxDifficulty" json:"severeMaxDifficulty"`
	StrugglingMaxDifficulty float64 `yaml:"strugglingMaxDifficulty" json:"strugglingMaxDifficulty"`
	CeilingRelaxStep        float64 `yaml:"ceilingRelaxStep" json:"ceilingRelaxStep"`

	// Selector weights
	SuccessWeight    float64 `yaml:"successWeight" json:"successWeight"`
	EngagementWeight float64 `yaml:"engagementWeight" json:"engagementWeight"`
	StrategicWeight  float64 `yaml:"strategicWeight" json:"strategicWeight"`
	VarietyWeight    float64 `yaml:"varietyWeight" json:"varietyWeight"`
	VarietyWindow    int     `yaml:"varietyWindow" json:"varietyWindow"`

	// Early-progression pool bias
	EarlyLevelThreshold int `yaml:"earlyLevelThreshold" json:"earlyLevelThreshold"`

	// Strength detection (pattern-strong / math-weak heuristic)
	StrengthStrongAccuracy float64 `yaml:"strengthStrongAccuracy" json:"strengthStrongAccuracy"`
	StrengthWeakAccuracy   float64 `yaml:"strengthWeakAccuracy" json:"strengthWeakAccuracy"`
	StrengthWeakShare      float64 `yaml:"strengthWeakShare" json:"strengthWeakShare"`

	// Prediction models
	MinObservations int `yaml:"minObservations" json:"minObservations"`

	// Strict makes pool invariant violations fatal instead of auto-corrected.
	Strict bool `yaml:"strict" json:"strict"`

	// Logging
	Debug bool `yaml:"debug" json:"debug"`
}

// Default returns the engine defaults, overridable via environment.
func Default() *EngineConfig {
	return &EngineConfig{
		PoolSize:                getEnvInt("ENGINE_POOL_SIZE", 10),
		PatternBound:            getEnvInt("ENGINE_PATTERN_BOUND", 50),
		NewUserPuzzleThreshold:  getEnvInt("ENGINE_NEW_USER_THRESHOLD", 10),
		NewUserMaxDifficulty:    getEnvFloat("ENGINE_NEW_USER_MAX_DIFFICULTY", 0.4),
		SevereMaxDifficulty:     getEnvFloat("ENGINE_SEVERE_MAX_DIFFICULTY", 0.35),
		StrugglingMaxDifficulty: getEnvFloat("ENGINE_STRUGGLING_MAX_DIFFICULTY", 0.5),
		CeilingRelaxStep:        0.15,
		SuccessWeight:           getEnvFloat("ENGINE_SUCCESS_WEIGHT", 0.35),
		EngagementWeight:        getEnvFloat("ENGINE_ENGAGEMENT_WEIGHT", 0.3),
		StrategicWeight:         0.2,
		VarietyWeight:           0.15,
		VarietyWindow:           5,
		EarlyLevelThreshold:     getEnvInt("ENGINE_EARLY_LEVEL_THRESHOLD", 15),
		StrengthStrongAccuracy:  0.75,
		StrengthWeakAccuracy:    0.4,
		StrengthWeakShare:       0.5,
		MinObservations:         getEnvInt("ENGINE_MIN_OBSERVATIONS", 5),
		Strict:                  os.Getenv("ENGINE_STRICT") == "true",
		Debug:                   os.Getenv("ENGINE_DEBUG") == "true",
	}
}

// LoadFile overlays a YAML config file on top of the defaults.
func LoadFile(path string) (*EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *EngineConfig) Validate() error {
	if c.PoolSize <= 0 {
		return fmt.Errorf("config: poolSize must be positive, got %d", c.PoolSize)
	}
	if c.PatternBound <= 0 {
		return fmt.Errorf("config: patternBound must be positive, got %d", c.PatternBound)
	}
	if c.NewUserMaxDifficulty <= 0 || c.NewUserMaxDifficulty > 1 {
		return fmt.Errorf("config: newUserMaxDifficulty out of range: %.2f", c.NewUserMaxDifficulty)
	}
	if c.VarietyWindow < 0 {
		return fmt.Errorf("config: varietyWindow must be non-negative")
	}
	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvOrDefault returns the env value or a fallback. Shared by cmd wiring.
func GetEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
