package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/recommend"
	"github.com/Veraticus/matchme/internal/skintone"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/matchme/matchme.db"

// Settings holds the runtime configuration of matchme.
type Settings struct {
	DatabasePath  string
	DecodeTimeout time.Duration
	MaxImageBytes int64
	PerCategory   int
	Weights       recommend.ScoreWeights
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		DatabasePath:  ExpandPath(DefaultDatabasePath),
		MaxImageBytes: skintone.DefaultMaxImageBytes,
		DecodeTimeout: skintone.DefaultDecodeTimeout,
		PerCategory:   recommend.DefaultPerCategory,
		Weights:       recommend.DefaultScoreWeights,
	}
}

// SetDefaults registers the default values with Viper so they show up in
// viper.AllSettings and can be overridden by file, env or flag.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("analysis.max_image_bytes", skintone.DefaultMaxImageBytes)
	v.SetDefault("analysis.decode_timeout", skintone.DefaultDecodeTimeout)
	v.SetDefault("recommend.per_category", recommend.DefaultPerCategory)
	v.SetDefault("recommend.weights.rating", recommend.DefaultScoreWeights.Rating)
	v.SetDefault("recommend.weights.price", recommend.DefaultScoreWeights.Price)
	v.SetDefault("recommend.weights.brand", recommend.DefaultScoreWeights.Brand)
	v.SetDefault("recommend.weights.color", recommend.DefaultScoreWeights.Color)
	v.SetDefault("ui.theme", "default")
}

// LoadSettings loads configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or MATCHME_ env vars)
// 2. Direct environment variables (MATCHME_DB), which only replace the default
//    database path
// 3. Default values
func LoadSettings(v *viper.Viper) (*Settings, error) {
	settings := DefaultSettings()

	dbPath := v.GetString("database.path")
	if env := os.Getenv("MATCHME_DB"); env != "" && (dbPath == "" || dbPath == DefaultDatabasePath) {
		dbPath = env
	}
	if dbPath != "" {
		settings.DatabasePath = ExpandPath(dbPath)
	}

	if v.IsSet("analysis.max_image_bytes") {
		settings.MaxImageBytes = v.GetInt64("analysis.max_image_bytes")
	}
	if v.IsSet("analysis.decode_timeout") {
		settings.DecodeTimeout = v.GetDuration("analysis.decode_timeout")
	}
	if v.IsSet("recommend.per_category") {
		settings.PerCategory = v.GetInt("recommend.per_category")
	}
	for key, weight := range map[string]*float64{
		"recommend.weights.rating": &settings.Weights.Rating,
		"recommend.weights.price":  &settings.Weights.Price,
		"recommend.weights.brand":  &settings.Weights.Brand,
		"recommend.weights.color":  &settings.Weights.Color,
	} {
		if v.IsSet(key) {
			*weight = v.GetFloat64(key)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate ensures every setting is usable.
func (s *Settings) Validate() error {
	if s.DatabasePath == "" {
		return fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	}
	if s.MaxImageBytes <= 0 {
		return fmt.Errorf("%w: analysis.max_image_bytes must be positive, got %d", common.ErrInvalidConfig, s.MaxImageBytes)
	}
	if s.DecodeTimeout <= 0 {
		return fmt.Errorf("%w: analysis.decode_timeout must be positive, got %s", common.ErrInvalidConfig, s.DecodeTimeout)
	}
	if s.PerCategory <= 0 {
		return fmt.Errorf("%w: recommend.per_category must be positive, got %d", common.ErrInvalidConfig, s.PerCategory)
	}
	w := s.Weights
	if w.Rating < 0 || w.Price < 0 || w.Brand < 0 || w.Color < 0 {
		return fmt.Errorf("%w: recommend.weights must not be negative, got %+v", common.ErrInvalidConfig, w)
	}
	if w.Rating+w.Price+w.Brand+w.Color == 0 {
		return fmt.Errorf("%w: recommend.weights are all zero", common.ErrInvalidConfig)
	}
	return nil
}

// Preprocessor returns the image limits as a skintone preprocessor.
func (s *Settings) Preprocessor() skintone.Preprocessor {
	return skintone.Preprocessor{
		MaxBytes:      s.MaxImageBytes,
		MaxPixels:     skintone.DefaultMaxImagePixels,
		DecodeTimeout: s.DecodeTimeout,
	}
}
