package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/recommend"
	"github.com/Veraticus/matchme/internal/skintone"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("MATCHME_DB", "")
	v := viper.New()

	settings, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *settings)
	assert.Equal(t, int64(skintone.DefaultMaxImageBytes), settings.MaxImageBytes)
	assert.Equal(t, recommend.DefaultPerCategory, settings.PerCategory)
}

func TestLoadSettings_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	v := viper.New()
	SetDefaults(v)
	v.Set("database.path", "~/beauty/catalog.db")
	v.Set("analysis.max_image_bytes", 2048)
	v.Set("analysis.decode_timeout", "750ms")
	v.Set("recommend.per_category", 3)
	v.Set("recommend.weights.rating", 1.0)
	v.Set("recommend.weights.color", 0)

	settings, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "beauty", "catalog.db"), settings.DatabasePath)
	assert.Equal(t, int64(2048), settings.MaxImageBytes)
	assert.Equal(t, 750*time.Millisecond, settings.DecodeTimeout)
	assert.Equal(t, 3, settings.PerCategory)
	assert.Equal(t, recommend.ScoreWeights{
		Rating: 1.0,
		Price:  recommend.DefaultScoreWeights.Price,
		Brand:  recommend.DefaultScoreWeights.Brand,
	}, settings.Weights)

	p := settings.Preprocessor()
	assert.Equal(t, int64(2048), p.MaxBytes)
	assert.Equal(t, int64(skintone.DefaultMaxImagePixels), p.MaxPixels)
	assert.Equal(t, 750*time.Millisecond, p.DecodeTimeout)
}

func TestLoadSettings_EnvFallback(t *testing.T) {
	t.Setenv("MATCHME_DB", "/tmp/matchme-env.db")

	settings, err := LoadSettings(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/matchme-env.db", settings.DatabasePath)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		value any
		name  string
		key   string
	}{
		{name: "zero per category", key: "recommend.per_category", value: 0},
		{name: "negative image limit", key: "analysis.max_image_bytes", value: -1},
		{name: "zero timeout", key: "analysis.decode_timeout", value: "0s"},
		{name: "negative weight", key: "recommend.weights.price", value: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := LoadSettings(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadSettings_AllZeroWeights(t *testing.T) {
	v := viper.New()
	for _, key := range []string{"rating", "price", "brand", "color"} {
		v.Set("recommend.weights."+key, 0)
	}

	_, err := LoadSettings(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MATCHME_TEST_DIR", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/x.db", want: filepath.Join(home, "x.db")},
		{name: "env var", in: "$MATCHME_TEST_DIR/x.db", want: "/data/x.db"},
		{name: "plain", in: "/var/x.db", want: "/var/x.db"},
		{name: "default database", in: DefaultDatabasePath, want: filepath.Join(home, ".local", "share", "matchme", "matchme.db")},
		{name: "unset var", in: "$MATCHME_TEST_UNSET/x.db", want: "/x.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestExpandPath_HomeUnset(t *testing.T) {
	t.Setenv("HOME", "")
	home := homeDir()
	if home == "" {
		t.Skip("no home directory in the account database")
	}

	got := ExpandPath(DefaultDatabasePath)
	assert.Equal(t, filepath.Join(home, ".local", "share", "matchme", "matchme.db"), got)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
}
