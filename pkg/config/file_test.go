package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/config"
)

type providerFile struct {
	Providers []struct {
		Channel string `yaml:"channel"`
		Token   string `yaml:"token"`
	} `yaml:"providers"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("expands environment references", func(t *testing.T) {
		t.Setenv("COURIER_TEST_BOT_TOKEN", "secret-token")
		path := writeFile(t, "providers:\n  - channel: TELEGRAM\n    token: ${COURIER_TEST_BOT_TOKEN}\n")

		var cfg providerFile
		require.NoError(t, config.LoadFile(path, &cfg))
		require.Len(t, cfg.Providers, 1)
		assert.Equal(t, "TELEGRAM", cfg.Providers[0].Channel)
		assert.Equal(t, "secret-token", cfg.Providers[0].Token)
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg providerFile
		err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
		assert.ErrorIs(t, err, config.ErrReadingFile)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "providers: [unclosed\n")
		var cfg providerFile
		assert.ErrorIs(t, config.LoadFile(path, &cfg), config.ErrParsingFile)
	})

	t.Run("empty path", func(t *testing.T) {
		var cfg providerFile
		assert.ErrorIs(t, config.LoadFile("", &cfg), config.ErrEmptyPath)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *providerFile
		assert.ErrorIs(t, config.LoadFile("x.yaml", cfg), config.ErrNilPointer)
	})
}

func TestMustLoadFile(t *testing.T) {
	assert.Panics(t, func() {
		var cfg providerFile
		config.MustLoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	})
}
