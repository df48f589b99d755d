package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreekarashastry/ledgersim/config"
)

func TestNewDefaults(t *testing.T) {
	log, err := New(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, os.Stderr, log.Out)
}

func TestNewJSON(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New(config.LogConfig{Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNewWritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgersim.log")
	log, err := New(config.LogConfig{File: path, Format: "json", MaxSizeMB: 1})
	require.NoError(t, err)

	log.WithField("replica", 3).Info("Block added to replica")
	if closer, ok := log.Out.(interface{ Close() error }); ok {
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"replica":3`)
	assert.Contains(t, string(data), "Block added to replica")
}
