package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portfolio.log")

	log := New(path, true)
	log.Info("visitor counted", zap.Int64("count", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"visitor counted"`)
	assert.Contains(t, string(data), `"count":3`)
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestNewWithoutFile(t *testing.T) {
	log := New("", false)
	require.NotNil(t, log)
	log.Debug("console only")
}
