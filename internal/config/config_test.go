package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  Port: ":9090"
pipeline:
  MaxSampledFrames: 4
jobstore:
  Driver: redis
`), 0644))

	v, err := LoadConfig(path)
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "100M", cfg.Server.MaxUploadSize)
	assert.Equal(t, 4, cfg.Pipeline.MaxSampledFrames)
	assert.Equal(t, 3.0, cfg.Pipeline.DisplaySeconds)
	assert.Equal(t, 640, cfg.Pipeline.SampleMaxWidth)
	assert.Equal(t, "mpeg4", cfg.Pipeline.VideoCodec)
	assert.Equal(t, 30*time.Second, cfg.Commentary.FrameTimeout)
	assert.Equal(t, JobStoreRedis, cfg.JobStore.Driver)
	assert.Equal(t, "analysis:job:", cfg.JobStore.KeyPrefix)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
