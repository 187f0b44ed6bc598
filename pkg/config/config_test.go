package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		f       func(t *testing.T, config *Config)
	}{
		{
			name: "empty",
			data: ``,
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultBind, config.Server.Bind)
				assert.Equal(t, DefaultShutdownTimeout, config.Server.ShutdownTimeout.Duration())
				assert.Equal(t, DefaultTreeName, config.Tree.Name)
				assert.Empty(t, config.Tree.Preload)
			},
		},
		{
			name: "partial",
			data: "tree:\n  preload: [3, 1, 2]\n",
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, []int64{3, 1, 2}, config.Tree.Preload)
				assert.Equal(t, DefaultTreeName, config.Tree.Name)
			},
		},
		{
			name:    "bad duration",
			data:    "server:\n  shutdownTimeout: soon\n",
			wantErr: true,
		},
		{
			name:    "bad rate limit",
			data:    "server:\n  rateLimit: fast\n",
			wantErr: true,
		},
		{
			name:    "zero rate limit",
			data:    "server:\n  rateLimit: 0/1s\n",
			wantErr: true,
		},
		{
			name:    "bad preload",
			data:    "tree:\n  preload: [a, b]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadFromBytes([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.f != nil {
				tt.f(t, config)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	config, err := Load("testdata/rbtree.yaml")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", config.Server.Bind)
	assert.Equal(t, 10*time.Second, config.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "100/1s", config.Server.RateLimit)
	assert.Equal(t, "@every 1m", config.Server.VerifyInterval)
	assert.Equal(t, "scenario", config.Tree.Name)
	assert.True(t, config.Tree.DumpOnMutation)
	assert.Equal(t, []int64{20, 15, 25, 10, 5, 1, 30, 22, 27}, config.Tree.Preload)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}
