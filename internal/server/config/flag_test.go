package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		initial     *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-g", ":6000", "-d", "memory://", "-s", "secret",
				"-t", "90", "-r", "redis:6379", "-n", "s3",
			},
			expected: &Config{
				HTTPAddr:                    "127.0.0.1:8080",
				GRPCAddr:                    ":6000",
				DatabaseDSN:                 "memory://",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 90 * time.Minute,
				RedisAddr:                   "redis:6379",
				NotifyDriver:                "s3",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"cmd", "-x", "1", "-s", "secret"},
			expected: &Config{SecretKey: "secret"},
		},
		{
			name:     "ttl untouched without -t",
			args:     []string{"cmd", "-s", "secret"},
			initial:  &Config{AccessTokenValidityDuration: 45 * time.Second},
			expected: &Config{SecretKey: "secret", AccessTokenValidityDuration: 45 * time.Second},
		},
		{
			name:        "bad ttl panics",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}
			if tt.initial != nil {
				*config = *tt.initial
			}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
