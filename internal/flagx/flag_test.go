package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", "localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", "localhost"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "dash token is not a value",
			args:    []string{"-s", "-d", "postgres://x"},
			allowed: []string{"-s", "-d"},
			want:    []string{"-s", "-d", "postgres://x"},
		},
		{
			name:    "order preserved",
			args:    []string{"-a", ":3000", "-z", "-c", "conf.json"},
			allowed: []string{"-c", "-a"},
			want:    []string{"-a", ":3000", "-c", "conf.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"bin", "-a", ":3000", "-c", "short.json"}
		assert.Equal(t, "short.json", ConfigFile())
	})

	t.Run("long flag", func(t *testing.T) {
		os.Args = []string{"bin", "-config=long.json"}
		assert.Equal(t, "long.json", ConfigFile())
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigFileEnv, "env.json")
		assert.Equal(t, "env.json", ConfigFile())
	})

	t.Run("flag wins over env", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "flag.json"}
		t.Setenv(ConfigFileEnv, "env.json")
		assert.Equal(t, "flag.json", ConfigFile())
	})

	t.Run("nothing set", func(t *testing.T) {
		os.Args = []string{"bin"}
		t.Setenv(ConfigFileEnv, "")
		assert.Equal(t, "", ConfigFile())
	})
}
