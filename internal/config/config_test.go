package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := setEnv("SG_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := setEnv("SG_SECRET", "env-secret")
	defer clear2()

	a := assert.New(t)
	assert.NoError(t, Load())

	cfg := Instance()
	a.Equal("env-secret", cfg.Secret)
	a.Equal(5, cfg.StartGameDelay)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("SG_SECRET", "other-secret")
	// ensure we aren't using a pointer
	cfg.Secret = "bad"
	cfg = Instance()
	a.Equal("env-secret", cfg.Secret)
}

func TestDefaults(t *testing.T) {
	clear1 := setEnv("SG_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, 10, cfg.StartGameDelay)
	assert.Equal(t, 600, cfg.IdleTimeout)
	assert.Empty(t, cfg.Secret)
}

func setEnv(key, val string) func() {
	orig := os.Getenv(key)
	_ = os.Setenv(key, val)
	return func() {
		if orig == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, orig)
		}
	}
}
