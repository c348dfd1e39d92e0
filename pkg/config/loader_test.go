package config_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type mailerConfig struct {
	Host    string        `env:"TEST_MAIL_HOST" envDefault:"smtp.example.com"`
	Port    int           `env:"TEST_MAIL_PORT" envDefault:"587"`
	Timeout time.Duration `env:"TEST_MAIL_TIMEOUT" envDefault:"10s"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
}

type concurrentConfig struct {
	Value string `env:"TEST_CONCURRENT_VALUE" envDefault:"shared"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

type prefixedConfig struct {
	Region string `env:"REGION" envDefault:"us-east-1"`
}

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg mailerConfig
		require.NoError(t, config.Parse(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, "smtp.example.com", cfg.Host)
		assert.Equal(t, 587, cfg.Port)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("TEST_MAIL_HOST", "mail.local")
		t.Setenv("TEST_MAIL_PORT", "2525")
		t.Setenv("TEST_MAIL_TIMEOUT", "3s")

		var cfg mailerConfig
		require.NoError(t, config.Parse(&cfg))
		assert.Equal(t, "mail.local", cfg.Host)
		assert.Equal(t, 2525, cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})

	t.Run("prefix", func(t *testing.T) {
		var cfg prefixedConfig
		err := config.Parse(&cfg,
			config.WithPrefix("PUSH_"),
			config.WithEnvironment(map[string]string{"PUSH_REGION": "eu-west-1"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "eu-west-1", cfg.Region)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Parse(&cfg, config.WithEnvironment(map[string]string{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("bad value", func(t *testing.T) {
		var cfg mailerConfig
		err := config.Parse(&cfg, config.WithEnvironment(map[string]string{"TEST_MAIL_PORT": "nope"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Parse[mailerConfig](nil), config.ErrNilPointer)
	})
}

func TestLoad_Caches(t *testing.T) {
	t.Setenv("TEST_CACHED_VALUE", "first")
	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_CACHED_VALUE", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))

	assert.Equal(t, "first", first.Value)
	assert.Equal(t, "first", second.Value)
}

func TestLoad_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var cfg concurrentConfig
			if err := config.Load(&cfg); err == nil {
				results[i] = cfg.Value
			}
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}

func TestLoad_NilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[cachedConfig](nil), config.ErrNilPointer)
}
