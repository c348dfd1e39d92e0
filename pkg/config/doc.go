// Package config loads environment-driven configuration structs.
//
// A .env file in the working directory is read once (missing files are
// ignored) and variables are decoded with github.com/caarlos0/env/v11 tags:
//
//	type SMTP struct {
//	    Host string `env:"SMTP_HOST" envDefault:"smtp.example.com"`
//	    Port int    `env:"SMTP_PORT" envDefault:"587"`
//	}
//
//	var cfg SMTP
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Load caches the first successful result per struct type. Parse skips the
// cache, which is what tests and prefixed sub-configs usually want.
package config
