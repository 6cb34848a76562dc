// Package config loads typed configuration from the environment and from
// YAML files.
//
// Load parses environment variables into a struct through
// github.com/caarlos0/env/v11 after a one-time attempt to read a local .env
// file with github.com/joho/godotenv. Each configuration type is parsed once
// and served from an in-process cache afterwards; ResetCache clears it in
// tests.
//
//	type AppConfig struct {
//	    Addr string `env:"COURIER_HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// LoadFile covers structured settings that do not fit flat env vars, such as
// the list of delivery providers. The file is YAML decoded with
// gopkg.in/yaml.v3, and ${VAR} references are expanded from the environment
// first:
//
//	var providers ProvidersConfig
//	if err := config.LoadFile(os.Getenv("COURIER_PROVIDERS_FILE"), &providers); err != nil {
//	    return err
//	}
//
// All failures are reported with sentinel errors joined to the cause, so
// callers can match them with errors.Is.
package config
