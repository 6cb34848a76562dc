package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	// loaded caches parsed configs by type; a type is parsed at most once
	// successfully per process (or per ResetCache).
	loadedMu sync.Mutex
	loaded   = map[reflect.Type]any{}
)

// Load fills v from the environment using caarlos0/env struct tags. A .env
// file in the working directory, when present, is applied before the first
// parse and never overrides variables already set.
//
// The result is cached per type: later calls with the same T copy the cached
// value without re-reading the environment. A failed parse is not cached.
//
//	type appConfig struct {
//		Addr          string `env:"HTTP_ADDR" envDefault:":8080"`
//		ProvidersFile string `env:"COURIER_PROVIDERS_FILE"`
//	}
//
//	var cfg appConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		// a missing .env is fine
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	loadedMu.Lock()
	defer loadedMu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load for process start-up: it panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ResetCache forgets every loaded config so the next Load parses the
// environment again. Tests use it after changing variables.
func ResetCache() {
	loadedMu.Lock()
	defer loadedMu.Unlock()
	clear(loaded)
}
