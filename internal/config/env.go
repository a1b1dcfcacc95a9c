package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override config values, e.g.
// SPENDBUBBLES_SIMULATION_USE_FOCUS_POSITIONING=true.
const EnvPrefix = "SPENDBUBBLES_"

// ApplyEnv overlays SPENDBUBBLES_* environment variables onto cfg.
// Variables that do not name a config key are ignored.
func ApplyEnv(cfg *Config) error {
	known := make(map[string]string)
	for _, path := range keyPaths(reflect.TypeOf(Config{}), "") {
		known[strings.ReplaceAll(path, ".", "_")] = path
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return known[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil)
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	if len(k.Keys()) == 0 {
		return nil
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// keyPaths lists the dotted yaml paths of every leaf field in t.
func keyPaths(t reflect.Type, prefix string) []string {
	var paths []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		path := prefix + name
		if f.Type.Kind() == reflect.Struct {
			paths = append(paths, keyPaths(f.Type, path+".")...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
