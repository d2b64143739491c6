package gateway

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config selects and customizes store backends. Loaded from a TOML file:
//
//	backend = "protox"
//
//	[backends.protox]
//	program = "/opt/protox/bin/protox"
//	default_ref = "trunk"
//
// Entries under [backends.<name>] overlay the builtin backend of the
// same name field by field; unnamed fields keep their builtin values.
type Config struct {
	Backend  string             `toml:"backend"`
	Backends map[string]Backend `toml:"backends"`
}

// LoadConfig reads a gateway config file. A missing file is not an
// error: defaults apply. An empty path loads nothing.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Select resolves a backend by name. An empty name falls back to the
// config's default, then to "git". Config entries overlay builtins.
func (c *Config) Select(name string) (Backend, error) {
	if name == "" {
		name = c.Backend
	}
	if name == "" {
		name = "git"
	}

	builtins := builtinBackends()
	backend, known := builtins[name]
	override, configured := c.Backends[name]
	if !known && !configured {
		return Backend{}, fmt.Errorf("unknown backend %q (have %s)", name, strings.Join(backendNames(builtins, c.Backends), ", "))
	}
	if configured {
		backend = overlayBackend(backend, override)
	}
	backend.Name = name
	if backend.Program == "" {
		return Backend{}, fmt.Errorf("backend %q has no program configured", name)
	}
	if backend.DefaultRef == "" {
		backend.DefaultRef = "master"
	}
	return backend, nil
}

func overlayBackend(base, override Backend) Backend {
	if override.Program != "" {
		base.Program = override.Program
	}
	if len(override.KindArgs) > 0 {
		base.KindArgs = override.KindArgs
	}
	if len(override.ContentArgs) > 0 {
		base.ContentArgs = override.ContentArgs
	}
	if len(override.RefsArgs) > 0 {
		base.RefsArgs = override.RefsArgs
	}
	if len(override.RevListArgs) > 0 {
		base.RevListArgs = override.RevListArgs
	}
	if override.DefaultRef != "" {
		base.DefaultRef = override.DefaultRef
	}
	return base
}

func backendNames(builtins, configured map[string]Backend) []string {
	set := make(map[string]struct{}, len(builtins)+len(configured))
	for name := range builtins {
		set[name] = struct{}{}
	}
	for name := range configured {
		set[name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
