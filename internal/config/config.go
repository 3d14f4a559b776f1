// Package config loads the INI configuration file and resolves the database
// location. Precedence for the database URL: -D flag, MISHMASH_DBURL, config
// file, built-in default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/franz/mishmash/internal/util"
)

// Environment variables.
const (
	EnvDBURL  = "MISHMASH_DBURL"
	EnvConfig = "MISHMASH_CONFIG"
)

const librarySectionPrefix = "library:"

// Library is one configured library: its roots (globbed) and exclude
// patterns (regexes).
type Library struct {
	Name     string
	Sync     bool
	Paths    []string
	Excludes []string
}

// Server holds the server command's child toggles.
type Server struct {
	Sync    bool
	Web     bool
	WebAddr string
}

// Config is the resolved configuration.
type Config struct {
	DBPath    string
	Libraries []Library
	Server    Server
}

// DefaultDBPath returns the database location used when nothing else is
// configured.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mishmash.db"
	}
	return filepath.Join(dir, "mishmash", "mishmash.db")
}

// Path resolves the config file location: the -c flag, then MISHMASH_CONFIG,
// then the per-user default. An empty return means no config file.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(dir, "mishmash", "config.ini")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// Load parses the config file. An empty path yields defaults only; a named
// but unreadable file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DBPath: DefaultDBPath(),
		Server: Server{Sync: true, Web: true, WebAddr: ":8040"},
	}

	if path != "" {
		file, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
		}
		if err := cfg.apply(file); err != nil {
			return nil, err
		}
	}

	if env := os.Getenv(EnvDBURL); env != "" {
		cfg.DBPath = env
	}
	return cfg, nil
}

func (cfg *Config) apply(file *ini.File) error {
	if sec, err := file.GetSection("mishmash"); err == nil {
		if url := sec.Key("db_url").String(); url != "" {
			cfg.DBPath = url
		}
	}

	if sec, err := file.GetSection("server"); err == nil {
		cfg.Server.Sync = sec.Key("sync").MustBool(true)
		cfg.Server.Web = sec.Key("web").MustBool(true)
		if addr := sec.Key("web_addr").String(); addr != "" {
			cfg.Server.WebAddr = addr
		}
	}

	for _, sec := range file.Sections() {
		name := sec.Name()
		if !strings.HasPrefix(name, librarySectionPrefix) {
			continue
		}
		lib := Library{
			Name:     strings.TrimPrefix(name, librarySectionPrefix),
			Sync:     sec.Key("sync").MustBool(true),
			Paths:    expandPaths(splitList(sec.Key("paths").String())),
			Excludes: splitList(sec.Key("excludes").String()),
		}
		if lib.Name == "" {
			return fmt.Errorf("%w: empty library name", util.ErrInvalidConfig)
		}
		cfg.Libraries = append(cfg.Libraries, lib)
	}
	return nil
}

// Library returns the named library config, or nil.
func (cfg *Config) Library(name string) *Library {
	for i := range cfg.Libraries {
		if cfg.Libraries[i].Name == name {
			return &cfg.Libraries[i]
		}
	}
	return nil
}

// splitList splits a multi-valued key on newlines and commas.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.FieldsFunc(value, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// expandPaths applies ~ expansion and shell globbing to each path. A pattern
// matching nothing is kept literally so a not-yet-mounted root still syncs
// later.
func expandPaths(patterns []string) []string {
	var paths []string
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				pattern = filepath.Join(home, pattern[2:])
			}
		}
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			paths = append(paths, pattern)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}
