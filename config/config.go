package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
	"github.com/masmgr/branchdiff-go/internal/timerange"
)

// FileName is the configuration file looked up in the working and home directories.
const FileName = ".branchdiff.json"

// AppName names the per-user data directory.
const AppName = "branch-compare"

// Config is the root configuration structure.
type Config struct {
	// DataDir holds the ignore list, remarks and generated reports.
	// A leading ~ is expanded. Empty means ~/.config/branch-compare.
	DataDir string `json:"dataDir"`
	// Timezone is an IANA zone name or "Local"; commit dates and time ranges use it.
	Timezone  string          `json:"timezone"`
	Git       GitConfig       `json:"git"`
	Reconcile ReconcileConfig `json:"reconcile"`
	Report    ReportConfig    `json:"report"`
	Server    ServerConfig    `json:"server"`
}

// GitConfig controls how histories are read.
type GitConfig struct {
	Backend      string   `json:"backend"`      // auto, gogit or cli
	SkipPatterns []string `json:"skipPatterns"` // regexes; matching subjects are dropped
}

// ReconcileConfig holds commit matching options.
type ReconcileConfig struct {
	MessageMatch string `json:"messageMatch"` // all or first
}

// ReportConfig holds report file names, relative to the data directory.
type ReportConfig struct {
	MarkdownFile string `json:"markdownFile"`
	HTMLFile     string `json:"htmlFile"`
	OpenBrowser  bool   `json:"openBrowser"`
}

// ServerConfig holds annotation server options.
type ServerConfig struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	DiffCacheMinutes int    `json:"diffCacheMinutes"`
}

// DiffCacheTTL returns the diff cache lifetime.
func (s ServerConfig) DiffCacheTTL() time.Duration {
	return time.Duration(s.DiffCacheMinutes) * time.Minute
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "",
		Timezone: "Local",
		Git: GitConfig{
			Backend:      string(git.BackendAuto),
			SkipPatterns: []string{},
		},
		Reconcile: ReconcileConfig{
			MessageMatch: string(reconcile.MatchAll),
		},
		Report: ReportConfig{
			MarkdownFile: "branch-diff.md",
			HTMLFile:     "branch-timeline.html",
			OpenBrowser:  true,
		},
		Server: ServerConfig{
			Host:             "localhost",
			Port:             3001,
			DiffCacheMinutes: 10,
		},
	}
}

// DefaultDataDir returns ~/.config/branch-compare.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return "", errors.New("cannot determine home directory for the data directory")
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ResolveDataDir returns the absolute data directory, expanding a leading ~.
func (c *Config) ResolveDataDir() (string, error) {
	dir := strings.TrimSpace(c.DataDir)
	if dir == "" {
		return DefaultDataDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", dir, err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Abs(dir)
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return timerange.LoadLocation(c.Timezone)
}

// Validate checks enum values, the time zone and the skip patterns.
func (c *Config) Validate() error {
	var errs []error
	if _, err := git.ParseBackend(c.Git.Backend); err != nil {
		errs = append(errs, fmt.Errorf("git.backend: %w", err))
	}
	if _, err := git.NewMessageMatcher(c.Git.SkipPatterns); err != nil {
		errs = append(errs, fmt.Errorf("git.skipPatterns: %w", err))
	}
	if _, err := reconcile.ParseMessageMatch(c.Reconcile.MessageMatch); err != nil {
		errs = append(errs, fmt.Errorf("reconcile.messageMatch: %w", err))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if strings.TrimSpace(c.Report.MarkdownFile) == "" || strings.TrimSpace(c.Report.HTMLFile) == "" {
		errs = append(errs, errors.New("report: markdownFile and htmlFile are required"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d is out of range", c.Server.Port))
	}
	if c.Server.DiffCacheMinutes < 0 {
		errs = append(errs, fmt.Errorf("server.diffCacheMinutes: must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from a file, or returns defaults if not found.
// Without an explicit path, ./.branchdiff.json and then ~/.branchdiff.json are tried.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes a configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
