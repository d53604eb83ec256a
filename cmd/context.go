package cmd

import (
	"fmt"
	"time"

	"github.com/masmgr/branchdiff-go/config"
	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/logging"
	"github.com/masmgr/branchdiff-go/internal/output"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the configuration, data directory and annotation store
// every command needs.
type CommandContext struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Location *time.Location
	DataDir  string
	Store    *annotation.Store
	RepoPath string
}

// NewCommandContext loads configuration, applies flag overrides and opens the annotation store.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	repoPath := c.String("repo")
	if repoPath == "" {
		repoPath = "."
	}

	logger := logging.Default().With().Str("repo", repoPath).Logger()
	logger.Debug().Str("dataDir", dataDir).Str("timezone", loc.String()).Msg("Configuration loaded")

	return &CommandContext{
		Config:   cfg,
		Logger:   &logger,
		Location: loc,
		DataDir:  dataDir,
		Store:    annotation.NewStore(dataDir),
		RepoPath: repoPath,
	}, nil
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("backend") {
		cfg.Git.Backend = c.String("backend")
	}
	if c.IsSet("message-match") {
		cfg.Reconcile.MessageMatch = c.String("message-match")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadOptions returns reader options carrying the configured backend, skip patterns and zone.
func (ctx *CommandContext) ReadOptions() git.ReadOptions {
	backend, _ := git.ParseBackend(ctx.Config.Git.Backend)
	return git.ReadOptions{
		RepoPath:     ctx.RepoPath,
		SkipPatterns: ctx.Config.Git.SkipPatterns,
		Location:     ctx.Location,
		Backend:      backend,
	}
}

// OpenRepository opens a history reader without author or date filters.
func (ctx *CommandContext) OpenRepository() (*git.HistoryReader, error) {
	reader, err := git.NewHistoryReader(ctx.ReadOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return reader, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		Writer:     c.App.Writer,
	}, nil
}
