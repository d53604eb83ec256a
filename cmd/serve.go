package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/server"
	"github.com/urfave/cli/v2"
)

// ServeCmd returns the serve command.
func ServeCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the annotation server for a previously generated timeline",
		Flags: append(repoFlags(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "First port to try",
			},
		),
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if c.IsSet("host") {
		cmdCtx.Config.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cmdCtx.Config.Server.Port = c.Int("port")
	}

	srv := newServer(cmdCtx)
	if _, err := srv.Listen(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Serving %s (Ctrl+C to stop)\n", srv.URL())

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}

// newServer builds the annotation server from the configuration.
func newServer(cmdCtx *CommandContext) *server.Server {
	cfg := server.DefaultConfig()
	cfg.Host = cmdCtx.Config.Server.Host
	cfg.Port = cmdCtx.Config.Server.Port
	cfg.RepoPath = cmdCtx.RepoPath
	if ttl := cmdCtx.Config.Server.DiffCacheTTL(); ttl > 0 {
		cfg.DiffCacheTTL = ttl
	}
	return server.New(cfg, cmdCtx.Store, cmdCtx.Logger, server.WithShowFunc(git.ShowCommit))
}
