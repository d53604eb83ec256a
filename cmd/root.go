package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/branchdiff-go/internal/logging"
	"github.com/urfave/cli/v2"
)

func init() {
	// -v is --verbose here.
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "branchdiff",
		Usage:     "Compare two Git branches and list the commits still to cherry-pick",
		UsageText: "branchdiff [global options] [source..target] | command [command options] [arguments...]",
		Version:   "1.0.0",
		Commands: []*cli.Command{
			CompareCmd(),
			BranchesCmd(),
			AuthorsCmd(),
			IgnoreCmd(),
			RemarkCmd(),
			ShowCmd(),
			ServeCmd(),
		},
		Flags:  append(globalFlags(), compareFlags()...),
		Before: setupLogging,
		Action: compareAction,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory for the ignore list, remarks and reports (default: ~/.config/branch-compare)",
		},
	}
}

// Common flags shared across commands that read the repository
func repoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (auto, gogit, cli)",
		},
	}
}

func setupLogging(c *cli.Context) error {
	logging.SetVerbose(c.Bool("verbose"))
	return nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
