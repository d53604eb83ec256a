package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/urfave/cli/v2"
)

// BranchesCmd returns the branches command.
func BranchesCmd() *cli.Command {
	return &cli.Command{
		Name:    "branches",
		Aliases: []string{"b"},
		Usage:   "List local and remote-tracking branches",
		Flags: append(repoFlags(),
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Glob pattern the branch name must match (e.g. release/**)",
			},
		),
		Action: branchesAction,
	}
}

func branchesAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	reader, err := cmdCtx.OpenRepository()
	if err != nil {
		return err
	}

	branches, err := reader.ListBranches(c.Context, c.String("match"))
	if err != nil {
		return err
	}
	current := color.New(color.FgGreen)
	remote := color.New(color.FgRed)
	for _, b := range branches {
		switch {
		case b.IsCurrent:
			current.Fprintf(c.App.Writer, "* %s\n", b.Name)
		case b.IsRemote:
			remote.Fprintf(c.App.Writer, "  %s\n", b.Name)
		default:
			fmt.Fprintf(c.App.Writer, "  %s\n", b.Name)
		}
	}
	return nil
}

// AuthorsCmd returns the authors command.
func AuthorsCmd() *cli.Command {
	return &cli.Command{
		Name:   "authors",
		Usage:  "List the authors reachable from HEAD",
		Flags:  repoFlags(),
		Action: authorsAction,
	}
}

func authorsAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	reader, err := cmdCtx.OpenRepository()
	if err != nil {
		return err
	}

	authors, err := reader.ListAuthors(c.Context)
	if err != nil {
		return err
	}
	for _, a := range authors {
		fmt.Fprintln(c.App.Writer, a)
	}
	return nil
}

// ShowCmd returns the show command.
func ShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the stat and patch of a commit",
		ArgsUsage: "<hash>",
		Flags:     repoFlags(),
		Action:    showAction,
	}
}

func showAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one commit hash")
	}
	detail, err := git.ShowCommit(c.Context, c.String("repo"), c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.App.Writer, detail.Diff)
	return err
}
