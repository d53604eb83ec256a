package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/urfave/cli/v2"
)

const annotationTimeLayout = "2006-01-02 15:04"

// IgnoreCmd returns the ignore command and its subcommands.
func IgnoreCmd() *cli.Command {
	return &cli.Command{
		Name:  "ignore",
		Usage: "Manage commits that do not need a cherry-pick",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Ignore a commit",
				ArgsUsage: "<hash>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Why the commit is ignored (see 'ignore reasons')",
						Value: annotation.IgnoreReasons[0],
					},
				},
				Action: ignoreAddAction,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Stop ignoring a commit",
				ArgsUsage: "<hash>",
				Action:    ignoreRemoveAction,
			},
			{
				Name:   "list",
				Usage:  "List ignored commits",
				Action: ignoreListAction,
			},
			{
				Name:  "reasons",
				Usage: "List the suggested ignore reasons",
				Action: func(c *cli.Context) error {
					for _, r := range annotation.IgnoreReasons {
						fmt.Fprintln(c.App.Writer, r)
					}
					return nil
				},
			},
		},
	}
}

// hashArg returns the single commit hash argument of c.
func hashArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("commit hash is required")
	}
	hash := strings.TrimSpace(c.Args().First())
	if err := git.ValidateHash(hash); err != nil {
		return "", err
	}
	return hash, nil
}

func ignoreAddAction(c *cli.Context) error {
	hash, err := hashArg(c)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	entry, err := cmdCtx.Store.Ignore(hash, c.String("reason"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Ignored %s (%s)\n", git.ShortHash(entry.Hash), entry.Reason)
	return nil
}

func ignoreRemoveAction(c *cli.Context) error {
	hash, err := hashArg(c)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	removed, err := cmdCtx.Store.Unignore(hash)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(c.App.Writer, "%s was not ignored\n", git.ShortHash(hash))
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Restored %s\n", git.ShortHash(hash))
	return nil
}

func ignoreListAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	list, err := cmdCtx.Store.LoadIgnored()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.App.Writer, "No ignored commits.")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Hash\tReason\tIgnored at")
	for _, ic := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ic.Hash, ic.Reason, ic.Timestamp.In(cmdCtx.Location).Format(annotationTimeLayout))
	}
	return tw.Flush()
}

// RemarkCmd returns the remark command and its subcommands.
func RemarkCmd() *cli.Command {
	return &cli.Command{
		Name:  "remark",
		Usage: "Manage free-text remarks attached to commits",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set the remark of a commit",
				ArgsUsage: "<hash> <content>",
				Action:    remarkSetAction,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove the remark of a commit",
				ArgsUsage: "<hash>",
				Action:    remarkRemoveAction,
			},
			{
				Name:   "list",
				Usage:  "List remarks",
				Action: remarkListAction,
			},
		},
	}
}

func remarkSetAction(c *cli.Context) error {
	hash, err := hashArg(c)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(strings.Join(c.Args().Tail(), " "))
	if content == "" {
		return fmt.Errorf("remark content is required (use 'remark remove' to delete)")
	}
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if err := cmdCtx.Store.SetRemark(hash, content); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Remark saved for %s\n", git.ShortHash(hash))
	return nil
}

func remarkRemoveAction(c *cli.Context) error {
	hash, err := hashArg(c)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	removed, err := cmdCtx.Store.RemoveRemark(hash)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(c.App.Writer, "%s has no remark\n", git.ShortHash(hash))
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Remark removed from %s\n", git.ShortHash(hash))
	return nil
}

func remarkListAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	list, err := cmdCtx.Store.LoadRemarks()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.App.Writer, "No remarks.")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Hash\tRemark\tUpdated")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Hash, r.Content, r.Timestamp.In(cmdCtx.Location).Format(annotationTimeLayout))
	}
	return tw.Flush()
}
