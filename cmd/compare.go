package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/output"
	"github.com/masmgr/branchdiff-go/internal/prompt"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
	"github.com/masmgr/branchdiff-go/internal/server"
	"github.com/masmgr/branchdiff-go/internal/timerange"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// CompareCmd returns the compare command. It is also the default action.
func CompareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two branches and generate the cherry-pick report",
		ArgsUsage: "[source..target]",
		Flags:     compareFlags(),
		Action:    compareAction,
	}
}

func compareFlags() []cli.Flag {
	return append(repoFlags(),
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Branch the commits come from",
		},
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "Branch the commits should be cherry-picked onto",
		},
		&cli.StringFlag{
			Name:    "author",
			Aliases: []string{"a"},
			Usage:   "Author regex matched against \"Name <email>\" (all: no filter)",
		},
		&cli.StringFlag{
			Name:  "time-range",
			Usage: "Time range preset (all, week, two-weeks, month, three-months, half-year, year, or 2w, 3m, 1y)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Compare commits since this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Compare commits until this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "message-match",
			Usage: "Source commits one target commit may claim by subject (all, first)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, markdown, html, json, csv, yaml, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of commits to list (0: all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "no-open",
			Usage: "Do not open the timeline in a browser",
		},
		&cli.BoolFlag{
			Name:  "serve",
			Usage: "Keep the annotation server running so the timeline can ignore and remark commits",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Pick branches, time range and author from lists",
		},
	)
}

// comparison is everything needed to rebuild a report after annotations change.
type comparison struct {
	result      *reconcile.Result
	repoPath    string
	authorLabel string
	rng         timerange.Range
}

func (cmp *comparison) report(store *annotation.Store) (*output.ComparisonReport, error) {
	ignored, err := store.LoadIgnored()
	if err != nil {
		return nil, err
	}
	remarks, err := store.LoadRemarks()
	if err != nil {
		return nil, err
	}
	report := output.NewComparisonReport(cmp.result, ignored, remarks)
	report.RepoPath = cmp.repoPath
	report.Author = cmp.authorLabel
	report.TimeRangeLabel = cmp.rng.Label
	report.Since = cmp.rng.Since
	report.Until = cmp.rng.Until
	return report, nil
}

func compareAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	opts, err := OutputOptions(c)
	if err != nil {
		return err
	}

	source, target, err := branchesFromArgs(c)
	if err != nil {
		return err
	}

	sel := prompt.Selection{
		Source: source,
		Target: target,
		Author: c.String("author"),
	}
	if c.String("time-range") != "" {
		if sel.Range, err = timerange.Parse(c.String("time-range")); err != nil {
			return err
		}
	}
	authorPicked := false
	if c.Bool("interactive") || sel.Source == "" || sel.Target == "" {
		if !stdinIsTerminal() {
			if c.Bool("interactive") {
				return errors.New("interactive selection needs a terminal")
			}
			return errors.New("source and target branches are required (use source..target or --source/--target)")
		}
		if sel.Range == "" && (c.String("since") != "" || c.String("until") != "") {
			sel.Range = timerange.All
		}
		authorPicked = sel.Author == ""
		sel, err = askSelection(c.Context, cmdCtx, sel)
		if err != nil {
			return err
		}
	}

	rng, err := timerange.Build(string(sel.Range), c.String("since"), c.String("until"), time.Now(), cmdCtx.Location)
	if err != nil {
		return err
	}

	cmp, err := runComparison(c.Context, cmdCtx, sel, rng, authorPicked)
	if err != nil {
		return err
	}
	report, err := cmp.report(cmdCtx.Store)
	if err != nil {
		return err
	}

	var srv *server.Server
	if c.Bool("serve") {
		srv = newServer(cmdCtx)
		if _, err := srv.Listen(); err != nil {
			return err
		}
		report.ServerURL = srv.URL()
		srv.SetPage(func() (string, error) {
			fresh, err := cmp.report(cmdCtx.Store)
			if err != nil {
				return "", err
			}
			fresh.ServerURL = srv.URL()
			return output.RenderHTML(fresh)
		})
	}

	mdPath, htmlPath, err := writeReportFiles(cmdCtx, report)
	if err != nil {
		return err
	}
	if err := output.NewComparisonWriter(opts.Format).Write(report, opts); err != nil {
		return err
	}

	errOut := c.App.ErrWriter
	fmt.Fprintf(errOut, "Markdown report: %s\n", mdPath)
	fmt.Fprintf(errOut, "Timeline: %s\n", htmlPath)

	open := cmdCtx.Config.Report.OpenBrowser && !c.Bool("no-open")
	if srv == nil {
		if open {
			openInBrowser(cmdCtx, fileURL(htmlPath))
		}
		return nil
	}

	color.New(color.FgCyan).Fprintf(errOut, "Serving %s (Ctrl+C to stop)\n", srv.URL())
	if open {
		openInBrowser(cmdCtx, srv.URL())
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}

// branchesFromArgs reads source and target from a positional source..target
// argument or from --source and --target. Mixing the two is an error.
func branchesFromArgs(c *cli.Context) (string, string, error) {
	source := git.NormalizeBranchName(c.String("source"))
	target := git.NormalizeBranchName(c.String("target"))

	switch c.NArg() {
	case 0:
		return source, target, nil
	case 1:
		if source != "" || target != "" {
			return "", "", errors.New("use either source..target or --source/--target, not both")
		}
		return git.ParseCompareSpec(c.Args().First())
	default:
		return "", "", fmt.Errorf("expected at most one source..target argument, got %d", c.NArg())
	}
}

// Replaced in tests.
var (
	stdinIsTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	newChooser = func() prompt.Chooser { return &prompt.TUIChooser{} }
)

func askSelection(ctx context.Context, cmdCtx *CommandContext, sel prompt.Selection) (prompt.Selection, error) {
	reader, err := cmdCtx.OpenRepository()
	if err != nil {
		return sel, err
	}
	picked, err := prompt.Ask(ctx, reader, newChooser(), sel)
	if err != nil {
		return sel, err
	}
	return *picked, nil
}

// authorFilter turns the author choice into a reader regex. Names picked from
// the list are matched literally; --author values are regexes.
func authorFilter(author string, picked bool) (pattern, label string) {
	pattern = git.AuthorPattern(author)
	if pattern == "" {
		return "", ""
	}
	if picked {
		return regexp.QuoteMeta(pattern), pattern
	}
	return pattern, pattern
}

func runComparison(ctx context.Context, cmdCtx *CommandContext, sel prompt.Selection, rng timerange.Range, authorPicked bool) (*comparison, error) {
	match, err := reconcile.ParseMessageMatch(cmdCtx.Config.Reconcile.MessageMatch)
	if err != nil {
		return nil, err
	}

	pattern, label := authorFilter(sel.Author, authorPicked)
	readOpts := cmdCtx.ReadOptions()
	readOpts.Author = pattern
	readOpts.Since = rng.Since
	readOpts.Until = rng.Until

	reader, err := git.NewHistoryReader(readOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	sourceCommits, err := reader.ReadCommits(ctx, sel.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sel.Source, err)
	}
	targetCommits, err := reader.ReadCommits(ctx, sel.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sel.Target, err)
	}
	cmdCtx.Logger.Debug().
		Int("source", len(sourceCommits)).
		Int("target", len(targetCommits)).
		Str("range", rng.Label).
		Msg("Histories read")

	result, err := reconcile.Reconcile(sourceCommits, targetCommits, sel.Source, sel.Target, reconcile.WithMessageMatch(match))
	if err != nil {
		return nil, err
	}

	return &comparison{result: result, repoPath: cmdCtx.RepoPath, authorLabel: label, rng: rng}, nil
}

// writeReportFiles writes the markdown report and the timeline page into the data directory.
func writeReportFiles(cmdCtx *CommandContext, report *output.ComparisonReport) (string, string, error) {
	if err := os.MkdirAll(cmdCtx.DataDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create data directory: %w", err)
	}

	mdPath := filepath.Join(cmdCtx.DataDir, cmdCtx.Config.Report.MarkdownFile)
	htmlPath := filepath.Join(cmdCtx.DataDir, cmdCtx.Config.Report.HTMLFile)

	files := []struct {
		format output.OutputFormat
		path   string
	}{
		{output.FormatMarkdown, mdPath},
		{output.FormatHTML, htmlPath},
	}
	for _, f := range files {
		opts := output.OutputOptions{Format: f.format, OutputPath: f.path}
		if err := output.NewComparisonWriter(f.format).Write(report, opts); err != nil {
			return "", "", fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return mdPath, htmlPath, nil
}
