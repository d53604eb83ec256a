package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/masmgr/branchdiff-go/internal/logging"
)

// Each record starts with 0x1e and carries NUL-separated fields, so subjects
// containing '|' or other separators cannot break parsing.
const gitLogFormat = "%x1e%H%x00%an%x00%ae%x00%aI%x00%s"

const gitLogFields = 5

func (r *HistoryReader) readCommitsGitCLI(ctx context.Context, branch string) ([]RawCommit, error) {
	args := []string{
		"log",
		"--no-color",
		"--pretty=format:" + gitLogFormat,
	}
	if r.opts.Since != nil {
		args = append(args, fmt.Sprintf("--since=@%d", r.opts.Since.Unix()))
	}
	if r.opts.Until != nil {
		args = append(args, fmt.Sprintf("--until=@%d", r.opts.Until.Unix()))
	}
	args = append(args, branch, "--")

	out, err := runGit(ctx, r.opts.RepoPath, args...)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx).With().Str("branch", branch).Logger()
	return parseGitLog(out, &logger), nil
}

// parseGitLog decodes gitLogFormat output. Records with missing fields or
// unparsable dates are dropped with a warning.
func parseGitLog(out []byte, logger *zerolog.Logger) []RawCommit {
	records := bytes.Split(out, []byte{0x1e})
	commits := make([]RawCommit, 0, len(records))

	for _, rec := range records {
		rec = bytes.TrimRight(rec, "\r\n")
		if len(rec) == 0 {
			continue
		}

		fields := bytes.SplitN(rec, []byte{0x00}, gitLogFields)
		if len(fields) < gitLogFields {
			logger.Warn().Str("record", string(rec)).Msg("skipping malformed git log record")
			continue
		}

		hash := strings.TrimSpace(string(fields[0]))
		if hash == "" {
			logger.Warn().Msg("skipping git log record without hash")
			continue
		}

		when, err := time.Parse(time.RFC3339, strings.TrimSpace(string(fields[3])))
		if err != nil {
			logger.Warn().Str("hash", hash).Err(err).Msg("skipping commit with invalid date")
			continue
		}

		commits = append(commits, RawCommit{
			Hash:        hash,
			AuthorName:  string(fields[1]),
			AuthorEmail: string(fields[2]),
			Message:     string(fields[4]),
			Date:        when,
		})
	}

	return commits
}

// runGit executes git in repoPath and returns stdout. Failures include git's stderr.
func runGit(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	full := append([]string{"-C", repoPath}, args...)
	out, err := exec.CommandContext(ctx, "git", full...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return out, nil
}
