package git

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryReader reads branch histories from a Git repository.
type HistoryReader struct {
	repo   *git.Repository
	opts   ReadOptions
	filter *commitFilter
}

// NewHistoryReader opens the repository containing opts.RepoPath.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	backend, err := ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}
	opts.Backend = backend

	filter, err := newCommitFilter(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", opts.RepoPath, err)
	}

	return &HistoryReader{repo: repo, opts: opts, filter: filter}, nil
}

// ReadCommits returns the history of branch after applying the author,
// date range and skip filters. Dates are converted to opts.Location.
func (r *HistoryReader) ReadCommits(ctx context.Context, branch string) ([]RawCommit, error) {
	branch = NormalizeBranchName(branch)
	if branch == "" {
		return nil, fmt.Errorf("branch name is required")
	}

	var (
		commits []RawCommit
		err     error
	)
	if r.useGitCLI() {
		commits, err = r.readCommitsGitCLI(ctx, branch)
	} else {
		commits, err = r.readCommitsGoGit(ctx, branch)
	}
	if err != nil {
		return nil, err
	}

	return r.filter.apply(commits), nil
}

func (r *HistoryReader) useGitCLI() bool {
	switch r.opts.Backend {
	case BackendCLI:
		return true
	case BackendGoGit:
		return false
	default:
		return gitAvailable()
	}
}

var (
	gitOnce  sync.Once
	gitFound bool
)

func gitAvailable() bool {
	gitOnce.Do(func() {
		_, err := exec.LookPath("git")
		gitFound = err == nil
	})
	return gitFound
}

func (r *HistoryReader) readCommitsGoGit(ctx context.Context, branch string) ([]RawCommit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return nil, fmt.Errorf("resolve branch %q: %w", branch, err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  *hash,
		Order: git.LogOrderCommitterTime,
		Since: r.opts.Since,
		Until: r.opts.Until,
	})
	if err != nil {
		return nil, fmt.Errorf("read history of %q: %w", branch, err)
	}
	defer iter.Close()

	var commits []RawCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, RawCommit{
			Hash:        c.Hash.String(),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			Message:     firstLine(c.Message),
			Date:        c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history of %q: %w", branch, err)
	}

	return commits, nil
}

// ListBranches returns local branches followed by remote-tracking branches,
// each group sorted by name. Remote HEAD aliases are omitted. A non-empty
// pattern is matched as a doublestar glob against the short branch name.
func (r *HistoryReader) ListBranches(ctx context.Context, pattern string) ([]BranchInfo, error) {
	var current string
	if head, err := r.repo.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	var local, remote []BranchInfo
	seen := make(map[string]bool)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() {
			return nil
		}
		short := name.Short()
		if short == "HEAD" || strings.HasSuffix(short, "/HEAD") || seen[short] {
			return nil
		}
		seen[short] = true

		info := BranchInfo{
			Name:      short,
			Hash:      ref.Hash().String(),
			IsRemote:  name.IsRemote(),
			IsCurrent: name.IsBranch() && short == current,
		}
		if info.IsRemote {
			remote = append(remote, info)
		} else {
			local = append(local, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	sort.Slice(local, func(i, j int) bool { return local[i].Name < local[j].Name })
	sort.Slice(remote, func(i, j int) bool { return remote[i].Name < remote[j].Name })

	return filterBranches(append(local, remote...), pattern)
}

func filterBranches(branches []BranchInfo, pattern string) ([]BranchInfo, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return branches, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid branch pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	out := make([]BranchInfo, 0, len(branches))
	for _, b := range branches {
		if ok, _ := doublestar.Match(pattern, b.Name); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListAuthors returns the sorted, distinct author names reachable from HEAD.
func (r *HistoryReader) ListAuthors(ctx context.Context) ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	seen := make(map[string]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name := strings.TrimSpace(c.Author.Name); name != "" {
			seen[name] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	authors := make([]string, 0, len(seen))
	for name := range seen {
		authors = append(authors, name)
	}
	sort.Strings(authors)
	return authors, nil
}
