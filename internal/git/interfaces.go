package git

import "context"

// CommitSource reads the commit history of a single branch.
// This abstraction lets the comparison run against fixtures in tests.
type CommitSource interface {
	// ReadCommits returns the filtered history reachable from branch, newest first.
	ReadCommits(ctx context.Context, branch string) ([]RawCommit, error)
}

// RepositoryReader adds the listings used by branch and author selection.
type RepositoryReader interface {
	CommitSource
	// ListBranches returns local and remote-tracking branches matching pattern.
	ListBranches(ctx context.Context, pattern string) ([]BranchInfo, error)
	// ListAuthors returns the distinct author names reachable from HEAD.
	ListAuthors(ctx context.Context) ([]string, error)
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*HistoryReader)(nil)
