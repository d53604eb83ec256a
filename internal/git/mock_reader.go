package git

import (
	"context"
	"fmt"
)

// MockCommitSource is a test double for HistoryReader.
// It serves predefined histories keyed by branch name without a Git repository.
type MockCommitSource struct {
	Histories map[string][]RawCommit
	Branches  []BranchInfo
	Authors   []string
	Error     error
}

// NewMockCommitSource creates a MockCommitSource with the given histories.
func NewMockCommitSource(histories map[string][]RawCommit, err error) *MockCommitSource {
	return &MockCommitSource{Histories: histories, Error: err}
}

// ReadCommits returns the predefined history for branch.
func (m *MockCommitSource) ReadCommits(_ context.Context, branch string) ([]RawCommit, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	commits, ok := m.Histories[NormalizeBranchName(branch)]
	if !ok {
		return nil, fmt.Errorf("unknown branch %q", branch)
	}
	return commits, nil
}

// ListBranches returns the predefined branches.
func (m *MockCommitSource) ListBranches(_ context.Context, pattern string) ([]BranchInfo, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return filterBranches(m.Branches, pattern)
}

// ListAuthors returns the predefined authors.
func (m *MockCommitSource) ListAuthors(_ context.Context) ([]string, error) {
	return m.Authors, m.Error
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockCommitSource)(nil)
