// Package reconcile merges the commit histories of two branches into one
// classified list, matching commits across branches by hash and, for
// cherry-picked or rebased commits, by subject line.
package reconcile

import (
	"sort"
	"strings"

	"github.com/masmgr/branchdiff-go/internal/git"
)

// Status records which branch(es) a commit belongs to.
type Status string

const (
	StatusSource Status = "source"
	StatusTarget Status = "target"
	StatusBoth   Status = "both"
)

// MessageMatch controls how many source commits one target commit may claim
// through subject-line matching.
type MessageMatch string

const (
	// MatchAll promotes every unpromoted source commit sharing the subject.
	MatchAll MessageMatch = "all"
	// MatchFirst promotes only the earliest unpromoted source commit.
	MatchFirst MessageMatch = "first"
)

// ParseMessageMatch validates a message match policy name. Empty means MatchAll.
func ParseMessageMatch(s string) (MessageMatch, error) {
	switch MessageMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchAll:
		return MatchAll, nil
	case MatchFirst:
		return MatchFirst, nil
	default:
		return "", newValidationError("message match", s, "expected all or first")
	}
}

// ClassifiedCommit is a commit annotated with the branches it was found on.
type ClassifiedCommit struct {
	git.RawCommit
	Status            Status   `json:"status"`
	Branches          []string `json:"branches"`
	MatchedByMessage  bool     `json:"matchedByMessage"`
	TargetHash        string   `json:"targetHash,omitempty"`
	NormalizedMessage string   `json:"normalizedMessage"`
}

// Summary counts classified commits per status.
type Summary struct {
	Total            int `json:"total"`
	SourceOnly       int `json:"sourceOnly"`
	TargetOnly       int `json:"targetOnly"`
	Both             int `json:"both"`
	MatchedByMessage int `json:"matchedByMessage"`
}

// Result is the outcome of one reconciliation.
type Result struct {
	SourceBranch string
	TargetBranch string
	// Commits are in discovery order: source history first, then target-only commits.
	Commits []ClassifiedCommit
	Summary Summary
}

// IsEmpty reports whether neither branch contributed any commit.
func (r *Result) IsEmpty() bool {
	return len(r.Commits) == 0
}

type options struct {
	messageMatch MessageMatch
}

// Option configures Reconcile.
type Option func(*options)

// WithMessageMatch selects the subject-line matching policy.
func WithMessageMatch(m MessageMatch) Option {
	return func(o *options) {
		if m != "" {
			o.messageMatch = m
		}
	}
}

// NormalizeMessage returns the form of a subject line used for equality checks.
func NormalizeMessage(message string) string {
	return strings.TrimSpace(message)
}

// Reconcile merges the source and target histories.
//
// Source commits are registered first. Each target commit then either promotes
// the source entry with the same hash, promotes source entries with the same
// normalized subject (and is absorbed into them), or is added as target-only.
// Nil slices are treated as empty histories.
func Reconcile(source, target []git.RawCommit, sourceBranch, targetBranch string, opts ...Option) (*Result, error) {
	if err := validateBranches(sourceBranch, targetBranch); err != nil {
		return nil, err
	}

	o := options{messageMatch: MatchAll}
	for _, opt := range opts {
		opt(&o)
	}
	if o.messageMatch != MatchAll && o.messageMatch != MatchFirst {
		return nil, newValidationError("message match", string(o.messageMatch), "expected all or first")
	}

	result := newOrderedMap[string, *ClassifiedCommit]()
	byMessage := make(map[string][]string)

	for _, c := range source {
		normalized := NormalizeMessage(c.Message)
		result.Set(c.Hash, &ClassifiedCommit{
			RawCommit:         c,
			Status:            StatusSource,
			Branches:          []string{sourceBranch},
			NormalizedMessage: normalized,
		})
		byMessage[normalized] = append(byMessage[normalized], c.Hash)
	}

	both := func() []string { return []string{sourceBranch, targetBranch} }

	for _, c := range target {
		normalized := NormalizeMessage(c.Message)

		if existing, ok := result.Get(c.Hash); ok {
			existing.Status = StatusBoth
			existing.Branches = both()
			continue
		}

		if hashes := byMessage[normalized]; len(hashes) > 0 {
			for _, h := range hashes {
				sc, ok := result.Get(h)
				if !ok || sc.Status != StatusSource {
					continue
				}
				sc.Status = StatusBoth
				sc.Branches = both()
				sc.MatchedByMessage = true
				sc.TargetHash = c.Hash
				if o.messageMatch == MatchFirst {
					break
				}
			}
			continue
		}

		result.Set(c.Hash, &ClassifiedCommit{
			RawCommit:         c,
			Status:            StatusTarget,
			Branches:          []string{targetBranch},
			NormalizedMessage: normalized,
		})
	}

	entries := result.Values()
	commits := make([]ClassifiedCommit, len(entries))
	for i, e := range entries {
		commits[i] = *e
	}

	return &Result{
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		Commits:      commits,
		Summary:      Summarize(commits),
	}, nil
}

func validateBranches(sourceBranch, targetBranch string) error {
	if strings.TrimSpace(sourceBranch) == "" {
		return newValidationError("source branch", sourceBranch, "branch name is required")
	}
	if strings.TrimSpace(targetBranch) == "" {
		return newValidationError("target branch", targetBranch, "branch name is required")
	}
	if sourceBranch == targetBranch {
		return newValidationError("target branch", targetBranch, "must differ from the source branch")
	}
	return nil
}

// Summarize counts commits per status.
func Summarize(commits []ClassifiedCommit) Summary {
	s := Summary{Total: len(commits)}
	for _, c := range commits {
		switch c.Status {
		case StatusSource:
			s.SourceOnly++
		case StatusTarget:
			s.TargetOnly++
		case StatusBoth:
			s.Both++
		}
		if c.MatchedByMessage {
			s.MatchedByMessage++
		}
	}
	return s
}

// SortByDateDesc returns a copy of commits ordered newest first.
// Commits with equal dates keep their relative order.
func SortByDateDesc(commits []ClassifiedCommit) []ClassifiedCommit {
	sorted := make([]ClassifiedCommit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// FilterByStatus returns the commits with the given status, preserving order.
func FilterByStatus(commits []ClassifiedCommit, status Status) []ClassifiedCommit {
	var out []ClassifiedCommit
	for _, c := range commits {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}
