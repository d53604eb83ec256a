package git

import (
	"fmt"
	"strings"
	"time"
)

// RawCommit is a single commit as read from one branch's history.
type RawCommit struct {
	Hash        string    `json:"hash"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Message     string    `json:"message"` // subject line only
	Date        time.Time `json:"date"`
}

// AuthorSignature returns the "Name <email>" form that author filters match against.
func (c RawCommit) AuthorSignature() string {
	if c.AuthorEmail == "" {
		return c.AuthorName
	}
	return fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
}

// ShortHash returns the first 8 characters of the hash.
func (c RawCommit) ShortHash() string {
	return ShortHash(c.Hash)
}

// ShortHash abbreviates a commit hash to 8 characters.
func ShortHash(hash string) string {
	if len(hash) <= 8 {
		return hash
	}
	return hash[:8]
}

// BranchInfo describes a branch that can be compared.
type BranchInfo struct {
	Name      string
	Hash      string
	IsRemote  bool
	IsCurrent bool
}

// FileChange represents a file touched by a commit.
type FileChange struct {
	Path    string     `json:"path"`
	OldPath string     `json:"oldPath,omitempty"` // For renames
	Kind    ChangeKind `json:"kind"`
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// MarshalText lets ChangeKind serialize as its name.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (k *ChangeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "added":
		*k = ChangeKindAdded
	case "modified":
		*k = ChangeKindModified
	case "deleted":
		*k = ChangeKindDeleted
	case "renamed":
		*k = ChangeKindRenamed
	default:
		return fmt.Errorf("invalid change kind %q", text)
	}
	return nil
}

// Backend selects how history is read.
type Backend string

const (
	BackendAuto  Backend = "auto"
	BackendGoGit Backend = "gogit"
	BackendCLI   Backend = "cli"
)

// ParseBackend validates a backend name. Empty means auto.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BackendAuto, nil
	case "gogit", "go-git":
		return BackendGoGit, nil
	case "cli", "git":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("invalid git backend %q (expected auto, gogit, cli)", s)
	}
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath     string
	Author       string // regex matched against "Name <email>"; empty or "all" disables
	Since        *time.Time
	Until        *time.Time
	SkipPatterns []string // subjects matching any of these are dropped
	Location     *time.Location
	Backend      Backend
}

// NormalizeBranchName strips the decorations `git branch -a` prints around names:
// the current-branch marker, the worktree marker and the remotes/ prefix.
func NormalizeBranchName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "* ")
	name = strings.TrimPrefix(name, "+ ")
	name = strings.TrimPrefix(name, "+")
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "remotes/")
	return name
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimRight(message, "\r")
}
