package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidHash is returned for hashes that are not 4-64 hex characters.
	ErrInvalidHash = errors.New("invalid commit hash")
	// ErrCommitNotFound is returned when the object does not exist or is not a commit.
	ErrCommitNotFound = errors.New("commit not found")
)

var hexHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{4,64}$`)

// CommitDetail is the patch and file list of one commit.
type CommitDetail struct {
	Hash  string       `json:"hash"`
	Diff  string       `json:"diff"`
	Files []FileChange `json:"files"`
}

// ValidateHash checks that hash looks like a full or abbreviated object name.
func ValidateHash(hash string) error {
	if !hexHashPattern.MatchString(hash) {
		return fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	return nil
}

// ShowCommit returns `git show --patch --stat` output and the changed files of hash.
func ShowCommit(ctx context.Context, repoPath, hash string) (*CommitDetail, error) {
	hash = strings.TrimSpace(hash)
	if err := ValidateHash(hash); err != nil {
		return nil, err
	}

	kind, err := runGit(ctx, repoPath, "cat-file", "-t", hash)
	if err != nil || strings.TrimSpace(string(kind)) != "commit" {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, hash)
	}

	diff, err := runGit(ctx, repoPath, "show", "--no-color", "--patch", "--stat", hash)
	if err != nil {
		return nil, err
	}

	names, err := runGit(ctx, repoPath, "show", "--no-color", "--name-status", "-z", "--format=", hash)
	if err != nil {
		return nil, err
	}
	files, err := parseNameStatus(names)
	if err != nil {
		return nil, err
	}

	return &CommitDetail{Hash: hash, Diff: string(diff), Files: files}, nil
}

// parseNameStatus parses NUL-delimited `--name-status -z` output.
// Format: STATUS\0PATH\0 (or STATUS\0OLDPATH\0NEWPATH\0 for renames/copies)
func parseNameStatus(data []byte) ([]FileChange, error) {
	parts := bytes.Split(data, []byte{0x00})

	changes := make([]FileChange, 0, len(parts)/2)
	i := 0

	for i < len(parts) {
		status := strings.TrimSpace(string(parts[i]))
		if status == "" {
			i++
			continue
		}

		if i+1 >= len(parts) {
			break
		}

		kind, twoPaths := statusToChangeKind(status)

		if twoPaths {
			if i+2 >= len(parts) {
				return nil, fmt.Errorf("unexpected name-status output: rename entry missing new path")
			}
			changes = append(changes, FileChange{
				Path:    string(parts[i+2]),
				OldPath: string(parts[i+1]),
				Kind:    kind,
			})
			i += 3
		} else {
			changes = append(changes, FileChange{
				Path: string(parts[i+1]),
				Kind: kind,
			})
			i += 2
		}
	}

	return changes, nil
}

// statusToChangeKind converts a git status letter to ChangeKind.
// Returns the kind and whether the entry carries two paths.
func statusToChangeKind(status string) (ChangeKind, bool) {
	if len(status) == 0 {
		return ChangeKindModified, false
	}
	switch status[0] {
	case 'A':
		return ChangeKindAdded, false
	case 'D':
		return ChangeKindDeleted, false
	case 'R':
		return ChangeKindRenamed, true
	case 'C':
		// Copies are reported as additions of the new path.
		return ChangeKindAdded, true
	default:
		return ChangeKindModified, false
	}
}

// ParseCompareSpec splits "source..target" (or "source...target") into branch names.
func ParseCompareSpec(spec string) (source, target string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty compare spec")
	}

	if idx := strings.Index(spec, "..."); idx != -1 {
		source = spec[:idx]
		target = spec[idx+3:]
	} else if idx := strings.Index(spec, ".."); idx != -1 {
		source = spec[:idx]
		target = spec[idx+2:]
	} else {
		return "", "", fmt.Errorf("invalid compare spec %q: expected 'source..target'", spec)
	}

	source = NormalizeBranchName(source)
	target = NormalizeBranchName(target)
	if source == "" {
		return "", "", fmt.Errorf("invalid compare spec %q: missing source branch", spec)
	}
	if target == "" {
		return "", "", fmt.Errorf("invalid compare spec %q: missing target branch", spec)
	}
	return source, target, nil
}
