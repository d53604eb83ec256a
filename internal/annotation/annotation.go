// Package annotation persists per-commit annotations that survive between runs:
// commits the user chose to ignore and free-text remarks.
package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// File names inside the data directory.
const (
	IgnoredFile = "ignored-commits.json"
	RemarksFile = "commit-remarks.json"
)

// Wrapper keys used in the files and in the HTTP API.
const (
	IgnoredKey = "ignoredCommits"
	RemarksKey = "commitRemarks"
)

// IgnoreReasons are the reasons offered when ignoring a commit.
var IgnoreReasons = []string{
	"Merged manually",
	"Not needed",
	"Has conflicts",
	"Needs confirmation",
	"Other",
}

// IgnoredCommit marks a commit as not needing a cherry-pick.
type IgnoredCommit struct {
	Hash      string    `json:"hash"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Remark is a note attached to a commit.
type Remark struct {
	Hash      string    `json:"hash"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DecodeIgnored accepts either {"ignoredCommits": [...]} or a bare array.
// Entries with a blank hash are dropped.
func DecodeIgnored(data []byte) ([]IgnoredCommit, error) {
	list, err := decodeList[IgnoredCommit](data, IgnoredKey)
	if err != nil {
		return nil, err
	}
	out := make([]IgnoredCommit, 0, len(list))
	for _, ic := range list {
		ic.Hash = strings.TrimSpace(ic.Hash)
		if ic.Hash == "" {
			continue
		}
		out = append(out, ic)
	}
	return out, nil
}

// DecodeRemarks accepts an array of remarks or an object mapping hash to
// content; the latter is stamped with now. Entries with a blank hash are dropped.
func DecodeRemarks(raw json.RawMessage, now time.Time) ([]Remark, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Remark{}, nil
	}

	var list []Remark
	if trimmed[0] == '{' {
		var byHash map[string]string
		if err := json.Unmarshal(trimmed, &byHash); err != nil {
			return nil, fmt.Errorf("decode remarks: %w", err)
		}
		hashes := make([]string, 0, len(byHash))
		for h := range byHash {
			hashes = append(hashes, h)
		}
		sort.Strings(hashes)
		for _, h := range hashes {
			list = append(list, Remark{Hash: h, Content: byHash[h], Timestamp: now})
		}
	} else if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode remarks: %w", err)
	}

	return cleanRemarks(list), nil
}

func cleanRemarks(list []Remark) []Remark {
	out := make([]Remark, 0, len(list))
	for _, r := range list {
		r.Hash = strings.TrimSpace(r.Hash)
		if r.Hash == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// decodeList reads a list stored either bare or under key.
func decodeList[T any](data []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	raw, ok := wrapper[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return list, nil
}

// IgnoreSet indexes ignored commits by hash.
type IgnoreSet map[string]IgnoredCommit

// NewIgnoreSet builds an index; later entries win.
func NewIgnoreSet(list []IgnoredCommit) IgnoreSet {
	s := make(IgnoreSet, len(list))
	for _, ic := range list {
		s[ic.Hash] = ic
	}
	return s
}

// Has reports whether hash is ignored.
func (s IgnoreSet) Has(hash string) bool {
	_, ok := s[hash]
	return ok
}

// RemarkIndex indexes remarks by hash.
type RemarkIndex map[string]Remark

// NewRemarkIndex builds an index; later entries win.
func NewRemarkIndex(list []Remark) RemarkIndex {
	idx := make(RemarkIndex, len(list))
	for _, r := range list {
		idx[r.Hash] = r
	}
	return idx
}

// Content returns the remark text for hash, or "".
func (idx RemarkIndex) Content(hash string) string {
	return idx[hash].Content
}
