package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestParseCompareSpec(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		wantSource string
		wantTarget string
		wantErr    bool
	}{
		{name: "TwoDot", spec: "main..release", wantSource: "main", wantTarget: "release"},
		{name: "ThreeDot", spec: "origin/main...release/1.0", wantSource: "origin/main", wantTarget: "release/1.0"},
		{name: "RemotesPrefix", spec: "remotes/origin/main..dev", wantSource: "origin/main", wantTarget: "dev"},
		{name: "MissingSource", spec: "..release", wantErr: true},
		{name: "MissingTarget", spec: "main..", wantErr: true},
		{name: "NoDots", spec: "main", wantErr: true},
		{name: "Empty", spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target, err := ParseCompareSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if source != tt.wantSource || target != tt.wantTarget {
				t.Errorf("ParseCompareSpec(%q) = %q, %q, want %q, %q", tt.spec, source, target, tt.wantSource, tt.wantTarget)
			}
		})
	}
}

func TestParseNameStatus(t *testing.T) {
	data := []byte("M\x00file1.go\x00A\x00file2.go\x00D\x00file3.go\x00R100\x00old.go\x00new.go\x00")

	entries, err := parseNameStatus(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	tests := []struct {
		path    string
		oldPath string
		kind    ChangeKind
	}{
		{"file1.go", "", ChangeKindModified},
		{"file2.go", "", ChangeKindAdded},
		{"file3.go", "", ChangeKindDeleted},
		{"new.go", "old.go", ChangeKindRenamed},
	}

	for i, tt := range tests {
		if entries[i].Path != tt.path || entries[i].OldPath != tt.oldPath {
			t.Errorf("entry[%d] = %+v, want path %q old %q", i, entries[i], tt.path, tt.oldPath)
		}
		if entries[i].Kind != tt.kind {
			t.Errorf("entry[%d].Kind = %v, want %v", i, entries[i].Kind, tt.kind)
		}
	}
}

func TestParseNameStatus_Empty(t *testing.T) {
	entries, err := parseNameStatus([]byte{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestParseNameStatus_TruncatedRename(t *testing.T) {
	if _, err := parseNameStatus([]byte("R100\x00old.go")); err == nil {
		t.Fatal("expected error for truncated rename entry")
	}
}

func TestValidateHash(t *testing.T) {
	valid := []string{"abcd", "0123456789abcdef0123456789abcdef01234567", "ABCDEF12"}
	invalid := []string{"", "abc", "xyz123", "abcd; rm -rf /", "HEAD", strings.Repeat("a", 65)}

	for _, h := range valid {
		if err := ValidateHash(h); err != nil {
			t.Errorf("ValidateHash(%q) = %v, want nil", h, err)
		}
	}
	for _, h := range invalid {
		if err := ValidateHash(h); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("ValidateHash(%q) = %v, want ErrInvalidHash", h, err)
		}
	}
}

func TestShowCommit_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	f := newReleaseFixture(t)
	ctx := context.Background()

	detail, err := ShowCommit(ctx, f.dir, f.hashes["typo"])
	if err != nil {
		t.Fatalf("ShowCommit: %v", err)
	}
	if detail.Hash != f.hashes["typo"] {
		t.Errorf("Hash = %q", detail.Hash)
	}
	if !strings.Contains(detail.Diff, "Fix typo") || !strings.Contains(detail.Diff, "+typo fixed") {
		t.Errorf("diff missing subject or patch:\n%s", detail.Diff)
	}
	if len(detail.Files) != 1 || detail.Files[0].Path != "app.txt" || detail.Files[0].Kind != ChangeKindModified {
		t.Errorf("Files = %+v", detail.Files)
	}

	if _, err := ShowCommit(ctx, f.dir, "deadbeef"); !errors.Is(err, ErrCommitNotFound) {
		t.Errorf("ShowCommit(unknown) = %v, want ErrCommitNotFound", err)
	}
	if _, err := ShowCommit(ctx, f.dir, "--help"); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("ShowCommit(--help) = %v, want ErrInvalidHash", err)
	}
}
