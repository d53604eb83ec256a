package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/masmgr/branchdiff-go/internal/prompt"
)

var testBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// testRepo is a go-git repository with a main line and a release branch:
//
//	main:    initial -> Add login -> Fix typo
//	release: initial -> Add login (picked) -> Hotfix
type testRepo struct {
	dir    string
	main   string
	hashes map[string]string
}

// createTestRepo creates a temporary git repository with test commits
func createTestRepo(t *testing.T) *testRepo {
	t.Helper()

	tmpDir := t.TempDir()
	repo, err := git.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	r := &testRepo{dir: tmpDir, hashes: make(map[string]string)}
	r.hashes["initial"] = addCommitToRepo(t, w, "initial", "app.txt", "Alice", testBase)

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to read HEAD: %v", err)
	}
	r.main = head.Name().Short()

	checkout(t, w, "release", true)
	checkout(t, w, r.main, false)
	r.hashes["login"] = addCommitToRepo(t, w, "Add login\n\nWith tests.", "login.txt", "Alice", testBase.AddDate(0, 0, 1))
	r.hashes["typo"] = addCommitToRepo(t, w, "Fix typo", "app.txt", "Bob", testBase.AddDate(0, 0, 2))

	checkout(t, w, "release", false)
	r.hashes["picked"] = addCommitToRepo(t, w, "Add login", "login.txt", "Alice", testBase.AddDate(0, 0, 3))
	r.hashes["hotfix"] = addCommitToRepo(t, w, "Hotfix", "hotfix.txt", "Carol", testBase.AddDate(0, 0, 4))

	checkout(t, w, r.main, false)
	return r
}

// addCommitToRepo writes filename and commits it with the given author and time
func addCommitToRepo(t *testing.T, w *git.Worktree, message, filename, author string, commitTime time.Time) string {
	t.Helper()

	content := message + " " + commitTime.String() + "\n"
	if err := os.WriteFile(filepath.Join(w.Filesystem.Root(), filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := w.Add(filename); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	sig := &object.Signature{Name: author, Email: author + "@example.com", When: commitTime}
	hash, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash.String()
}

func checkout(t *testing.T, w *git.Worktree, branch string, create bool) {
	t.Helper()
	if err := w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		t.Fatalf("Failed to checkout %s: %v", branch, err)
	}
}

// testEnv isolates config lookup and the data directory from the user's home.
type testEnv struct {
	configPath string
	dataDir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	env := &testEnv{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		dataDir:    filepath.Join(t.TempDir(), "data"),
	}
	cfg := map[string]any{
		"timezone": "UTC",
		"git":      map[string]any{"backend": "gogit"},
		"report":   map[string]any{"openBrowser": false},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.configPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes the app with the environment's config and data directory
// and returns what it wrote to stdout.
func (env *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = io.Discard

	full := append([]string{"branchdiff", "--config", env.configPath, "--data-dir", env.dataDir}, args...)
	err := app.Run(full)
	return stdout.String(), err
}

// scriptedChooser answers prompts by title and records what was asked.
type scriptedChooser struct {
	answers map[string]string
	asked   []string
}

func (s *scriptedChooser) Choose(title string, items []string) (string, error) {
	s.asked = append(s.asked, title)
	answer, ok := s.answers[title]
	if !ok {
		return "", fmt.Errorf("unexpected prompt %q", title)
	}
	for _, item := range items {
		if item == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("%q is not offered for %q: %v", answer, title, items)
}

// useChooser makes the compare command believe stdin is a terminal and
// answer prompts from chooser.
func useChooser(t *testing.T, chooser *scriptedChooser) {
	t.Helper()
	origTerminal, origChooser := stdinIsTerminal, newChooser
	stdinIsTerminal = func() bool { return true }
	newChooser = func() prompt.Chooser { return chooser }
	t.Cleanup(func() {
		stdinIsTerminal, newChooser = origTerminal, origChooser
	})
}

func withoutTerminal(t *testing.T) {
	t.Helper()
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })
}
