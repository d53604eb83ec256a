package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var fixtureBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) commit(msg, author, email string, when time.Time) string {
	r.t.Helper()
	sig := &object.Signature{Name: author, Email: email, When: when}
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (r *testRepo) headBranch() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// releaseFixture builds:
//
//	base:    initial -> Add login -> Fix typo
//	release: initial -> Add login (cherry-picked) -> Hotfix
type releaseFixture struct {
	*testRepo
	base    string
	hashes  map[string]string
	release string
}

func newReleaseFixture(t *testing.T) *releaseFixture {
	t.Helper()

	r := newTestRepo(t)
	f := &releaseFixture{testRepo: r, release: "release", hashes: make(map[string]string)}

	r.write("app.txt", "initial\n")
	f.hashes["initial"] = r.commit("initial", "Alice", "alice@example.com", fixtureBase)
	f.base = r.headBranch()

	r.checkout("release", true)
	r.checkout(f.base, false)

	r.write("login.txt", "login\n")
	f.hashes["login"] = r.commit("Add login\n\nLong description.", "Alice", "alice@example.com", fixtureBase.AddDate(0, 0, 1))
	r.write("app.txt", "typo fixed\n")
	f.hashes["typo"] = r.commit("Fix typo", "Bob", "bob@example.com", fixtureBase.AddDate(0, 0, 2))

	r.checkout("release", false)
	r.write("login.txt", "login\n")
	f.hashes["login-picked"] = r.commit("Add login", "Alice", "alice@example.com", fixtureBase.AddDate(0, 0, 3))
	r.write("hotfix.txt", "hotfix\n")
	f.hashes["hotfix"] = r.commit("Hotfix", "Carol", "carol@example.com", fixtureBase.AddDate(0, 0, 4))

	r.checkout(f.base, false)
	return f
}

func hashesOf(commits []RawCommit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}
