package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masmgr/branchdiff-go/internal/output"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

func TestApp_Commands(t *testing.T) {
	app := App()
	want := []string{"compare", "branches", "authors", "ignore", "remark", "show", "serve"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("missing command %q", name)
		}
	}
}

func runCompareJSON(t *testing.T, env *testEnv, args ...string) output.JSONComparisonReport {
	t.Helper()
	out, err := env.run(t, append([]string{"compare", "--no-open", "--format", "json"}, args...)...)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	var report output.JSONComparisonReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return report
}

func TestCompare_ClassifiesAndWritesReports(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)

	report := runCompareJSON(t, env, "--repo", repo.dir, repo.main+"..release")

	want := reconcile.Summary{Total: 4, SourceOnly: 1, TargetOnly: 1, Both: 2, MatchedByMessage: 1}
	if report.Summary != want {
		t.Fatalf("Summary = %+v, want %+v", report.Summary, want)
	}
	if report.SourceBranch != repo.main || report.TargetBranch != "release" {
		t.Fatalf("branches = %s..%s", report.SourceBranch, report.TargetBranch)
	}

	byHash := make(map[string]output.JSONCommit)
	for _, c := range report.Commits {
		byHash[c.Hash] = c
	}
	login := byHash[repo.hashes["login"]]
	if login.Status != reconcile.StatusBoth || !login.MatchedByMessage || login.TargetHash != repo.hashes["picked"] {
		t.Errorf("login = %+v, want both with target hash %s", login.ClassifiedCommit, repo.hashes["picked"])
	}
	if _, ok := byHash[repo.hashes["picked"]]; ok {
		t.Errorf("picked commit should be absorbed into its source commit")
	}
	if byHash[repo.hashes["hotfix"]].Status != reconcile.StatusTarget {
		t.Errorf("hotfix status = %s, want target", byHash[repo.hashes["hotfix"]].Status)
	}

	if report.CherryPick == nil || len(report.CherryPick.Commands) != 1 {
		t.Fatalf("CherryPick = %+v, want one command", report.CherryPick)
	}
	if !strings.Contains(report.CherryPick.Commands[0], repo.hashes["typo"]) {
		t.Errorf("command = %q, want typo hash", report.CherryPick.Commands[0])
	}
	if report.CherryPick.Checkout != "git checkout release" {
		t.Errorf("Checkout = %q", report.CherryPick.Checkout)
	}

	for _, name := range []string{"branch-diff.md", "branch-timeline.html"} {
		if _, err := os.Stat(filepath.Join(env.dataDir, name)); err != nil {
			t.Errorf("report %s not written: %v", name, err)
		}
	}
}

func TestCompare_FlagsAndFilters(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)

	t.Run("SourceTargetFlags", func(t *testing.T) {
		report := runCompareJSON(t, env, "--repo", repo.dir, "-s", "release", "-t", repo.main)
		if report.Summary.SourceOnly != 1 || report.Summary.TargetOnly != 1 {
			t.Fatalf("Summary = %+v", report.Summary)
		}
		if report.CherryPick == nil || !strings.Contains(report.CherryPick.Commands[0], repo.hashes["hotfix"]) {
			t.Fatalf("CherryPick = %+v, want hotfix", report.CherryPick)
		}
	})

	t.Run("Author", func(t *testing.T) {
		report := runCompareJSON(t, env, "--repo", repo.dir, "--author", "^Bob", repo.main+"..release")
		if report.Summary.Total != 1 || report.Summary.SourceOnly != 1 {
			t.Fatalf("Summary = %+v, want only Bob's commit", report.Summary)
		}
		if report.Author != "^Bob" {
			t.Errorf("Author = %q", report.Author)
		}
	})

	t.Run("DateRange", func(t *testing.T) {
		report := runCompareJSON(t, env, "--repo", repo.dir, "--since", "2024-03-03", "--until", "2024-03-04", repo.main+"..release")
		// Only Fix typo and the picked login fall in the window.
		if report.Summary.Total != 2 || report.Summary.MatchedByMessage != 0 {
			t.Fatalf("Summary = %+v", report.Summary)
		}
		if report.Since == nil || *report.Since != "2024-03-03" {
			t.Errorf("Since = %v", report.Since)
		}
	})

	t.Run("SameBranch", func(t *testing.T) {
		if _, err := env.run(t, "compare", "--no-open", "--repo", repo.dir, repo.main+".."+repo.main); err == nil {
			t.Fatalf("expected error comparing a branch with itself")
		}
	})

	t.Run("MissingBranch", func(t *testing.T) {
		if _, err := env.run(t, "compare", "--no-open", "--repo", repo.dir, repo.main+"..nope"); err == nil {
			t.Fatalf("expected error for an unknown branch")
		}
	})

	t.Run("BadMessageMatch", func(t *testing.T) {
		if _, err := env.run(t, "compare", "--no-open", "--message-match", "some", "--repo", repo.dir, repo.main+"..release"); err == nil {
			t.Fatalf("expected error for an invalid message match")
		}
	})

	t.Run("BadTimeRange", func(t *testing.T) {
		if _, err := env.run(t, "compare", "--no-open", "--time-range", "decade", "--repo", repo.dir, repo.main+"..release"); err == nil {
			t.Fatalf("expected error for an invalid time range")
		}
	})
}

func TestCompare_DefaultAction(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--no-open", "--repo", repo.dir, repo.main+"..release")
	if err != nil {
		t.Fatalf("default action failed: %v", err)
	}
	if !strings.Contains(out, "Pending cherry-picks onto release: 1") {
		t.Fatalf("console output missing pending count:\n%s", out)
	}
}

func TestIgnoreAndRemarkCommands(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)
	typo := repo.hashes["typo"]

	if _, err := env.run(t, "ignore", "add", "--reason", "Not needed", typo); err != nil {
		t.Fatalf("ignore add: %v", err)
	}
	out, err := env.run(t, "ignore", "list")
	if err != nil {
		t.Fatalf("ignore list: %v", err)
	}
	if !strings.Contains(out, typo) || !strings.Contains(out, "Not needed") {
		t.Fatalf("ignore list = %q", out)
	}

	report := runCompareJSON(t, env, "--repo", repo.dir, repo.main+"..release")
	if report.CherryPick != nil {
		t.Fatalf("ignored commit should not be pending: %+v", report.CherryPick)
	}

	if _, err := env.run(t, "remark", "set", typo, "ported", "by", "hand"); err != nil {
		t.Fatalf("remark set: %v", err)
	}
	out, err = env.run(t, "remark", "list")
	if err != nil {
		t.Fatalf("remark list: %v", err)
	}
	if !strings.Contains(out, "ported by hand") {
		t.Fatalf("remark list = %q", out)
	}

	report = runCompareJSON(t, env, "--repo", repo.dir, repo.main+"..release")
	for _, c := range report.Commits {
		if c.Hash == typo && (!c.Ignored || c.Remark != "ported by hand") {
			t.Fatalf("typo commit = ignored %v remark %q", c.Ignored, c.Remark)
		}
	}

	out, err = env.run(t, "ignore", "remove", typo)
	if err != nil || !strings.Contains(out, "Restored") {
		t.Fatalf("ignore remove = %q, %v", out, err)
	}
	out, err = env.run(t, "ignore", "remove", typo)
	if err != nil || !strings.Contains(out, "was not ignored") {
		t.Fatalf("second ignore remove = %q, %v", out, err)
	}
	out, err = env.run(t, "remark", "remove", typo)
	if err != nil || !strings.Contains(out, "Remark removed") {
		t.Fatalf("remark remove = %q, %v", out, err)
	}

	t.Run("InvalidHash", func(t *testing.T) {
		if _, err := env.run(t, "ignore", "add", "not-a-hash"); err == nil {
			t.Fatalf("expected error for invalid hash")
		}
	})

	t.Run("EmptyRemark", func(t *testing.T) {
		if _, err := env.run(t, "remark", "set", typo); err == nil {
			t.Fatalf("expected error for empty remark")
		}
	})

	t.Run("Reasons", func(t *testing.T) {
		out, err := env.run(t, "ignore", "reasons")
		if err != nil || !strings.Contains(out, "Merged manually") {
			t.Fatalf("ignore reasons = %q, %v", out, err)
		}
	})
}

func TestBranchesAndAuthorsCommands(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)

	out, err := env.run(t, "branches", "--repo", repo.dir)
	if err != nil {
		t.Fatalf("branches: %v", err)
	}
	if !strings.Contains(out, "* "+repo.main) || !strings.Contains(out, "release") {
		t.Fatalf("branches = %q", out)
	}

	out, err = env.run(t, "branches", "--repo", repo.dir, "--match", "rel*")
	if err != nil {
		t.Fatalf("branches --match: %v", err)
	}
	if strings.Contains(out, repo.main) || !strings.Contains(out, "release") {
		t.Fatalf("branches --match = %q", out)
	}

	out, err = env.run(t, "authors", "--repo", repo.dir)
	if err != nil {
		t.Fatalf("authors: %v", err)
	}
	for _, name := range []string{"Alice", "Bob"} {
		if !strings.Contains(out, name) {
			t.Errorf("authors missing %s: %q", name, out)
		}
	}
}

func TestShowCommand(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repo := createTestRepo(t)
	env := newTestEnv(t)

	out, err := env.run(t, "show", "--repo", repo.dir, repo.hashes["typo"])
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Fix typo") || !strings.Contains(out, "app.txt") {
		t.Fatalf("show output = %q", out)
	}

	if _, err := env.run(t, "show", "--repo", repo.dir, "zzzz"); err == nil {
		t.Fatalf("expected error for invalid hash")
	}
}

func TestCompare_PickerSelection(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)

	t.Run("AuthorFlagStaysRegex", func(t *testing.T) {
		chooser := &scriptedChooser{answers: map[string]string{
			"Target branch": "release",
			"Time range":    "All time",
		}}
		useChooser(t, chooser)

		report := runCompareJSON(t, env, "--repo", repo.dir, "--source", repo.main, "--author", "Ali.*")
		if report.TargetBranch != "release" {
			t.Fatalf("TargetBranch = %q, want release", report.TargetBranch)
		}
		// Alice's initial and login commits; Bob's typo is filtered out.
		want := reconcile.Summary{Total: 2, Both: 2, MatchedByMessage: 1}
		if report.Summary != want {
			t.Fatalf("Summary = %+v, want %+v", report.Summary, want)
		}
		if got := strings.Join(chooser.asked, ","); got != "Target branch,Time range" {
			t.Errorf("asked = %s", got)
		}
	})

	t.Run("PickedAuthorIsLiteral", func(t *testing.T) {
		chooser := &scriptedChooser{answers: map[string]string{"Author": "Bob"}}
		useChooser(t, chooser)

		report := runCompareJSON(t, env, "-i", "--time-range", "all", "--repo", repo.dir, repo.main+"..release")
		if report.Summary.Total != 1 || report.Summary.SourceOnly != 1 {
			t.Fatalf("Summary = %+v, want only Bob's commit", report.Summary)
		}
		if report.Author != "Bob" {
			t.Errorf("Author = %q, want Bob", report.Author)
		}
	})
}

func TestCompare_WithoutTerminal(t *testing.T) {
	repo := createTestRepo(t)
	env := newTestEnv(t)
	withoutTerminal(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "MissingTarget", args: []string{"--source", repo.main}, wantErr: "source and target branches are required"},
		{name: "NoBranches", args: nil, wantErr: "source and target branches are required"},
		{name: "Interactive", args: []string{"-i", repo.main + "..release"}, wantErr: "needs a terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"compare", "--no-open", "--repo", repo.dir}, tt.args...)
			_, err := env.run(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
