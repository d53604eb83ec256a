package aggregation

import (
	"testing"
	"time"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

func classified(hash, author string, status reconcile.Status, matched bool, day int) reconcile.ClassifiedCommit {
	return reconcile.ClassifiedCommit{
		RawCommit: git.RawCommit{
			Hash:       hash,
			AuthorName: author,
			Message:    "msg " + hash,
			Date:       time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		},
		Status:           status,
		MatchedByMessage: matched,
	}
}

func TestAuthorAggregator_Process(t *testing.T) {
	commits := []reconcile.ClassifiedCommit{
		classified("a1", "Alice", reconcile.StatusSource, false, 1),
		classified("a2", "Alice", reconcile.StatusSource, false, 5),
		classified("a3", "Alice", reconcile.StatusBoth, true, 3),
		classified("b1", "Bob", reconcile.StatusSource, false, 2),
		classified("b2", "Bob", reconcile.StatusSource, false, 4),
		classified("b3", "Bob", reconcile.StatusTarget, false, 6),
		classified("c1", "", reconcile.StatusBoth, false, 7),
	}
	ignored := annotation.NewIgnoreSet([]annotation.IgnoredCommit{{Hash: "b2"}})

	results := NewAuthorAggregator(ignored).Process(commits)

	if len(results) != 3 {
		t.Fatalf("expected 3 authors, got %d", len(results))
	}

	names := []string{results[0].Name, results[1].Name, results[2].Name}
	expected := []string{"Alice", "Bob", UnknownAuthor}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("order = %v, expected %v", names, expected)
		}
	}

	alice := results[0]
	if alice.SourceOnly != 2 || alice.Both != 1 || alice.Pending != 2 || alice.MatchedByMessage != 1 {
		t.Errorf("Alice = %+v", alice)
	}
	if !alice.LastCommitAt.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Alice LastCommitAt = %v", alice.LastCommitAt)
	}
	if alice.Total() != 3 {
		t.Errorf("Alice Total() = %d, expected 3", alice.Total())
	}

	bob := results[1]
	if bob.SourceOnly != 2 || bob.TargetOnly != 1 || bob.Pending != 1 || bob.Ignored != 1 {
		t.Errorf("Bob = %+v", bob)
	}
}

func TestAuthorAggregator_TieBreaksByName(t *testing.T) {
	commits := []reconcile.ClassifiedCommit{
		classified("z", "Zed", reconcile.StatusSource, false, 1),
		classified("y", "Amy", reconcile.StatusSource, false, 1),
	}
	results := NewAuthorAggregator(nil).Process(commits)
	if results[0].Name != "Amy" || results[1].Name != "Zed" {
		t.Errorf("order = %s, %s", results[0].Name, results[1].Name)
	}
}

func TestAuthorAggregator_Empty(t *testing.T) {
	if results := NewAuthorAggregator(nil).Process(nil); len(results) != 0 {
		t.Errorf("expected no authors, got %d", len(results))
	}
}

func TestPending(t *testing.T) {
	commits := []reconcile.ClassifiedCommit{
		classified("old", "A", reconcile.StatusSource, false, 1),
		classified("new", "A", reconcile.StatusSource, false, 9),
		classified("skip", "A", reconcile.StatusSource, false, 5),
		classified("both", "A", reconcile.StatusBoth, false, 4),
		classified("tgt", "A", reconcile.StatusTarget, false, 3),
	}
	ignored := annotation.NewIgnoreSet([]annotation.IgnoredCommit{{Hash: "skip"}})

	pending := Pending(commits, ignored)
	if len(pending) != 2 || pending[0].Hash != "new" || pending[1].Hash != "old" {
		t.Fatalf("Pending = %+v", pending)
	}

	visible := Visible(commits, ignored)
	if len(visible) != 4 {
		t.Fatalf("Visible = %d commits, expected 4", len(visible))
	}
}
