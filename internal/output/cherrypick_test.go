package output

import (
	"reflect"
	"testing"

	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

func TestCherryPickCommands(t *testing.T) {
	report := sampleReport(t)

	got := CherryPickCommands(report.Pending())
	want := []string{
		"git cherry-pick typo2222  # Fix typo",
		"git cherry-pick refac333  # Refactor | cleanup",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CherryPickCommands() = %q, want %q", got, want)
	}

	if got := CherryPickCommands(nil); len(got) != 0 {
		t.Errorf("CherryPickCommands(nil) = %q, want empty", got)
	}
}

func TestOptimizedCherryPick(t *testing.T) {
	report := sampleReport(t)
	pending := report.Pending()

	tests := []struct {
		name    string
		commits []reconcile.ClassifiedCommit
		want    string
	}{
		{name: "Empty", commits: nil, want: ""},
		{name: "Single", commits: pending[1:], want: "git cherry-pick typo2222  # Fix typo"},
		{name: "Range", commits: pending, want: "git cherry-pick typo2222^..refac333  # 2 commits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OptimizedCherryPick(tt.commits); got != tt.want {
				t.Errorf("OptimizedCherryPick() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptimizedCherryPick_DoesNotReorderInput(t *testing.T) {
	report := sampleReport(t)
	pending := report.Pending()
	first := pending[0].Hash

	OptimizedCherryPick(pending)
	if pending[0].Hash != first {
		t.Error("OptimizedCherryPick reordered its input")
	}
}
