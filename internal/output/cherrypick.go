package output

import (
	"fmt"
	"sort"

	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// CherryPickCommands returns one cherry-pick line per commit, oldest first so
// the lines can be run in order.
func CherryPickCommands(commits []reconcile.ClassifiedCommit) []string {
	ordered := oldestFirst(commits)
	lines := make([]string, len(ordered))
	for i, c := range ordered {
		lines[i] = fmt.Sprintf("git cherry-pick %s  # %s", c.Hash, c.Message)
	}
	return lines
}

// OptimizedCherryPick collapses the commits into a single command. One commit
// yields the same line as CherryPickCommands; several yield an
// oldest^..newest range. No commits yield an empty string.
func OptimizedCherryPick(commits []reconcile.ClassifiedCommit) string {
	switch len(commits) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("git cherry-pick %s  # %s", commits[0].Hash, commits[0].Message)
	}
	ordered := oldestFirst(commits)
	oldest := ordered[0]
	newest := ordered[len(ordered)-1]
	return fmt.Sprintf("git cherry-pick %s^..%s  # %d commits", oldest.Hash, newest.Hash, len(ordered))
}

func oldestFirst(commits []reconcile.ClassifiedCommit) []reconcile.ClassifiedCommit {
	ordered := make([]reconcile.ClassifiedCommit, len(commits))
	copy(ordered, commits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}
