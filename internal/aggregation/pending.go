package aggregation

import (
	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// Pending returns the commits that still need a cherry-pick onto the target:
// source-only and not ignored, newest first.
func Pending(commits []reconcile.ClassifiedCommit, ignored annotation.IgnoreSet) []reconcile.ClassifiedCommit {
	var out []reconcile.ClassifiedCommit
	for _, c := range commits {
		if c.Status == reconcile.StatusSource && !ignored.Has(c.Hash) {
			out = append(out, c)
		}
	}
	return reconcile.SortByDateDesc(out)
}

// Visible drops ignored commits, keeping order.
func Visible(commits []reconcile.ClassifiedCommit, ignored annotation.IgnoreSet) []reconcile.ClassifiedCommit {
	out := make([]reconcile.ClassifiedCommit, 0, len(commits))
	for _, c := range commits {
		if !ignored.Has(c.Hash) {
			out = append(out, c)
		}
	}
	return out
}
