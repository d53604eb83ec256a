package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/masmgr/branchdiff-go/internal/annotation"
	"github.com/masmgr/branchdiff-go/internal/reconcile"
)

// UnknownAuthor labels commits without an author name.
const UnknownAuthor = "(unknown)"

// AuthorMetrics holds per-author counts for one comparison.
type AuthorMetrics struct {
	Name             string    `json:"name"`
	SourceOnly       int       `json:"sourceOnly"`
	TargetOnly       int       `json:"targetOnly"`
	Both             int       `json:"both"`
	MatchedByMessage int       `json:"matchedByMessage"`
	Pending          int       `json:"pending"` // source-only and not ignored
	Ignored          int       `json:"ignored"`
	LastCommitAt     time.Time `json:"lastCommitAt"`
}

// Total returns the number of classified commits by this author.
func (a *AuthorMetrics) Total() int {
	return a.SourceOnly + a.TargetOnly + a.Both
}

// AuthorAggregator builds per-author breakdowns of classified commits.
type AuthorAggregator struct {
	ignored annotation.IgnoreSet
}

// NewAuthorAggregator creates an aggregator that counts ignored source-only commits separately.
func NewAuthorAggregator(ignored annotation.IgnoreSet) *AuthorAggregator {
	return &AuthorAggregator{ignored: ignored}
}

// Process returns one entry per author, sorted by pending count descending, then name.
func (a *AuthorAggregator) Process(commits []reconcile.ClassifiedCommit) []AuthorMetrics {
	byAuthor := make(map[string]*AuthorMetrics)

	for _, c := range commits {
		name := strings.TrimSpace(c.AuthorName)
		if name == "" {
			name = UnknownAuthor
		}
		m, ok := byAuthor[name]
		if !ok {
			m = &AuthorMetrics{Name: name}
			byAuthor[name] = m
		}

		switch c.Status {
		case reconcile.StatusSource:
			m.SourceOnly++
			if a.ignored.Has(c.Hash) {
				m.Ignored++
			} else {
				m.Pending++
			}
		case reconcile.StatusTarget:
			m.TargetOnly++
		case reconcile.StatusBoth:
			m.Both++
		}
		if c.MatchedByMessage {
			m.MatchedByMessage++
		}
		if c.Date.After(m.LastCommitAt) {
			m.LastCommitAt = c.Date
		}
	}

	results := make([]AuthorMetrics, 0, len(byAuthor))
	for _, m := range byAuthor {
		results = append(results, *m)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Pending != results[j].Pending {
			return results[i].Pending > results[j].Pending
		}
		return results[i].Name < results[j].Name
	})
	return results
}
