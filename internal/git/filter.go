package git

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MessageMatcher reports whether a commit subject matches any configured pattern.
// Patterns are compiled case-insensitively.
type MessageMatcher struct {
	patterns []*regexp.Regexp
}

// NewMessageMatcher compiles the given patterns, skipping blank entries.
func NewMessageMatcher(patterns []string) (*MessageMatcher, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &MessageMatcher{patterns: compiled}, nil
}

// Match returns true if message matches any pattern.
func (m *MessageMatcher) Match(message string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (m *MessageMatcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// commitFilter applies ReadOptions to commits regardless of which backend read them.
type commitFilter struct {
	author *regexp.Regexp
	skip   *MessageMatcher
	since  *time.Time
	until  *time.Time
	loc    *time.Location
}

func newCommitFilter(opts ReadOptions) (*commitFilter, error) {
	f := &commitFilter{since: opts.Since, until: opts.Until, loc: opts.Location}

	if author := AuthorPattern(opts.Author); author != "" {
		re, err := regexp.Compile(author)
		if err != nil {
			return nil, fmt.Errorf("invalid author filter %q: %w", opts.Author, err)
		}
		f.author = re
	}

	skip, err := NewMessageMatcher(opts.SkipPatterns)
	if err != nil {
		return nil, err
	}
	f.skip = skip
	return f, nil
}

// AuthorPattern returns the effective author filter; "all" and blank disable it.
func AuthorPattern(author string) string {
	author = strings.TrimSpace(author)
	if strings.EqualFold(author, "all") {
		return ""
	}
	return author
}

// keep reports whether c passes the author, date range and skip filters.
func (f *commitFilter) keep(c RawCommit) bool {
	if f.author != nil && !f.author.MatchString(c.AuthorSignature()) {
		return false
	}
	if f.since != nil && c.Date.Before(*f.since) {
		return false
	}
	if f.until != nil && c.Date.After(*f.until) {
		return false
	}
	return !f.skip.Match(c.Message)
}

// localize converts the commit date into the configured location.
func (f *commitFilter) localize(c RawCommit) RawCommit {
	if f.loc != nil {
		c.Date = c.Date.In(f.loc)
	}
	return c
}

// apply filters and localizes commits in place order.
func (f *commitFilter) apply(commits []RawCommit) []RawCommit {
	out := make([]RawCommit, 0, len(commits))
	for _, c := range commits {
		if !f.keep(c) {
			continue
		}
		out = append(out, f.localize(c))
	}
	return out
}
