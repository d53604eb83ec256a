package prompt

import (
	"context"
	"fmt"

	"github.com/masmgr/branchdiff-go/internal/git"
	"github.com/masmgr/branchdiff-go/internal/timerange"
)

// AllAuthors is the author choice that disables author filtering.
const AllAuthors = "all"

// Selection is what the user picked.
type Selection struct {
	Source string
	Target string
	Range  timerange.Preset
	Author string // AllAuthors or an author name
}

// Ask prompts for whichever of source, target and author is still empty.
// The time range is asked only when ask.Range is empty.
func Ask(ctx context.Context, repo git.RepositoryReader, chooser Chooser, ask Selection) (*Selection, error) {
	sel := ask

	if sel.Source == "" || sel.Target == "" {
		branches, err := repo.ListBranches(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", err)
		}
		names := make([]string, 0, len(branches))
		for _, b := range branches {
			names = append(names, b.Name)
		}

		if sel.Source == "" {
			if sel.Source, err = chooser.Choose("Source branch", Without(names, sel.Target)); err != nil {
				return nil, err
			}
		}
		if sel.Target == "" {
			if sel.Target, err = chooser.Choose("Target branch", Without(names, sel.Source)); err != nil {
				return nil, err
			}
		}
	}

	if sel.Range == "" {
		labels := make([]string, 0, len(timerange.Presets()))
		byLabel := make(map[string]timerange.Preset)
		for _, p := range timerange.Presets() {
			labels = append(labels, p.Label())
			byLabel[p.Label()] = p
		}
		label, err := chooser.Choose("Time range", labels)
		if err != nil {
			return nil, err
		}
		sel.Range = byLabel[label]
	}

	if sel.Author == "" {
		authors, err := repo.ListAuthors(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list authors: %w", err)
		}
		if sel.Author, err = chooser.Choose("Author", append([]string{AllAuthors}, authors...)); err != nil {
			return nil, err
		}
	}

	return &sel, nil
}
