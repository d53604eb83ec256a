package output

import (
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
)

// YAMLComparisonWriter exports the pending cherry-pick list as YAML.
type YAMLComparisonWriter struct{}

// YAMLCherryPickList is the YAML document written by YAMLComparisonWriter.
type YAMLCherryPickList struct {
	Repo         string           `yaml:"repo"`
	SourceBranch string           `yaml:"sourceBranch"`
	TargetBranch string           `yaml:"targetBranch"`
	Commits      []YAMLCherryPick `yaml:"commits"`
}

// YAMLCherryPick is one commit to port, oldest first.
type YAMLCherryPick struct {
	SHA     string `yaml:"sha"`
	Date    string `yaml:"date"`
	Author  string `yaml:"author"`
	Message string `yaml:"message"`
}

// Write outputs the pending commits as YAML.
func (w *YAMLComparisonWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	pending := oldestFirst(report.Pending())
	doc := YAMLCherryPickList{
		Repo:         report.RepoPath,
		SourceBranch: report.SourceBranch,
		TargetBranch: report.TargetBranch,
		Commits:      make([]YAMLCherryPick, 0, len(pending)),
	}
	for _, c := range pending {
		doc.Commits = append(doc.Commits, YAMLCherryPick{
			SHA:     c.Hash,
			Date:    c.Date.Format(time.RFC3339),
			Author:  c.AuthorName,
			Message: c.Message,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = out.Write(data)
	return err
}
