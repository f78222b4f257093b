package main

import (
	"fmt"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/crawl"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.RunID != "" {
		return c.showRun(deps)
	}

	runs, err := deps.RunLog.RecentRuns(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet. Use 'docpack build' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  pages=%d failed=%d chunks=%d tokens=%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.BaseURL,
			r.Pages, r.Failed, r.Chunks, crawl.FormatTokens(r.TotalTokens))
	}

	return nil
}

// showRun prints the page records of a single run.
func (c *HistoryCmd) showRun(deps *Dependencies) error {
	records, err := deps.RunLog.FindPageRecords(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	for _, rec := range records {
		if rec.Error != "" {
			fmt.Fprintf(deps.Stdout, "%-8s  %s  error: %s\n", "failed", rec.Path, rec.Error)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-8s  %s  %s\n",
			rec.Method, rec.Path, crawl.FormatTokens(rec.Tokens))
	}

	return nil
}
