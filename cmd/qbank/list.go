package main

import (
	"fmt"

	"github.com/awalczyk/qbank"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	tx, err := deps.Store.Begin(deps.Ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	summaries, err := tx.QuestionSummaries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	if len(summaries) == 0 {
		fmt.Fprintln(deps.Stdout, "No questions stored yet.")
		return nil
	}

	for _, s := range summaries {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.ID, s.SourceName, s.SourceKey)
	}

	return nil
}
