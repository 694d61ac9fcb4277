package main

import (
	"fmt"

	"github.com/awalczyk/qbank"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintln(deps.Stdout, "Re-run with --force to delete the question and its media records.")
		return nil
	}

	tx, err := deps.Store.Begin(deps.Ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.DeleteQuestion(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted question %s\n", c.ID)
	return nil
}
