package main

import (
	"fmt"

	"github.com/awalczyk/qbank"
	"github.com/awalczyk/qbank/fs"
	"github.com/awalczyk/qbank/htmltomarkdown"
)

// Run executes the note command.
func (c *NoteCmd) Run(deps *Dependencies) error {
	tx, err := deps.Store.Begin(deps.Ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q, err := tx.QuestionByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	source, err := tx.SourceByID(deps.Ctx, q.SourceID)
	if err != nil {
		return err
	}

	notes := fs.NewNoteStore(deps.Config.NotesDir, htmltomarkdown.NewConverter())
	path, err := notes.EnsureNote(deps.Ctx, q, source.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", qbank.ErrorMessage(err))
		return err
	}

	if path != q.NotePath {
		if _, err := tx.UpdateQuestion(deps.Ctx, q.ID, qbank.QuestionUpdate{NotePath: &path}); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	fmt.Fprintln(deps.Stdout, path)
	return nil
}
