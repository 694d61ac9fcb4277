package main

import (
	"fmt"

	"github.com/awalczyk/qbank"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
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

	media, err := tx.MediaByQuestion(deps.Ctx, q.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "ID:         %s\n", q.ID)
	fmt.Fprintf(deps.Stdout, "Source:     %s\n", source.Name)
	fmt.Fprintf(deps.Stdout, "Key:        %s\n", q.SourceKey)
	fmt.Fprintf(deps.Stdout, "Status:     %s\n", q.Status)
	if q.Tags != "" {
		fmt.Fprintf(deps.Stdout, "Tags:       %s\n", q.Tags)
	}
	if q.ExtractionPath != "" {
		fmt.Fprintf(deps.Stdout, "Extraction: %s\n", q.ExtractionPath)
	}
	if q.NotePath != "" {
		fmt.Fprintf(deps.Stdout, "Note:       %s\n", q.NotePath)
	}
	fmt.Fprintf(deps.Stdout, "Created:    %s\n", q.CreatedAt.Format("2006-01-02 15:04:05"))

	for _, m := range media {
		fmt.Fprintf(deps.Stdout, "Media:      %s (%s)\n", m.RelativePath, m.MimeType)
	}

	if c.Full {
		fmt.Fprintf(deps.Stdout, "\n%s\n", q.RawHTML)
	}

	return nil
}
