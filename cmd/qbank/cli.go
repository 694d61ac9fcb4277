package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/awalczyk/qbank"
	"github.com/awalczyk/qbank/sqlite"
	"github.com/awalczyk/qbank/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config toml.Config
	DB     *sqlite.DB
	Store  qbank.QuestionStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Run the capture intake server"`
	List   ListCmd   `cmd:"" help:"List stored questions"`
	Show   ShowCmd   `cmd:"" help:"Show a stored question"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored question"`
	Note   NoteCmd   `cmd:"" help:"Create the markdown note stub for a question"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides config)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Question ID"`
	Full bool   `help:"Include the raw HTML"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Question ID"`
	Force bool   `help:"Confirm deletion"`
}

// NoteCmd is the "note" subcommand.
type NoteCmd struct {
	ID string `arg:"" help:"Question ID"`
}
