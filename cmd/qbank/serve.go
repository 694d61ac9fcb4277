package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awalczyk/qbank/extract"
	"github.com/awalczyk/qbank/fs"
	"github.com/awalczyk/qbank/goquery"
	"github.com/awalczyk/qbank/htmltomarkdown"
	qbankhttp "github.com/awalczyk/qbank/http"
	qbankslog "github.com/awalczyk/qbank/slog"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := deps.Config.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	pipeline := &extract.Pipeline{
		Store:          deps.Store,
		Images:         qbankslog.NewLoggingImageFetcher(qbankhttp.NewImageFetcher(), deps.Logger),
		Artifacts:      fs.NewWriter(),
		Analyzer:       goquery.NewAnalyzer(),
		Notes:          fs.NewNoteStore(deps.Config.NotesDir, htmltomarkdown.NewConverter()),
		ExtractionRoot: deps.Config.ExtractionRoot,
		MediaRoot:      deps.Config.MediaRoot,
		LogCapacity:    deps.Config.CaptureLogSize,
	}

	captures := qbankslog.NewLoggingCaptureService(pipeline, deps.Logger)
	server := qbankhttp.NewServer(captures, deps.Store, deps.Config.FrontendDir, deps.Logger)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("server starting", "addr", addr, "db", deps.Config.DBPath)
	fmt.Fprintf(deps.Stdout, "listening on %s\n", addr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		deps.Logger.Info("server stopping")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
