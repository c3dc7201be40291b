package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/mcpserver"
	"github.com/starford/goldstar/internal/models"
	"github.com/starford/goldstar/internal/roster"
	"github.com/starford/goldstar/internal/storage"
)

// RunMCP serves the ledger over MCP on stdin/stdout until stdin closes.
// Logs go to stderr so they never interleave with protocol frames.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}
	rt, err := bootstrap(app, false)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if rt.fs != nil && app.config.Storage.Watch {
		go func() {
			if err := storage.Watch(ctx, rt.fs, app.config.Storage.Key, rt.logger, func(data []byte) {
				_ = rt.store.Reload(data)
			}); err != nil {
				rt.logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
		}()
	}

	rt.logger.Info("Starting MCP server on stdio")
	return mcpserver.New(rt.store, app.version).ServeStdio()
}

// RunImport adds every name in a Markdown roster file that the ledger does
// not already know. Names are matched case-insensitively.
func RunImport(_ context.Context, path string, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}
	r, err := roster.Parse(data)
	if err != nil {
		return fmt.Errorf("parse roster %s: %w", path, err)
	}

	rt, err := bootstrap(app, false)
	if err != nil {
		return err
	}
	defer rt.close()

	added, skipped, err := importNames(rt.store, r.Names)
	if err != nil {
		return err
	}
	rt.logger.Info("roster imported",
		slog.String("path", path),
		slog.String("title", r.Title),
		slog.Int("added", added),
		slog.Int("skipped", skipped))
	_, err = fmt.Fprintf(app.out, "imported %d, skipped %d\n", added, skipped)
	return err
}

func importNames(store *ledger.Store, names []string) (added, skipped int, err error) {
	known := make(map[string]struct{})
	for _, p := range store.People() {
		known[strings.ToLower(p.Name)] = struct{}{}
	}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := known[key]; ok {
			skipped++
			continue
		}
		if _, err := store.AddPerson(name); err != nil {
			return added, skipped, fmt.Errorf("add %q: %w", name, err)
		}
		known[key] = struct{}{}
		added++
	}
	return added, skipped, nil
}

// RunList prints people ordered by the given key and direction. Empty
// values keep the store's current view.
func RunList(_ context.Context, sortBy, order string, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}

	var by models.SortBy
	var dir models.SortOrder
	if sortBy != "" {
		if by, err = models.ParseSortBy(sortBy); err != nil {
			return err
		}
	}
	if order != "" {
		if dir, err = models.ParseSortOrder(order); err != nil {
			return err
		}
	}

	rt, err := bootstrap(app, false)
	if err != nil {
		return err
	}
	defer rt.close()

	if by == "" && dir == "" {
		return writePeople(app.out, rt.store.Sorted())
	}
	view := rt.store.View()
	if by != "" {
		view.By = by
	}
	if dir != "" {
		view.Order = dir
	}
	return writePeople(app.out, rt.store.SortedPeople(view.By, view.Order))
}

func writePeople(w io.Writer, people []models.Person) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTARS\tADDED\tLAST STAR")
	for _, p := range people {
		last := "-"
		if p.LastStarDate != nil {
			last = p.LastStarDate.Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Name, p.Stars, p.DateAdded.Format(time.DateOnly), last)
	}
	return tw.Flush()
}

// RunStats prints the ledger summary as JSON.
func RunStats(_ context.Context, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}
	rt, err := bootstrap(app, false)
	if err != nil {
		return err
	}
	defer rt.close()

	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rt.store.Stats())
}
