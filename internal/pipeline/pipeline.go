// Package pipeline orchestrates the five ingestion stages behind a single
// entry point a driver calls, the same way a compiler sequences its own
// lex -> parse -> check -> codegen stages behind one Compile function.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsbindgen/tsbindgen/internal/collect"
	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/modtree"
	"github.com/tsbindgen/tsbindgen/internal/resolve"
)

// Ingest resolves every entry specifier against fs's working directory,
// collects and recursively walks their module graph, runs the whole-program
// name-resolution pass, and folds the result into a module tree. It is the
// single entry point the rest of the pipeline is built behind.
func Ingest(ctx context.Context, fs fsys.FS, cfg config.Config, specifiers []string) (*modtree.Tree, error) {
	logger := cfg.NewLogger()

	resolver := resolve.New(fs, cfg.FollowPackageTypes)
	coll := collect.New(fs, resolver, cfg, logger)

	cwd, err := fs.Cwd()
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}

	for _, spec := range specifiers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if _, err := coll.ProcessModule(cwd, spec); err != nil {
			return nil, fmt.Errorf("collecting %s: %w", spec, err)
		}
	}

	logger.Debug("collection complete, starting name resolution", "files", len(coll.Program.Files()))

	resolved, err := resolve.ResolveProgram(coll.Program, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("resolving program: %w", err)
	}

	tree := modtree.Build(resolved)
	logSummary(logger, tree)
	return tree, nil
}

func logSummary(logger *slog.Logger, t *modtree.Tree) {
	var count func(*modtree.Tree) int
	count = func(n *modtree.Tree) int {
		total := len(n.Types)
		for _, c := range n.Children {
			total += count(c)
		}
		return total
	}
	logger.Info("ingestion complete", "root_children", len(t.Children), "total_types", count(t))
}
