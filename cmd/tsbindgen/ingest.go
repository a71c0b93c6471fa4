package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/modtree"
	"github.com/tsbindgen/tsbindgen/internal/pipeline"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [specifiers...]",
	Short: "Resolve, parse, and link one or more entry module specifiers into a module tree",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		tree, err := pipeline.Ingest(ctx, fsys.OS(), cfg, args)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		printTree(cmd.OutOrStdout(), tree, 0)
		return nil
	},
}

func printTree(w interface{ Write([]byte) (int, error) }, t *modtree.Tree, depth int) {
	indent := ""
	for range depth {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%s (%d types)\n", indent, t.Name, len(t.Types))
	for _, c := range t.Children {
		printTree(w, c, depth+1)
	}
}
