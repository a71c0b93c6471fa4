package pipeline

import (
	"context"
	"testing"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/modtree"
)

func findChild(n *modtree.Tree, name string) *modtree.Tree {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func hasType(n *modtree.Tree, name string) bool {
	for _, t := range n.Types {
		if t.Name.Ident.String() == name {
			return true
		}
	}
	return false
}

func TestIngestEndToEnd(t *testing.T) {
	mem := fsys.NewMem("/work")
	files := map[string]string{
		// builtin Array/Record/Promise usage.
		"/work/entry.d.ts": `
import { Shape } from "./shapes";
import { Widget } from "widget";
export interface Catalog {
  items: Array<Shape>;
  byId: Record<string, Shape>;
  load(): Promise<Widget>;
}
`,
		// re-export star and a namespace with a qualified member.
		"/work/shapes.d.ts": `
export * from "./shapes-impl";
export namespace Shapes {
  export interface Extra { note: string; }
}
`,
		"/work/shapes-impl.d.ts": `
import { Other } from "./shapes";
export interface Shape { kind: string; mate: Other; }
`,
		// a bare specifier resolved through a node_modules package.json
		// with a "types" field pointing into a nested directory.
		"/work/node_modules/widget/package.json": `{"types": "lib/widget.d.ts"}`,
		"/work/node_modules/widget/lib/widget.d.ts": `
export interface Widget { spin(): void; }
`,
	}
	for path, src := range files {
		if err := mem.WriteFile(path, src); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}

	tree, err := Ingest(context.Background(), mem, config.Default(), []string{"./entry"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	workDir := findChild(tree, "work")
	if workDir == nil {
		t.Fatal("expected a \"work\" module at root for the /work files")
	}

	entryLeaf := findChild(workDir, "entry")
	if entryLeaf == nil {
		t.Fatal("expected an \"entry\" module under work")
	}
	if !hasType(entryLeaf, "Catalog") {
		t.Error("expected Catalog in the entry module")
	}

	shapesLeaf := findChild(workDir, "shapes")
	if shapesLeaf == nil {
		t.Fatal("expected a \"shapes\" module under work")
	}
	if !hasType(shapesLeaf, "Shape") {
		t.Error("expected export * to have copied Shape into the shapes module")
	}

	nsLeaf := findChild(shapesLeaf, "shapes")
	if nsLeaf == nil {
		t.Fatal("expected the Shapes namespace to duplicate-place Extra under shapes/shapes")
	}
	if !hasType(nsLeaf, "Shapes.Extra") {
		t.Error("expected Shapes.Extra at the duplicated namespace path")
	}

	widgetDir := findChild(tree, "widget")
	if widgetDir == nil {
		t.Fatal("expected a \"widget\" module from the node_modules package")
	}
	libDir := findChild(widgetDir, "lib")
	if libDir == nil {
		t.Fatal("expected lib under widget (package.json types field honoured)")
	}
	libLeaf := findChild(libDir, "widget")
	if libLeaf == nil {
		t.Fatal("expected a \"widget\" module under widget/lib for lib/widget.d.ts")
	}
	if !hasType(libLeaf, "Widget") {
		t.Error("expected Widget in the widget/lib/widget module")
	}
}

func TestIngestPropagatesContextCancellation(t *testing.T) {
	mem := fsys.NewMem("/work")
	if err := mem.WriteFile("/work/a.d.ts", "export interface A {}"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Ingest(ctx, mem, config.Default(), []string{"./a"})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
