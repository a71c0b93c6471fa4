package collect

import (
	"log/slog"
	"testing"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
	"github.com/tsbindgen/tsbindgen/internal/resolve"
)

func newCollector(t *testing.T, files map[string]string) (*Collector, *fsys.MemFS) {
	t.Helper()
	mem := fsys.NewMem("/work")
	for path, src := range files {
		if err := mem.WriteFile(path, src); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}
	r := resolve.New(mem, true)
	return New(mem, r, config.Default(), slog.Default()), mem
}

func TestProcessModuleCollectsInterfaceAndEnum(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/shapes.d.ts": `
export enum Kind { Circle = "circle", Square = "square" }
export interface Shape {
  kind: Kind;
  area(): number;
}
`,
	})

	fileID, err := c.ProcessModule("/work", "./shapes")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, ok := c.Program.Get(fileID)
	if !ok {
		t.Fatal("file table missing after ProcessModule")
	}
	shapeT, ok := ft.Get(ir.Name("Shape"))
	if !ok {
		t.Fatal("Shape not collected")
	}
	iface, ok := shapeT.Info.(*ir.Interface)
	if !ok {
		t.Fatalf("Shape.Info = %T, want *ir.Interface", shapeT.Info)
	}
	if _, ok := iface.Fields["kind"]; !ok {
		t.Error("Shape.Fields missing \"kind\"")
	}
	if _, ok := iface.Fields["area"].(*ir.Func); !ok {
		t.Errorf("Shape.Fields[\"area\"] = %T, want *ir.Func", iface.Fields["area"])
	}

	kindT, ok := ft.Get(ir.Name("Kind"))
	if !ok {
		t.Fatal("Kind not collected")
	}
	enum, ok := kindT.Info.(*ir.Enum)
	if !ok {
		t.Fatalf("Kind.Info = %T, want *ir.Enum", kindT.Info)
	}
	if len(enum.Members) != 2 {
		t.Fatalf("len(Members) = %d, want 2", len(enum.Members))
	}
	if enum.Members[0].Value != ir.EnumValueString("circle") {
		t.Errorf("Members[0].Value = %v, want EnumValueString(\"circle\")", enum.Members[0].Value)
	}
}

func TestProcessModuleNamespaceProducesQualifiedName(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/ns.d.ts": `
export namespace Shapes {
  export interface Circle { radius: number; }
}
`,
	})

	fileID, err := c.ProcessModule("/work", "./ns")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, _ := c.Program.Get(fileID)
	found := false
	ft.Range(func(id ir.TypeIdent, t ir.Type) bool {
		if qn, ok := id.(ir.QualifiedName); ok && qn.String() == "Shapes.Circle" {
			found = true
		}
		return true
	})
	if !found {
		t.Error("expected a QualifiedName \"Shapes.Circle\" entry")
	}
}

func TestProcessModuleIsIdempotentOnCycles(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/a.d.ts": `
import { B } from "./b";
export interface A { b: B; }
`,
		"/work/b.d.ts": `
import { A } from "./a";
export interface B { a: A; }
`,
	})

	if _, err := c.ProcessModule("/work", "./a"); err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	if c.Program.Files() == nil || len(c.Program.Files()) != 2 {
		t.Fatalf("Files() = %v, want exactly 2 files visited despite the cycle", c.Program.Files())
	}
}

func TestProcessModuleExportStarCopiesExportedNames(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/base.d.ts": `
export interface Visible { x: number; }
interface Hidden { y: number; }
`,
		"/work/reexport.d.ts": `export * from "./base";`,
	})

	fileID, err := c.ProcessModule("/work", "./reexport")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, _ := c.Program.Get(fileID)
	if _, ok := ft.Get(ir.Name("Visible")); !ok {
		t.Error("export * should have copied the exported \"Visible\" entry")
	}
	if _, ok := ft.Get(ir.Name("Hidden")); ok {
		t.Error("export * should not have copied the unexported \"Hidden\" entry")
	}
}

func TestProcessModuleExportAsNamespaceBindsOwnExports(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/widget.d.ts": `
export interface Widget { id: number; }
export as namespace Widgets;
`,
	})

	fileID, err := c.ProcessModule("/work", "./widget")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, _ := c.Program.Get(fileID)
	nsT, ok := ft.Get(ir.Name("Widgets"))
	if !ok {
		t.Fatal("export as namespace should have bound \"Widgets\"")
	}
	all, ok := nsT.Info.(*ir.ImportAll)
	if !ok {
		t.Fatalf("Widgets.Info = %T, want *ir.ImportAll", nsT.Info)
	}
	if all.Src != fileID {
		t.Errorf("ImportAll.Src = %v, want the declaring file itself (%v)", all.Src, fileID)
	}
}

func TestProcessModuleExportDefaultSetsIdentity(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/def.d.ts": `
export default interface Widget { spin(): void; }
`,
	})

	fileID, err := c.ProcessModule("/work", "./def")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, _ := c.Program.Get(fileID)
	if _, ok := ft.Get(ir.DefaultExport{}); !ok {
		t.Error("expected a DefaultExport entry")
	}
}

func TestProcessModuleExportDefaultInsideNamespaceIsRejected(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/bad.d.ts": `
export namespace NS {
  export default interface Widget {}
}
`,
	})

	_, err := c.ProcessModule("/work", "./bad")
	if _, ok := err.(*ingesterr.InvalidNamespaceDefault); !ok {
		t.Fatalf("err = %T, want *ingesterr.InvalidNamespaceDefault", err)
	}
}

func TestProcessModuleAmbientModuleStrictModeIsFatal(t *testing.T) {
	c, _ := newCollector(t, map[string]string{
		"/work/amb.d.ts": `
declare module "some-legacy-thing" {
  export function f(): void;
}
`,
	})

	_, err := c.ProcessModule("/work", "./amb")
	if _, ok := err.(*ingesterr.UnsupportedTypeNode); !ok {
		t.Fatalf("err = %T, want *ingesterr.UnsupportedTypeNode", err)
	}
}

func TestProcessModuleAmbientModuleNonStrictIsSkipped(t *testing.T) {
	mem := fsys.NewMem("/work")
	if err := mem.WriteFile("/work/amb.d.ts", `
declare module "some-legacy-thing" {
  export function f(): void;
}
export interface Kept { x: number; }
`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := config.Default()
	cfg.StrictMissing = false
	c := New(mem, resolve.New(mem, true), cfg, slog.Default())

	fileID, err := c.ProcessModule("/work", "./amb")
	if err != nil {
		t.Fatalf("ProcessModule: %v", err)
	}
	ft, _ := c.Program.Get(fileID)
	if _, ok := ft.Get(ir.Name("Kept")); !ok {
		t.Error("expected the statement after the skipped ambient module to still be collected")
	}
}
