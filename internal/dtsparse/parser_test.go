package dtsparse

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m) // remove unused snapshots
	os.Exit(v)
}

func TestParseInterfaceWithIndexerAndMethod(t *testing.T) {
	src := `
export interface Widget {
  readonly [key: string]: number;
  spin(times?: number): void;
}
`
	file := ParseFile("widget.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestParseClassHeritage(t *testing.T) {
	src := `
declare class Base {}
export declare class Derived extends Base implements Comparable<Derived> {
  private secret: string;
  constructor(n: number);
  compareTo(other: Derived): number;
}
`
	file := ParseFile("derived.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestParseNamespaceAndEnum(t *testing.T) {
	src := `
export namespace Shapes {
  export enum Kind { Circle = "circle", Square = "square" }
  export interface Shape { kind: Kind; }
}
`
	file := ParseFile("shapes.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestParseImportExportForms(t *testing.T) {
	src := `
import Default, { Named as Alias } from "./mod";
import * as NS from "./ns";
import "./side-effect";
export * from "./reexport";
export * as Grouped from "./grouped";
export { Alias };
export default Alias;
`
	file := ParseFile("imports.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestParseFunctionTypeAndUnion(t *testing.T) {
	src := `
export type Callback = (err: Error | null, value?: string) => void;
export type Tagged = { a: string } | { b: number };
`
	file := ParseFile("types.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestParseVariadicAndTuple(t *testing.T) {
	src := `
export declare function concat(...parts: string[]): string;
export type Pair = [string, number];
`
	file := ParseFile("variadic.d.ts", src)
	snaps.MatchSnapshot(t, file.Statements)
}

func TestDotDotDotLexesAsOneToken(t *testing.T) {
	l := NewLexer("...")
	tok := l.Next()
	if tok.Kind != DotDotDot {
		t.Fatalf("Kind = %v, want DotDotDot", tok.Kind)
	}
	if l.Next().Kind != EOF {
		t.Error("expected EOF immediately after the single DotDotDot token")
	}
}

func TestUnsupportedConditionalTypeFallsBack(t *testing.T) {
	src := `export type Pick<T> = T extends string ? true : false;`
	file := ParseFile("conditional.d.ts", src)
	if len(file.Statements) != 1 {
		t.Fatalf("len(Statements) = %d, want 1", len(file.Statements))
	}
	exp, ok := file.Statements[0].(*ExportDecl)
	if !ok {
		t.Fatalf("Statements[0] = %T, want *ExportDecl", file.Statements[0])
	}
	decl, ok := exp.Declaration.(*TypeDecl)
	if !ok {
		t.Fatalf("Statements[0].Declaration = %T, want *TypeDecl", exp.Declaration)
	}
	if _, ok := decl.TypeAnn.(*UnsupportedTypeAnn); !ok {
		t.Errorf("TypeAnn = %T, want *UnsupportedTypeAnn", decl.TypeAnn)
	}
}
