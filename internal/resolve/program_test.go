package resolve

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
)

func refTo(file, name string) *ir.Ref {
	return &ir.Ref{Referent: ir.TypeName{File: ir.FileID(file), Ident: ir.Name(name)}}
}

func TestResolveProgramBuiltinArityTable(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("UsesArray"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("UsesArray")},
		Info: &ir.Alias{Target: &ir.Ref{Referent: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Array")}, TypeArgs: []ir.TypeInfo{&ir.Primitive{Kind: ir.PrimString}}}},
	})

	out, err := ResolveProgram(pt, config.Default(), slog.Default())
	if err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}
	got, ok := out.Get("a.d.ts")
	if !ok {
		t.Fatal("output table missing file a.d.ts")
	}
	typ, ok := got.Get(ir.Name("UsesArray"))
	if !ok {
		t.Fatal("UsesArray missing from resolved table")
	}
	alias := typ.Info.(*ir.Alias)
	arr, ok := alias.Target.(*ir.Array)
	if !ok {
		t.Fatalf("Target = %T, want *ir.Array", alias.Target)
	}
	if _, ok := arr.Item.(*ir.Primitive); !ok {
		t.Errorf("Item = %T, want *ir.Primitive", arr.Item)
	}
}

func TestResolveProgramBuiltinWrongArityFallsThroughToUnresolved(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	// Array used with two type arguments: not the real generic arity, so
	// resolveBuiltin must report no match and the caller should treat
	// "Array" as an ordinary unresolved reference.
	ft.Set(ir.Name("Bad"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Bad")},
		Info: &ir.Alias{Target: &ir.Ref{
			Referent: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Array")},
			TypeArgs: []ir.TypeInfo{&ir.Primitive{Kind: ir.PrimString}, &ir.Primitive{Kind: ir.PrimNumber}},
		}},
	})

	_, err := ResolveProgram(pt, config.Default(), slog.Default())
	if _, ok := err.(*ingesterr.UnresolvedReference); !ok {
		t.Fatalf("err = %T, want *ingesterr.UnresolvedReference", err)
	}
}

func TestResolveProgramUnresolvedReferenceNonStrictSubstitutesAny(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("Dangling"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Dangling")},
		Info: &ir.Alias{Target: refTo("a.d.ts", "DoesNotExist")},
	})

	cfg := config.Default()
	cfg.StrictMissing = false
	out, err := ResolveProgram(pt, cfg, slog.Default())
	if err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}
	got, _ := out.Get("a.d.ts")
	typ, _ := got.Get(ir.Name("Dangling"))
	alias := typ.Info.(*ir.Alias)
	if _, ok := alias.Target.(*ir.Primitive); !ok {
		t.Errorf("Target = %T, want *ir.Primitive (any fallback)", alias.Target)
	}
}

func TestResolveProgramUnresolvedReferenceStrictIsFatal(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("Dangling"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Dangling")},
		Info: &ir.Alias{Target: refTo("a.d.ts", "DoesNotExist")},
	})

	_, err := ResolveProgram(pt, config.Default(), slog.Default())
	if _, ok := err.(*ingesterr.UnresolvedReference); !ok {
		t.Fatalf("err = %T, want *ingesterr.UnresolvedReference", err)
	}
}

func TestResolveProgramTypeQueryUnwrapsVar(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("instance"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("instance")},
		Info: &ir.Var{Type: &ir.Primitive{Kind: ir.PrimString}},
	})
	ft.Set(ir.Name("Alias"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Alias")},
		Info: &ir.Alias{Target: &ir.TypeQuery{Ref: refTo("a.d.ts", "instance")}},
	})

	out, err := ResolveProgram(pt, config.Default(), slog.Default())
	if err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}
	got, _ := out.Get("a.d.ts")
	typ, _ := got.Get(ir.Name("Alias"))
	alias := typ.Info.(*ir.Alias)
	if _, ok := alias.Target.(*ir.Primitive); !ok {
		t.Errorf("Target = %T, want *ir.Primitive (unwrapped from Var)", alias.Target)
	}
}

// TestResolveProgramFuncParamScopeIsInnerReturnScopeIsOuter verifies that
// a function's own type parameter resolves for its parameters but not
// for its return type, which sees only the outer (interface-level) scope.
func TestResolveProgramFuncParamScopeIsInnerReturnScopeIsOuter(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("Box"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Box")},
		Info: &ir.Interface{
			Fields: map[string]ir.TypeInfo{
				"method": &ir.Func{
					TypeParams: []ir.TypeParamConfig{{Name: "T"}},
					Params:     []ir.Param{{Name: "v", Type: refTo("a.d.ts", "T")}},
					Return:     refTo("a.d.ts", "T"),
				},
			},
		},
	})

	cfg := config.Default()
	cfg.StrictMissing = false
	out, err := ResolveProgram(pt, cfg, slog.Default())
	if err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}
	got, _ := out.Get("a.d.ts")
	typ, _ := got.Get(ir.Name("Box"))
	iface := typ.Info.(*ir.Interface)
	method := iface.Fields["method"].(*ir.Func)

	if _, ok := method.Params[0].Type.(*ir.Ref); !ok {
		t.Errorf("param type = %T, want *ir.Ref (T in scope, left as generic use)", method.Params[0].Type)
	}
	if _, ok := method.Return.(*ir.Primitive); !ok {
		t.Errorf("return type = %T, want *ir.Primitive (T out of scope at return position)", method.Return)
	}
}

func TestResolveProgramTraceUnresolvedLogsEveryRefAtDebug(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("Widget"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Widget")},
		Info: &ir.Alias{Target: refTo("a.d.ts", "Date")},
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.Default()
	cfg.TraceUnresolved = true
	if _, err := ResolveProgram(pt, cfg, logger); err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}

	if !strings.Contains(buf.String(), "chasing reference") {
		t.Errorf("log output = %q, want a \"chasing reference\" debug line", buf.String())
	}
}

func TestResolveProgramTraceUnresolvedOffLogsNothing(t *testing.T) {
	pt := ir.NewProgramTable()
	ft := pt.GetOrCreate("a.d.ts")
	ft.Set(ir.Name("Widget"), ir.Type{
		Name: ir.TypeName{File: "a.d.ts", Ident: ir.Name("Widget")},
		Info: &ir.Alias{Target: refTo("a.d.ts", "Date")},
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.Default()
	cfg.TraceUnresolved = false
	if _, err := ResolveProgram(pt, cfg, logger); err != nil {
		t.Fatalf("ResolveProgram: %v", err)
	}

	if strings.Contains(buf.String(), "chasing reference") {
		t.Errorf("log output = %q, want no trace line with TraceUnresolved off", buf.String())
	}
}
