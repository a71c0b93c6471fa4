package resolve

import (
	"log/slog"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
	"github.com/tsbindgen/tsbindgen/internal/set"
)

// ResolveProgram is a second, whole-program walk that rewrites every Ref
// in every file's table, producing a brand-new ir.ProgramTable rather
// than mutating the one passed in: fresh records, never aliasing.
func ResolveProgram(pt *ir.ProgramTable, cfg config.Config, logger *slog.Logger) (*ir.ProgramTable, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := ir.NewProgramTable()
	for _, f := range pt.Files() {
		ft, _ := pt.Get(f)
		outFT := out.GetOrCreate(f)
		r := &resolver{pt: pt, cfg: cfg, logger: logger, file: f}
		var rangeErr error
		ft.Range(func(id ir.TypeIdent, t ir.Type) bool {
			info, err := r.rewrite(t.Info, nil)
			if err != nil {
				rangeErr = err
				return false
			}
			outFT.Set(id, ir.Type{Name: t.Name, IsExported: t.IsExported, Info: info})
			return true
		})
		if rangeErr != nil {
			return nil, rangeErr
		}
	}
	return out, nil
}

// resolver carries the state one file's worth of rewriting needs: the
// whole-program table to resolve cross-file Refs against, the active
// config (for the StrictMissing soft-failure gate), and the owning file
// for error/log context.
type resolver struct {
	pt     *ir.ProgramTable
	cfg    config.Config
	logger *slog.Logger
	file   ir.FileID
}

// rewrite recursively rewrites info under the given lexical type-parameter
// scope (nil means empty).
func (r *resolver) rewrite(info ir.TypeInfo, scope set.Set[string]) (ir.TypeInfo, error) {
	switch v := info.(type) {
	case nil:
		return nil, nil
	case *ir.Ref:
		return r.resolveRef(v, scope)
	case *ir.Interface:
		return r.rewriteInterface(v, scope)
	case *ir.Class:
		return r.rewriteClass(v, scope)
	case *ir.Alias:
		return r.rewriteAlias(v, scope)
	case *ir.Array:
		item, err := r.rewrite(v.Item, scope)
		return &ir.Array{Item: item}, err
	case *ir.Optional:
		item, err := r.rewrite(v.Item, scope)
		return &ir.Optional{Item: item}, err
	case *ir.Mapped:
		val, err := r.rewrite(v.Value, scope)
		return &ir.Mapped{Value: val}, err
	case *ir.Union:
		types, err := r.rewriteList(v.Types, scope)
		return &ir.Union{Types: types}, err
	case *ir.Intersection:
		types, err := r.rewriteList(v.Types, scope)
		return &ir.Intersection{Types: types}, err
	case *ir.Tuple:
		types, err := r.rewriteList(v.Types, scope)
		return &ir.Tuple{Types: types}, err
	case *ir.Func:
		return r.rewriteFunc(v, scope)
	case *ir.Constructor:
		return r.rewriteConstructor(v, scope)
	case *ir.Var:
		t, err := r.rewrite(v.Type, scope)
		return &ir.Var{Type: t}, err
	case *ir.TypeQuery:
		return r.resolveTypeQuery(v, scope)
	case *ir.BuiltinPromise:
		val, err := r.rewrite(v.Value, scope)
		return &ir.BuiltinPromise{Value: val}, err
	default:
		// Primitive, BuiltinDate, LitString/LitNumber/LitBoolean, Enum,
		// NamespaceImport: no TypeInfo children to rewrite.
		return info, nil
	}
}

func (r *resolver) rewriteList(types []ir.TypeInfo, scope set.Set[string]) ([]ir.TypeInfo, error) {
	out := make([]ir.TypeInfo, len(types))
	for i, t := range types {
		nt, err := r.rewrite(t, scope)
		if err != nil {
			return nil, err
		}
		out[i] = nt
	}
	return out, nil
}

func (r *resolver) rewriteParams(params []ir.Param, scope set.Set[string]) ([]ir.Param, error) {
	out := make([]ir.Param, len(params))
	for i, p := range params {
		t, err := r.rewrite(p.Type, scope)
		if err != nil {
			return nil, err
		}
		out[i] = ir.Param{Name: p.Name, Type: t, IsVariadic: p.IsVariadic}
	}
	return out, nil
}

func (r *resolver) rewriteTypeParams(tps []ir.TypeParamConfig, scope set.Set[string]) ([]ir.TypeParamConfig, error) {
	out := make([]ir.TypeParamConfig, len(tps))
	for i, tp := range tps {
		nc := tp
		if tp.Constraint != nil {
			c, err := r.rewrite(tp.Constraint, scope)
			if err != nil {
				return nil, err
			}
			nc.Constraint = c
		}
		if tp.DefaultTypeArg != nil {
			d, err := r.rewrite(tp.DefaultTypeArg, scope)
			if err != nil {
				return nil, err
			}
			nc.DefaultTypeArg = d
		}
		out[i] = nc
	}
	return out, nil
}

func (r *resolver) rewriteConstructor(ctor *ir.Constructor, scope set.Set[string]) (*ir.Constructor, error) {
	params, err := r.rewriteParams(ctor.Params, scope)
	if err != nil {
		return nil, err
	}
	return &ir.Constructor{Params: params}, nil
}

// rewriteFunc resolves params in the function's own (extended) scope but
// its return type in the outer one, matching TypeScript scoping: return
// types resolve in the outer environment, parameters in the inner one.
func (r *resolver) rewriteFunc(f *ir.Func, outer set.Set[string]) (*ir.Func, error) {
	inner := childScope(outer, f.TypeParams)
	params, err := r.rewriteParams(f.Params, inner)
	if err != nil {
		return nil, err
	}
	ret, err := r.rewrite(f.Return, outer)
	if err != nil {
		return nil, err
	}
	tps, err := r.rewriteTypeParams(f.TypeParams, inner)
	if err != nil {
		return nil, err
	}
	return &ir.Func{TypeParams: tps, Params: params, Return: ret, ClassName: f.ClassName}, nil
}

func (r *resolver) rewriteInterface(iface *ir.Interface, outer set.Set[string]) (*ir.Interface, error) {
	scope := childScope(outer, iface.TypeParams)

	newFields := make(map[string]ir.TypeInfo, len(iface.Fields))
	for name, t := range iface.Fields {
		nt, err := r.rewrite(t, scope)
		if err != nil {
			return nil, err
		}
		newFields[name] = nt
	}

	newBases := make([]*ir.Ref, len(iface.Bases))
	for i, b := range iface.Bases {
		nb, err := r.rewrite(b, scope)
		if err != nil {
			return nil, err
		}
		newBases[i] = nb.(*ir.Ref)
	}

	var newIndexer *ir.Indexer
	if iface.Indexer != nil {
		v, err := r.rewrite(iface.Indexer.Value, scope)
		if err != nil {
			return nil, err
		}
		newIndexer = &ir.Indexer{Readonly: iface.Indexer.Readonly, Value: v}
	}

	var newCtor *ir.Constructor
	if iface.Ctor != nil {
		c, err := r.rewriteConstructor(iface.Ctor, scope)
		if err != nil {
			return nil, err
		}
		newCtor = c
	}

	tps, err := r.rewriteTypeParams(iface.TypeParams, scope)
	if err != nil {
		return nil, err
	}

	return &ir.Interface{Indexer: newIndexer, Bases: newBases, Fields: newFields, TypeParams: tps, Ctor: newCtor}, nil
}

func (r *resolver) rewriteClass(c *ir.Class, outer set.Set[string]) (*ir.Class, error) {
	scope := childScope(outer, c.TypeParams)

	var super *ir.Ref
	if c.Super != nil {
		s, err := r.rewrite(c.Super, scope)
		if err != nil {
			return nil, err
		}
		super = s.(*ir.Ref)
	}

	newMembers := make(map[string]ir.Member, len(c.Members))
	for name, m := range c.Members {
		switch mv := m.(type) {
		case *ir.CtorMember:
			nc, err := r.rewriteConstructor(mv.Ctor, scope)
			if err != nil {
				return nil, err
			}
			newMembers[name] = &ir.CtorMember{Ctor: nc}
		case *ir.MethodMember:
			nf, err := r.rewriteFunc(mv.Func, scope)
			if err != nil {
				return nil, err
			}
			newMembers[name] = &ir.MethodMember{Func: nf}
		case *ir.PropertyMember:
			nt, err := r.rewrite(mv.Type, scope)
			if err != nil {
				return nil, err
			}
			newMembers[name] = &ir.PropertyMember{Type: nt}
		}
	}

	implements := make([]*ir.Ref, len(c.Implements))
	for i, im := range c.Implements {
		ni, err := r.rewrite(im, scope)
		if err != nil {
			return nil, err
		}
		implements[i] = ni.(*ir.Ref)
	}

	tps, err := r.rewriteTypeParams(c.TypeParams, scope)
	if err != nil {
		return nil, err
	}

	return &ir.Class{Super: super, Members: newMembers, TypeParams: tps, Implements: implements}, nil
}

func (r *resolver) rewriteAlias(a *ir.Alias, outer set.Set[string]) (*ir.Alias, error) {
	scope := childScope(outer, a.TypeParams)
	target, err := r.rewrite(a.Target, scope)
	if err != nil {
		return nil, err
	}
	tps, err := r.rewriteTypeParams(a.TypeParams, scope)
	if err != nil {
		return nil, err
	}
	return &ir.Alias{Target: target, TypeParams: tps}, nil
}

// resolveTypeQuery resolves the ref and pulls out the underlying type,
// unwrapping one Var layer if present.
func (r *resolver) resolveTypeQuery(tq *ir.TypeQuery, scope set.Set[string]) (ir.TypeInfo, error) {
	if r.cfg.TraceUnresolved {
		r.logger.Debug("chasing typeof target", "file", string(r.file), "name", tq.Ref.Referent.Ident.String())
	}
	t, ok := r.pt.Lookup(tq.Ref.Referent)
	if !ok {
		if !r.cfg.StrictMissing {
			r.logger.Warn("unresolved typeof target, substituting any",
				"file", string(r.file), "name", tq.Ref.Referent.Ident.String())
			return &ir.Primitive{Kind: ir.PrimAny}, nil
		}
		return nil, &ingesterr.UnresolvedReference{File: string(r.file), Name: tq.Ref.Referent.Ident.String()}
	}
	if v, ok := t.Info.(*ir.Var); ok {
		return r.rewrite(v.Type, scope)
	}
	return r.rewrite(t.Info, scope)
}

// resolveRef resolves a single type reference, in priority order: a live
// generic use, a program-table hit, a builtin, or an unresolved fallback.
func (r *resolver) resolveRef(ref *ir.Ref, scope set.Set[string]) (ir.TypeInfo, error) {
	if r.cfg.TraceUnresolved {
		r.logger.Debug("chasing reference", "file", string(r.file), "name", ref.Referent.Ident.String())
	}
	if n, ok := ref.Referent.Ident.(ir.Name); ok {
		if scope.Contains(string(n)) {
			// 1a: a generic use, leave the Ref exactly as-is.
			return ref, nil
		}
	}

	if _, ok := r.pt.Lookup(ref.Referent); ok {
		// 1b: resolves within the program table; keep the Ref, resolve its
		// actual type-parameter arguments.
		args, err := r.rewriteList(ref.TypeArgs, scope)
		if err != nil {
			return nil, err
		}
		return &ir.Ref{Referent: ref.Referent, TypeArgs: args}, nil
	}

	if n, ok := ref.Referent.Ident.(ir.Name); ok {
		if info, matched, err := r.resolveBuiltin(string(n), ref.TypeArgs, scope); matched {
			return info, err
		}
	}

	if !r.cfg.StrictMissing {
		r.logger.Warn("unresolved reference, substituting any",
			"file", string(r.file), "name", ref.Referent.Ident.String())
		return &ir.Primitive{Kind: ir.PrimAny}, nil
	}
	return nil, &ingesterr.UnresolvedReference{File: string(r.file), Name: ref.Referent.Ident.String()}
}

// resolveBuiltin looks name up in the fixed builtin table. Array takes
// exactly one argument, Record exactly two, Promise zero or one; Date,
// Function and Object match whatever arguments they carry. matched is
// false when name isn't a builtin at all, or Array, Record or Promise was
// used with another arity (in which case the caller falls through to
// UnresolvedReference).
func (r *resolver) resolveBuiltin(name string, args []ir.TypeInfo, scope set.Set[string]) (ir.TypeInfo, bool, error) {
	switch name {
	case "Array":
		if len(args) != 1 {
			return nil, false, nil
		}
		item, err := r.rewrite(args[0], scope)
		return &ir.Array{Item: item}, true, err
	case "Record":
		if len(args) != 2 {
			return nil, false, nil
		}
		val, err := r.rewrite(args[1], scope)
		return &ir.Mapped{Value: val}, true, err
	case "Date":
		// Matched unconditionally, regardless of stray type arguments
		// (Date<X> is degenerate input but still resolves to the builtin).
		return &ir.BuiltinDate{}, true, nil
	case "Function":
		any := &ir.Primitive{Kind: ir.PrimAny}
		return &ir.Func{
			Params: []ir.Param{{Name: "args", Type: any, IsVariadic: true}},
			Return: any,
		}, true, nil
	case "Object":
		return &ir.Mapped{Value: &ir.Primitive{Kind: ir.PrimAny}}, true, nil
	case "Promise":
		if len(args) > 1 {
			return nil, false, nil
		}
		val := ir.TypeInfo(&ir.Primitive{Kind: ir.PrimAny})
		if len(args) == 1 {
			v, err := r.rewrite(args[0], scope)
			if err != nil {
				return nil, true, err
			}
			val = v
		}
		return &ir.BuiltinPromise{Value: val}, true, nil
	default:
		return nil, false, nil
	}
}

// childScope extends outer with the names declared by tps; outer itself
// is never mutated, so sibling branches of the recursion never see each
// other's type parameters.
func childScope(outer set.Set[string], tps []ir.TypeParamConfig) set.Set[string] {
	scope := set.New[string]()
	for k := range outer {
		scope.Add(k)
	}
	for _, tp := range tps {
		scope.Add(tp.Name)
	}
	return scope
}
