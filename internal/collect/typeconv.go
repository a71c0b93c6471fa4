package collect

import (
	"github.com/tsbindgen/tsbindgen/internal/dtsparse"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
)

var primitiveKinds = map[dtsparse.PrimitiveKeyword]ir.PrimitiveKind{
	dtsparse.PKAny:       ir.PrimAny,
	dtsparse.PKNumber:    ir.PrimNumber,
	dtsparse.PKObject:    ir.PrimObject,
	dtsparse.PKBoolean:   ir.PrimBoolean,
	dtsparse.PKBigint:    ir.PrimBigint,
	dtsparse.PKString:    ir.PrimString,
	dtsparse.PKSymbol:    ir.PrimSymbol,
	dtsparse.PKVoid:      ir.PrimVoid,
	dtsparse.PKUndefined: ir.PrimUndefined,
	dtsparse.PKNull:      ir.PrimNull,
}

// unsupported raises UnsupportedTypeNode: fatal under StrictMissing,
// otherwise a logged fallback to a Ref at DefaultExport.
func (fw *fileWalker) unsupported(node string) (ir.TypeInfo, error) {
	if fw.collector.Config.StrictMissing {
		return nil, &ingesterr.UnsupportedTypeNode{File: string(fw.file), Node: node}
	}
	fw.collector.Logger.Warn("unsupported type node, falling back to default-export reference", "file", string(fw.file), "node", node)
	return &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: ir.DefaultExport{}}}, nil
}

// unsupportedLiteral raises UnsupportedLiteral: always fatal, regardless
// of StrictMissing.
func (fw *fileWalker) unsupportedLiteral(lit string) (ir.TypeInfo, error) {
	return nil, &ingesterr.UnsupportedLiteral{File: string(fw.file), Literal: lit}
}

// convertTypeAnnOrAny converts ann, treating a nil annotation (an omitted
// type) as `any`.
func (fw *fileWalker) convertTypeAnnOrAny(ann dtsparse.TypeAnn) (ir.TypeInfo, error) {
	if ann == nil {
		return &ir.Primitive{Kind: ir.PrimAny}, nil
	}
	return fw.convertTypeAnn(ann)
}

func (fw *fileWalker) convertList(anns []dtsparse.TypeAnn) ([]ir.TypeInfo, error) {
	out := make([]ir.TypeInfo, len(anns))
	for i, a := range anns {
		t, err := fw.convertTypeAnn(a)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (fw *fileWalker) convertParams(params []dtsparse.Param) ([]ir.Param, error) {
	out := make([]ir.Param, len(params))
	for i, p := range params {
		t, err := fw.convertTypeAnnOrAny(p.TypeAnn)
		if err != nil {
			return nil, err
		}
		if p.Optional {
			t = &ir.Optional{Item: t}
		}
		out[i] = ir.Param{Name: p.Name, Type: t, IsVariadic: p.IsVariadic}
	}
	return out, nil
}

func (fw *fileWalker) convertTypeParams(tps []dtsparse.TypeParam) ([]ir.TypeParamConfig, error) {
	out := make([]ir.TypeParamConfig, len(tps))
	for i, tp := range tps {
		cfg := ir.TypeParamConfig{Name: tp.Name}
		if tp.Constraint != nil {
			c, err := fw.convertTypeAnn(tp.Constraint)
			if err != nil {
				return nil, err
			}
			cfg.Constraint = c
		}
		if tp.Default != nil {
			d, err := fw.convertTypeAnn(tp.Default)
			if err != nil {
				return nil, err
			}
			cfg.DefaultTypeArg = d
		}
		out[i] = cfg
	}
	return out, nil
}

// convertTypeAnn is the heart of the types-language dispatch table: every
// TsType shape the parser recognises maps to exactly one ir.TypeInfo
// constructor, with anything outside the table falling back to the
// logged DefaultExport reference.
func (fw *fileWalker) convertTypeAnn(ann dtsparse.TypeAnn) (ir.TypeInfo, error) {
	switch t := ann.(type) {
	case *dtsparse.PrimitiveTypeAnn:
		kind, ok := primitiveKinds[t.Keyword]
		if !ok {
			return fw.unsupported("keyword type unknown/never/intrinsic")
		}
		return &ir.Primitive{Kind: kind}, nil

	case *dtsparse.RefTypeAnn:
		args, err := fw.convertList(t.TypeArgs)
		if err != nil {
			return nil, err
		}
		return &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: identFromQualIdent(t.Name)}, TypeArgs: args}, nil

	case *dtsparse.ArrayTypeAnn:
		item, err := fw.convertTypeAnn(t.Elem)
		if err != nil {
			return nil, err
		}
		return &ir.Array{Item: item}, nil

	case *dtsparse.UnionTypeAnn:
		types, err := fw.convertList(t.Types)
		if err != nil {
			return nil, err
		}
		return &ir.Union{Types: types}, nil

	case *dtsparse.IntersectionTypeAnn:
		types, err := fw.convertList(t.Types)
		if err != nil {
			return nil, err
		}
		return &ir.Intersection{Types: types}, nil

	case *dtsparse.TupleTypeAnn:
		types, err := fw.convertList(t.Types)
		if err != nil {
			return nil, err
		}
		return &ir.Tuple{Types: types}, nil

	case *dtsparse.ObjectTypeAnn:
		return fw.convertObjectType(t)

	case *dtsparse.LitTypeAnn:
		switch t.Kind {
		case dtsparse.LitStringKind:
			return &ir.LitString{Value: t.Str}, nil
		case dtsparse.LitNumberKind:
			return &ir.LitNumber{Value: t.Num}, nil
		case dtsparse.LitBooleanKind:
			return &ir.LitBoolean{Value: t.Bool}, nil
		case dtsparse.LitBigintKind:
			return fw.unsupportedLiteral(t.Str + "n")
		case dtsparse.LitTemplateKind:
			return fw.unsupportedLiteral(t.Str)
		default:
			return fw.unsupportedLiteral(t.Str)
		}

	case *dtsparse.FuncTypeAnn:
		params, err := fw.convertParams(t.Params)
		if err != nil {
			return nil, err
		}
		ret, err := fw.convertTypeAnnOrAny(t.Return)
		if err != nil {
			return nil, err
		}
		tps, err := fw.convertTypeParams(t.TypeParams)
		if err != nil {
			return nil, err
		}
		return &ir.Func{TypeParams: tps, Params: params, Return: ret}, nil

	case *dtsparse.ConstructorTypeAnn:
		params, err := fw.convertParams(t.Params)
		if err != nil {
			return nil, err
		}
		return &ir.Constructor{Params: params}, nil

	case *dtsparse.TypeofTypeAnn:
		return &ir.TypeQuery{Ref: &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: identFromQualIdent(t.Name)}}}, nil

	case *dtsparse.PredicateTypeAnn:
		asserted, err := fw.convertTypeAnnOrAny(t.Asserts)
		if err != nil {
			return nil, err
		}
		return &ir.Func{
			Params: []ir.Param{{Name: t.Subject, Type: asserted}},
			Return: &ir.Primitive{Kind: ir.PrimBoolean},
		}, nil

	case *dtsparse.KeyofTypeAnn:
		// keyof has no slot in the dispatch table; it falls into the
		// "anything else" bucket.
		return fw.unsupported("keyof type operator")

	case *dtsparse.UnsupportedTypeAnn:
		return fw.unsupported("unsupported type: " + t.Raw)

	default:
		return fw.unsupported("unrecognised type annotation")
	}
}

// convertObjectType handles an object type literal: exactly one member,
// an index signature, becomes Mapped{value_type}; any other shape (zero
// members, multiple members, or a lone non-indexer member) is rejected
// as an input error.
func (fw *fileWalker) convertObjectType(obj *dtsparse.ObjectTypeAnn) (ir.TypeInfo, error) {
	if len(obj.Members) == 1 {
		if idx, ok := obj.Members[0].(*dtsparse.IndexSig); ok {
			val, err := fw.convertTypeAnnOrAny(idx.ValueType)
			if err != nil {
				return nil, err
			}
			return &ir.Mapped{Value: val}, nil
		}
	}
	return fw.unsupported("object type literal that is not a single index signature")
}
