package ir

import (
	"strconv"
	"strings"
)

// String renders a short, human-readable form of info for diagnostics and
// slog attributes; each TypeInfo variant stringifies its own shape.

func (p *Primitive) String() string { return p.Kind.String() }

func (*BuiltinDate) String() string { return "Date" }

func (p *BuiltinPromise) String() string { return "Promise<" + childString(p.Value) + ">" }

func (l *LitString) String() string { return `"` + l.Value + `"` }

func (l *LitNumber) String() string { return formatFloat(l.Value) }

func (l *LitBoolean) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

func (i *Interface) String() string {
	var b strings.Builder
	b.WriteString("interface")
	writeTypeParams(&b, i.TypeParams)
	return b.String()
}

func (c *Class) String() string {
	var b strings.Builder
	b.WriteString("class")
	writeTypeParams(&b, c.TypeParams)
	return b.String()
}

func (e *Enum) String() string {
	names := make([]string, len(e.Members))
	for i, m := range e.Members {
		names[i] = m.ID
	}
	return "enum {" + strings.Join(names, ", ") + "}"
}

func (a *Alias) String() string {
	var b strings.Builder
	b.WriteString("alias")
	writeTypeParams(&b, a.TypeParams)
	b.WriteString(" = ")
	b.WriteString(childString(a.Target))
	return b.String()
}

func (r *Ref) String() string {
	if len(r.TypeArgs) == 0 {
		return r.Referent.Ident.String()
	}
	args := make([]string, len(r.TypeArgs))
	for i, a := range r.TypeArgs {
		args[i] = childString(a)
	}
	return r.Referent.Ident.String() + "<" + strings.Join(args, ", ") + ">"
}

func (a *Array) String() string { return childString(a.Item) + "[]" }

func (o *Optional) String() string { return childString(o.Item) + "?" }

func (m *Mapped) String() string { return "{[key: string]: " + childString(m.Value) + "}" }

func (u *Union) String() string { return joinTypes(u.Types, " | ") }

func (i *Intersection) String() string { return joinTypes(i.Types, " & ") }

func (t *Tuple) String() string { return "[" + strings.Join(typeStrings(t.Types), ", ") + "]" }

func (f *Func) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + childString(p.Type)
	}
	var b strings.Builder
	writeTypeParams(&b, f.TypeParams)
	b.WriteString("(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") => ")
	b.WriteString(childString(f.Return))
	return b.String()
}

func (c *Constructor) String() string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = p.Name + ": " + childString(p.Type)
	}
	return "new (" + strings.Join(params, ", ") + ")"
}

func (v *Var) String() string { return childString(v.Type) }

func (n *NamespaceImport) String() string {
	switch v := (*n).(type) {
	case *ImportDefault:
		return "import default from " + string(v.Src)
	case *ImportAll:
		return "import * from " + string(v.Src)
	case *ImportNamed:
		return "import " + v.Name + " from " + string(v.Src)
	default:
		return "import"
	}
}

func (q *TypeQuery) String() string { return "typeof " + q.Ref.Referent.Ident.String() }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// String renders a Type record as "name: info", for slog attributes.
func (t Type) String() string { return t.Name.Ident.String() + ": " + childString(t.Info) }

func childString(info TypeInfo) string {
	if info == nil {
		return "any"
	}
	return info.String()
}

func typeStrings(types []TypeInfo) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = childString(t)
	}
	return out
}

func joinTypes(types []TypeInfo, sep string) string {
	return strings.Join(typeStrings(types), sep)
}

func writeTypeParams(b *strings.Builder, tps []TypeParamConfig) {
	if len(tps) == 0 {
		return
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name
	}
	b.WriteString("<")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(">")
}
