// Package collect drives internal/dtsparse over one file at a time and
// walks the resulting AST into ir.Type records, triggering the resolver
// recursively on every import/export-from it meets.
package collect

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tsbindgen/tsbindgen/internal/config"
	"github.com/tsbindgen/tsbindgen/internal/dtsparse"
	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
	"github.com/tsbindgen/tsbindgen/internal/resolve"
)

// Collector owns the shared program table that accumulates per-file IR
// across every ProcessModule call: one mutable program table for the
// duration of ingestion.
type Collector struct {
	FS       fsys.FS
	Resolver *resolve.Resolver
	Program  *ir.ProgramTable
	Config   config.Config
	Logger   *slog.Logger
}

func New(fs fsys.FS, resolver *resolve.Resolver, cfg config.Config, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{FS: fs, Resolver: resolver, Program: ir.NewProgramTable(), Config: cfg, Logger: logger}
}

// ProcessModule resolves specifier against base, then parses and walks it
// if it has not been visited yet. The cycle break is the program-table
// placeholder inserted before parsing begins: a re-entrant call for a
// file already present returns immediately.
func (c *Collector) ProcessModule(base, specifier string) (ir.FileID, error) {
	fileID, err := c.Resolver.Resolve(base, specifier)
	if err != nil {
		return "", err
	}
	if c.Program.Has(fileID) {
		return fileID, nil
	}
	table := c.Program.GetOrCreate(fileID)

	src, err := c.FS.Read(string(fileID))
	if err != nil {
		return "", &ingesterr.Io{Path: string(fileID), Err: err}
	}
	file := dtsparse.ParseFile(string(fileID), src)

	fw := &fileWalker{collector: c, file: fileID, table: table}
	if err := fw.walkStatements(file.Statements); err != nil {
		return "", err
	}
	return fileID, nil
}

// fileWalker holds the state scoped to one process_module invocation: the
// namespace stack and whether the walker is currently recording the
// identity of an `export default` declaration.
type fileWalker struct {
	collector       *Collector
	file            ir.FileID
	table           *ir.FileTable
	namespaceStack  []string
	defaultOverride bool
}

func (fw *fileWalker) dir() string { return filepath.Dir(string(fw.file)) }

func (fw *fileWalker) currentIdent(name string) ir.TypeIdent {
	if fw.defaultOverride {
		return ir.DefaultExport{}
	}
	if len(fw.namespaceStack) == 0 {
		return ir.Name(name)
	}
	parts := append(append([]string{}, fw.namespaceStack...), name)
	return ir.QualifiedName(parts)
}

func (fw *fileWalker) setType(ident ir.TypeIdent, exported bool, info ir.TypeInfo) {
	fw.table.Set(ident, ir.Type{Name: ir.TypeName{File: fw.file, Ident: ident}, IsExported: exported, Info: info})
}

func identFromQualIdent(q dtsparse.QualIdent) ir.TypeIdent {
	if len(q.Parts) <= 1 {
		name := ""
		if len(q.Parts) == 1 {
			name = q.Parts[0]
		}
		return ir.Name(name)
	}
	return ir.QualifiedName(append([]string{}, q.Parts...))
}

func wrapNamespaceImport(v ir.NamespaceImport) ir.TypeInfo { return &v }

func (fw *fileWalker) walkStatements(stmts []dtsparse.Statement) error {
	for _, s := range stmts {
		if err := fw.walkStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (fw *fileWalker) walkStatement(stmt dtsparse.Statement) error {
	switch s := stmt.(type) {
	case *dtsparse.ImportDecl:
		return fw.handleImport(s)
	case *dtsparse.ExportDecl:
		return fw.handleExport(s)
	case *dtsparse.ExportAssignmentStmt:
		return fw.handleExportAssignment(s)
	case *dtsparse.ExportAsNamespaceStmt:
		return fw.handleExportAsNamespace(s)
	case *dtsparse.AmbientDecl:
		return fw.walkStatement(s.Declaration)
	case *dtsparse.NamespaceDecl:
		return fw.handleNamespace(s)
	case *dtsparse.ModuleDecl:
		return fw.handleAmbientModule(s)
	case *dtsparse.VarDecl:
		return fw.handleVar(s)
	case *dtsparse.FuncDecl:
		return fw.handleFunc(s)
	case *dtsparse.TypeDecl:
		return fw.handleTypeAlias(s)
	case *dtsparse.EnumDecl:
		return fw.handleEnum(s)
	case *dtsparse.ClassDecl:
		return fw.handleClass(s)
	case *dtsparse.InterfaceDecl:
		return fw.handleInterface(s)
	default:
		return nil
	}
}

// handleNamespace pushes Name (split on '.' for the `namespace Foo.Bar`
// shorthand) onto the namespace stack, walks the body, and pops on every
// return path, including early returns from an error.
func (fw *fileWalker) handleNamespace(ns *dtsparse.NamespaceDecl) error {
	segments := strings.Split(ns.Name, ".")
	fw.namespaceStack = append(fw.namespaceStack, segments...)
	defer func() {
		fw.namespaceStack = fw.namespaceStack[:len(fw.namespaceStack)-len(segments)]
	}()
	return fw.walkStatements(ns.Statements)
}

// handleAmbientModule rejects `declare module "name" { ... }` with
// UnsupportedTypeNode when StrictMissing is set; otherwise it logs a
// warning and skips the declaration.
func (fw *fileWalker) handleAmbientModule(md *dtsparse.ModuleDecl) error {
	node := fmt.Sprintf("ambient external module declaration %q", md.Name)
	if !fw.collector.Config.StrictMissing {
		fw.collector.Logger.Warn("skipping ambient module declaration", "file", string(fw.file), "module", md.Name)
		return nil
	}
	return &ingesterr.UnsupportedTypeNode{File: string(fw.file), Node: node}
}

func (fw *fileWalker) handleExportAssignment(s *dtsparse.ExportAssignmentStmt) error {
	ident := ir.DefaultExport{}
	ref := &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: ir.Name(s.Name)}}
	fw.setType(ident, true, ref)
	return nil
}

// handleExportAsNamespace implements `export as namespace Foo`: it binds
// the file's own export set to Foo, the same way handleExportStar binds
// another file's exports to a namespace identifier via ir.ImportAll.
func (fw *fileWalker) handleExportAsNamespace(s *dtsparse.ExportAsNamespaceStmt) error {
	ident := fw.currentIdent(s.Name)
	fw.setType(ident, true, wrapNamespaceImport(&ir.ImportAll{Src: fw.file}))
	return nil
}

func (fw *fileWalker) walkDeclAsDefault(decl dtsparse.Statement) error {
	if decl == nil {
		return nil
	}
	if len(fw.namespaceStack) > 0 {
		return &ingesterr.InvalidNamespaceDefault{File: string(fw.file), Namespace: strings.Join(fw.namespaceStack, ".")}
	}
	fw.defaultOverride = true
	defer func() { fw.defaultOverride = false }()
	return fw.walkStatement(decl)
}

func (fw *fileWalker) handleExport(stmt *dtsparse.ExportDecl) error {
	if stmt.Declaration != nil {
		if stmt.ExportDefault {
			return fw.walkDeclAsDefault(stmt.Declaration)
		}
		return fw.walkStatement(stmt.Declaration)
	}
	if stmt.ExportAll {
		return fw.handleExportStar(stmt.From, stmt.ExportAllAs)
	}
	if stmt.NamedExports != nil {
		return fw.handleExportFrom(stmt.NamedExports, stmt.From)
	}
	return nil
}

// handleExportStar implements the `export * from "..."` and
// `export * as NS from "..."` forms.
func (fw *fileWalker) handleExportStar(from, asName string) error {
	srcFile, err := fw.collector.ProcessModule(fw.dir(), from)
	if err != nil {
		return err
	}
	if asName != "" {
		ident := fw.currentIdent(asName)
		fw.setType(ident, true, wrapNamespaceImport(&ir.ImportAll{Src: srcFile}))
		return nil
	}
	srcTable, ok := fw.collector.Program.Get(srcFile)
	if !ok {
		return nil
	}
	srcTable.Range(func(id ir.TypeIdent, t ir.Type) bool {
		if !t.IsExported {
			return true
		}
		if _, ok := id.(ir.Name); !ok {
			return true
		}
		fw.setType(id, true, t.Info)
		return true
	})
	return nil
}

// handleExportFrom implements `export { a, b as c } [from "..."]`.
func (fw *fileWalker) handleExportFrom(specs []dtsparse.ExportSpecifier, from string) error {
	if from == "" {
		for _, s := range specs {
			id := fw.currentIdent(s.Local)
			if t, ok := fw.table.Get(id); ok {
				t.IsExported = true
				fw.table.Set(id, t)
			}
		}
		return nil
	}
	srcFile, err := fw.collector.ProcessModule(fw.dir(), from)
	if err != nil {
		return err
	}
	for _, s := range specs {
		ident := fw.currentIdent(s.Exported)
		fw.setType(ident, true, wrapNamespaceImport(&ir.ImportNamed{Src: srcFile, Name: s.Local}))
	}
	return nil
}

func (fw *fileWalker) handleImport(stmt *dtsparse.ImportDecl) error {
	if stmt.SideEffect {
		_, err := fw.collector.ProcessModule(fw.dir(), stmt.From)
		return err
	}
	srcFile, err := fw.collector.ProcessModule(fw.dir(), stmt.From)
	if err != nil {
		return err
	}
	if stmt.DefaultImport != "" {
		ident := fw.currentIdent(stmt.DefaultImport)
		fw.setType(ident, false, wrapNamespaceImport(&ir.ImportDefault{Src: srcFile}))
	}
	if stmt.NamespaceAs != "" {
		ident := fw.currentIdent(stmt.NamespaceAs)
		fw.setType(ident, false, wrapNamespaceImport(&ir.ImportAll{Src: srcFile}))
	}
	for _, spec := range stmt.NamedImports {
		ident := fw.currentIdent(spec.Local)
		fw.setType(ident, false, wrapNamespaceImport(&ir.ImportNamed{Src: srcFile, Name: spec.Imported}))
	}
	return nil
}

func (fw *fileWalker) handleVar(v *dtsparse.VarDecl) error {
	t, err := fw.convertTypeAnnOrAny(v.TypeAnn)
	if err != nil {
		return err
	}
	fw.setType(fw.currentIdent(v.Name), v.Export, &ir.Var{Type: t})
	return nil
}

func (fw *fileWalker) handleFunc(f *dtsparse.FuncDecl) error {
	params, err := fw.convertParams(f.Params)
	if err != nil {
		return err
	}
	ret, err := fw.convertTypeAnnOrAny(f.ReturnType)
	if err != nil {
		return err
	}
	tps, err := fw.convertTypeParams(f.TypeParams)
	if err != nil {
		return err
	}
	fw.setType(fw.currentIdent(f.Name), f.Export, &ir.Func{TypeParams: tps, Params: params, Return: ret})
	return nil
}

func (fw *fileWalker) handleTypeAlias(d *dtsparse.TypeDecl) error {
	target, err := fw.convertTypeAnn(d.TypeAnn)
	if err != nil {
		return err
	}
	tps, err := fw.convertTypeParams(d.TypeParams)
	if err != nil {
		return err
	}
	fw.setType(fw.currentIdent(d.Name), d.Export, &ir.Alias{Target: target, TypeParams: tps})
	return nil
}

func (fw *fileWalker) handleEnum(d *dtsparse.EnumDecl) error {
	members := make([]ir.EnumMember, len(d.Members))
	for i, m := range d.Members {
		em := ir.EnumMember{ID: m.Name}
		switch v := m.Value.(type) {
		case string:
			em.Value = ir.EnumValueString(v)
		case float64:
			em.Value = ir.EnumValueNumber(v)
		}
		members[i] = em
	}
	fw.setType(fw.currentIdent(d.Name), d.Export, &ir.Enum{Members: members})
	return nil
}

func (fw *fileWalker) handleInterface(d *dtsparse.InterfaceDecl) error {
	var indexer *ir.Indexer
	fields := map[string]ir.TypeInfo{}
	var ctor *ir.Constructor

	for _, m := range d.Members {
		switch mv := m.(type) {
		case *dtsparse.IndexSig:
			if indexer == nil {
				val, err := fw.convertTypeAnnOrAny(mv.ValueType)
				if err != nil {
					return err
				}
				indexer = &ir.Indexer{Readonly: mv.Readonly, Value: val}
			}
		case *dtsparse.PropertySig:
			t, err := fw.convertTypeAnnOrAny(mv.TypeAnn)
			if err != nil {
				return err
			}
			if mv.Optional {
				t = &ir.Optional{Item: t}
			}
			fields[mv.Name] = t
		case *dtsparse.MethodSig:
			params, err := fw.convertParams(mv.Params)
			if err != nil {
				return err
			}
			ret, err := fw.convertTypeAnnOrAny(mv.ReturnType)
			if err != nil {
				return err
			}
			tps, err := fw.convertTypeParams(mv.TypeParams)
			if err != nil {
				return err
			}
			var fieldType ir.TypeInfo = &ir.Func{TypeParams: tps, Params: params, Return: ret}
			if mv.Optional {
				fieldType = &ir.Optional{Item: fieldType}
			}
			fields[mv.Name] = fieldType
		case *dtsparse.ConstructSig:
			params, err := fw.convertParams(mv.Params)
			if err != nil {
				return err
			}
			ctor = &ir.Constructor{Params: params}
		case *dtsparse.CallSig:
			// Interfaces don't carry a named field for a bare call
			// signature; there is no IR slot for it.
		}
	}

	bases := make([]*ir.Ref, 0, len(d.Extends))
	for _, e := range d.Extends {
		args, err := fw.convertList(e.TypeArgs)
		if err != nil {
			return err
		}
		bases = append(bases, &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: identFromQualIdent(e.Name)}, TypeArgs: args})
	}

	tps, err := fw.convertTypeParams(d.TypeParams)
	if err != nil {
		return err
	}

	fw.setType(fw.currentIdent(d.Name), d.Export, &ir.Interface{Indexer: indexer, Bases: bases, Fields: fields, TypeParams: tps, Ctor: ctor})
	return nil
}

func (fw *fileWalker) handleClass(d *dtsparse.ClassDecl) error {
	members := map[string]ir.Member{}
	for _, m := range d.Members {
		switch mv := m.(type) {
		case *dtsparse.CtorMember:
			params, err := fw.convertParams(mv.Params)
			if err != nil {
				return err
			}
			members["constructor"] = &ir.CtorMember{Ctor: &ir.Constructor{Params: params}}
		case *dtsparse.MethodMember:
			if mv.Private {
				continue
			}
			params, err := fw.convertParams(mv.Params)
			if err != nil {
				return err
			}
			ret, err := fw.convertTypeAnnOrAny(mv.ReturnType)
			if err != nil {
				return err
			}
			tps, err := fw.convertTypeParams(mv.TypeParams)
			if err != nil {
				return err
			}
			members[mv.Name] = &ir.MethodMember{Func: &ir.Func{TypeParams: tps, Params: params, Return: ret, ClassName: d.Name}}
		case *dtsparse.PropertyMember:
			if mv.Private {
				continue
			}
			t, err := fw.convertTypeAnnOrAny(mv.TypeAnn)
			if err != nil {
				return err
			}
			if mv.Optional {
				t = &ir.Optional{Item: t}
			}
			members[mv.Name] = &ir.PropertyMember{Type: t}
		case *dtsparse.IndexMember:
			// Index signatures in classes are dropped.
		}
	}

	var super *ir.Ref
	if d.Extends != nil {
		args, err := fw.convertList(d.Extends.TypeArgs)
		if err != nil {
			return err
		}
		super = &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: identFromQualIdent(d.Extends.Name)}, TypeArgs: args}
	}

	implements := make([]*ir.Ref, 0, len(d.Implements))
	for _, im := range d.Implements {
		args, err := fw.convertList(im.TypeArgs)
		if err != nil {
			return err
		}
		implements = append(implements, &ir.Ref{Referent: ir.TypeName{File: fw.file, Ident: identFromQualIdent(im.Name)}, TypeArgs: args})
	}

	tps, err := fw.convertTypeParams(d.TypeParams)
	if err != nil {
		return err
	}

	fw.setType(fw.currentIdent(d.Name), d.Export, &ir.Class{Super: super, Members: members, TypeParams: tps, Implements: implements})
	return nil
}
