package dtsparse

// Parser is a small recursive-descent reader over the token stream, with
// peek/expect/consume helpers driving a hand-written descent.
type Parser struct {
	lex  *Lexer
	tok  Token
	path string
}

func NewParser(path, src string) *Parser {
	p := &Parser{lex: NewLexer(src), path: path}
	p.tok = p.lex.Next()
	return p
}

func (p *Parser) at(k TokenKind) bool { return p.tok.Kind == k }

func (p *Parser) next() Token {
	t := p.tok
	p.tok = p.lex.Next()
	return t
}

func (p *Parser) consumeIf(k TokenKind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of kind k, or leaves the stream untouched and
// reports failure. Callers generally keep going on failure: a best-effort
// parse is preferable to aborting the whole file over one malformed
// statement.
func (p *Parser) expect(k TokenKind) (Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return Token{}, false
}

// skipTo advances past tokens, tracking (){}[] nesting, until it reaches
// one of the stop kinds at depth 0 or EOF. Used for best-effort recovery
// and for swallowing Non-goal constructs (conditional types, mapped-type
// key remapping) the parser recognises but does not model.
func (p *Parser) skipTo(stop ...TokenKind) {
	depth := 0
	for {
		if p.at(EOF) {
			return
		}
		if depth == 0 {
			for _, s := range stop {
				if p.at(s) {
					return
				}
			}
		}
		switch p.tok.Kind {
		case OpenParen, OpenBrace, OpenBracket:
			depth++
		case CloseParen, CloseBrace, CloseBracket:
			if depth == 0 {
				return
			}
			depth--
		}
		p.next()
	}
}

// ParseFile parses an entire source file into a File.
func ParseFile(path, src string) *File {
	p := NewParser(path, src)
	var stmts []Statement
	for !p.at(EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		} else if !p.at(EOF) {
			// Could not make sense of the current token as the start of a
			// statement; skip it and keep going rather than abort.
			p.next()
		}
		p.consumeIf(Semicolon)
	}
	return &File{Path: path, Statements: stmts}
}

func (p *Parser) parseStatement() Statement {
	switch p.tok.Kind {
	case KwImport:
		return p.parseImport()
	case KwExport:
		return p.parseExport()
	case KwDeclare:
		p.next()
		inner := p.parseAmbientInner()
		if inner == nil {
			return nil
		}
		return &AmbientDecl{Declaration: inner}
	case KwNamespace, KwModule:
		return p.parseNamespaceOrModule(false)
	case KwInterface:
		return p.parseInterface(false)
	case KwClass, KwAbstract:
		return p.parseClass(false)
	case KwEnum:
		return p.parseEnum(false)
	case KwType:
		return p.parseTypeAlias(false)
	case KwVar, KwLet, KwConst:
		return p.parseVar(false)
	case KwFunction:
		return p.parseFunc(false)
	default:
		return nil
	}
}

// parseAmbientInner parses the statement that follows `declare`.
func (p *Parser) parseAmbientInner() Statement {
	switch p.tok.Kind {
	case KwNamespace, KwModule:
		return p.parseNamespaceOrModule(false)
	case KwInterface:
		return p.parseInterface(false)
	case KwClass, KwAbstract:
		return p.parseClass(false)
	case KwEnum:
		return p.parseEnum(false)
	case KwType:
		return p.parseTypeAlias(false)
	case KwVar, KwLet, KwConst:
		return p.parseVar(false)
	case KwFunction:
		return p.parseFunc(false)
	default:
		return nil
	}
}

func (p *Parser) parseImport() *ImportDecl {
	p.next() // import
	if p.at(StrLit) {
		t := p.next()
		return &ImportDecl{From: t.Value, SideEffect: true}
	}
	// `import type { ... }`: treat `type` as a no-op modifier.
	if p.at(KwType) {
		p.next()
	}

	decl := &ImportDecl{}
	if p.at(Asterisk) {
		p.next()
		p.expect(KwAs)
		if t, ok := p.expect(Ident); ok {
			decl.NamespaceAs = t.Value
		}
	} else if p.at(OpenBrace) {
		decl.NamedImports = p.parseNamedSpecifiers()
	} else if t, ok := p.expect(Ident); ok {
		decl.DefaultImport = t.Value
		if p.consumeIf(Comma) {
			if p.at(OpenBrace) {
				decl.NamedImports = p.parseNamedSpecifiers()
			} else if p.consumeIf(Asterisk) {
				p.expect(KwAs)
				if t, ok := p.expect(Ident); ok {
					decl.NamespaceAs = t.Value
				}
			}
		}
	}

	p.expect(KwFrom)
	if t, ok := p.expect(StrLit); ok {
		decl.From = t.Value
	}
	return decl
}

func (p *Parser) parseNamedSpecifiers() []ImportSpecifier {
	p.expect(OpenBrace)
	var out []ImportSpecifier
	for !p.at(CloseBrace) && !p.at(EOF) {
		name, ok := p.expect(Ident)
		if !ok {
			p.next()
			continue
		}
		spec := ImportSpecifier{Imported: name.Value, Local: name.Value}
		if p.consumeIf(KwAs) {
			if local, ok := p.expect(Ident); ok {
				spec.Local = local.Value
			}
		}
		out = append(out, spec)
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(CloseBrace)
	return out
}

func (p *Parser) parseExport() Statement {
	p.next() // export

	if p.at(KwType) {
		// `export type { ... }`: type-only export, same shape as a value
		// export for our purposes.
		save := p.lex.Save()
		savedTok := p.tok
		p.next()
		if !p.at(OpenBrace) {
			// `export type X = ...`: the `type` keyword opens the alias.
			p.lex.Restore(save)
			p.tok = savedTok
		}
	}

	if p.consumeIf(Equal) {
		name, _ := p.expect(Ident)
		return &ExportAssignmentStmt{Name: name.Value}
	}

	if p.at(KwAs) {
		save := p.lex.Save()
		savedTok := p.tok
		p.next()
		if p.at(KwNamespace) {
			p.next()
			name, _ := p.expect(Ident)
			return &ExportAsNamespaceStmt{Name: name.Value}
		}
		p.lex.Restore(save)
		p.tok = savedTok
	}

	if p.at(KwDefault) {
		p.next()
		var decl Decl
		switch {
		case p.at(KwDeclare):
			p.next()
			if d, ok := p.parseAmbientInner().(Decl); ok {
				decl = d
			}
		case p.at(KwClass), p.at(KwAbstract):
			decl = p.parseClass(false)
		default:
			if d, ok := p.parseStatement().(Decl); ok {
				decl = d
			}
		}
		return &ExportDecl{Declaration: decl, ExportDefault: true}
	}

	if p.consumeIf(Asterisk) {
		asName := ""
		if p.consumeIf(KwAs) {
			if t, ok := p.expect(Ident); ok {
				asName = t.Value
			}
		}
		p.expect(KwFrom)
		from := ""
		if t, ok := p.expect(StrLit); ok {
			from = t.Value
		}
		return &ExportDecl{ExportAll: true, ExportAllAs: asName, From: from}
	}

	if p.at(OpenBrace) {
		specs := p.parseNamedExportSpecifiers()
		from := ""
		if p.consumeIf(KwFrom) {
			if t, ok := p.expect(StrLit); ok {
				from = t.Value
			}
		}
		return &ExportDecl{NamedExports: specs, From: from}
	}

	// `export declare ...` / `export <decl>`
	if p.consumeIf(KwDeclare) {
		return exportStatement(p.parseAmbientInner())
	}
	if p.at(KwNamespace) || p.at(KwModule) {
		return exportStatement(p.parseNamespaceOrModule(false))
	}
	return exportStatement(p.parseStatement())
}

// exportStatement marks a freshly-parsed declaration as exported. Most
// declaration kinds carry their own Export field and get wrapped in an
// ExportDecl for the re-export bookkeeping it holds; NamespaceDecl sets
// its Export field directly and needs no wrapper, since a namespace is
// never re-exported under another name.
func exportStatement(s Statement) Statement {
	switch v := s.(type) {
	case *NamespaceDecl:
		v.Export = true
		return v
	case Decl:
		markExported(v)
		return &ExportDecl{Declaration: v}
	default:
		return nil
	}
}

func markExported(d Decl) {
	switch v := d.(type) {
	case *VarDecl:
		v.Export = true
	case *FuncDecl:
		v.Export = true
	case *TypeDecl:
		v.Export = true
	case *EnumDecl:
		v.Export = true
	case *ClassDecl:
		v.Export = true
	case *InterfaceDecl:
		v.Export = true
	}
}

func (p *Parser) parseNamedExportSpecifiers() []ExportSpecifier {
	p.expect(OpenBrace)
	var out []ExportSpecifier
	for !p.at(CloseBrace) && !p.at(EOF) {
		local, ok := p.expect(Ident)
		if !ok {
			p.next()
			continue
		}
		spec := ExportSpecifier{Local: local.Value, Exported: local.Value}
		if p.consumeIf(KwAs) {
			if ex, ok := p.expect(Ident); ok {
				spec.Exported = ex.Value
			}
		}
		out = append(out, spec)
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(CloseBrace)
	return out
}

func (p *Parser) parseNamespaceOrModule(export bool) Statement {
	isModule := p.tok.Kind == KwModule
	p.next()
	if isModule && p.at(StrLit) {
		name := p.next().Value
		body := p.parseBlockBody()
		return &ModuleDecl{Name: name, Statements: body}
	}
	name := p.parseDottedNamespaceName()
	body := p.parseBlockBody()
	return &NamespaceDecl{Name: name, Statements: body, Export: export}
}

// parseDottedNamespaceName accepts both `namespace Foo` and the shorthand
// `namespace Foo.Bar` (sugar for nested namespaces); the collector flattens
// the latter by re-entering the namespace stack for each segment.
func (p *Parser) parseDottedNamespaceName() string {
	name, _ := p.expect(Ident)
	out := name.Value
	for p.consumeIf(Dot) {
		seg, _ := p.expect(Ident)
		out += "." + seg.Value
	}
	return out
}

func (p *Parser) parseBlockBody() []Statement {
	p.expect(OpenBrace)
	var stmts []Statement
	for !p.at(CloseBrace) && !p.at(EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		} else if !p.at(CloseBrace) && !p.at(EOF) {
			p.next()
		}
		p.consumeIf(Semicolon)
	}
	p.expect(CloseBrace)
	return stmts
}

func (p *Parser) parseVar(export bool) *VarDecl {
	readonly := p.tok.Kind == KwConst
	p.next() // var/let/const
	name, _ := p.expect(Ident)
	decl := &VarDecl{Name: name.Value, Readonly: readonly, Export: export}
	if p.consumeIf(Colon) {
		decl.TypeAnn = p.parseTypeAnn()
	}
	// Declarations never carry an initialiser in .d.ts files, but skip one
	// defensively if present.
	if p.consumeIf(Equal) {
		p.skipTo(Semicolon)
	}
	return decl
}

func (p *Parser) parseTypeParams() []TypeParam {
	if !p.consumeIf(LessThan) {
		return nil
	}
	var out []TypeParam
	for !p.at(GreaterThan) && !p.at(EOF) {
		name, ok := p.expect(Ident)
		if !ok {
			p.next()
			continue
		}
		tp := TypeParam{Name: name.Value}
		if p.consumeIf(KwExtends) {
			tp.Constraint = p.parseTypeAnn()
		}
		if p.consumeIf(Equal) {
			tp.Default = p.parseTypeAnn()
		}
		out = append(out, tp)
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(GreaterThan)
	return out
}

func (p *Parser) parseTypeArgs() []TypeAnn {
	if !p.consumeIf(LessThan) {
		return nil
	}
	var out []TypeAnn
	for !p.at(GreaterThan) && !p.at(EOF) {
		out = append(out, p.parseTypeAnn())
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(GreaterThan)
	return out
}

func (p *Parser) parseParams() []Param {
	p.expect(OpenParen)
	var out []Param
	for !p.at(CloseParen) && !p.at(EOF) {
		param := Param{}
		if p.consumeIf(DotDotDot) {
			param.IsVariadic = true
		}
		if name, ok := p.expect(Ident); ok {
			param.Name = name.Value
		} else {
			// `this` parameter or a destructuring pattern: skip it.
			p.skipTo(Comma, CloseParen)
			if !p.consumeIf(Comma) {
				break
			}
			continue
		}
		param.Optional = p.consumeIf(Question)
		if p.consumeIf(Colon) {
			param.TypeAnn = p.parseTypeAnn()
		}
		out = append(out, param)
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(CloseParen)
	return out
}

// parseReturnTypeAnn parses a return-type annotation, recognising the
// `x is T` type-predicate form.
func (p *Parser) parseReturnTypeAnn() TypeAnn {
	if p.at(Ident) {
		save := p.lex.Save()
		savedTok := p.tok
		subject := p.next().Value
		if p.at(KwIs) {
			p.next()
			asserts := p.parseTypeAnn()
			return &PredicateTypeAnn{Subject: subject, Asserts: asserts}
		}
		p.lex.Restore(save)
		p.tok = savedTok
	}
	return p.parseTypeAnn()
}

func (p *Parser) parseFunc(export bool) *FuncDecl {
	p.next() // function
	name, _ := p.expect(Ident)
	decl := &FuncDecl{Name: name.Value, Export: export}
	decl.TypeParams = p.parseTypeParams()
	decl.Params = p.parseParams()
	if p.consumeIf(Colon) {
		decl.ReturnType = p.parseReturnTypeAnn()
	}
	return decl
}

func (p *Parser) parseTypeAlias(export bool) *TypeDecl {
	p.next() // type
	name, _ := p.expect(Ident)
	decl := &TypeDecl{Name: name.Value, Export: export}
	decl.TypeParams = p.parseTypeParams()
	p.expect(Equal)
	decl.TypeAnn = p.parseTypeAnn()
	return decl
}

func (p *Parser) parseEnum(export bool) *EnumDecl {
	p.consumeIf(KwConst) // `const enum`, treated the same as `enum`
	p.next()             // enum
	name, _ := p.expect(Ident)
	decl := &EnumDecl{Name: name.Value, Export: export}
	p.expect(OpenBrace)
	for !p.at(CloseBrace) && !p.at(EOF) {
		memberName, ok := p.expect(Ident)
		if !ok {
			if t, ok2 := p.expect(StrLit); ok2 {
				memberName = t
			} else {
				p.next()
				continue
			}
		}
		m := EnumMember{Name: memberName.Value}
		if p.consumeIf(Equal) {
			switch {
			case p.at(StrLit):
				m.Value = p.next().Value
			case p.at(NumLit):
				m.Value = parseFloatLenient(p.next().Value)
			default:
				p.skipTo(Comma, CloseBrace)
			}
		}
		decl.Members = append(decl.Members, m)
		if !p.consumeIf(Comma) {
			break
		}
	}
	p.expect(CloseBrace)
	return decl
}
