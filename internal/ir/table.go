package ir

import "github.com/tidwall/btree"

// FileTable is the per-file map TypeIdent -> Type. Keys are compared by
// their String() form, so a Name whose text equals another ident's String()
// (Name("A.B") and QualifiedName{"A", "B"}, or Name("default") and
// DefaultExport) shares that ident's entry; insertion order is irrelevant,
// so a btree.Map gives
// deterministic iteration for free, which module-tree building and tests
// both rely on.
type FileTable struct {
	entries btree.Map[string, Type]
	order   map[string]TypeIdent
}

func NewFileTable() *FileTable {
	return &FileTable{order: make(map[string]TypeIdent)}
}

// Set records t, overwriting any existing entry for the same TypeIdent:
// a re-import of the same name overwrites, by source order.
func (ft *FileTable) Set(id TypeIdent, t Type) {
	key := id.String()
	ft.entries.Set(key, t)
	ft.order[key] = id
}

func (ft *FileTable) Get(id TypeIdent) (Type, bool) {
	return ft.entries.Get(id.String())
}

func (ft *FileTable) Delete(id TypeIdent) {
	key := id.String()
	ft.entries.Delete(key)
	delete(ft.order, key)
}

// Len reports how many declarations the file contributed.
func (ft *FileTable) Len() int { return ft.entries.Len() }

// Range iterates in key order, which is stable and independent of
// insertion order (the per-file table makes no ordering guarantee beyond
// determinism for downstream snapshotting).
func (ft *FileTable) Range(fn func(id TypeIdent, t Type) bool) {
	ft.entries.Scan(func(key string, t Type) bool {
		return fn(ft.order[key], t)
	})
}

// Clone returns a shallow, independent copy: entries are copied by value,
// but TypeInfo trees inside them are shared until the resolution pass
// mutates them, producing fresh records rather than aliasing.
func (ft *FileTable) Clone() *FileTable {
	out := NewFileTable()
	ft.Range(func(id TypeIdent, t Type) bool {
		out.Set(id, t)
		return true
	})
	return out
}

// ProgramTable is the whole-program map FileID -> FileTable.
type ProgramTable struct {
	files btree.Map[FileID, *FileTable]
}

func NewProgramTable() *ProgramTable {
	return &ProgramTable{}
}

func (pt *ProgramTable) Has(f FileID) bool {
	_, ok := pt.files.Get(f)
	return ok
}

func (pt *ProgramTable) Get(f FileID) (*FileTable, bool) {
	return pt.files.Get(f)
}

// GetOrCreate returns the file's table, creating an empty one if absent.
// This is the placeholder-insertion step the cycle-break rule depends on:
// the caller inserts the placeholder *before* parsing, so a re-entrant
// process_module sees a (possibly still empty) entry and returns
// immediately instead of recursing forever.
func (pt *ProgramTable) GetOrCreate(f FileID) *FileTable {
	if ft, ok := pt.files.Get(f); ok {
		return ft
	}
	ft := NewFileTable()
	pt.files.Set(f, ft)
	return ft
}

// Lookup resolves a TypeName against the table using an effective-key
// fallback: try the TypeIdent verbatim, and if that misses and it is a
// QualifiedName, retry with just its first segment (the binding a bare
// reference inside the enclosing namespace would use).
func (pt *ProgramTable) Lookup(name TypeName) (Type, bool) {
	ft, ok := pt.files.Get(name.File)
	if !ok {
		return Type{}, false
	}
	if t, ok := ft.Get(name.Ident); ok {
		return t, true
	}
	if qn, ok := name.Ident.(QualifiedName); ok {
		if t, ok := ft.Get(EffectiveKey(qn)); ok {
			return t, true
		}
	}
	return Type{}, false
}

// Files returns every FileID present in the table, in canonical-path
// order.
func (pt *ProgramTable) Files() []FileID {
	var out []FileID
	pt.files.Scan(func(f FileID, _ *FileTable) bool {
		out = append(out, f)
		return true
	})
	return out
}

// Range iterates FileID -> FileTable pairs in key order.
func (pt *ProgramTable) Range(fn func(f FileID, ft *FileTable) bool) {
	pt.files.Scan(fn)
}
