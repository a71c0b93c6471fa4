// Package modtree folds a resolved program table into a hierarchical
// module tree rooted at a synthetic "root". Building uses a transient,
// pointer-based mutable tree under a single-threaded cooperative model,
// frozen into the immutable public Tree at the end.
package modtree

import (
	"path/filepath"
	"strings"

	"github.com/tsbindgen/tsbindgen/internal/ident"
	"github.com/tsbindgen/tsbindgen/internal/ir"
)

// Tree is an immutable node of the module tree a downstream code generator
// consumes: a name, the types declared directly at this path, and any
// child modules.
type Tree struct {
	Name     string
	Types    []ir.Type
	Children []*Tree
}

// mutNode is the transient building block; children are kept in an
// insertion-ordered slice (rather than a plain map) so that repeated Build
// calls over the same program table produce the same tree shape.
type mutNode struct {
	name     string
	types    []ir.Type
	children []*mutNode
	index    map[string]int
}

func newMutNode(name string) *mutNode {
	return &mutNode{name: name, index: make(map[string]int)}
}

func (n *mutNode) childOrCreate(name string) *mutNode {
	if i, ok := n.index[name]; ok {
		return n.children[i]
	}
	c := newMutNode(name)
	n.index[name] = len(n.children)
	n.children = append(n.children, c)
	return c
}

// descend walks (creating as needed) the chain of children named by path.
func (n *mutNode) descend(path []string) *mutNode {
	cur := n
	for _, seg := range path {
		cur = cur.childOrCreate(seg)
	}
	return cur
}

func (n *mutNode) freeze() *Tree {
	children := make([]*Tree, len(n.children))
	for i, c := range n.children {
		children[i] = c.freeze()
	}
	return &Tree{Name: n.name, Types: n.types, Children: children}
}

// Build folds pt into a module tree: every file's module path is the
// sanitised directory chain from the nearest node_modules ancestor, and
// every file's resolved types sit at that path's leaf. A QualifiedName
// declaration additionally places its own
// Type a second time at the nested path formed by its namespace segments,
// beneath the file's leaf. The duplication is intentional; merging does
// not deduplicate.
func Build(pt *ir.ProgramTable) *Tree {
	root := newMutNode("root")
	for _, f := range pt.Files() {
		ft, ok := pt.Get(f)
		if !ok {
			continue
		}
		modPath := pathToModPath(f)
		leaf := root.descend(modPath)

		ft.Range(func(id ir.TypeIdent, t ir.Type) bool {
			leaf.types = append(leaf.types, t)
			return true
		})

		ft.Range(func(id ir.TypeIdent, t ir.Type) bool {
			qn, ok := id.(ir.QualifiedName)
			if !ok {
				return true
			}
			nsPath := append(append([]string{}, modPath...), namespacePrefix(qn)...)
			nsLeaf := root.descend(nsPath)
			nsLeaf.types = append(nsLeaf.types, t)
			return true
		})
	}
	return root.freeze()
}

// pathToModPath implements the path -> module-path rule: drop everything
// up to and including the nearest node_modules ancestor (walking from the
// tail), sanitise each remaining component (stemming .d.ts/.ts, lowercase,
// identifier-safe) and drop a trailing "index" segment.
func pathToModPath(f ir.FileID) []string {
	slashed := filepath.ToSlash(string(f))
	var comps []string
	for _, part := range strings.Split(slashed, "/") {
		if part == "" || part == "." {
			continue
		}
		comps = append(comps, part)
	}

	lastNodeModules := -1
	for i, c := range comps {
		if c == "node_modules" {
			lastNodeModules = i
		}
	}
	tail := comps
	if lastNodeModules >= 0 {
		tail = comps[lastNodeModules+1:]
	}

	out := make([]string, 0, len(tail))
	for _, c := range tail {
		out = append(out, ident.Namespace(c))
	}
	if len(out) > 0 && out[len(out)-1] == "index" {
		out = out[:len(out)-1]
	}
	return out
}

// namespacePrefix returns the snake-cased namespace segments of a
// QualifiedName, excluding its leaf declaration name.
func namespacePrefix(qn ir.QualifiedName) []string {
	if len(qn) <= 1 {
		return nil
	}
	segs := qn[:len(qn)-1]
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = ident.Snake(s)
	}
	return out
}
