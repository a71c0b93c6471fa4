// Package resolve implements the module resolver and the whole-program
// name-resolution pass that runs once every file has been collected.
package resolve

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
	"github.com/tsbindgen/tsbindgen/internal/ir"
)

// extensions is the fixed extension-search order for a bare path.
var extensions = []string{".d.ts", ".ts", ".tsx", ".js", ".jsx", ".json"}

// Resolver resolves import specifiers to canonical FileIDs. It never
// recurses into module processing; it only returns a path.
type Resolver struct {
	FS                 fsys.FS
	FollowPackageTypes bool
}

func New(fs fsys.FS, followPackageTypes bool) *Resolver {
	return &Resolver{FS: fs, FollowPackageTypes: followPackageTypes}
}

// Resolve resolves specifier s against base directory base (cwd if empty)
// and returns a canonical FileID.
func (r *Resolver) Resolve(base, s string) (ir.FileID, error) {
	if base == "" {
		cwd, err := r.FS.Cwd()
		if err != nil {
			return "", &ingesterr.Io{Path: ".", Err: err}
		}
		base = cwd
	}

	switch {
	case filepath.IsAbs(s):
		return r.resolvePathOrIndex(s)
	case strings.HasPrefix(s, "."):
		return r.resolvePathOrIndex(filepath.Join(base, s))
	default:
		return r.resolveBare(base, s)
	}
}

// resolvePathOrIndex extension-searches p directly, or p/index if p names
// a directory.
func (r *Resolver) resolvePathOrIndex(p string) (ir.FileID, error) {
	if r.FS.IsDir(p) {
		if f, ok := r.searchExtensions(filepath.Join(p, "index")); ok {
			return r.canon(f)
		}
		return "", &ingesterr.NotFound{BaseDir: p, Specifier: "index"}
	}
	if f, ok := r.searchExtensions(p); ok {
		return r.canon(f)
	}
	return "", &ingesterr.NotFound{BaseDir: filepath.Dir(p), Specifier: filepath.Base(p)}
}

// resolveBare walks upward from base looking for a node_modules sibling
// that contains s. When s itself carries no node_modules entry, also try
// the DefinitelyTyped convention node_modules/@types/s before giving up
// on that ancestor.
func (r *Resolver) resolveBare(base, s string) (ir.FileID, error) {
	dir := base
	for {
		candidate := filepath.Join(dir, "node_modules", s)
		if r.FS.IsDir(candidate) {
			if f, ok := r.resolvePackageDir(candidate); ok {
				return r.canon(f)
			}
			return "", &ingesterr.NotFound{BaseDir: candidate, Specifier: s}
		}
		if r.FS.IsFile(candidate) {
			return r.canon(candidate)
		}
		if f, ok := r.searchExtensions(candidate); ok {
			return r.canon(f)
		}

		typesCandidate := filepath.Join(dir, "node_modules", "@types", s)
		if r.FS.IsDir(typesCandidate) {
			if f, ok := r.resolvePackageDir(typesCandidate); ok {
				return r.canon(f)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &ingesterr.NotFound{BaseDir: base, Specifier: s}
		}
		dir = parent
	}
}

// packageManifest is the subset of package.json fields the resolver reads.
// Other fields are ignored.
type packageManifest struct {
	Types   string          `json:"types"`
	Typings string          `json:"typings"`
	Main    string          `json:"main"`
	Exports json.RawMessage `json:"exports"`
}

// resolvePackageDir reads packageDir/package.json and follows the typings
// resolution order documented in SPEC_FULL §4.2: exports["types"] /
// exports["."]["types"] -> types -> typings -> main (.d.ts swapped in) ->
// index.d.ts fallback.
func (r *Resolver) resolvePackageDir(packageDir string) (string, bool) {
	if !r.FollowPackageTypes {
		if f, ok := r.searchExtensions(filepath.Join(packageDir, "index")); ok {
			return f, true
		}
		return "", false
	}

	manifestPath := filepath.Join(packageDir, "package.json")
	raw, err := r.FS.Read(manifestPath)
	if err != nil {
		if f, ok := r.searchExtensions(filepath.Join(packageDir, "index")); ok {
			return f, true
		}
		return "", false
	}
	var manifest packageManifest
	if err := json.Unmarshal([]byte(raw), &manifest); err != nil {
		return "", false
	}

	if entry := extractExportsTypes(manifest.Exports); entry != "" {
		if p := filepath.Join(packageDir, entry); r.FS.IsFile(p) {
			return p, true
		}
	}
	if manifest.Types != "" {
		if p := filepath.Join(packageDir, manifest.Types); r.FS.IsFile(p) {
			return p, true
		}
	}
	if manifest.Typings != "" {
		if p := filepath.Join(packageDir, manifest.Typings); r.FS.IsFile(p) {
			return p, true
		}
	}
	if manifest.Main != "" {
		dts := swapToDts(manifest.Main)
		if p := filepath.Join(packageDir, dts); r.FS.IsFile(p) {
			return p, true
		}
	}
	if f, ok := r.searchExtensions(filepath.Join(packageDir, "index")); ok {
		return f, true
	}
	return "", false
}

// extractExportsTypes reads exports["types"] or exports["."]["types"] from
// a raw package.json "exports" field, whose shape varies (string, or a
// nested conditions map) across the ecosystem.
func extractExportsTypes(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return ""
	}
	if t, ok := asMap["types"]; ok {
		var s string
		if json.Unmarshal(t, &s) == nil {
			return s
		}
	}
	if dot, ok := asMap["."]; ok {
		var dotMap map[string]string
		if json.Unmarshal(dot, &dotMap) == nil {
			return dotMap["types"]
		}
	}
	return ""
}

func swapToDts(mainPath string) string {
	ext := filepath.Ext(mainPath)
	if ext == "" {
		return mainPath + ".d.ts"
	}
	return strings.TrimSuffix(mainPath, ext) + ".d.ts"
}

func (r *Resolver) searchExtensions(stem string) (string, bool) {
	for _, ext := range extensions {
		candidate := stem + ext
		if r.FS.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Resolver) canon(p string) (ir.FileID, error) {
	abs, err := r.FS.Canonicalize(p)
	if err != nil {
		return "", fmt.Errorf("canonicalizing %s: %w", p, err)
	}
	return ir.FileID(abs), nil
}
