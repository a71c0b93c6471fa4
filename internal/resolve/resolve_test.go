package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbindgen/tsbindgen/internal/fsys"
	"github.com/tsbindgen/tsbindgen/internal/ingesterr"
)

func must(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err, "fixture setup")
}

func TestResolveRelativeExtensionSearchOrder(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.WriteFile("/work/mod.ts", "export {}"))
	must(t, fs.WriteFile("/work/mod.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "./mod")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/mod.d.ts", got, ".d.ts should win over .ts")
}

func TestResolveRelativeDirFallsBackToIndex(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/sub"))
	must(t, fs.WriteFile("/work/sub/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "./sub")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/sub/index.d.ts", got)
}

func TestResolveBareWalksUpToNodeModules(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work/src/nested", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/index.d.ts", got)
}

func TestResolveBareFallsBackToDefinitelyTyped(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/@types/widget"))
	must(t, fs.WriteFile("/work/node_modules/@types/widget/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/@types/widget/index.d.ts", got)
}

func TestResolveBareNotFound(t *testing.T) {
	fs := fsys.NewMem("/work")
	r := New(fs, true)
	_, err := r.Resolve("/work", "missing")
	require.Error(t, err)
	assert.IsType(t, &ingesterr.NotFound{}, err)
}

func TestResolvePackageDirExportsTypesTakesPriority(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/package.json", `{
		"main": "lib/index.js",
		"types": "lib/ignored.d.ts",
		"exports": {".": {"types": "lib/exported.d.ts"}}
	}`))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/exported.d.ts", "export {}"))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/ignored.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/lib/exported.d.ts", got, `exports["."].types should win`)
}

func TestResolvePackageDirTypesBeforeTypingsBeforeMain(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/package.json", `{
		"main": "lib/index.js",
		"typings": "lib/typings.d.ts",
		"types": "lib/types.d.ts"
	}`))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/types.d.ts", "export {}"))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/typings.d.ts", "export {}"))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/lib/types.d.ts", got)
}

func TestResolvePackageDirMainSwapsToDts(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/package.json", `{"main": "lib/index.js"}`))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/lib/index.d.ts", got, "main should be swapped to .d.ts")
}

func TestResolvePackageDirIndexFallback(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/index.d.ts", "export {}"))

	r := New(fs, true)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/index.d.ts", got)
}

func TestResolvePackageDirIgnoredWhenFollowPackageTypesDisabled(t *testing.T) {
	fs := fsys.NewMem("/work")
	must(t, fs.Mkdir("/work/node_modules/widget"))
	must(t, fs.WriteFile("/work/node_modules/widget/package.json", `{"types": "lib/types.d.ts"}`))
	must(t, fs.WriteFile("/work/node_modules/widget/lib/types.d.ts", "export {}"))
	must(t, fs.WriteFile("/work/node_modules/widget/index.d.ts", "export {}"))

	r := New(fs, false)
	got, err := r.Resolve("/work", "widget")
	require.NoError(t, err)
	assert.EqualValues(t, "/work/node_modules/widget/index.d.ts", got, "package.json should be ignored")
}
