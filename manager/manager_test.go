package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/injector"
	"github.com/greasekit/greasekit/internal/storage"
	"github.com/greasekit/greasekit/manifest"
)

// fakeFetcher serves canned bodies and counts fetches per URL.
type fakeFetcher struct {
	bodies map[string][]byte
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string][]byte{}, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls[url]++
	body, ok := f.bodies[url]
	if !ok {
		return nil, errs.Newf(errs.KindNetwork, "fetch.Fetch", "no body for %s", url)
	}
	return body, nil
}

type env struct {
	storage *storage.DirStorage
	store   *manifest.Store
	fetch   *fakeFetcher
	mgr     *Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st, err := storage.NewDirStorage(t.TempDir())
	require.NoError(t, err)
	store := manifest.NewStore(st, "manifest.json")
	f := newFakeFetcher()
	return &env{storage: st, store: store, fetch: f, mgr: New(st, store, f, nil)}
}

const fooContent = `// ==UserScript==
// @name Foo
// @match https://example.com/*
// ==/UserScript==
console.log("foo");
`

func TestSaveResolveToggleDeleteLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.mgr.Save(ctx, fooContent, "", false)
	require.NoError(t, err)
	assert.Equal(t, "Foo.js", res.File.Filename)
	assert.False(t, res.Renamed)

	resolver := injector.NewResolver(e.store, e.storage, nil)
	files, err := resolver.Resolve("https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.js"}, files, "saved file must resolve on its match pattern")

	require.NoError(t, e.mgr.Toggle("Foo.js", "disable"))
	files, err = resolver.Resolve("https://example.com/page")
	require.NoError(t, err)
	assert.Empty(t, files, "disabled file must not resolve")

	require.NoError(t, e.mgr.Trash("Foo.js"))
	m, err := e.store.Load()
	require.NoError(t, err)
	assert.NotContains(t, m.Match, "https://example.com/*",
		"pattern key must vanish when its only declarer is deleted")
	assert.Empty(t, m.Disabled)
	assert.False(t, e.storage.Exists("Foo.js"))
}

func TestSaveRejectsParseFailure(t *testing.T) {
	e := newEnv(t)
	_, err := e.mgr.Save(context.Background(), "no metablock", "", false)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindParse))
}

func TestSaveCollision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.mgr.Save(ctx, fooContent, "", false)
	require.NoError(t, err)

	_, err = e.mgr.Save(ctx, fooContent, "", false)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = e.mgr.Save(ctx, fooContent, "", true)
	assert.NoError(t, err, "overwrite permits replacing")

	_, err = e.mgr.Save(ctx, fooContent, "Foo.js", false)
	assert.NoError(t, err, "re-saving the same file is not a collision")
}

func TestSaveRename(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.mgr.Save(ctx, fooContent, "", false)
	require.NoError(t, err)

	renamed := `// ==UserScript==
// @name Bar
// @match https://example.org/*
// ==/UserScript==
console.log("bar");
`
	res, err := e.mgr.Save(ctx, renamed, "Foo.js", false)
	require.NoError(t, err)
	assert.True(t, res.Renamed)
	assert.Equal(t, "Bar.js", res.File.Filename)
	assert.Equal(t, "Foo.js", res.OldName)

	assert.False(t, e.storage.Exists("Foo.js"))
	assert.True(t, e.storage.Exists("Bar.js"))

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.NotContains(t, m.Match, "https://example.com/*", "old file's pattern swept by purge")
	assert.Equal(t, []string{"Bar.js"}, m.Match["https://example.org/*"])
}

func TestRequireFetchedOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const dep = "https://cdn.example.com/lib.js"
	e.fetch.bodies[dep] = []byte("function lib() {}")

	content := `// ==UserScript==
// @name Dep User
// @match https://example.com/*
// @require https://cdn.example.com/lib.js
// ==/UserScript==
lib();
`
	_, err := e.mgr.Save(ctx, content, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, e.fetch.calls[dep])

	// unchanged declaration: repeated saves and syncs never re-fetch
	_, err = e.mgr.Save(ctx, content, "Dep User.js", false)
	require.NoError(t, err)
	_, err = e.mgr.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.fetch.calls[dep], "cached dependency must be fetched exactly once")

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{manifest.Sanitize(dep)}, m.Require["Dep User.js"])
	assert.True(t, e.storage.Exists(manifest.RequirePath("Dep User.js", manifest.Sanitize(dep))))
}

func TestRequireWrongExtensionIgnored(t *testing.T) {
	e := newEnv(t)
	content := `// ==UserScript==
// @name Mixed Deps
// @require https://cdn.example.com/style.css
// ==/UserScript==
main();
`
	_, err := e.mgr.Save(context.Background(), content, "", false)
	require.NoError(t, err)
	assert.Empty(t, e.fetch.calls, "a css dependency of a js file is never fetched")

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.NotContains(t, m.Require, "Mixed Deps.js")
}

func TestRequireDroppedWhenUndeclared(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const dep = "https://cdn.example.com/lib.js"
	e.fetch.bodies[dep] = []byte("lib")

	withDep := `// ==UserScript==
// @name Shrinking
// @require https://cdn.example.com/lib.js
// ==/UserScript==
x();
`
	_, err := e.mgr.Save(ctx, withDep, "", false)
	require.NoError(t, err)
	require.True(t, e.storage.Exists(manifest.RequireDir("Shrinking.js")))

	withoutDep := `// ==UserScript==
// @name Shrinking
// ==/UserScript==
x();
`
	_, err = e.mgr.Save(ctx, withoutDep, "Shrinking.js", false)
	require.NoError(t, err)
	assert.False(t, e.storage.Exists(manifest.RequireDir("Shrinking.js")), "cache dir discarded with zero declarations")

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.NotContains(t, m.Require, "Shrinking.js")
}

func TestSyncConvergesStrayManifest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.mgr.Save(ctx, fooContent, "", false)
	require.NoError(t, err)

	// simulate an out-of-band deletion plus a stale manifest entry
	require.NoError(t, e.storage.Remove("Foo.js"))
	require.NoError(t, e.store.Update(func(m *manifest.Manifest) error {
		m.Match = manifest.Reconcile(m.Match, "ghost.js", []string{"https://ghost.example/*"})
		m.Settings["stray"] = "x"
		return nil
	}))

	ok, err := e.mgr.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.Empty(t, m.Match)
	assert.NotContains(t, m.Settings, "stray")
}

func TestSyncSkipsBrokenFiles(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.storage.Write("broken.js", []byte("not a script")))
	require.NoError(t, e.storage.Write("good.js", []byte(fooContent)))

	ok, err := e.mgr.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "skipped file must clear the ok flag")

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"good.js"}, m.Match["https://example.com/*"])
}

func TestToggleValidation(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.storage.Write("a.js", []byte(fooContent)))

	assert.Error(t, e.mgr.Toggle("a.js", "bogus"))
	assert.Error(t, e.mgr.Toggle("missing.js", "disable"))
	assert.NoError(t, e.mgr.Toggle("a.js", "disable"))
	assert.NoError(t, e.mgr.Toggle("a.js", "enable"))
}

func TestInstallCheck(t *testing.T) {
	e := newEnv(t)
	view, err := e.mgr.InstallCheck(fooContent)
	require.NoError(t, err)
	assert.Equal(t, "Foo", view.Name)
	assert.Equal(t, "Foo.js", view.Filename)
	assert.False(t, view.Installed)
	assert.False(t, view.CanUpdate)
	assert.Equal(t, []string{"https://example.com/*"}, view.Matches)

	_, err = e.mgr.Save(context.Background(), fooContent, "", false)
	require.NoError(t, err)
	view, err = e.mgr.InstallCheck(fooContent)
	require.NoError(t, err)
	assert.True(t, view.Installed)
}

func TestFilesListing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.mgr.Save(ctx, fooContent, "", false)
	require.NoError(t, err)
	require.NoError(t, e.mgr.Toggle("Foo.js", "disable"))

	files, err := e.mgr.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Foo", files[0].Name())
	assert.True(t, files[0].Disabled)
	assert.False(t, files[0].CanUpdate)
}

func TestCheckUpdateAndApply(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const url = "https://host.example/up.js"

	local := `// ==UserScript==
// @name Up
// @version 1.0
// @updateURL https://host.example/up.js
// @match https://example.com/*
// ==/UserScript==
old();
`
	remote := `// ==UserScript==
// @name Up
// @version 1.1
// @updateURL https://host.example/up.js
// @match https://example.net/*
// ==/UserScript==
new_();
`
	e.fetch.bodies[url] = []byte(remote)
	_, err := e.mgr.Save(ctx, local, "", false)
	require.NoError(t, err)

	u, err := e.mgr.CheckUpdate(ctx, "Up.js")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1.1", u.RemoteVersion)

	require.NoError(t, e.mgr.ApplyUpdate(ctx, *u))
	raw, err := e.storage.Read("Up.js")
	require.NoError(t, err)
	assert.Equal(t, remote, string(raw))

	m, err := e.store.Load()
	require.NoError(t, err)
	assert.NotContains(t, m.Match, "https://example.com/*", "old pattern reconciled away")
	assert.Equal(t, []string{"Up.js"}, m.Match["https://example.net/*"])
}
