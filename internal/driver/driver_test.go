package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zyl/internal/opt"
	"zyl/internal/source"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config must fall back to defaults: %v", err)
	}
	if cfg.Dialect != "v1" || cfg.StackLimit != opt.DefaultStackLimit || cfg.Passes != "uci" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zyl.toml")
	content := `
[optimizer]
dialect = "v2"
reserved = ["keep", "entry"]
stack_limit = 8
passes = "cui"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dialect != "v2" || cfg.StackLimit != 8 || cfg.Passes != "cui" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Reserved) != 2 || cfg.Reserved[0] != "keep" {
		t.Fatalf("unexpected reserved list: %v", cfg.Reserved)
	}
}

func TestNewSessionRejectsUnknownDialect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dialect = "v9"
	if _, err := NewSession(cfg); err == nil {
		t.Fatalf("unknown dialect must be rejected")
	}
}

func TestOptimizeSourceAppliesPasses(t *testing.T) {
	s := newSession(t)
	out, _, err := s.OptimizeSource("test.zyl", `{
		let a := 1
		let b := 2
		let x := add(a, b)
		let y := add(a, b)
		mstore(0, add(x, y))
	}`, "cu")
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if !strings.Contains(out, "let y := x") {
		t.Fatalf("cse should have shared the computation:\n%s", out)
	}
}

func TestOptimizeSourceDefaultPasses(t *testing.T) {
	s := newSession(t)
	out, _, err := s.OptimizeSource("test.zyl", `{
		let t := 5
		mstore(0, 1)
	}`, "")
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if strings.Contains(out, "let t") {
		t.Fatalf("the configured default sequence should prune dead code:\n%s", out)
	}
}

func TestPrepareRejectsInvalidInput(t *testing.T) {
	s := newSession(t)
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.zyl", []byte(`{ mstore(0, nothere) }`))
	_, bag, err := s.Prepare(fs, id)
	if err == nil {
		t.Fatalf("analysis failure must surface as an error")
	}
	if bag == nil || !bag.HasErrors() {
		t.Fatalf("diagnostics should explain the failure")
	}
}

func TestPrepareDisambiguatesOnce(t *testing.T) {
	s := newSession(t)
	fs := source.NewFileSet()
	id := fs.AddVirtual("shadow.zyl", []byte(`{
		let x := 1
		{
			let x := 2
			mstore(0, x)
		}
		mstore(32, x)
	}`))
	prog, _, err := s.Prepare(fs, id)
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	// A disambiguated tree passes every pass precondition.
	if _, err := s.Optimize(prog, "cuaVm"); err != nil {
		t.Fatalf("pass sequence failed on prepared tree: %v", err)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenCache("zyl-test")
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(t)
	key := s.Key([32]byte{1, 2, 3}, "uci")

	var miss CachePayload
	if hit, err := cache.Get(key, &miss); err != nil || hit {
		t.Fatalf("expected a miss, got hit=%v err=%v", hit, err)
	}

	put := CachePayload{Schema: cacheSchemaVersion, Path: "a.zyl", Passes: "uci", Dialect: "core/v1", Output: "{ }\n"}
	if err := cache.Put(key, &put); err != nil {
		t.Fatal(err)
	}
	var got CachePayload
	if hit, err := cache.Get(key, &got); err != nil || !hit {
		t.Fatalf("expected a hit, got hit=%v err=%v", hit, err)
	}
	if got.Output != put.Output || got.Passes != put.Passes {
		t.Fatalf("payload mismatch: %+v", got)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, _ := cache.Get(key, &got); hit {
		t.Fatalf("expected a miss after DropAll")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var cache *Cache
	s := newSession(t)
	key := s.Key([32]byte{}, "u")
	if err := cache.Put(key, &CachePayload{}); err != nil {
		t.Fatalf("nil cache put should be a no-op: %v", err)
	}
	if hit, err := cache.Get(key, &CachePayload{}); err != nil || hit {
		t.Fatalf("nil cache get should miss: hit=%v err=%v", hit, err)
	}
}

func TestKeyDependsOnConfiguration(t *testing.T) {
	s := newSession(t)
	hash := [32]byte{7}
	if s.Key(hash, "u") == s.Key(hash, "c") {
		t.Fatalf("different pass sequences must key differently")
	}
	other := newSession(t)
	other.Config.StackLimit = 4
	if s.Key(hash, "u") == other.Key(hash, "u") {
		t.Fatalf("different stack limits must key differently")
	}
}

func TestOptimizeDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.zyl": "{\n let t := 5\n mstore(0, 1)\n}",
		"b.zyl": "{\n mstore(0, 2)\n}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s := newSession(t)
	results, err := s.OptimizeDir(context.Background(), dir, "u", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s failed: %v", res.Path, res.Err)
		}
		if res.Cached {
			t.Fatalf("%s should not be cached on a cold run", res.Path)
		}
		if res.Output == "" {
			t.Fatalf("%s produced no output", res.Path)
		}
	}
	if strings.Contains(results[0].Output, "let t") {
		t.Fatalf("prune should apply in directory mode:\n%s", results[0].Output)
	}
}

func TestOptimizeDirUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenCache("zyl-test")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.zyl"), []byte("{ mstore(0, 1) }"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newSession(t)

	cold, err := s.OptimizeDir(context.Background(), dir, "u", 1, cache)
	if err != nil {
		t.Fatal(err)
	}
	if cold[0].Cached {
		t.Fatalf("first run must compute")
	}
	warm, err := s.OptimizeDir(context.Background(), dir, "u", 1, cache)
	if err != nil {
		t.Fatal(err)
	}
	if !warm[0].Cached {
		t.Fatalf("second run should hit the cache")
	}
	if warm[0].Output != cold[0].Output {
		t.Fatalf("cached output must match the computed one")
	}
}

func TestOptimizeDirEmpty(t *testing.T) {
	s := newSession(t)
	results, err := s.OptimizeDir(context.Background(), t.TempDir(), "u", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Fatalf("expected no results for an empty directory")
	}
}
