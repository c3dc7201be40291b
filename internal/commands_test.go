package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/testutil"
)

func fileConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Storage.Watch = false
	return cfg
}

func quiet(cfg *Config, out io.Writer) []Option {
	return []Option{WithConfig(cfg), WithLogOutput(io.Discard), WithOutput(out)}
}

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "team.md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRequiresConfig(t *testing.T) {
	if err := RunStats(context.Background(), WithLogOutput(io.Discard)); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRunImportThenList(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()
	path := writeRoster(t, "---\ntitle: Team\npeople: [Ada]\n---\n- Bo\n- ada\n")

	var out bytes.Buffer
	if err := RunImport(ctx, path, quiet(cfg, &out)...); err != nil {
		t.Fatalf("RunImport: %v", err)
	}
	if !strings.Contains(out.String(), "imported 2, skipped 0") {
		t.Errorf("import output = %q", out.String())
	}

	// Second import finds everyone already present.
	out.Reset()
	if err := RunImport(ctx, path, quiet(cfg, &out)...); err != nil {
		t.Fatalf("RunImport again: %v", err)
	}
	if !strings.Contains(out.String(), "imported 0, skipped 2") {
		t.Errorf("reimport output = %q", out.String())
	}

	if _, err := os.Stat(filepath.Join(cfg.Storage.Path, "star-tracker-data.json")); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	out.Reset()
	if err := RunList(ctx, "name", "asc", quiet(cfg, &out)...); err != nil {
		t.Fatalf("RunList: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("list lines = %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.HasPrefix(lines[1], "Ada") || !strings.HasPrefix(lines[2], "Bo") {
		t.Errorf("unexpected list:\n%s", out.String())
	}
}

func TestRunListRejectsBadSort(t *testing.T) {
	cfg := fileConfig(t)
	if err := RunList(context.Background(), "height", "", quiet(cfg, io.Discard)...); err == nil {
		t.Error("expected invalid sort key error")
	}
	if err := RunList(context.Background(), "", "sideways", quiet(cfg, io.Discard)...); err == nil {
		t.Error("expected invalid sort order error")
	}
}

func TestRunStatsSQLite(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "stars.db")
	ctx := context.Background()

	path := writeRoster(t, "- Ada\n- Bo\n")
	if err := RunImport(ctx, path, quiet(cfg, io.Discard)...); err != nil {
		t.Fatalf("RunImport: %v", err)
	}

	var out bytes.Buffer
	if err := RunStats(ctx, quiet(cfg, &out)...); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	var sum ledger.Summary
	if err := json.Unmarshal(out.Bytes(), &sum); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, out.String())
	}
	if sum.TotalPeople != 2 || sum.TotalStars != 0 || sum.TopPerformer != nil {
		t.Errorf("summary = %+v", sum)
	}
}

func TestImportNamesSkipsKnown(t *testing.T) {
	store, _ := testutil.TestStore(t)
	if _, err := store.AddPerson("Ada"); err != nil {
		t.Fatal(err)
	}

	added, skipped, err := importNames(store, []string{"ADA", "Bo", " bo "})
	if err != nil {
		t.Fatalf("importNames: %v", err)
	}
	if added != 1 || skipped != 2 {
		t.Errorf("added=%d skipped=%d", added, skipped)
	}

	if _, _, err := importNames(store, []string{"   "}); err == nil {
		t.Error("blank name should fail")
	}
}

func TestBootstrapMemoryLive(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = BackendMemory
	app, err := newApplication(io.Discard, []Option{WithConfig(cfg)})
	if err != nil {
		t.Fatal(err)
	}
	rt, err := bootstrap(app, true)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer rt.close()

	if rt.fs != nil || rt.metrics == nil || rt.broker == nil {
		t.Fatalf("unexpected runtime: %+v", rt)
	}
	if _, err := rt.store.AddPerson("Ada"); err != nil {
		t.Fatal(err)
	}
	if got := rt.store.Stats().TotalPeople; got != 1 {
		t.Errorf("people = %d", got)
	}
}
