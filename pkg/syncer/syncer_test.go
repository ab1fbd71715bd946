package syncer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ravana-indus/deskgen/pkg/gen"
	"github.com/Ravana-indus/deskgen/pkg/syncer"
)

func fixture(path, configBody string) gen.Artifact {
	content := strings.Join([]string{
		gen.BeginMarker("config"),
		configBody,
		gen.EndMarker("config"),
		"",
		gen.BeginMarker("columns"),
		"export const columns = [];",
		gen.EndMarker("columns"),
		"",
	}, "\n")
	regions, err := gen.RegionNames(content)
	if err != nil {
		panic(err)
	}
	return gen.Artifact{RelativePath: path, Content: content, Regions: regions}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestSyncCreatesMissingFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	artifact := fixture("pages/task/List.js", "export const a = 1;")

	results, err := syncer.NewEngine().Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(results) != 1 || results[0].Status != syncer.StatusCreated {
		t.Fatalf("results = %+v, want single created", results)
	}
	if got := readFile(t, filepath.Join(root, "pages/task/List.js")); got != artifact.Content {
		t.Error("created file does not match artifact content")
	}
}

func TestSyncRoundTripPreservesManualContent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "List.js")
	artifact := fixture("List.js", "export const a = 1;")
	engine := syncer.NewEngine()

	if _, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}

	manualHeader := "// my custom import\n"
	manualFooter := "\nexport function mine() { return 42; }\n"
	if err := os.WriteFile(target, []byte(manualHeader+readFile(t, target)+manualFooter), 0o644); err != nil {
		t.Fatalf("add manual content: %v", err)
	}

	// Repeated syncs must converge: first pass re-splices, later passes are
	// byte-stable no-ops.
	for i := 0; i < 3; i++ {
		results, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual)
		if err != nil {
			t.Fatalf("Sync() #%d error = %v", i, err)
		}
		if results[0].Status != syncer.StatusUnchanged {
			t.Errorf("Sync() #%d status = %q, want unchanged", i, results[0].Status)
		}
		content := readFile(t, target)
		if !strings.HasPrefix(content, manualHeader) {
			t.Fatalf("Sync() #%d lost manual header", i)
		}
		if !strings.Contains(content, "function mine()") {
			t.Fatalf("Sync() #%d lost manual footer", i)
		}
	}
}

func TestSyncUpdatesOwnedRegion(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "List.js")
	engine := syncer.NewEngine()

	old := fixture("List.js", "export const a = 1;")
	if _, err := engine.Sync(context.Background(), []gen.Artifact{old}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}
	if err := os.WriteFile(target, []byte("// manual\n"+readFile(t, target)), 0o644); err != nil {
		t.Fatalf("add manual content: %v", err)
	}

	fresh := fixture("List.js", "export const a = 2;")
	results, err := engine.Sync(context.Background(), []gen.Artifact{fresh}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if results[0].Status != syncer.StatusUpdated {
		t.Errorf("status = %q, want updated", results[0].Status)
	}

	content := readFile(t, target)
	if !strings.Contains(content, "export const a = 2;") {
		t.Error("owned region not refreshed")
	}
	if strings.Contains(content, "export const a = 1;") {
		t.Error("stale owned content survived")
	}
	if !strings.HasPrefix(content, "// manual\n") {
		t.Error("manual content lost during update")
	}
}

func TestSyncConflictOnCorruptedMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "List.js")
	artifact := fixture("List.js", "export const a = 1;")
	engine := syncer.NewEngine()

	if _, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}

	corrupted := strings.Replace(readFile(t, target), gen.EndMarker("config"), "// gone", 1)
	if err := os.WriteFile(target, []byte(corrupted), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	results, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if results[0].Status != syncer.StatusConflict {
		t.Fatalf("status = %q, want conflict", results[0].Status)
	}
	if results[0].Region != "config" {
		t.Errorf("conflict region = %q, want config", results[0].Region)
	}
	if readFile(t, target) != corrupted {
		t.Error("conflicted file was modified")
	}
}

func TestSyncConflictNamesUnclosedRegion(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "List.js")
	artifact := fixture("List.js", "export const a = 1;")
	engine := syncer.NewEngine()

	if _, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}

	// Drop config's end marker so the next begin (columns) appears inside it.
	// The conflict must blame the unclosed region, not the one that follows.
	corrupted := strings.Replace(readFile(t, target), gen.EndMarker("config")+"\n", "", 1)
	if err := os.WriteFile(target, []byte(corrupted), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	results, err := engine.Sync(context.Background(), []gen.Artifact{artifact}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if results[0].Status != syncer.StatusConflict {
		t.Fatalf("status = %q, want conflict", results[0].Status)
	}
	if results[0].Region != "config" {
		t.Errorf("conflict region = %q, want config", results[0].Region)
	}
	if readFile(t, target) != corrupted {
		t.Error("conflicted file was modified")
	}
}

func TestSyncContinuesPastConflict(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	broken := fixture("broken.js", "export const a = 1;")
	clean := fixture("clean.js", "export const b = 2;")
	engine := syncer.NewEngine()

	if _, err := engine.Sync(context.Background(), []gen.Artifact{broken}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}
	corrupted := strings.Replace(readFile(t, filepath.Join(root, "broken.js")), gen.EndMarker("columns"), "", 1)
	if err := os.WriteFile(filepath.Join(root, "broken.js"), []byte(corrupted), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	results, err := engine.Sync(context.Background(), []gen.Artifact{broken, clean}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Status != syncer.StatusConflict {
		t.Errorf("broken.js status = %q, want conflict", results[0].Status)
	}
	if results[1].Status != syncer.StatusCreated {
		t.Errorf("clean.js status = %q, want created", results[1].Status)
	}
}

func TestSyncOrphanedRegions(t *testing.T) {
	t.Parallel()

	withExtra := fixture("List.js", "export const a = 1;")
	extraRegion := strings.Join([]string{
		gen.BeginMarker("legacy"),
		"export const legacy = true;",
		gen.EndMarker("legacy"),
		"",
	}, "\n")

	t.Run("respect-manual keeps orphan", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		engine := syncer.NewEngine()

		if _, err := engine.Sync(context.Background(), []gen.Artifact{withExtra}, root, syncer.StrategyRespectManual); err != nil {
			t.Fatalf("initial Sync() error = %v", err)
		}
		target := filepath.Join(root, "List.js")
		if err := os.WriteFile(target, []byte(readFile(t, target)+extraRegion), 0o644); err != nil {
			t.Fatalf("append orphan: %v", err)
		}

		results, err := engine.Sync(context.Background(), []gen.Artifact{withExtra}, root, syncer.StrategyRespectManual)
		if err != nil {
			t.Fatalf("Sync() error = %v", err)
		}
		if !strings.Contains(readFile(t, target), "legacy = true") {
			t.Error("respect-manual removed orphaned region")
		}
		if results[0].Reason == "" || !strings.Contains(results[0].Reason, "legacy") {
			t.Errorf("no orphan warning in result: %+v", results[0])
		}
	})

	t.Run("overwrite-auto removes orphan", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		engine := syncer.NewEngine()

		if _, err := engine.Sync(context.Background(), []gen.Artifact{withExtra}, root, syncer.StrategyOverwriteAuto); err != nil {
			t.Fatalf("initial Sync() error = %v", err)
		}
		target := filepath.Join(root, "List.js")
		if err := os.WriteFile(target, []byte(readFile(t, target)+extraRegion), 0o644); err != nil {
			t.Fatalf("append orphan: %v", err)
		}

		results, err := engine.Sync(context.Background(), []gen.Artifact{withExtra}, root, syncer.StrategyOverwriteAuto)
		if err != nil {
			t.Fatalf("Sync() error = %v", err)
		}
		if results[0].Status != syncer.StatusUpdated {
			t.Errorf("status = %q, want updated", results[0].Status)
		}
		if strings.Contains(readFile(t, target), "legacy = true") {
			t.Error("overwrite-auto kept orphaned region")
		}
	})
}

func TestSyncAppendsNewRegions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "List.js")
	engine := syncer.NewEngine()

	old := fixture("List.js", "export const a = 1;")
	if _, err := engine.Sync(context.Background(), []gen.Artifact{old}, root, syncer.StrategyRespectManual); err != nil {
		t.Fatalf("initial Sync() error = %v", err)
	}

	fresh := old
	fresh.Content += strings.Join([]string{
		gen.BeginMarker("actions"),
		"export const actions = [];",
		gen.EndMarker("actions"),
		"",
	}, "\n")

	results, err := engine.Sync(context.Background(), []gen.Artifact{fresh}, root, syncer.StrategyRespectManual)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if results[0].Status != syncer.StatusUpdated {
		t.Errorf("status = %q, want updated", results[0].Status)
	}
	if !strings.Contains(readFile(t, target), "export const actions = [];") {
		t.Error("new region not appended")
	}
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	if got, err := syncer.ParseStrategy(""); err != nil || got != syncer.StrategyRespectManual {
		t.Errorf("ParseStrategy(\"\") = %q, %v", got, err)
	}
	if got, err := syncer.ParseStrategy("OVERWRITE-AUTO"); err != nil || got != syncer.StrategyOverwriteAuto {
		t.Errorf("ParseStrategy(overwrite-auto) = %q, %v", got, err)
	}
	if _, err := syncer.ParseStrategy("yolo"); err == nil {
		t.Error("ParseStrategy(yolo) expected error")
	}
}
