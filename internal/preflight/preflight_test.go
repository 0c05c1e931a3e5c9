package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hubportal/internal/preflight"
	"hubportal/internal/testsupport"
)

func TestCheckDirectoryAccessCreatesMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "work")
	result := preflight.CheckDirectoryAccess("Workspace", path)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("Workspace", path)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if result := preflight.CheckDiskSpace("Disk", dir, 1); !result.Passed {
		t.Fatalf("expected pass for tiny requirement, got %+v", result)
	}
	if result := preflight.CheckDiskSpace("Disk", dir, 1<<60); result.Passed {
		t.Fatalf("expected failure for absurd requirement, got %+v", result)
	}
}

func TestRunAllReportsToolchain(t *testing.T) {
	t.Parallel()

	cfg := testsupport.NewConfig(t)
	cfg.Tools.Pybricksdev = "definitely-not-a-real-flasher"
	results := preflight.RunAll(context.Background(), cfg)

	byName := map[string]preflight.Result{}
	for _, result := range results {
		byName[result.Name] = result
	}
	if result, ok := byName["Workspace directory"]; !ok || !result.Passed {
		t.Fatalf("workspace check missing or failed: %+v", result)
	}
	if result, ok := byName["pybricksdev"]; !ok || result.Passed {
		t.Fatalf("expected pybricksdev failure, got %+v", result)
	}
	// mpy-cross is optional and must not count as a hard failure.
	if result, ok := byName["mpy-cross"]; ok && !result.Passed {
		t.Fatalf("optional tool reported as hard failure: %+v", result)
	}

	failed := preflight.Failed(results)
	for _, result := range failed {
		if result.Name == "mpy-cross" {
			t.Fatal("optional tool in failed set")
		}
	}
}
