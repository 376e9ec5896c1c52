package main

import (
	"os"
	"path/filepath"
	"testing"
)

func useMemoryBackends(t *testing.T) {
	t.Helper()
	t.Setenv("REFCORE_STORAGE_DRIVER", "memory")
	t.Setenv("REFCORE_BLOB_DRIVER", "memory")
}

func TestRunUsage(t *testing.T) {
	useMemoryBackends(t)
	if code := run(nil); code != 2 {
		t.Fatalf("missing subcommand should exit 2, got %d", code)
	}
	if code := run([]string{"bogus"}); code != 2 {
		t.Fatalf("unknown subcommand should exit 2, got %d", code)
	}
}

func TestRunSeedAndQuota(t *testing.T) {
	useMemoryBackends(t)
	if code := run([]string{"seed"}); code != 0 {
		t.Fatalf("seed exited %d", code)
	}
	if code := run([]string{"quota"}); code != 0 {
		t.Fatalf("quota exited %d", code)
	}
	if code := run([]string{"quota", "-clear-all"}); code != 0 {
		t.Fatalf("quota -clear-all exited %d", code)
	}
	if code := run([]string{"quota", "-clear", "bogus"}); code != 1 {
		t.Fatalf("clearing an unknown bucket should exit 1, got %d", code)
	}
}

func TestRunExportWithoutCategories(t *testing.T) {
	useMemoryBackends(t)
	if code := run([]string{"export"}); code != 2 {
		t.Fatalf("missing -categories should exit 2, got %d", code)
	}
}

func TestRunExportEmptyStoreFails(t *testing.T) {
	useMemoryBackends(t)
	// The memory store starts empty, so a single-category export has no rows.
	if code := run([]string{"export", "-categories", "languages", "-out", t.TempDir()}); code != 1 {
		t.Fatalf("empty export should exit 1, got %d", code)
	}
}

func TestRunExportSqliteBacked(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REFCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("REFCORE_SQLITE_PATH", filepath.Join(dir, "refcore.db"))
	t.Setenv("REFCORE_BLOB_DRIVER", "fs")
	t.Setenv("REFCORE_BLOB_FS_ROOT", filepath.Join(dir, "blobs"))

	if code := run([]string{"seed"}); code != 0 {
		t.Fatalf("seed exited %d", code)
	}
	// Demo accounts live in the users bucket, so a quota scan sees them too.
	if code := run([]string{"quota"}); code != 0 {
		t.Fatalf("quota exited %d", code)
	}
	if code := run([]string{"quota", "-clear", "users"}); code != 0 {
		t.Fatalf("quota -clear users exited %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "refcore.db")); err != nil {
		t.Fatalf("sqlite file missing: %v", err)
	}
}
