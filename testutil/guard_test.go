package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	src := `package probe

import (
	"fmt"
	"refcore/internal/core"
)

var _ = fmt.Sprintf
var _ = core.NewDefaultRulesEngine
`
	if err := os.WriteFile(filepath.Join(dir, "probe.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 {
		t.Fatalf("expected one violation, got %v", viols)
	}
}

func TestPredicates(t *testing.T) {
	if !DomainImportForbidden("refcore/pkg/domain") {
		t.Fatal("domain path should match")
	}
	if DomainImportForbidden("refcore/internal/core") {
		t.Fatal("core path should not match domain predicate")
	}
	if !InternalImportForbidden("refcore/internal/blob") {
		t.Fatal("internal path should match")
	}
	if InternalImportForbidden("refcore/pkg/domain") {
		t.Fatal("pkg path should not match internal predicate")
	}
}

func TestAssertNoTransitiveDependencyUsesStub(t *testing.T) {
	orig := listDeps
	defer func() { listDeps = orig }()
	listDeps = func(string) ([]byte, error) {
		return []byte("refcore/pkg/domain\nfmt\n"), nil
	}
	AssertNoTransitiveDependency(t, "./...", func(path string) bool { return path == "database/sql" }, "no sql here")
}
