package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"refcore/pkg/domain"
)

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "refcore.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var created domain.Language
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		created, err = tx.CreateLanguage(domain.Language{Name: "Hindi"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reloaded.Close() }()
	got, ok := reloaded.GetLanguage(created.ID)
	if !ok || got.Name != "Hindi" {
		t.Fatalf("record did not survive reload: %+v ok=%v", got, ok)
	}
}

func TestSessionPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refcore.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		user, err := tx.CreateUser(domain.User{Name: "A", Email: "a@x.com", Password: "secret1", Role: domain.RoleAdmin})
		if err != nil {
			return err
		}
		return tx.SetCurrentUser(user)
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if current, ok := reloaded.CurrentUser(); !ok || current.Email != "a@x.com" {
		t.Fatalf("session not restored: %+v ok=%v", current, ok)
	}

	// Logout must delete the session row, not just overwrite it.
	if _, err := reloaded.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.ClearCurrentUser()
	}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := reloaded.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	again, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen after logout: %v", err)
	}
	defer func() { _ = again.Close() }()
	if _, ok := again.CurrentUser(); ok {
		t.Fatal("session survived logout")
	}
}

func TestDefaultPathAndAccessors(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Path() != "refcore.db" {
		t.Fatalf("unexpected default path %q", store.Path())
	}
	if store.DB() == nil {
		t.Fatal("DB accessor returned nil")
	}
}
