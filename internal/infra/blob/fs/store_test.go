package fs

import (
	"context"
	"io"
	"strings"
	"testing"

	"refcore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetHeadDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	info, err := store.Put(ctx, "images/logo.png", strings.NewReader("payload"), core.PutOptions{
		ContentType: "image/png",
		Metadata:    map[string]string{"name": "logo.png"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ETag == "" {
		t.Fatalf("unexpected info: %+v", info)
	}

	head, err := store.Head(ctx, "images/logo.png")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.ContentType != "image/png" || head.Metadata["name"] != "logo.png" {
		t.Fatalf("metadata lost: %+v", head)
	}

	got, rc, err := store.Get(ctx, "images/logo.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(payload) != "payload" || got.ETag != info.ETag {
		t.Fatalf("round trip mismatch: %q %+v", payload, got)
	}

	existed, err := store.Delete(ctx, "images/logo.png")
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	existed, err = store.Delete(ctx, "images/logo.png")
	if err != nil || existed {
		t.Fatalf("second delete should report absent: %v existed=%v", err, existed)
	}
}

func TestPutIsCreateOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", strings.NewReader("a"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("b"), core.PutOptions{}); err == nil {
		t.Fatal("overwrite must be rejected")
	}
}

func TestSanitizeKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "a/../../b", "/absolute"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Errorf("key %q should be rejected", key)
		}
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"a/1", "a/2", "b/1"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "a/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "a/1" || infos[1].Key != "a/2" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("empty prefix lists all: %v %+v", err, all)
	}
}

func TestPresignURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	url, err := store.PresignURL(ctx, "a/1", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "a/1") {
		t.Fatalf("url should reference the key: %s", url)
	}
	if _, err := store.PresignURL(ctx, "a/1", core.SignedURLOptions{Method: "PUT"}); err != core.ErrUnsupported {
		t.Fatalf("PUT presign should be unsupported, got %v", err)
	}
}
