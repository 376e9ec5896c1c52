package blob

import (
	"context"
	"testing"
)

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Setenv("REFCORE_BLOB_DRIVER", "memory")
	store, err := Open(ctx)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("unexpected driver %s", store.Driver())
	}

	t.Setenv("REFCORE_BLOB_DRIVER", "")
	t.Setenv("REFCORE_BLOB_FS_ROOT", t.TempDir())
	store, err = Open(ctx)
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("default driver should be fs, got %s", store.Driver())
	}

	t.Setenv("REFCORE_BLOB_DRIVER", "tape")
	if _, err := Open(ctx); err == nil {
		t.Fatal("unknown driver must be rejected")
	}
}
