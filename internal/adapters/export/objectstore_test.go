package export

import (
	"context"
	"testing"

	"refcore/internal/blob"
)

func TestBlobObjectStoreRoundTrip(t *testing.T) {
	objects := NewBlobObjectStore(blob.NewMemory())
	ctx := context.Background()

	artifact, err := objects.Put(ctx, "job/languages.csv", []byte("a,b"), "text/csv")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if artifact.ID != "job/languages.csv" || artifact.SizeBytes != 3 {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}

	got, payload, err := objects.Get(ctx, "job/languages.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(payload) != "a,b" || got.ContentType != "text/csv" {
		t.Fatalf("round trip mismatch: %q %+v", payload, got)
	}

	listed, err := objects.List(ctx, "job/")
	if err != nil || len(listed) != 1 {
		t.Fatalf("list: %v %+v", err, listed)
	}

	existed, err := objects.Delete(ctx, "job/languages.csv")
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	if _, _, err := objects.Get(ctx, "job/languages.csv"); err == nil {
		t.Fatal("get after delete must fail")
	}
}

func TestWorkerStoresThroughBlobBackend(t *testing.T) {
	store := fixtureStore()
	backend := blob.NewMemory()
	worker := NewWorker(store, NewBlobObjectStore(backend), nil)
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	queued, err := worker.EnqueueExport(context.Background(), Input{
		Categories:  []Category{CategoryCountries},
		RequestedBy: "tester",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record := waitForTerminal(t, worker, queued.ID)
	if record.Status != StatusSucceeded {
		t.Fatalf("export failed: %+v", record)
	}

	infos, err := backend.List(context.Background(), queued.ID+"/")
	if err != nil || len(infos) != 1 {
		t.Fatalf("artifact not in blob backend: %v %+v", err, infos)
	}
	if infos[0].Key != queued.ID+"/countries.csv" {
		t.Fatalf("unexpected key %s", infos[0].Key)
	}
}
