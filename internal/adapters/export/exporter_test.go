package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"refcore/internal/infra/persistence/memory"
	"refcore/pkg/domain"
)

func fixtureStore() *memory.Store {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	countryID := "c1"
	store := memory.NewStore(nil)
	store.ImportState(memory.Snapshot{
		Languages: []domain.Language{
			{ID: "l1", Name: "Hindi", CreatedAt: created},
			{ID: "l2", Name: `Quo"te`, CreatedAt: created},
		},
		Countries: []domain.Country{
			{ID: "c1", Name: "India", CreatedAt: created},
		},
		States: []domain.State{
			{ID: "s1", Name: "Kerala", CountryID: &countryID, CreatedAt: created},
			{ID: "s2", Name: "Orphan", CreatedAt: created},
		},
	})
	return store
}

func renderWithView(t *testing.T, store *memory.Store, fn func(domain.TransactionView) (string, error)) string {
	t.Helper()
	var out string
	if err := store.View(context.Background(), func(view domain.TransactionView) error {
		var err error
		out, err = fn(view)
		return err
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return out
}

func TestRenderCategoryExactBytes(t *testing.T) {
	store := fixtureStore()
	got := renderWithView(t, store, func(view domain.TransactionView) (string, error) {
		return renderCategory(CategoryLanguages, view)
	})
	want := `"id","name","createdAt"` + "\n" +
		`"l1","Hindi","2024-03-01T12:00:00.000Z"` + "\n" +
		`"l2","Quo""te","2024-03-01T12:00:00.000Z"`
	if got != want {
		t.Fatalf("languages CSV mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderStatesIncludesSoftReference(t *testing.T) {
	store := fixtureStore()
	got := renderWithView(t, store, func(view domain.TransactionView) (string, error) {
		return renderCategory(CategoryStates, view)
	})
	want := `"id","name","countryId","createdAt"` + "\n" +
		`"s1","Kerala","c1","2024-03-01T12:00:00.000Z"` + "\n" +
		`"s2","Orphan","","2024-03-01T12:00:00.000Z"`
	if got != want {
		t.Fatalf("states CSV mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderEmptyCategory(t *testing.T) {
	store := fixtureStore()
	got := renderWithView(t, store, func(view domain.TransactionView) (string, error) {
		return renderCategory(CategoryDistricts, view)
	})
	if got != "" {
		t.Fatalf("empty category should render to empty string, got %q", got)
	}
}

func TestRenderCombinedSkipsEmptyBlocks(t *testing.T) {
	store := fixtureStore()
	got := renderWithView(t, store, func(view domain.TransactionView) (string, error) {
		return renderCombined([]Category{CategoryCountries, CategoryDistricts}, view)
	})
	want := "\nCOUNTRIES\n" +
		`"id","name","createdAt"` + "\n" +
		`"c1","India","2024-03-01T12:00:00.000Z"` + "\n"
	if got != want {
		t.Fatalf("combined mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func waitForTerminal(t *testing.T, w *Worker, id string) Record {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, ok := w.GetExport(id)
		if !ok {
			t.Fatalf("record %s vanished", id)
		}
		if record.Status == StatusSucceeded || record.Status == StatusFailed {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("export did not finish in time")
	return Record{}
}

func TestWorkerSingleCategoryExport(t *testing.T) {
	store := fixtureStore()
	objects := NewMemoryObjectStore()
	audit := NewJSONAuditLogger(nil)
	worker := NewWorker(store, objects, audit)
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	queued, err := worker.EnqueueExport(context.Background(), Input{
		Categories:  []Category{CategoryLanguages, CategoryLanguages},
		RequestedBy: "tester",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if queued.Status != StatusQueued || len(queued.Categories) != 1 {
		t.Fatalf("duplicates should collapse at enqueue: %+v", queued)
	}

	record := waitForTerminal(t, worker, queued.ID)
	if record.Status != StatusSucceeded {
		t.Fatalf("export failed: %+v", record)
	}
	if record.Artifact == nil || record.Artifact.Filename != "languages.csv" {
		t.Fatalf("unexpected artifact: %+v", record.Artifact)
	}

	_, payload, err := objects.Get(context.Background(), queued.ID+"/languages.csv")
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	if !strings.HasPrefix(string(payload), `"id","name","createdAt"`) {
		t.Fatalf("unexpected payload: %q", payload)
	}
	if strings.HasSuffix(string(payload), "\n") {
		t.Fatal("single-category export must not end with a newline")
	}

	var sawQueued, sawSucceeded bool
	for _, entry := range audit.Entries() {
		if entry.Action != "bucket_export" || entry.Actor != "tester" {
			continue
		}
		switch entry.Status {
		case StatusQueued:
			sawQueued = true
		case StatusSucceeded:
			sawSucceeded = true
		}
	}
	if !sawQueued || !sawSucceeded {
		t.Fatalf("audit trail incomplete: %+v", audit.Entries())
	}
}

func TestWorkerCombinedExport(t *testing.T) {
	store := fixtureStore()
	objects := NewMemoryObjectStore()
	worker := NewWorker(store, objects, nil)
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	queued, err := worker.EnqueueExport(context.Background(), Input{
		Categories:  []Category{CategoryLanguages, CategoryCountries, CategoryDistricts},
		RequestedBy: "tester",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record := waitForTerminal(t, worker, queued.ID)
	if record.Status != StatusSucceeded {
		t.Fatalf("export failed: %+v", record)
	}
	if record.Artifact.Filename != "combined_export.csv" {
		t.Fatalf("unexpected filename: %s", record.Artifact.Filename)
	}

	_, payload, err := objects.Get(context.Background(), queued.ID+"/combined_export.csv")
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	content := string(payload)
	if !strings.Contains(content, "\nLANGUAGES\n") || !strings.Contains(content, "\nCOUNTRIES\n") {
		t.Fatalf("missing category headers: %q", content)
	}
	if strings.Contains(content, "DISTRICTS") {
		t.Fatal("empty categories must be skipped in combined output")
	}
}

func TestWorkerEmptySingleCategoryFails(t *testing.T) {
	worker := NewWorker(memory.NewStore(nil), NewMemoryObjectStore(), nil)
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	queued, err := worker.EnqueueExport(context.Background(), Input{
		Categories:  []Category{CategoryLanguages},
		RequestedBy: "tester",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	record := waitForTerminal(t, worker, queued.ID)
	if record.Status != StatusFailed {
		t.Fatalf("empty single-category export should fail, got %+v", record)
	}
	if !strings.Contains(record.Error, "no data available for languages") {
		t.Fatalf("unexpected error: %q", record.Error)
	}
}

func TestEnqueueValidation(t *testing.T) {
	worker := NewWorker(memory.NewStore(nil), NewMemoryObjectStore(), nil)
	if _, err := worker.EnqueueExport(context.Background(), Input{}); err == nil {
		t.Fatal("empty category list must be rejected")
	}
	if _, err := worker.EnqueueExport(context.Background(), Input{
		Categories: []Category{"bogus"},
	}); err == nil {
		t.Fatal("unknown category must be rejected")
	}
	if _, ok := worker.GetExport("missing"); ok {
		t.Fatal("unknown export id should not resolve")
	}
}

func TestMemoryObjectStoreIsImmutable(t *testing.T) {
	objects := NewMemoryObjectStore()
	ctx := context.Background()
	if _, err := objects.Put(ctx, "k", []byte("v"), "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := objects.Put(ctx, "k", []byte("v2"), "text/csv"); err == nil {
		t.Fatal("overwrite must be rejected")
	}
	artifacts, err := objects.List(ctx, "")
	if err != nil || len(artifacts) != 1 {
		t.Fatalf("list: %v %+v", err, artifacts)
	}
	existed, err := objects.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	existed, err = objects.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("second delete should report absent: %v existed=%v", err, existed)
	}
}
