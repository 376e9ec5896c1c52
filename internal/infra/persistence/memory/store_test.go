package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"refcore/pkg/domain"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestCreateUpdateDeleteRoundTrip(t *testing.T) {
	store := NewStore(nil)
	store.SetNowFunc(fixedClock())
	ctx := context.Background()

	var created domain.Language
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateLanguage(domain.Language{Name: "Hindi"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || len(created.ID) != 32 {
		t.Fatalf("expected generated hex id, got %q", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped")
	}

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateLanguage(created.ID, func(l *domain.Language) error {
			l.Name = "Tamil"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := store.GetLanguage(created.ID)
	if !ok || got.Name != "Tamil" {
		t.Fatalf("expected updated record, got %+v ok=%v", got, ok)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not change createdAt")
	}

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteLanguage(created.ID)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.GetLanguage(created.ID); ok {
		t.Fatal("record should be gone")
	}
}

func TestInsertionOrderPreservedThroughUpdate(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	names := []string{"a", "b", "c"}
	ids := make([]string, len(names))
	for i, name := range names {
		i, name := i, name
		if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			created, err := tx.CreateCountry(domain.Country{Name: name})
			ids[i] = created.ID
			return err
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateCountry(ids[0], func(c *domain.Country) error {
			c.Name = "z"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	listed := store.ListCountries()
	if len(listed) != 3 {
		t.Fatalf("expected 3 countries, got %d", len(listed))
	}
	for i, id := range ids {
		if listed[i].ID != id {
			t.Fatalf("order changed at %d: want %s got %s", i, id, listed[i].ID)
		}
	}
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteDistrict("nope")
	})
	var nf domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Entity != domain.EntityDistrict || nf.ID != "nope" {
		t.Fatalf("unexpected error payload: %+v", nf)
	}
}

func TestFailedTransactionLeavesStoreUntouched(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	boom := errors.New("boom")
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateState(domain.State{Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(store.ListStates()) != 0 {
		t.Fatal("aborted transaction must not commit")
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	if len(changes) > 0 {
		res.Violations = append(res.Violations, domain.Violation{Rule: "block_everything", Severity: domain.SeverityBlock, Message: "no writes allowed"})
	}
	return res, nil
}

func TestBlockingRuleAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	store := NewStore(engine)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateLanguage(domain.Language{Name: "Hindi"})
		return err
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if len(store.ListLanguages()) != 0 {
		t.Fatal("blocked write must not commit")
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	var user domain.User
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		user, err = tx.CreateUser(domain.User{Name: "A", Email: "a@x.com", Password: "secret1", Role: domain.RoleUser})
		if err != nil {
			return err
		}
		return tx.SetCurrentUser(user)
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if current, ok := store.CurrentUser(); !ok || current.ID != user.ID {
		t.Fatal("session should hold the created user")
	}

	// Deleting the signed-in account clears the session too.
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteUser(user.ID)
	}); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok := store.CurrentUser(); ok {
		t.Fatal("session should be cleared with its account")
	}
}

func TestExportBucketsShape(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateLanguage(domain.Language{Name: "Hindi"}); err != nil {
			return err
		}
		_, err := tx.CreateLanguage(domain.Language{Name: "Tamil"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	buckets, err := store.ExportBuckets()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, bucket := range domain.CollectionBuckets() {
		payload, ok := buckets[bucket]
		if !ok {
			t.Fatalf("bucket %s missing", bucket)
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(payload, &arr); err != nil {
			t.Fatalf("bucket %s is not a JSON array: %v", bucket, err)
		}
	}
	var langs []domain.Language
	if err := json.Unmarshal(buckets[domain.BucketLanguages], &langs); err != nil {
		t.Fatalf("decode languages: %v", err)
	}
	if len(langs) != 2 || langs[0].Name != "Hindi" {
		t.Fatalf("unexpected languages payload: %+v", langs)
	}
	if _, ok := buckets[domain.BucketCurrentUser]; ok {
		t.Fatal("current_user should be absent while logged out")
	}
}

func TestSnapshotFromBucketsDiscardsCorruptSession(t *testing.T) {
	buckets := map[string][]byte{
		domain.BucketLanguages:   []byte(`[{"id":"l1","name":"Hindi"}]`),
		domain.BucketCurrentUser: []byte(`{corrupt`),
	}
	snapshot, err := SnapshotFromBuckets(buckets)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.CurrentUser != nil {
		t.Fatal("corrupt session payload should be discarded")
	}
	if len(snapshot.Languages) != 1 || snapshot.Languages[0].ID != "l1" {
		t.Fatalf("unexpected languages: %+v", snapshot.Languages)
	}

	if _, err := SnapshotFromBuckets(map[string][]byte{domain.BucketLanguages: []byte(`{bad`)}); err == nil {
		t.Fatal("corrupt collection bucket must error")
	}
}

func TestClearBucket(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		user, err := tx.CreateUser(domain.User{Name: "A", Email: "a@x.com", Password: "secret1", Role: domain.RoleUser})
		if err != nil {
			return err
		}
		return tx.SetCurrentUser(user)
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.ClearBucket(domain.BucketUsers)
	}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(store.ListUsers()) != 0 {
		t.Fatal("users bucket should be empty")
	}
	if _, ok := store.CurrentUser(); ok {
		t.Fatal("clearing users should drop the session")
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.ClearBucket("bogus")
	}); err == nil {
		t.Fatal("unknown bucket must error")
	}
}

func TestImportExportStateRoundTrip(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		country, err := tx.CreateCountry(domain.Country{Name: "India"})
		if err != nil {
			return err
		}
		_, err = tx.CreateState(domain.State{Name: "Kerala", CountryID: &country.ID})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	other := NewStore(nil)
	other.ImportState(store.ExportState())
	if len(other.ListCountries()) != 1 || len(other.ListStates()) != 1 {
		t.Fatal("round trip lost records")
	}
	st := other.ListStates()[0]
	if st.CountryID == nil || *st.CountryID != store.ListCountries()[0].ID {
		t.Fatal("soft reference lost in round trip")
	}
}
