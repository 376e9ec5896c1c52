// Package export runs asynchronous CSV exports of the reference-data
// buckets and stores the resulting artifacts in an object store.
package export

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"refcore/pkg/domain"
)

// Status describes the lifecycle stage of an export request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Artifact captures a stored export file.
type Artifact struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record tracks an export request and its resulting artifact.
type Record struct {
	ID          string     `json:"id"`
	Categories  []Category `json:"categories"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Artifact    *Artifact  `json:"artifact,omitempty"`
	RequestedBy string     `json:"requested_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (r *Record) copy() Record {
	out := *r
	out.Categories = append([]Category(nil), r.Categories...)
	if r.Artifact != nil {
		a := *r.Artifact
		out.Artifact = &a
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Input represents an enqueue request for the worker.
type Input struct {
	Categories  []Category
	RequestedBy string
}

// Scheduler queues export requests and exposes status.
type Scheduler interface {
	EnqueueExport(ctx context.Context, input Input) (Record, error)
	GetExport(id string) (Record, bool)
}

// ObjectStore persists export artifacts.
type ObjectStore interface {
	// Put stores a new immutable object. Implementations SHOULD fail if key exists.
	Put(ctx context.Context, key string, payload []byte, contentType string) (Artifact, error)
	// Get returns the artifact metadata and full payload bytes.
	Get(ctx context.Context, key string) (Artifact, []byte, error)
	// Delete removes the object; returns true if it existed. Idempotent.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns artifacts whose keys start with the prefix. Empty prefix lists all.
	List(ctx context.Context, prefix string) ([]Artifact, error)
}

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for exports.
type AuditEntry struct {
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	Actor      string     `json:"actor"`
	Categories []Category `json:"categories,omitempty"`
	Status     Status     `json:"status"`
	Note       string     `json:"note,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Worker executes bucket exports asynchronously.
type Worker struct {
	source domain.PersistentStore
	store  ObjectStore
	audit  AuditLogger

	queue chan exportTask
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type exportTask struct {
	id         string
	categories []Category
}

// NewWorker constructs an export worker over the given snapshot source.
func NewWorker(source domain.PersistentStore, store ObjectStore, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		source: source,
		store:  store,
		audit:  audit,
		queue:  make(chan exportTask, 32),
		jobs:   make(map[string]*Record),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// EnqueueExport schedules an export job and returns the queued record.
// Duplicate categories are collapsed; at least one is required.
func (w *Worker) EnqueueExport(ctx context.Context, input Input) (Record, error) {
	if w.source == nil {
		return Record{}, fmt.Errorf("export source not configured")
	}
	if len(input.Categories) == 0 {
		return Record{}, fmt.Errorf("at least one export category required")
	}
	categories := make([]Category, 0, len(input.Categories))
	seen := make(map[Category]struct{})
	for _, c := range input.Categories {
		if _, duplicate := seen[c]; duplicate {
			continue
		}
		if !c.Valid() {
			return Record{}, fmt.Errorf("unknown export category %q", c)
		}
		categories = append(categories, c)
		seen[c] = struct{}{}
	}

	id := newID()
	now := time.Now().UTC()
	record := Record{
		ID:          id,
		Categories:  categories,
		Status:      StatusQueued,
		RequestedBy: input.RequestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	queuedSnapshot := record.copy()
	w.mu.Unlock()

	if w.audit != nil {
		w.audit.Record(ctx, AuditEntry{
			ID:         newID(),
			Action:     "bucket_export",
			Actor:      input.RequestedBy,
			Categories: categories,
			Status:     StatusQueued,
			OccurredAt: now,
		})
	}

	select {
	case w.queue <- exportTask{id: id, categories: categories}:
	default:
		return Record{}, fmt.Errorf("export queue full")
	}

	return queuedSnapshot, nil
}

// GetExport returns a snapshot of the export record.
func (w *Worker) GetExport(id string) (Record, bool) {
	w.mu.RLock()
	record, ok := w.jobs[id]
	if !ok {
		w.mu.RUnlock()
		return Record{}, false
	}
	snapshot := record.copy()
	w.mu.RUnlock()
	return snapshot, true
}

func (w *Worker) process(task exportTask) {
	w.updateStatus(task.id, StatusRunning, "")

	var content string
	var renderErr error
	viewErr := w.source.View(w.ctx, func(view domain.TransactionView) error {
		if len(task.categories) == 1 {
			content, renderErr = renderCategory(task.categories[0], view)
			if renderErr == nil && content == "" {
				renderErr = fmt.Errorf("no data available for %s", task.categories[0])
			}
			return nil
		}
		content, renderErr = renderCombined(task.categories, view)
		return nil
	})
	if viewErr != nil {
		w.fail(task.id, fmt.Sprintf("snapshot read failed: %v", viewErr))
		return
	}
	if renderErr != nil {
		w.fail(task.id, renderErr.Error())
		return
	}

	filename := "combined_export.csv"
	if len(task.categories) == 1 {
		filename = fmt.Sprintf("%s.csv", task.categories[0])
	}
	artifact := Artifact{
		ID:          newID(),
		Filename:    filename,
		ContentType: "text/csv; charset=utf-8",
		SizeBytes:   int64(len(content)),
		CreatedAt:   time.Now().UTC(),
	}
	if w.store != nil {
		key := fmt.Sprintf("%s/%s", task.id, filename)
		stored, err := w.store.Put(w.ctx, key, []byte(content), artifact.ContentType)
		if err != nil {
			w.fail(task.id, fmt.Sprintf("store artifact failed: %v", err))
			return
		}
		artifact.ID = stored.ID
		artifact.URL = stored.URL
		if !stored.CreatedAt.IsZero() {
			artifact.CreatedAt = stored.CreatedAt
		}
	}
	w.complete(task.id, artifact)
}

func (w *Worker) updateStatus(id string, status Status, message string) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.Error = message
		record.UpdatedAt = now
	}
	w.mu.Unlock()
	w.auditStatus(id, status, message, now)
}

func (w *Worker) complete(id string, artifact Artifact) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusSucceeded
		record.Error = ""
		record.Artifact = &artifact
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.auditStatus(id, StatusSucceeded, "", now)
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = StatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.auditStatus(id, StatusFailed, reason, now)
}

func (w *Worker) auditStatus(id string, status Status, note string, at time.Time) {
	if w.audit == nil {
		return
	}
	w.mu.RLock()
	actor := ""
	var categories []Category
	if record, ok := w.jobs[id]; ok {
		actor = record.RequestedBy
		categories = append([]Category(nil), record.Categories...)
	}
	w.mu.RUnlock()
	w.audit.Record(w.ctx, AuditEntry{
		ID:         newID(),
		Action:     "bucket_export",
		Actor:      actor,
		Categories: categories,
		Status:     status,
		Note:       note,
		OccurredAt: at,
	})
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", b[:])
}
