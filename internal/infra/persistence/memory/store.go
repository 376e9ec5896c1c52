// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments. Buckets are ordered slices:
// insertion order is preserved through updates and survives snapshot round
// trips.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"refcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type state struct {
	languages   []domain.Language
	countries   []domain.Country
	states      []domain.State
	districts   []domain.District
	images      []domain.Image
	users       []domain.User
	currentUser *domain.User
}

func (s state) clone() state {
	cloned := state{
		languages: append([]domain.Language(nil), s.languages...),
		countries: append([]domain.Country(nil), s.countries...),
		districts: append([]domain.District(nil), s.districts...),
		images:    append([]domain.Image(nil), s.images...),
		users:     append([]domain.User(nil), s.users...),
	}
	cloned.states = make([]domain.State, len(s.states))
	for i, st := range s.states {
		cloned.states[i] = cloneState(st)
	}
	if s.currentUser != nil {
		u := *s.currentUser
		cloned.currentUser = &u
	}
	return cloned
}

func cloneState(st domain.State) domain.State {
	cp := st
	if st.CountryID != nil {
		id := *st.CountryID
		cp.CountryID = &id
	}
	return cp
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  state
	engine *domain.RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *domain.RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the transaction clock; intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		s.nowFn = fn
	}
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Tx represents a mutation set applied to the store state.
type Tx struct {
	state   state
	changes []domain.Change
	now     time.Time
}

var _ domain.Transaction = (*Tx)(nil)

// view exposes a read-only snapshot of transactional state to rules and queries.
type view struct {
	state *state
}

var (
	_ domain.TransactionView = view{}
	_ domain.RuleView        = view{}
)

// Snapshot returns a read-only view of the transactional state.
func (tx *Tx) Snapshot() domain.TransactionView {
	return view{state: &tx.state}
}

func (tx *Tx) record(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Registered rules are evaluated before commit; blocking violations abort the
// transaction with a RuleViolationError and leave the store untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, view{state: &tx.state}, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(view{state: &snapshot})
}

// CreateLanguage stores a new language within the transaction.
func (tx *Tx) CreateLanguage(l domain.Language) (domain.Language, error) {
	if l.ID == "" {
		l.ID = newID()
	}
	for _, existing := range tx.state.languages {
		if existing.ID == l.ID {
			return domain.Language{}, fmt.Errorf("language %q already exists", l.ID)
		}
	}
	l.CreatedAt = tx.now
	tx.state.languages = append(tx.state.languages, l)
	tx.record(domain.Change{Entity: domain.EntityLanguage, Action: domain.ActionCreate, After: l})
	return l, nil
}

// UpdateLanguage mutates a language using the provided mutator function. The
// record keeps its position in the bucket.
func (tx *Tx) UpdateLanguage(id string, mutator func(*domain.Language) error) (domain.Language, error) {
	for i, existing := range tx.state.languages {
		if existing.ID != id {
			continue
		}
		before := existing
		current := existing
		if err := mutator(&current); err != nil {
			return domain.Language{}, err
		}
		current.ID = id
		tx.state.languages[i] = current
		tx.record(domain.Change{Entity: domain.EntityLanguage, Action: domain.ActionUpdate, Before: before, After: current})
		return current, nil
	}
	return domain.Language{}, domain.NotFoundError{Entity: domain.EntityLanguage, ID: id}
}

// DeleteLanguage removes a language from the transaction state.
func (tx *Tx) DeleteLanguage(id string) error {
	for i, existing := range tx.state.languages {
		if existing.ID != id {
			continue
		}
		tx.state.languages = append(tx.state.languages[:i], tx.state.languages[i+1:]...)
		tx.record(domain.Change{Entity: domain.EntityLanguage, Action: domain.ActionDelete, Before: existing})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityLanguage, ID: id}
}

// CreateCountry stores a new country.
func (tx *Tx) CreateCountry(c domain.Country) (domain.Country, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	for _, existing := range tx.state.countries {
		if existing.ID == c.ID {
			return domain.Country{}, fmt.Errorf("country %q already exists", c.ID)
		}
	}
	c.CreatedAt = tx.now
	tx.state.countries = append(tx.state.countries, c)
	tx.record(domain.Change{Entity: domain.EntityCountry, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateCountry mutates an existing country.
func (tx *Tx) UpdateCountry(id string, mutator func(*domain.Country) error) (domain.Country, error) {
	for i, existing := range tx.state.countries {
		if existing.ID != id {
			continue
		}
		before := existing
		current := existing
		if err := mutator(&current); err != nil {
			return domain.Country{}, err
		}
		current.ID = id
		tx.state.countries[i] = current
		tx.record(domain.Change{Entity: domain.EntityCountry, Action: domain.ActionUpdate, Before: before, After: current})
		return current, nil
	}
	return domain.Country{}, domain.NotFoundError{Entity: domain.EntityCountry, ID: id}
}

// DeleteCountry removes a country. States referencing it are left in place
// with a dangling soft reference; the reference-integrity rule flags them.
func (tx *Tx) DeleteCountry(id string) error {
	for i, existing := range tx.state.countries {
		if existing.ID != id {
			continue
		}
		tx.state.countries = append(tx.state.countries[:i], tx.state.countries[i+1:]...)
		tx.record(domain.Change{Entity: domain.EntityCountry, Action: domain.ActionDelete, Before: existing})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityCountry, ID: id}
}

// CreateState stores a new state record.
func (tx *Tx) CreateState(st domain.State) (domain.State, error) {
	if st.ID == "" {
		st.ID = newID()
	}
	for _, existing := range tx.state.states {
		if existing.ID == st.ID {
			return domain.State{}, fmt.Errorf("state %q already exists", st.ID)
		}
	}
	st.CreatedAt = tx.now
	cloned := cloneState(st)
	tx.state.states = append(tx.state.states, cloned)
	tx.record(domain.Change{Entity: domain.EntityState, Action: domain.ActionCreate, After: cloned})
	return cloneState(cloned), nil
}

// UpdateState mutates an existing state record.
func (tx *Tx) UpdateState(id string, mutator func(*domain.State) error) (domain.State, error) {
	for i, existing := range tx.state.states {
		if existing.ID != id {
			continue
		}
		before := cloneState(existing)
		current := cloneState(existing)
		if err := mutator(&current); err != nil {
			return domain.State{}, err
		}
		current.ID = id
		tx.state.states[i] = cloneState(current)
		tx.record(domain.Change{Entity: domain.EntityState, Action: domain.ActionUpdate, Before: before, After: cloneState(current)})
		return current, nil
	}
	return domain.State{}, domain.NotFoundError{Entity: domain.EntityState, ID: id}
}

// DeleteState removes a state record.
func (tx *Tx) DeleteState(id string) error {
	for i, existing := range tx.state.states {
		if existing.ID != id {
			continue
		}
		tx.state.states = append(tx.state.states[:i], tx.state.states[i+1:]...)
		tx.record(domain.Change{Entity: domain.EntityState, Action: domain.ActionDelete, Before: cloneState(existing)})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityState, ID: id}
}

// CreateDistrict stores a new district record.
func (tx *Tx) CreateDistrict(d domain.District) (domain.District, error) {
	if d.ID == "" {
		d.ID = newID()
	}
	for _, existing := range tx.state.districts {
		if existing.ID == d.ID {
			return domain.District{}, fmt.Errorf("district %q already exists", d.ID)
		}
	}
	d.CreatedAt = tx.now
	tx.state.districts = append(tx.state.districts, d)
	tx.record(domain.Change{Entity: domain.EntityDistrict, Action: domain.ActionCreate, After: d})
	return d, nil
}

// UpdateDistrict mutates an existing district record.
func (tx *Tx) UpdateDistrict(id string, mutator func(*domain.District) error) (domain.District, error) {
	for i, existing := range tx.state.districts {
		if existing.ID != id {
			continue
		}
		before := existing
		current := existing
		if err := mutator(&current); err != nil {
			return domain.District{}, err
		}
		current.ID = id
		tx.state.districts[i] = current
		tx.record(domain.Change{Entity: domain.EntityDistrict, Action: domain.ActionUpdate, Before: before, After: current})
		return current, nil
	}
	return domain.District{}, domain.NotFoundError{Entity: domain.EntityDistrict, ID: id}
}

// DeleteDistrict removes a district record.
func (tx *Tx) DeleteDistrict(id string) error {
	for i, existing := range tx.state.districts {
		if existing.ID != id {
			continue
		}
		tx.state.districts = append(tx.state.districts[:i], tx.state.districts[i+1:]...)
		tx.record(domain.Change{Entity: domain.EntityDistrict, Action: domain.ActionDelete, Before: existing})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityDistrict, ID: id}
}

// CreateImage stores image metadata. The payload itself lives in the blob store.
func (tx *Tx) CreateImage(img domain.Image) (domain.Image, error) {
	if img.ID == "" {
		img.ID = newID()
	}
	for _, existing := range tx.state.images {
		if existing.ID == img.ID {
			return domain.Image{}, fmt.Errorf("image %q already exists", img.ID)
		}
	}
	img.UploadedAt = tx.now
	tx.state.images = append(tx.state.images, img)
	tx.record(domain.Change{Entity: domain.EntityImage, Action: domain.ActionCreate, After: img})
	return img, nil
}

// DeleteImage removes an image metadata record.
func (tx *Tx) DeleteImage(id string) error {
	for i, existing := range tx.state.images {
		if existing.ID != id {
			continue
		}
		tx.state.images = append(tx.state.images[:i], tx.state.images[i+1:]...)
		tx.record(domain.Change{Entity: domain.EntityImage, Action: domain.ActionDelete, Before: existing})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityImage, ID: id}
}

// CreateUser stores a new user account.
func (tx *Tx) CreateUser(u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	for _, existing := range tx.state.users {
		if existing.ID == u.ID {
			return domain.User{}, fmt.Errorf("user %q already exists", u.ID)
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = tx.now
	}
	tx.state.users = append(tx.state.users, u)
	tx.record(domain.Change{Entity: domain.EntityUser, Action: domain.ActionCreate, After: u})
	return u, nil
}

// UpdateUser mutates an existing user account.
func (tx *Tx) UpdateUser(id string, mutator func(*domain.User) error) (domain.User, error) {
	for i, existing := range tx.state.users {
		if existing.ID != id {
			continue
		}
		before := existing
		current := existing
		if err := mutator(&current); err != nil {
			return domain.User{}, err
		}
		current.ID = id
		tx.state.users[i] = current
		tx.record(domain.Change{Entity: domain.EntityUser, Action: domain.ActionUpdate, Before: before, After: current})
		return current, nil
	}
	return domain.User{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
}

// DeleteUser removes a user account. The session is cleared when it belongs
// to the deleted user.
func (tx *Tx) DeleteUser(id string) error {
	for i, existing := range tx.state.users {
		if existing.ID != id {
			continue
		}
		tx.state.users = append(tx.state.users[:i], tx.state.users[i+1:]...)
		if tx.state.currentUser != nil && tx.state.currentUser.ID == id {
			tx.state.currentUser = nil
		}
		tx.record(domain.Change{Entity: domain.EntityUser, Action: domain.ActionDelete, Before: existing})
		return nil
	}
	return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
}

// SetCurrentUser replaces the session with the provided user.
func (tx *Tx) SetCurrentUser(u domain.User) error {
	var before any
	if tx.state.currentUser != nil {
		before = *tx.state.currentUser
	}
	cp := u
	tx.state.currentUser = &cp
	tx.record(domain.Change{Entity: domain.EntitySession, Action: domain.ActionUpdate, Before: before, After: u})
	return nil
}

// ClearCurrentUser drops the session. Clearing an absent session is a no-op.
func (tx *Tx) ClearCurrentUser() error {
	if tx.state.currentUser == nil {
		return nil
	}
	before := *tx.state.currentUser
	tx.state.currentUser = nil
	tx.record(domain.Change{Entity: domain.EntitySession, Action: domain.ActionDelete, Before: before})
	return nil
}

// ClearBucket removes every record from the named bucket.
func (tx *Tx) ClearBucket(name string) error {
	switch name {
	case domain.BucketLanguages:
		tx.state.languages = nil
	case domain.BucketCountries:
		tx.state.countries = nil
	case domain.BucketStates:
		tx.state.states = nil
	case domain.BucketDistricts:
		tx.state.districts = nil
	case domain.BucketImages:
		tx.state.images = nil
	case domain.BucketUsers:
		tx.state.users = nil
		tx.state.currentUser = nil
	case domain.BucketCurrentUser:
		tx.state.currentUser = nil
	default:
		return fmt.Errorf("unknown bucket %q", name)
	}
	return nil
}

// View accessors -------------------------------------------------------------

// ListLanguages returns all languages within the snapshot in insertion order.
func (v view) ListLanguages() []domain.Language {
	return append([]domain.Language(nil), v.state.languages...)
}

// ListCountries returns all countries within the snapshot.
func (v view) ListCountries() []domain.Country {
	return append([]domain.Country(nil), v.state.countries...)
}

// ListStates returns all state records within the snapshot.
func (v view) ListStates() []domain.State {
	out := make([]domain.State, len(v.state.states))
	for i, st := range v.state.states {
		out[i] = cloneState(st)
	}
	return out
}

// ListDistricts returns all districts within the snapshot.
func (v view) ListDistricts() []domain.District {
	return append([]domain.District(nil), v.state.districts...)
}

// ListImages returns all image metadata records within the snapshot.
func (v view) ListImages() []domain.Image {
	return append([]domain.Image(nil), v.state.images...)
}

// ListUsers returns all user accounts within the snapshot.
func (v view) ListUsers() []domain.User {
	return append([]domain.User(nil), v.state.users...)
}

// FindLanguage retrieves a language by ID from the snapshot.
func (v view) FindLanguage(id string) (domain.Language, bool) {
	for _, l := range v.state.languages {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Language{}, false
}

// FindCountry retrieves a country by ID.
func (v view) FindCountry(id string) (domain.Country, bool) {
	for _, c := range v.state.countries {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Country{}, false
}

// FindState retrieves a state record by ID.
func (v view) FindState(id string) (domain.State, bool) {
	for _, st := range v.state.states {
		if st.ID == id {
			return cloneState(st), true
		}
	}
	return domain.State{}, false
}

// FindDistrict retrieves a district by ID.
func (v view) FindDistrict(id string) (domain.District, bool) {
	for _, d := range v.state.districts {
		if d.ID == id {
			return d, true
		}
	}
	return domain.District{}, false
}

// FindImage retrieves an image metadata record by ID.
func (v view) FindImage(id string) (domain.Image, bool) {
	for _, img := range v.state.images {
		if img.ID == id {
			return img, true
		}
	}
	return domain.Image{}, false
}

// FindUser retrieves a user account by ID.
func (v view) FindUser(id string) (domain.User, bool) {
	for _, u := range v.state.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// FindUserByEmail retrieves a user account by email.
func (v view) FindUserByEmail(email string) (domain.User, bool) {
	for _, u := range v.state.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// CurrentUser returns the session user, if any.
func (v view) CurrentUser() (domain.User, bool) {
	if v.state.currentUser == nil {
		return domain.User{}, false
	}
	return *v.state.currentUser, true
}

// Committed-state read helpers -----------------------------------------------

// ListLanguages returns all languages from committed state in insertion order.
func (s *Store) ListLanguages() []domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Language(nil), s.state.languages...)
}

// ListCountries returns all countries from committed state.
func (s *Store) ListCountries() []domain.Country {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Country(nil), s.state.countries...)
}

// ListStates returns all state records from committed state.
func (s *Store) ListStates() []domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.State, len(s.state.states))
	for i, st := range s.state.states {
		out[i] = cloneState(st)
	}
	return out
}

// ListDistricts returns all districts from committed state.
func (s *Store) ListDistricts() []domain.District {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.District(nil), s.state.districts...)
}

// ListImages returns all image metadata records from committed state.
func (s *Store) ListImages() []domain.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Image(nil), s.state.images...)
}

// ListUsers returns all user accounts from committed state.
func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.state.users...)
}

// GetLanguage retrieves a language by ID from committed state.
func (s *Store) GetLanguage(id string) (domain.Language, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindLanguage(id)
}

// GetCountry retrieves a country by ID from committed state.
func (s *Store) GetCountry(id string) (domain.Country, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindCountry(id)
}

// GetState retrieves a state record by ID from committed state.
func (s *Store) GetState(id string) (domain.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindState(id)
}

// GetDistrict retrieves a district by ID from committed state.
func (s *Store) GetDistrict(id string) (domain.District, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindDistrict(id)
}

// GetImage retrieves an image metadata record by ID from committed state.
func (s *Store) GetImage(id string) (domain.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindImage(id)
}

// GetUser retrieves a user account by ID from committed state.
func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindUser(id)
}

// CurrentUser returns the committed session user, if any.
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.CurrentUser()
}

// Snapshot import/export ------------------------------------------------------

// Snapshot captures the full store state in its durable JSON shape. Collection
// fields marshal as arrays keyed by their bucket names.
type Snapshot struct {
	Users       []domain.User     `json:"users"`
	Languages   []domain.Language `json:"languages"`
	Countries   []domain.Country  `json:"countries"`
	States      []domain.State    `json:"states"`
	Districts   []domain.District `json:"districts"`
	Images      []domain.Image    `json:"images"`
	CurrentUser *domain.User      `json:"currentUser,omitempty"`
}

// ExportState returns a deep copy of committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cloned := s.state.clone()
	return Snapshot{
		Users:       cloned.users,
		Languages:   cloned.languages,
		Countries:   cloned.countries,
		States:      cloned.states,
		Districts:   cloned.districts,
		Images:      cloned.images,
		CurrentUser: cloned.currentUser,
	}
}

// ImportState replaces committed state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imported := state{
		users:       snapshot.Users,
		languages:   snapshot.Languages,
		countries:   snapshot.Countries,
		states:      snapshot.States,
		districts:   snapshot.Districts,
		images:      snapshot.Images,
		currentUser: snapshot.CurrentUser,
	}
	s.state = imported.clone()
}

// ExportBuckets serializes every bucket to its durable text form. Collection
// buckets always serialize, as an empty array when they hold no records; the
// current-user bucket is present only while a session exists.
func (s *Store) ExportBuckets() (map[string][]byte, error) {
	snapshot := s.ExportState()
	out := make(map[string][]byte, 7)
	marshal := func(bucket string, records any) error {
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
		return nil
	}
	if err := marshal(domain.BucketUsers, emptyWhenNil(snapshot.Users)); err != nil {
		return nil, err
	}
	if err := marshal(domain.BucketLanguages, emptyWhenNil(snapshot.Languages)); err != nil {
		return nil, err
	}
	if err := marshal(domain.BucketCountries, emptyWhenNil(snapshot.Countries)); err != nil {
		return nil, err
	}
	if err := marshal(domain.BucketStates, emptyWhenNil(snapshot.States)); err != nil {
		return nil, err
	}
	if err := marshal(domain.BucketDistricts, emptyWhenNil(snapshot.Districts)); err != nil {
		return nil, err
	}
	if err := marshal(domain.BucketImages, emptyWhenNil(snapshot.Images)); err != nil {
		return nil, err
	}
	if snapshot.CurrentUser != nil {
		if err := marshal(domain.BucketCurrentUser, snapshot.CurrentUser); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func emptyWhenNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

// SnapshotFromBuckets decodes durable bucket payloads into a Snapshot. Every
// collection bucket must decode as an array of its record type; a corrupt
// current-user payload is discarded rather than failing the load, matching
// the session rehydration contract.
func SnapshotFromBuckets(buckets map[string][]byte) (Snapshot, error) {
	var snapshot Snapshot
	for bucket, payload := range buckets {
		var err error
		switch bucket {
		case domain.BucketUsers:
			err = json.Unmarshal(payload, &snapshot.Users)
		case domain.BucketLanguages:
			err = json.Unmarshal(payload, &snapshot.Languages)
		case domain.BucketCountries:
			err = json.Unmarshal(payload, &snapshot.Countries)
		case domain.BucketStates:
			err = json.Unmarshal(payload, &snapshot.States)
		case domain.BucketDistricts:
			err = json.Unmarshal(payload, &snapshot.Districts)
		case domain.BucketImages:
			err = json.Unmarshal(payload, &snapshot.Images)
		case domain.BucketCurrentUser:
			var u domain.User
			if json.Unmarshal(payload, &u) == nil {
				snapshot.CurrentUser = &u
			}
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	return snapshot, nil
}
