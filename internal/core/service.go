package core

import (
	"context"
	"strings"
	"time"

	"refcore/internal/blob"
	"refcore/internal/infra/persistence/memory"
)

// Service exposes higher-level transactional CRUD operations for the
// reference-data schema. All writes run through the store's rules engine and
// are observed by the configured logger, metrics recorder and tracer.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder overrides the default no-op metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer overrides the default no-op tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithBlobStore supplies the blob backend for image payloads.
func WithBlobStore(b blob.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.blobs = b
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine. A nil engine gets the default policy set.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// run executes fn inside a store transaction and reports the outcome to the
// configured observability sinks.
func (s *Service) run(ctx context.Context, operation string, fn func(Transaction) error) (Result, error) {
	ctx, span := s.tracer.Start(ctx, operation)
	start := time.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "error", err)
		return res, err
	}
	for _, v := range res.Violations {
		s.logger.Warn("rule violation", "operation", operation, "rule", v.Rule, "severity", string(v.Severity), "message", v.Message)
	}
	s.logger.Debug("operation committed", "operation", operation, "violations", len(res.Violations))
	return res, nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// CreateLanguage persists a new language.
func (s *Service) CreateLanguage(ctx context.Context, language Language) (Language, Result, error) {
	if err := requireName(language.Name); err != nil {
		return Language{}, Result{}, err
	}
	var created Language
	res, err := s.run(ctx, "create_language", func(tx Transaction) error {
		var err error
		created, err = tx.CreateLanguage(language)
		return err
	})
	return created, res, err
}

// UpdateLanguage mutates a language using the provided mutator.
func (s *Service) UpdateLanguage(ctx context.Context, id string, mutator func(*Language) error) (Language, Result, error) {
	var updated Language
	res, err := s.run(ctx, "update_language", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateLanguage(id, func(l *Language) error {
			if mutator != nil {
				if err := mutator(l); err != nil {
					return err
				}
			}
			return requireName(l.Name)
		})
		return err
	})
	return updated, res, err
}

// DeleteLanguage removes a language record.
func (s *Service) DeleteLanguage(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_language", func(tx Transaction) error {
		return tx.DeleteLanguage(id)
	})
}

// CreateCountry persists a new country.
func (s *Service) CreateCountry(ctx context.Context, country Country) (Country, Result, error) {
	if err := requireName(country.Name); err != nil {
		return Country{}, Result{}, err
	}
	var created Country
	res, err := s.run(ctx, "create_country", func(tx Transaction) error {
		var err error
		created, err = tx.CreateCountry(country)
		return err
	})
	return created, res, err
}

// UpdateCountry mutates a country using the provided mutator.
func (s *Service) UpdateCountry(ctx context.Context, id string, mutator func(*Country) error) (Country, Result, error) {
	var updated Country
	res, err := s.run(ctx, "update_country", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateCountry(id, func(c *Country) error {
			if mutator != nil {
				if err := mutator(c); err != nil {
					return err
				}
			}
			return requireName(c.Name)
		})
		return err
	})
	return updated, res, err
}

// DeleteCountry removes a country record. States referencing it keep their
// countryId; the reference-integrity rule flags the dangling link.
func (s *Service) DeleteCountry(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_country", func(tx Transaction) error {
		return tx.DeleteCountry(id)
	})
}

// CreateState persists a new state.
func (s *Service) CreateState(ctx context.Context, state State) (State, Result, error) {
	if err := requireName(state.Name); err != nil {
		return State{}, Result{}, err
	}
	var created State
	res, err := s.run(ctx, "create_state", func(tx Transaction) error {
		var err error
		created, err = tx.CreateState(state)
		return err
	})
	return created, res, err
}

// UpdateState mutates a state using the provided mutator.
func (s *Service) UpdateState(ctx context.Context, id string, mutator func(*State) error) (State, Result, error) {
	var updated State
	res, err := s.run(ctx, "update_state", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateState(id, func(st *State) error {
			if mutator != nil {
				if err := mutator(st); err != nil {
					return err
				}
			}
			return requireName(st.Name)
		})
		return err
	})
	return updated, res, err
}

// DeleteState removes a state record.
func (s *Service) DeleteState(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_state", func(tx Transaction) error {
		return tx.DeleteState(id)
	})
}

// AssignStateCountry updates a state's country reference after checking the
// country exists in the same transactional scope.
func (s *Service) AssignStateCountry(ctx context.Context, stateID, countryID string) (State, Result, error) {
	var updated State
	res, err := s.run(ctx, "assign_state_country", func(tx Transaction) error {
		if _, ok := tx.Snapshot().FindCountry(countryID); !ok {
			return NotFoundError{Entity: EntityCountry, ID: countryID}
		}
		var err error
		updated, err = tx.UpdateState(stateID, func(st *State) error {
			st.CountryID = &countryID
			return nil
		})
		return err
	})
	return updated, res, err
}

// CreateDistrict persists a new district.
func (s *Service) CreateDistrict(ctx context.Context, district District) (District, Result, error) {
	if err := requireName(district.Name); err != nil {
		return District{}, Result{}, err
	}
	var created District
	res, err := s.run(ctx, "create_district", func(tx Transaction) error {
		var err error
		created, err = tx.CreateDistrict(district)
		return err
	})
	return created, res, err
}

// UpdateDistrict mutates a district using the provided mutator.
func (s *Service) UpdateDistrict(ctx context.Context, id string, mutator func(*District) error) (District, Result, error) {
	var updated District
	res, err := s.run(ctx, "update_district", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateDistrict(id, func(d *District) error {
			if mutator != nil {
				if err := mutator(d); err != nil {
					return err
				}
			}
			return requireName(d.Name)
		})
		return err
	})
	return updated, res, err
}

// DeleteDistrict removes a district record.
func (s *Service) DeleteDistrict(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_district", func(tx Transaction) error {
		return tx.DeleteDistrict(id)
	})
}

// CreateUser persists a new account after validating its fields. Duplicate
// emails are rejected up front and again by the unique-email rule at commit.
func (s *Service) CreateUser(ctx context.Context, user User) (User, Result, error) {
	if err := validateUser(&user); err != nil {
		return User{}, Result{}, err
	}
	var created User
	res, err := s.run(ctx, "create_user", func(tx Transaction) error {
		if _, exists := tx.Snapshot().FindUserByEmail(user.Email); exists {
			return ValidationError{Field: "email", Message: "email already registered"}
		}
		var err error
		created, err = tx.CreateUser(user)
		return err
	})
	return created, res, err
}

// UpdateUser mutates an account using the provided mutator.
func (s *Service) UpdateUser(ctx context.Context, id string, mutator func(*User) error) (User, Result, error) {
	var updated User
	res, err := s.run(ctx, "update_user", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateUser(id, func(u *User) error {
			if mutator != nil {
				if err := mutator(u); err != nil {
					return err
				}
			}
			return validateUser(u)
		})
		return err
	})
	return updated, res, err
}

// DeleteUser removes an account. Deleting the signed-in account also clears
// the session.
func (s *Service) DeleteUser(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_user", func(tx Transaction) error {
		return tx.DeleteUser(id)
	})
}

func validateUser(user *User) error {
	if strings.TrimSpace(user.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(user.Email) == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if user.Password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(user.Password) < 6 {
		return ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	if !user.Role.Valid() {
		return ValidationError{Field: "role", Message: "unknown role"}
	}
	return nil
}

// ListLanguages returns all languages in insertion order.
func (s *Service) ListLanguages() []Language { return s.store.ListLanguages() }

// ListCountries returns all countries in insertion order.
func (s *Service) ListCountries() []Country { return s.store.ListCountries() }

// ListStates returns all states in insertion order.
func (s *Service) ListStates() []State { return s.store.ListStates() }

// ListDistricts returns all districts in insertion order.
func (s *Service) ListDistricts() []District { return s.store.ListDistricts() }

// ListImages returns all image metadata records in insertion order.
func (s *Service) ListImages() []Image { return s.store.ListImages() }

// ListUsers returns all accounts in insertion order.
func (s *Service) ListUsers() []User { return s.store.ListUsers() }

// GetLanguage fetches a language by ID.
func (s *Service) GetLanguage(id string) (Language, bool) { return s.store.GetLanguage(id) }

// GetCountry fetches a country by ID.
func (s *Service) GetCountry(id string) (Country, bool) { return s.store.GetCountry(id) }

// GetState fetches a state by ID.
func (s *Service) GetState(id string) (State, bool) { return s.store.GetState(id) }

// GetDistrict fetches a district by ID.
func (s *Service) GetDistrict(id string) (District, bool) { return s.store.GetDistrict(id) }

// GetImage fetches image metadata by ID.
func (s *Service) GetImage(id string) (Image, bool) { return s.store.GetImage(id) }

// GetUser fetches an account by ID.
func (s *Service) GetUser(id string) (User, bool) { return s.store.GetUser(id) }
