package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateLanguage(Language) (Language, error)
	UpdateLanguage(id string, mutator func(*Language) error) (Language, error)
	DeleteLanguage(id string) error
	CreateCountry(Country) (Country, error)
	UpdateCountry(id string, mutator func(*Country) error) (Country, error)
	DeleteCountry(id string) error
	CreateState(State) (State, error)
	UpdateState(id string, mutator func(*State) error) (State, error)
	DeleteState(id string) error
	CreateDistrict(District) (District, error)
	UpdateDistrict(id string, mutator func(*District) error) (District, error)
	DeleteDistrict(id string) error
	CreateImage(Image) (Image, error)
	DeleteImage(id string) error
	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	DeleteUser(id string) error
	SetCurrentUser(User) error
	ClearCurrentUser() error
	// ClearBucket removes every record from the named bucket. For
	// BucketCurrentUser it clears the session.
	ClearBucket(name string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// higher-layer queries. Listing order is the bucket insertion order.
type TransactionView interface {
	ListLanguages() []Language
	ListCountries() []Country
	ListStates() []State
	ListDistricts() []District
	ListImages() []Image
	ListUsers() []User
	FindLanguage(id string) (Language, bool)
	FindCountry(id string) (Country, bool)
	FindState(id string) (State, bool)
	FindDistrict(id string) (District, bool)
	FindImage(id string) (Image, bool)
	FindUser(id string) (User, bool)
	FindUserByEmail(email string) (User, bool)
	CurrentUser() (User, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ListLanguages() []Language
	ListCountries() []Country
	ListStates() []State
	ListDistricts() []District
	ListImages() []Image
	ListUsers() []User
	GetLanguage(id string) (Language, bool)
	GetCountry(id string) (Country, bool)
	GetState(id string) (State, bool)
	GetDistrict(id string) (District, bool)
	GetImage(id string) (Image, bool)
	GetUser(id string) (User, bool)
	CurrentUser() (User, bool)
	// ExportBuckets serializes every present bucket to its durable text form:
	// a JSON array per collection bucket, a JSON object for the current-user
	// bucket (omitted while logged out). The byte lengths of these values are
	// the quota measurement convention.
	ExportBuckets() (map[string][]byte, error)
}
