// Package domain defines the persistent reference-data entities, value types,
// and rule evaluation primitives used by refcore.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityLanguage identifies a language record.
	EntityLanguage EntityType = "language"
	// EntityCountry identifies a country record.
	EntityCountry EntityType = "country"
	// EntityState identifies a state record.
	EntityState EntityType = "state"
	// EntityDistrict identifies a district record.
	EntityDistrict EntityType = "district"
	// EntityImage identifies an image metadata record.
	EntityImage EntityType = "image"
	// EntityUser identifies a user account record.
	EntityUser EntityType = "user"
	// EntitySession identifies the singleton current-user session record.
	EntitySession EntityType = "session"
)

// Bucket names map entity collections to their durable key-value keys. Each
// bucket value is a JSON-encoded array of records, except BucketCurrentUser
// which holds a single JSON-encoded User object.
const (
	BucketUsers       = "users"
	BucketLanguages   = "languages"
	BucketCountries   = "countries"
	BucketStates      = "states"
	BucketDistricts   = "districts"
	BucketImages      = "images"
	BucketCurrentUser = "current_user"
)

// CollectionBuckets lists the array-valued buckets in their canonical order.
func CollectionBuckets() []string {
	return []string{BucketUsers, BucketLanguages, BucketCountries, BucketStates, BucketDistricts, BucketImages}
}

// Role classifies a user account for screen gating.
type Role string

// Canonical account roles.
const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the canonical values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Language is a reference language record.
type Language struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Country is a reference country record.
type Country struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// State is a reference state record. CountryID is a soft reference: deleting
// the country does not cascade, and dangling references are flagged by the
// reference-integrity rule rather than dropped.
type State struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CountryID *string   `json:"countryId"`
	CreatedAt time.Time `json:"createdAt"`
}

// District is a reference district record. StateName is free text, not a key
// into the states bucket.
type District struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StateName string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// Image is the metadata record for an uploaded image. The binary payload is
// stored in the blob store under the image ID, not in the bucket.
type Image struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SizeKB      float64   `json:"size"`
	ContentType string    `json:"type"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// User is an account record. Email is unique within the bucket, enforced at
// write time by the unique-email rule.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}

// NotFoundError is returned by update and delete operations targeting an ID
// that is not present in its bucket.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ValidationError reports a rejected write with user-facing field context.
// Validation failures leave the store unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
