// Package query implements the in-memory read side over repository
// snapshots: cross-entity aggregation, filtering and pagination.
package query

import (
	"time"

	"refcore/pkg/domain"
)

// Category tags an aggregated record with its source repository.
type Category string

// Aggregation categories. CategoryAll is the filter sentinel matching every
// category; it is never attached to a record.
const (
	CategoryAll      Category = "all"
	CategoryLanguage Category = "Language"
	CategoryCountry  Category = "Country"
	CategoryState    Category = "State"
	CategoryDistrict Category = "District"
)

// Tagged is a record projected into the unified aggregate sequence. The
// category is attached during aggregation and never persisted.
type Tagged struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Source is the read surface the aggregator needs from a store.
type Source interface {
	ListLanguages() []domain.Language
	ListCountries() []domain.Country
	ListStates() []domain.State
	ListDistricts() []domain.District
}

// Aggregate combines the four reference repositories into one sequence,
// tagging each record with its source category. Order is concatenation in the
// fixed source order Language, Country, State, District with no resort.
func Aggregate(src Source) []Tagged {
	var out []Tagged
	for _, l := range src.ListLanguages() {
		out = append(out, Tagged{ID: l.ID, Name: l.Name, Category: CategoryLanguage, CreatedAt: l.CreatedAt})
	}
	for _, c := range src.ListCountries() {
		out = append(out, Tagged{ID: c.ID, Name: c.Name, Category: CategoryCountry, CreatedAt: c.CreatedAt})
	}
	for _, st := range src.ListStates() {
		out = append(out, Tagged{ID: st.ID, Name: st.Name, Category: CategoryState, CreatedAt: st.CreatedAt})
	}
	for _, d := range src.ListDistricts() {
		out = append(out, Tagged{ID: d.ID, Name: d.Name, Category: CategoryDistrict, CreatedAt: d.CreatedAt})
	}
	return out
}
