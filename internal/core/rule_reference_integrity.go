package core

import (
	"context"
	"fmt"

	"refcore/pkg/domain"
)

// NewReferenceIntegrityRule returns the rule that flags dangling soft
// references. State to country links and district state names are warnings
// only: deletes never cascade and stale references stay readable, so the rule
// surfaces them without blocking the commit.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, state := range view.ListStates() {
		if state.CountryID == nil || *state.CountryID == "" {
			continue
		}
		if _, ok := view.FindCountry(*state.CountryID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "reference_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("state %s references missing country %s", state.ID, *state.CountryID),
				Entity:   domain.EntityState,
				EntityID: state.ID,
			})
		}
	}
	names := make(map[string]struct{})
	for _, state := range view.ListStates() {
		names[state.Name] = struct{}{}
	}
	for _, district := range view.ListDistricts() {
		if district.StateName == "" {
			continue
		}
		if _, ok := names[district.StateName]; !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "reference_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("district %s references unknown state %q", district.ID, district.StateName),
				Entity:   domain.EntityDistrict,
				EntityID: district.ID,
			})
		}
	}
	return res, nil
}
