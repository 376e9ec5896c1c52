package core

import (
	"context"
	"fmt"

	"refcore/pkg/domain"
)

// NewValidRoleRule returns the in-transaction rule blocking user records with
// a role outside the canonical set.
func NewValidRoleRule() domain.Rule {
	return validRoleRule{}
}

type validRoleRule struct{}

func (validRoleRule) Name() string { return "valid_role" }

func (validRoleRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, user := range view.ListUsers() {
		if user.Role.Valid() {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "valid_role",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("user %s has unknown role %q", user.ID, user.Role),
			Entity:   domain.EntityUser,
			EntityID: user.ID,
		})
	}
	return res, nil
}
