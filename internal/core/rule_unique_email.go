package core

import (
	"context"
	"fmt"
	"strings"

	"refcore/pkg/domain"
)

// NewUniqueEmailRule returns the in-transaction rule blocking duplicate user
// emails. Comparison is case-insensitive.
func NewUniqueEmailRule() domain.Rule {
	return uniqueEmailRule{}
}

type uniqueEmailRule struct{}

func (uniqueEmailRule) Name() string { return "unique_email" }

func (uniqueEmailRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	seen := make(map[string]string)
	res := domain.Result{}
	for _, user := range view.ListUsers() {
		key := strings.ToLower(strings.TrimSpace(user.Email))
		if key == "" {
			continue
		}
		if firstID, dup := seen[key]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "unique_email",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("email %s already registered to user %s", user.Email, firstID),
				Entity:   domain.EntityUser,
				EntityID: user.ID,
			})
			continue
		}
		seen[key] = user.ID
	}
	return res, nil
}
