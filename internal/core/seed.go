package core

import (
	"context"

	"refcore/pkg/domain"
)

// defaultUsers are the demo accounts seeded on first run. Seeding keys on
// email, so repeated runs are idempotent even if the IDs were changed.
var defaultUsers = []User{
	{ID: "admin-demo-1", Name: "Admin User", Email: "admin@demo.com", Password: "admin123", Role: RoleAdmin},
	{ID: "manager-demo-1", Name: "Manager User", Email: "manager@demo.com", Password: "manager123", Role: RoleManager},
	{ID: "user-demo-1", Name: "Regular User", Email: "user@demo.com", Password: "user123", Role: RoleUser},
}

// SeedDefaults inserts the demo accounts that are missing from the users
// bucket. Accounts whose email is already registered are left untouched.
func (s *Service) SeedDefaults(ctx context.Context) (Result, error) {
	res, err := s.run(ctx, "seed_defaults", func(tx Transaction) error {
		for _, user := range defaultUsers {
			if _, exists := tx.Snapshot().FindUserByEmail(user.Email); exists {
				continue
			}
			if _, err := tx.CreateUser(user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	s.logger.Info("default accounts ensured", "accounts", len(defaultUsers))
	return res, nil
}

// DefaultAccounts returns copies of the demo account records for tooling.
func DefaultAccounts() []domain.User {
	out := make([]domain.User, len(defaultUsers))
	copy(out, defaultUsers)
	return out
}
