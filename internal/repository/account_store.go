package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"residence-be-svc/internal/models"
)

// AccountStore resolves an account by role and id
type AccountStore interface {
	FindAccount(ctx context.Context, role models.Role, id string) (models.Account, error)
}

// accountStore implements AccountStore over the per-role repositories
type accountStore struct {
	admins    AdminRepository
	residents ResidentRepository
	providers ServiceProviderRepository
}

// NewAccountStore creates a new instance of AccountStore
func NewAccountStore(admins AdminRepository, residents ResidentRepository, providers ServiceProviderRepository) AccountStore {
	return &accountStore{
		admins:    admins,
		residents: residents,
		providers: providers,
	}
}

// FindAccount looks the id up in the collection of role. Every Role constant must
// have a case here; an unknown role is an error, never a silent fallback.
func (s *accountStore) FindAccount(ctx context.Context, role models.Role, id string) (models.Account, error) {
	// ids minted before the uuid schema cannot match any row, and postgres
	// rejects them outright on a uuid column
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRecordNotFound
	}

	switch role {
	case models.RoleAdmin:
		admin, err := s.admins.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return admin, nil
	case models.RoleResident:
		resident, err := s.residents.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return resident, nil
	case models.RoleServiceProvider:
		provider, err := s.providers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown account role %q", role)
	}
}
