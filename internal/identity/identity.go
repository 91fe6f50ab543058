package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/Skotchmaster/shoplist/internal/repo"
	"gorm.io/gorm"
)

// Claims are the verified OIDC claims the HTTP surface already resolved.
// Tokens never reach this layer.
type Claims struct {
	Email   string
	Name    string
	Picture string
}

type Service struct {
	Repo        *repo.GormRepo
	adminEmails map[string]struct{}
}

func NewService(r *repo.GormRepo, adminEmails []string) *Service {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		allow[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Service{Repo: r, adminEmails: allow}
}

// RoleFor is a pure function of (email, allow-list): same inputs, same role,
// on every login.
func (s *Service) RoleFor(email string) models.Role {
	if _, ok := s.adminEmails[strings.ToLower(email)]; ok {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// Reconcile creates the account on first login and re-derives the role on
// every later one, so admin access is granted and revoked by editing
// configuration, not by re-registering.
func (s *Service) Reconcile(ctx context.Context, claims Claims) (*models.Account, error) {
	if claims.Email == "" {
		return nil, errors.New("claims without email")
	}

	role := s.RoleFor(claims.Email)

	acc, err := s.Repo.GetAccountByEmail(ctx, claims.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acc = &models.Account{
			Email:      claims.Email,
			Name:       claims.Name,
			PictureURL: claims.Picture,
			Role:       role,
		}
		if err := s.Repo.CreateAccount(ctx, acc); err != nil {
			return nil, err
		}
		return acc, nil
	}
	if err != nil {
		return nil, err
	}

	acc.Name = claims.Name
	acc.PictureURL = claims.Picture
	acc.Role = role
	if err := s.Repo.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}
