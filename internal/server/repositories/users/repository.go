// Package users contains the credential store: persistence of account rows
// keyed by email and id.
package users

import (
	"context"

	"github.com/avolkov/accountsvc/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	SetVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, name string, avatarURL string) (*models.Account, error)
}
