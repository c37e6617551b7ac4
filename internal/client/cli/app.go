// Package cli is the interactive terminal client for the account service.
// It drives registration, email verification, login, password reset and
// profile management against the REST API.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/avolkov/accountsvc/internal/client/api"
	"github.com/avolkov/accountsvc/internal/client/config"
)

// accountAPI is the REST surface the CLI calls into.
type accountAPI interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	VerifyOtp(ctx context.Context, email, otp string) (string, error)
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	ResendOtp(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error)
	ResendResetPasswordOtp(ctx context.Context, email string) (string, error)
	Profile(ctx context.Context) (*api.AccountProfile, error)
	UpdateProfile(ctx context.Context, name, avatarPath string) (*api.Profile, error)
}

type App struct {
	config *config.Config
	api    accountAPI
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	client := api.New(c.ServerAddr, c.RequestTimeout)
	return &App{config: c, api: client, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
