// Package services contains the server-side business logic. This file
// implements UserService: registration with email confirmation, login,
// password reset, and profile management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/accountsvc/internal/common"
	"github.com/avolkov/accountsvc/internal/dbx"
	"github.com/avolkov/accountsvc/internal/server/auth"
	"github.com/avolkov/accountsvc/internal/server/config"
	"github.com/avolkov/accountsvc/internal/server/models"
	"github.com/avolkov/accountsvc/internal/server/otp"
	"github.com/avolkov/accountsvc/internal/server/otpstore"
	"github.com/avolkov/accountsvc/internal/server/repositories/repomanager"
)

// Success messages returned by the flows.
const (
	MsgRegistered     = "Registration successful. Please verify your email."
	MsgEmailVerified  = "Email verified successfully"
	MsgOTPResent      = "OTP resent successfully"
	MsgResetOTPSent   = "Reset password OTP sent successfully"
	MsgPasswordReset  = "Password reset successfully"
	MsgResetOTPResent = "Reset password OTP resent successfully"
)

// newOTPCode is a seam so tests can pin the generated code.
var newOTPCode = otp.NewCode

// Notifier delivers one-time codes out-of-band. A notifier failure fails the
// whole operation even though the account/code mutation already happened;
// the resend operations are the recovery path.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendResetCode(ctx context.Context, email, code string) error
}

// MediaStore persists avatar bytes and returns a stable URL reference.
type MediaStore interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Hasher is the one-way password hasher.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Profile is the public view of an account returned by login and profile
// update.
type Profile struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// AccountProfile additionally exposes the verification status; only
// GetProfile returns it.
type AccountProfile struct {
	Profile
	Verified bool `json:"isVerified"`
}

// LoginResult bundles the bearer token with the account's public fields.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
}

// UserService orchestrates the credential store, the ephemeral code store,
// the hasher, the token issuer and the notifier into the account flows.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	codes         otpstore.Store
	notifier      Notifier
	media         MediaStore
	hasher        Hasher
	jwtSecret     []byte
	tokenValidity time.Duration
	otpTTL        time.Duration
}

// NewUserService constructs a UserService from its collaborators and config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codes otpstore.Store,
	notifier Notifier, media MediaStore, hasher Hasher, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		codes:         codes,
		notifier:      notifier,
		media:         media,
		hasher:        hasher,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		otpTTL:        cfg.OTPTTL,
	}
}

// Register creates an unverified account and emails a confirmation code.
// The account row is created before the notification is sent; if the send
// fails the account still exists unverified and ResendOtp recovers.
func (s *UserService) Register(ctx context.Context, email, pass, name string) (string, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return "", common.ErrEmailExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	code, err := newOTPCode()
	if err != nil {
		return "", fmt.Errorf("error generating OTP: %w", err)
	}

	if err := s.codes.Set(ctx, otpstore.PurposeVerify, email, code, s.otpTTL); err != nil {
		return "", err
	}

	account := &models.Account{Email: email, Name: name, PasswordHash: hash}
	if _, err := repo.Create(ctx, account); err != nil {
		return "", err
	}

	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		return "", fmt.Errorf("error sending OTP: %w", err)
	}

	return MsgRegistered, nil
}

// VerifyOtp confirms the email address. The code is single-use: a successful
// validation deletes it so it cannot be replayed.
func (s *UserService) VerifyOtp(ctx context.Context, email, code string) (string, error) {
	stored, err := s.codes.Get(ctx, otpstore.PurposeVerify, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidOrExpiredOTP
		}
		return "", err
	}
	if stored != code {
		return "", common.ErrInvalidOrExpiredOTP
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.SetVerified(ctx, email); err != nil {
		return "", err
	}

	if err := s.codes.Del(ctx, otpstore.PurposeVerify, email); err != nil {
		return "", err
	}

	return MsgEmailVerified, nil
}

// Login checks the account, its verification status and the password, in
// that order, and all three failures surface as the same ErrUnauthorized so
// a caller cannot tell which check failed.
func (s *UserService) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !account.Verified {
		return nil, common.ErrUnauthorized
	}

	if !s.hasher.Verify(pass, account.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(account.ID, account.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &LoginResult{
		AccessToken: token,
		User:        publicProfile(account),
	}, nil
}

// ResendOtp issues a fresh verification code, invalidating the previous one.
func (s *UserService) ResendOtp(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account.Verified {
		return "", common.ErrAlreadyVerified
	}

	code, err := newOTPCode()
	if err != nil {
		return "", fmt.Errorf("error generating OTP: %w", err)
	}
	if err := s.codes.Set(ctx, otpstore.PurposeVerify, email, code, s.otpTTL); err != nil {
		return "", err
	}
	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		return "", fmt.Errorf("error sending OTP: %w", err)
	}

	return MsgOTPResent, nil
}

// ForgotPassword issues a reset code for any existing account, verified or
// not.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err != nil {
		return "", err
	}

	code, err := newOTPCode()
	if err != nil {
		return "", fmt.Errorf("error generating OTP: %w", err)
	}
	if err := s.codes.Set(ctx, otpstore.PurposeReset, email, code, s.otpTTL); err != nil {
		return "", err
	}
	if err := s.notifier.SendResetCode(ctx, email, code); err != nil {
		return "", fmt.Errorf("error sending OTP: %w", err)
	}

	return MsgResetOTPSent, nil
}

// ResetPassword replaces the password hash after validating the reset code.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPass string) (string, error) {
	stored, err := s.codes.Get(ctx, otpstore.PurposeReset, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidOrExpiredOTP
		}
		return "", err
	}
	if stored != code {
		return "", common.ErrInvalidOrExpiredOTP
	}

	hash, err := s.hasher.Hash(newPass)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePassword(ctx, email, hash); err != nil {
		return "", err
	}

	if err := s.codes.Del(ctx, otpstore.PurposeReset, email); err != nil {
		return "", err
	}

	return MsgPasswordReset, nil
}

// ResendResetPasswordOtp issues a fresh reset code. Unlike ResendOtp there
// is no verified-state check: reset codes apply to any existing account.
func (s *UserService) ResendResetPasswordOtp(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err != nil {
		return "", err
	}

	code, err := newOTPCode()
	if err != nil {
		return "", fmt.Errorf("error generating OTP: %w", err)
	}
	if err := s.codes.Set(ctx, otpstore.PurposeReset, email, code, s.otpTTL); err != nil {
		return "", err
	}
	if err := s.notifier.SendResetCode(ctx, email, code); err != nil {
		return "", fmt.Errorf("error sending OTP: %w", err)
	}

	return MsgResetOTPResent, nil
}

// GetProfile returns the account's public fields plus its verification flag.
func (s *UserService) GetProfile(ctx context.Context, accountID string) (*AccountProfile, error) {
	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountProfile{
		Profile:  publicProfile(account),
		Verified: account.Verified,
	}, nil
}

// UpdateProfile changes the display name and/or avatar. An empty name keeps
// the current one; a nil upload keeps the current avatar. The read-check-
// update runs in one transaction so concurrent updates cannot interleave.
func (s *UserService) UpdateProfile(ctx context.Context, accountID, name string, upload *Upload) (*Profile, error) {
	var avatarURL string
	if upload != nil {
		url, err := s.media.Store(ctx, upload.Data, upload.MimeType)
		if err != nil {
			return nil, err
		}
		avatarURL = url
	}

	var updated *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		account, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}

		if name == "" {
			name = account.Name
		}
		if avatarURL == "" {
			avatarURL = account.AvatarURL
		}

		updated, err = repo.UpdateProfile(ctx, accountID, name, avatarURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	profile := publicProfile(updated)
	return &profile, nil
}

// Upload is an avatar file already validated at the API boundary.
type Upload struct {
	Data     []byte
	MimeType string
}

func publicProfile(account *models.Account) Profile {
	return Profile{
		ID:     account.ID,
		Email:  account.Email,
		Name:   account.Name,
		Avatar: account.AvatarURL,
	}
}
