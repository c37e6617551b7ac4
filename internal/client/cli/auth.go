package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avolkov/accountsvc/internal/client/api"
	"github.com/avolkov/accountsvc/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, password and name and creates a new account.
// The server sends a verification code to the email; the user finishes with
// the verify command. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

// Verify prompts for the code mailed at registration and confirms the email.
func (a *App) Verify(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter the code from the email", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.VerifyOtp(ctx, email, otp)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

// Login prompts for credentials and authenticates. On success the bearer
// token is kept by the API client and the session email is remembered.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Login failed: wrong credentials or email not verified")
			return nil
		}
		return err
	}

	a.email = result.User.Email
	fmt.Printf("Logged in as %s\n", a.email)
	return nil
}

// ResendOtp requests a fresh verification code for an unverified account.
func (a *App) ResendOtp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.ResendOtp(ctx, email)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

// ForgotPassword starts the password reset flow by mailing a reset code.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

// ResetPassword finishes the reset flow with the mailed code and a new
// password. The new password is wiped before returning.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter the reset code from the email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.api.ResetPassword(ctx, email, otp, string(password))
	if err != nil {
		return err
	}

	fmt.Println(msg)
	return nil
}

// Logout forgets the session. The token is stateless, dropping the client
// reference is all there is to do.
func (a *App) Logout(ctx context.Context) error {
	a.email = ""
	a.api = api.New(a.config.ServerAddr, a.config.RequestTimeout)
	fmt.Println("Logged out")
	return nil
}
