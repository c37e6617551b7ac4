package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to the account CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("acc %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: profile, update, logout, exit")
			} else {
				fmt.Println("Available commands: register, verify, login, resend-otp, forgot-password, reset-password, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "verify":
			err = a.Verify(ctx)
		case "login":
			err = a.Login(ctx)
		case "resend-otp":
			err = a.ResendOtp(ctx)
		case "forgot-password":
			err = a.ForgotPassword(ctx)
		case "reset-password":
			err = a.ResetPassword(ctx)
		case "profile":
			err = a.ShowProfile(ctx)
		case "update":
			err = a.UpdateProfile(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			fmt.Println("Error:", err)
		}
	}

}
