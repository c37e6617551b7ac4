package cli

import (
	"context"
	"fmt"
	"os"
)

// ShowProfile fetches and prints the current account profile.
func (a *App) ShowProfile(ctx context.Context) error {
	profile, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("ID:       %s\n", profile.ID)
	fmt.Printf("Email:    %s\n", profile.Email)
	fmt.Printf("Name:     %s\n", profile.Name)
	fmt.Printf("Verified: %v\n", profile.Verified)
	if profile.Avatar != "" {
		fmt.Printf("Avatar:   %s\n", profile.Avatar)
	}
	return nil
}

// UpdateProfile prompts for a new name and an optional avatar file path and
// submits the change. Empty answers leave the corresponding field unchanged.
func (a *App) UpdateProfile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new name (empty to keep current)", os.Stdout)
	if err != nil {
		return err
	}

	avatarPath, err := getSimpleText(a.reader, "Enter avatar file path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}

	profile, err := a.api.UpdateProfile(ctx, name, avatarPath)
	if err != nil {
		return err
	}

	fmt.Printf("Updated: %s", profile.Name)
	if profile.Avatar != "" {
		fmt.Printf(" (avatar %s)", profile.Avatar)
	}
	fmt.Println()
	return nil
}
